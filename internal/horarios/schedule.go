package horarios

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"turnate/internal/cache"
	"turnate/internal/models"
)

// Week maps each weekday to its open blocks. A missing or empty day means
// the business is closed that day. Blocks are stored as submitted: not
// sorted, overlaps allowed, no validation (the editing UI owns that).
type WeekSchedule map[Weekday][]models.TimeBlock

type Backend interface {
	GetHorarios(ctx context.Context, emprendimientoID int64) ([]models.Horario, error)
	ReplaceHorarios(ctx context.Context, emprendedorID int64, rows []models.Horario) error
}

// Store holds the provider's weekly working hours. Reads go through an
// optional shared cache before hitting the backend; the local copy is
// swapped wholesale on every successful load or replace.
type Store struct {
	backend Backend
	cache   cache.Cache
	session models.Session
	ttl     time.Duration

	mu   sync.RWMutex
	week WeekSchedule
}

func NewStore(backend Backend, c cache.Cache, session models.Session, ttl time.Duration) *Store {
	return &Store{
		backend: backend,
		cache:   c,
		session: session,
		ttl:     ttl,
		week:    WeekSchedule{},
	}
}

// Blocks returns a copy of the day's open blocks. Days the schedule never
// mentions come back empty, which the validator reads as closed.
func (s *Store) Blocks(day Weekday) []models.TimeBlock {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blocks := s.week[day]
	out := make([]models.TimeBlock, len(blocks))
	copy(out, blocks)

	return out
}

func (s *Store) Week() WeekSchedule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(WeekSchedule, len(s.week))
	for day, blocks := range s.week {
		cp := make([]models.TimeBlock, len(blocks))
		copy(cp, blocks)
		out[day] = cp
	}

	return out
}

// Load fetches the weekly schedule, preferring the shared cache. Cache
// failures are not fatal: the backend is always the fallback.
func (s *Store) Load(ctx context.Context) error {
	const op = "horarios.Store.Load"

	key := s.cacheKey()

	if raw, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var rows []models.Horario
		if err := json.Unmarshal(raw, &rows); err == nil {
			s.swap(GroupRows(rows))
			return nil
		}
	}

	rows, err := s.backend.GetHorarios(ctx, s.session.EmprendimientoID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if raw, err := json.Marshal(rows); err == nil {
		_ = s.cache.Set(ctx, key, raw, s.ttl)
	}

	s.swap(GroupRows(rows))

	return nil
}

// Replace substitutes the whole week at the backend, then locally. This is
// replace, not merge: the full weekly map must always be submitted, and days
// left out of it end up closed.
func (s *Store) Replace(ctx context.Context, week WeekSchedule) error {
	const op = "horarios.Store.Replace"

	rows := FlattenWeek(week)

	if err := s.backend.ReplaceHorarios(ctx, s.session.EmprendimientoID, rows); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey())
	s.swap(week)

	return nil
}

func (s *Store) swap(week WeekSchedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.week = week
}

func (s *Store) cacheKey() string {
	return fmt.Sprintf("horarios:%d", s.session.EmprendimientoID)
}

// GroupRows folds backend rows into a week map. Rows with an unknown
// dia_semana are skipped rather than failing the whole load.
func GroupRows(rows []models.Horario) WeekSchedule {
	week := WeekSchedule{}
	for _, row := range rows {
		day, err := ParseDiaSemana(row.DiaSemana)
		if err != nil {
			continue
		}
		week[day] = append(week[day], models.TimeBlock{From: row.HoraInicio, To: row.HoraFin})
	}

	return week
}

// FlattenWeek produces the replace payload, Monday first so the request body
// is stable for the same schedule.
func FlattenWeek(week WeekSchedule) []models.Horario {
	rows := make([]models.Horario, 0, len(week))
	for _, day := range Week {
		for _, block := range week[day] {
			if block.From == "" || block.To == "" {
				continue
			}
			rows = append(rows, models.Horario{
				DiaSemana:  day.DiaSemana(),
				HoraInicio: block.From,
				HoraFin:    block.To,
			})
		}
	}

	return rows
}
