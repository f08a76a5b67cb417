package turnos

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"turnate/internal/backend"
	"turnate/internal/calendar"
	"turnate/internal/models"
	"turnate/pkg/response"
)

type Backend interface {
	MisServicios(ctx context.Context) ([]models.Servicio, error)
	MisTurnos(ctx context.Context) ([]models.Turno, error)
	CreateTurno(ctx context.Context, req backend.CreateTurnoRequest, idempotencyKey string) (models.Turno, error)
	UpdateTurno(ctx context.Context, id int64, patch models.TurnoPatch) (models.Turno, error)
	DeleteTurno(ctx context.Context, id int64) error
}

// JoinOutcome reports how a refresh join went. Unmatched turnos stay in the
// cache with a zero servicio; callers can surface the ids instead of the
// mismatch disappearing into a log line.
type JoinOutcome struct {
	Matched   int     `json:"matched"`
	Unmatched []int64 `json:"unmatched,omitempty"`
}

// Repository is the single source of truth for the session's servicios and
// turnos. Every operation awaits the backend before touching the cache, so a
// failed call leaves local state exactly as it was. There is no ordering
// guarantee between a Refresh and an in-flight Create or Update beyond the
// mutex; last write to the cache wins.
type Repository struct {
	backend Backend
	session models.Session
	log     *slog.Logger

	mu                sync.RWMutex
	servicios         []models.Servicio
	turnos            []models.Turno
	defaultServicioID int64
}

func NewRepository(b Backend, session models.Session, log *slog.Logger) *Repository {
	return &Repository{
		backend: b,
		session: session,
		log:     log,
	}
}

// Refresh replaces both cached collections with the backend's current state,
// joining each turno to its servicio by id. Joins are best effort: a turno
// whose servicio_id matches nothing keeps a zero servicio and is reported in
// the outcome, never dropped.
func (r *Repository) Refresh(ctx context.Context) (JoinOutcome, error) {
	const op = "turnos.Repository.Refresh"

	servicios, err := r.backend.MisServicios(ctx)
	if err != nil {
		return JoinOutcome{}, fmt.Errorf("%s: %w", op, err)
	}

	turnos, err := r.backend.MisTurnos(ctx)
	if err != nil {
		return JoinOutcome{}, fmt.Errorf("%s: %w", op, err)
	}

	byID := make(map[int64]models.Servicio, len(servicios))
	for _, s := range servicios {
		byID[s.ID] = s
	}

	var outcome JoinOutcome
	for i, t := range turnos {
		s, ok := byID[t.ServicioID]
		if !ok {
			r.log.Warn("turno references unknown servicio",
				slog.Int64("turno_id", t.ID),
				slog.Int64("servicio_id", t.ServicioID),
			)
			outcome.Unmatched = append(outcome.Unmatched, t.ID)
			continue
		}
		turnos[i].Servicio = s
		outcome.Matched++
	}

	r.mu.Lock()
	r.servicios = servicios
	r.turnos = turnos
	if r.defaultServicioID == 0 && len(servicios) > 0 {
		r.defaultServicioID = servicios[0].ID
	}
	r.mu.Unlock()

	return outcome, nil
}

// Create books a new turno for the given servicio. The servicio must already
// be in the cache; an unknown id fails before any backend call is issued.
// The cache is appended to only after the backend confirms, no optimistic
// insert.
func (r *Repository) Create(ctx context.Context, servicioID int64, start time.Time) (models.Turno, error) {
	const op = "turnos.Repository.Create"

	servicio, ok := r.servicioByID(servicioID)
	if !ok {
		return models.Turno{}, fmt.Errorf("%s: servicio %d: %w", op, servicioID, response.ErrNotFound)
	}

	duracion := servicio.Duracion
	if duracion <= 0 {
		duracion = 30
	}

	req := backend.CreateTurnoRequest{
		ServicioID:      servicio.ID,
		FechaHoraInicio: start.UTC().Format(time.RFC3339),
		DuracionMinutos: duracion,
		Capacidad:       1,
		Precio:          servicio.Precio,
	}

	created, err := r.backend.CreateTurno(ctx, req, uuid.NewString())
	if err != nil {
		return models.Turno{}, fmt.Errorf("%s: %w", op, err)
	}

	created.Servicio = servicio

	r.mu.Lock()
	r.turnos = append(r.turnos, created)
	r.mu.Unlock()

	return created, nil
}

// Update sends the patch and merges the result into the cached record. The
// patch's present fields are applied first, so a cleared cliente really
// clears; the response then overlays whatever else the backend changed. The
// backend call is issued even when the id is not cached; in that case the
// cache is deliberately left alone and no error is returned.
func (r *Repository) Update(ctx context.Context, id int64, patch models.TurnoPatch) (models.Turno, error) {
	const op = "turnos.Repository.Update"

	updated, err := r.backend.UpdateTurno(ctx, id, patch)
	if err != nil {
		return models.Turno{}, fmt.Errorf("%s: %w", op, err)
	}

	r.mu.Lock()
	for i, t := range r.turnos {
		if t.ID == id {
			r.turnos[i] = mergeTurno(applyPatch(t, patch), updated)
			updated = r.turnos[i]
			break
		}
	}
	r.mu.Unlock()

	return updated, nil
}

// Delete removes the turno at the backend, then from the cache. A failed
// backend call propagates and never reaches the removal.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	const op = "turnos.Repository.Delete"

	if err := r.backend.DeleteTurno(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	r.mu.Lock()
	kept := r.turnos[:0]
	for _, t := range r.turnos {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	r.turnos = kept
	r.mu.Unlock()

	return nil
}

func (r *Repository) Servicios() []models.Servicio {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Servicio, len(r.servicios))
	copy(out, r.servicios)

	return out
}

func (r *Repository) Turnos() []models.Turno {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Turno, len(r.turnos))
	copy(out, r.turnos)

	return out
}

func (r *Repository) DefaultServicioID() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.defaultServicioID
}

// TurnosHoy lists the cached turnos that land on the same local date as now.
func (r *Repository) TurnosHoy(now time.Time) []models.Turno {
	today := now.Format("2006-01-02")

	var out []models.Turno
	for _, t := range r.Turnos() {
		event := calendar.NormalizeWithFallback(t, now)
		if event.Start.Format("2006-01-02") == today {
			out = append(out, t)
		}
	}

	return out
}

func (r *Repository) servicioByID(id int64) (models.Servicio, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.servicios {
		if s.ID == id {
			return s, true
		}
	}

	return models.Servicio{}, false
}

// applyPatch writes the patch's present fields onto the cached record.
// Pointer presence, not value, decides: an explicit empty cliente clears the
// reservation instead of being mistaken for "unchanged".
func applyPatch(cached models.Turno, patch models.TurnoPatch) models.Turno {
	out := cached

	if patch.Cliente != nil {
		out.Cliente = *patch.Cliente
	}
	if patch.FechaHoraInicio != nil {
		out.FechaHoraInicio = patch.FechaHoraInicio
	}
	if patch.DuracionMinutos != nil {
		out.DuracionMinutos = *patch.DuracionMinutos
	}
	if patch.Estado != nil {
		out.Estado = *patch.Estado
	}

	return out
}

// mergeTurno lays the backend's returned fields over the cached record,
// keeping cached values where the response left a field zero. The joined
// servicio in particular survives updates that return the bare turno.
func mergeTurno(cached, ret models.Turno) models.Turno {
	out := cached

	if ret.ServicioID != 0 {
		out.ServicioID = ret.ServicioID
	}
	if ret.FechaHoraInicio != nil {
		out.FechaHoraInicio = ret.FechaHoraInicio
	}
	if ret.DuracionMinutos != 0 {
		out.DuracionMinutos = ret.DuracionMinutos
	}
	if ret.Capacidad != 0 {
		out.Capacidad = ret.Capacidad
	}
	if ret.Precio != 0 {
		out.Precio = ret.Precio
	}
	if ret.Cliente != "" {
		out.Cliente = ret.Cliente
	}
	if ret.Estado != "" {
		out.Estado = ret.Estado
	}
	if !ret.Servicio.IsZero() {
		out.Servicio = ret.Servicio
	}

	return out
}
