package turnos

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"turnate/internal/backend"
	"turnate/internal/calendar"
	"turnate/internal/models"
	"turnate/pkg/response"
)

type fakeBackend struct {
	servicios []models.Servicio
	turnos    []models.Turno

	createCalls int
	createReq   backend.CreateTurnoRequest
	createResp  models.Turno
	createErr   error

	updateCalls int
	updateResp  models.Turno
	updateErr   error

	deleteCalls int
	deleteErr   error
}

func (f *fakeBackend) MisServicios(ctx context.Context) ([]models.Servicio, error) {
	return f.servicios, nil
}

func (f *fakeBackend) MisTurnos(ctx context.Context) ([]models.Turno, error) {
	return f.turnos, nil
}

func (f *fakeBackend) CreateTurno(ctx context.Context, req backend.CreateTurnoRequest, idempotencyKey string) (models.Turno, error) {
	f.createCalls++
	f.createReq = req
	return f.createResp, f.createErr
}

func (f *fakeBackend) UpdateTurno(ctx context.Context, id int64, patch models.TurnoPatch) (models.Turno, error) {
	f.updateCalls++
	return f.updateResp, f.updateErr
}

func (f *fakeBackend) DeleteTurno(ctx context.Context, id int64) error {
	f.deleteCalls++
	return f.deleteErr
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptrTime(t time.Time) *time.Time { return &t }

func TestRefreshJoinsTurnosToServicios(t *testing.T) {
	start := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	fb := &fakeBackend{
		servicios: []models.Servicio{
			{ID: 1, Nombre: "Corte", Duracion: 30},
			{ID: 2, Nombre: "Color", Duracion: 90},
		},
		turnos: []models.Turno{
			{ID: 10, ServicioID: 2, FechaHoraInicio: ptrTime(start)},
		},
	}
	repo := NewRepository(fb, models.Session{UserID: 1}, testLogger())

	outcome, err := repo.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if outcome.Matched != 1 || len(outcome.Unmatched) != 0 {
		t.Fatalf("unexpected outcome %+v", outcome)
	}

	cached := repo.Turnos()
	if len(cached) != 1 {
		t.Fatalf("expected 1 cached turno, got %d", len(cached))
	}
	if cached[0].Servicio.Nombre != "Color" {
		t.Fatalf("join failed: %+v", cached[0].Servicio)
	}

	event, err := calendar.Normalize(cached[0])
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got := event.End.Sub(event.Start); got != 90*time.Minute {
		t.Fatalf("end - start = %v, want 90m", got)
	}

	if repo.DefaultServicioID() != 1 {
		t.Fatalf("expected first servicio selected as default, got %d", repo.DefaultServicioID())
	}
}

func TestRefreshKeepsUnmatchedTurnos(t *testing.T) {
	fb := &fakeBackend{
		servicios: []models.Servicio{{ID: 1, Nombre: "Corte", Duracion: 30}},
		turnos: []models.Turno{
			{ID: 10, ServicioID: 1},
			{ID: 11, ServicioID: 999},
		},
	}
	repo := NewRepository(fb, models.Session{}, testLogger())

	outcome, err := repo.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if outcome.Matched != 1 {
		t.Fatalf("expected 1 matched, got %d", outcome.Matched)
	}
	if len(outcome.Unmatched) != 1 || outcome.Unmatched[0] != 11 {
		t.Fatalf("expected turno 11 unmatched, got %v", outcome.Unmatched)
	}

	cached := repo.Turnos()
	if len(cached) != 2 {
		t.Fatalf("unmatched turnos must be kept, got %d", len(cached))
	}
	for _, turno := range cached {
		if turno.ID == 11 && !turno.Servicio.IsZero() {
			t.Fatalf("unmatched turno should carry a zero servicio: %+v", turno.Servicio)
		}
	}
}

func TestCreateUnknownServicioFailsBeforeBackend(t *testing.T) {
	fb := &fakeBackend{
		servicios: []models.Servicio{{ID: 1, Nombre: "Corte", Duracion: 30}},
	}
	repo := NewRepository(fb, models.Session{}, testLogger())
	if _, err := repo.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	_, err := repo.Create(context.Background(), 999, time.Now())
	if !errors.Is(err, response.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if fb.createCalls != 0 {
		t.Fatalf("no backend call may be issued for an unknown servicio")
	}
	if len(repo.Turnos()) != 0 {
		t.Fatalf("cache must stay unchanged")
	}
}

func TestCreateSendsServicioDurationAndPrice(t *testing.T) {
	start := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	fb := &fakeBackend{
		servicios:  []models.Servicio{{ID: 2, Nombre: "Color", Duracion: 90, Precio: 1500}},
		createResp: models.Turno{ID: 20, ServicioID: 2, FechaHoraInicio: ptrTime(start)},
	}
	repo := NewRepository(fb, models.Session{}, testLogger())
	if _, err := repo.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	created, err := repo.Create(context.Background(), 2, start)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if fb.createReq.DuracionMinutos != 90 || fb.createReq.Precio != 1500 {
		t.Fatalf("request must carry servicio duration and price: %+v", fb.createReq)
	}
	if fb.createReq.FechaHoraInicio != "2025-01-10T10:00:00Z" {
		t.Fatalf("unexpected wire timestamp %q", fb.createReq.FechaHoraInicio)
	}
	if fb.createReq.Capacidad != 1 {
		t.Fatalf("expected capacidad 1, got %d", fb.createReq.Capacidad)
	}

	if created.Servicio.Nombre != "Color" {
		t.Fatalf("created turno must be joined with its servicio")
	}
	if len(repo.Turnos()) != 1 {
		t.Fatalf("created turno must be appended to the cache")
	}
}

func TestCreateBackendFailureLeavesCache(t *testing.T) {
	fb := &fakeBackend{
		servicios: []models.Servicio{{ID: 1, Nombre: "Corte", Duracion: 30}},
		createErr: response.ErrBackend,
	}
	repo := NewRepository(fb, models.Session{}, testLogger())
	if _, err := repo.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	_, err := repo.Create(context.Background(), 1, time.Now())
	if !errors.Is(err, response.ErrBackend) {
		t.Fatalf("expected ErrBackend, got %v", err)
	}
	if len(repo.Turnos()) != 0 {
		t.Fatalf("no optimistic insert on failure")
	}
}

func TestUpdateMergesIntoCachedRecord(t *testing.T) {
	start := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	fb := &fakeBackend{
		servicios:  []models.Servicio{{ID: 1, Nombre: "Corte", Duracion: 30}},
		turnos:     []models.Turno{{ID: 5, ServicioID: 1, FechaHoraInicio: ptrTime(start)}},
		updateResp: models.Turno{ID: 5, Cliente: "Ana"},
	}
	repo := NewRepository(fb, models.Session{}, testLogger())
	if _, err := repo.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	cliente := "Ana"
	updated, err := repo.Update(context.Background(), 5, models.TurnoPatch{Cliente: &cliente})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.Cliente != "Ana" {
		t.Fatalf("merge lost the returned cliente")
	}
	if updated.Servicio.Nombre != "Corte" {
		t.Fatalf("merge must keep the joined servicio")
	}
	if updated.FechaHoraInicio == nil || !updated.FechaHoraInicio.Equal(start) {
		t.Fatalf("merge must keep the cached start when the response omits it")
	}

	cached := repo.Turnos()
	if cached[0].Cliente != "Ana" {
		t.Fatalf("cache not updated")
	}
}

func TestUpdateClearingClienteUnreservesTurno(t *testing.T) {
	start := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	fb := &fakeBackend{
		servicios: []models.Servicio{{ID: 1, Nombre: "Corte", Duracion: 30}},
		turnos: []models.Turno{
			{ID: 5, ServicioID: 1, FechaHoraInicio: ptrTime(start), Cliente: "Ana", Estado: models.EstadoReservado},
		},
		updateResp: models.Turno{ID: 5, Cliente: ""},
	}
	repo := NewRepository(fb, models.Session{}, testLogger())
	if _, err := repo.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	cliente := ""
	estado := models.EstadoDisponible
	updated, err := repo.Update(context.Background(), 5, models.TurnoPatch{Cliente: &cliente, Estado: &estado})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.Cliente != "" {
		t.Fatalf("cleared cliente must not survive the merge, got %q", updated.Cliente)
	}
	if updated.Reservado() {
		t.Fatalf("turno must be unreserved after clearing cliente")
	}
	if updated.Servicio.Nombre != "Corte" {
		t.Fatalf("merge must keep the joined servicio")
	}

	cached := repo.Turnos()
	if cached[0].Cliente != "" || cached[0].Reservado() {
		t.Fatalf("cache still reserved after clearing cliente: %+v", cached[0])
	}
}

func TestUpdateUnknownIDIsCacheNoOp(t *testing.T) {
	fb := &fakeBackend{
		servicios:  []models.Servicio{{ID: 1, Nombre: "Corte", Duracion: 30}},
		turnos:     []models.Turno{{ID: 1, ServicioID: 1}},
		updateResp: models.Turno{ID: 5, Cliente: "Ana"},
	}
	repo := NewRepository(fb, models.Session{}, testLogger())
	if _, err := repo.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	cliente := "Ana"
	_, err := repo.Update(context.Background(), 5, models.TurnoPatch{Cliente: &cliente})
	if err != nil {
		t.Fatalf("unknown id is a documented no-op, got %v", err)
	}

	if fb.updateCalls != 1 {
		t.Fatalf("backend call must still be issued")
	}
	cached := repo.Turnos()
	if len(cached) != 1 || cached[0].Cliente != "" {
		t.Fatalf("cache must stay unchanged: %+v", cached)
	}
}

func TestDeleteRemovesFromCache(t *testing.T) {
	fb := &fakeBackend{
		servicios: []models.Servicio{{ID: 1, Nombre: "Corte", Duracion: 30}},
		turnos:    []models.Turno{{ID: 5, ServicioID: 1}, {ID: 6, ServicioID: 1}},
	}
	repo := NewRepository(fb, models.Session{}, testLogger())
	if _, err := repo.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if err := repo.Delete(context.Background(), 5); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	cached := repo.Turnos()
	if len(cached) != 1 || cached[0].ID != 6 {
		t.Fatalf("expected only turno 6 to remain, got %+v", cached)
	}
}

func TestDeleteBackendFailureKeepsCache(t *testing.T) {
	fb := &fakeBackend{
		servicios: []models.Servicio{{ID: 1, Nombre: "Corte", Duracion: 30}},
		turnos:    []models.Turno{{ID: 5, ServicioID: 1}},
		deleteErr: response.ErrBackend,
	}
	repo := NewRepository(fb, models.Session{}, testLogger())
	if _, err := repo.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	err := repo.Delete(context.Background(), 5)
	if !errors.Is(err, response.ErrBackend) {
		t.Fatalf("expected ErrBackend, got %v", err)
	}
	if len(repo.Turnos()) != 1 {
		t.Fatalf("failed delete must not touch the cache")
	}
}

func TestTurnosHoy(t *testing.T) {
	now := time.Date(2025, 1, 10, 8, 0, 0, 0, time.Local)
	today := time.Date(2025, 1, 10, 15, 0, 0, 0, time.Local)
	tomorrow := today.AddDate(0, 0, 1)

	fb := &fakeBackend{
		servicios: []models.Servicio{{ID: 1, Nombre: "Corte", Duracion: 30}},
		turnos: []models.Turno{
			{ID: 1, ServicioID: 1, FechaHoraInicio: ptrTime(today)},
			{ID: 2, ServicioID: 1, FechaHoraInicio: ptrTime(tomorrow)},
		},
	}
	repo := NewRepository(fb, models.Session{}, testLogger())
	if _, err := repo.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	hoy := repo.TurnosHoy(now)
	if len(hoy) != 1 || hoy[0].ID != 1 {
		t.Fatalf("expected only today's turno, got %+v", hoy)
	}
}
