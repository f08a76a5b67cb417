package calendar

import (
	"errors"
	"testing"
	"time"

	"turnate/internal/models"
)

func ptrTime(t time.Time) *time.Time { return &t }

func TestNormalizeDurationPrecedence(t *testing.T) {
	start := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		turno   models.Turno
		wantEnd time.Duration
	}{
		{
			name: "explicit turno minutes win",
			turno: models.Turno{
				FechaHoraInicio: ptrTime(start),
				DuracionMinutos: 60,
				Servicio:        models.Servicio{ID: 2, Nombre: "Color", Duracion: 90},
			},
			wantEnd: 60 * time.Minute,
		},
		{
			name: "servicio duration fills in",
			turno: models.Turno{
				FechaHoraInicio: ptrTime(start),
				Servicio:        models.Servicio{ID: 2, Nombre: "Color", Duracion: 45},
			},
			wantEnd: 45 * time.Minute,
		},
		{
			name: "30 minute fallback",
			turno: models.Turno{
				FechaHoraInicio: ptrTime(start),
			},
			wantEnd: 30 * time.Minute,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			event, err := Normalize(c.turno)
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if got := event.End.Sub(event.Start); got != c.wantEnd {
				t.Fatalf("end - start = %v, want %v", got, c.wantEnd)
			}
		})
	}
}

func TestNormalizeIsPure(t *testing.T) {
	turno := models.Turno{
		ID:              10,
		FechaHoraInicio: ptrTime(time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)),
		Cliente:         "Ana",
		Servicio:        models.Servicio{ID: 1, Nombre: "Corte", Duracion: 30},
	}

	first, err := Normalize(turno)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	second, err := Normalize(turno)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if first != second {
		t.Fatalf("expected identical events, got %+v and %+v", first, second)
	}
}

func TestNormalizeConvertsToLocal(t *testing.T) {
	utcStart := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	turno := models.Turno{FechaHoraInicio: &utcStart, DuracionMinutos: 30}

	event, err := Normalize(turno)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if !event.Start.Equal(utcStart) {
		t.Fatalf("local conversion must not shift the instant")
	}
	if event.Start.Location() != time.Local {
		t.Fatalf("expected local location, got %v", event.Start.Location())
	}
}

func TestNormalizeMissingStart(t *testing.T) {
	turno := models.Turno{ID: 42}

	_, err := Normalize(turno)
	if err == nil {
		t.Fatalf("expected error for missing start")
	}

	var missing *MissingStartError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingStartError, got %T", err)
	}
	if missing.TurnoID != 42 {
		t.Fatalf("error should carry the turno id, got %d", missing.TurnoID)
	}
}

func TestNormalizeWithFallbackNeverFails(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.Local)
	turno := models.Turno{ID: 42} // no start, no servicio

	event := NormalizeWithFallback(turno, now)

	if !event.Start.Equal(now) {
		t.Fatalf("expected fallback start at now, got %v", event.Start)
	}
	if got := event.End.Sub(event.Start); got != 30*time.Minute {
		t.Fatalf("expected 30 minute fallback duration, got %v", got)
	}
	if event.Title != "Servicio" {
		t.Fatalf("expected placeholder title, got %q", event.Title)
	}
}

func TestNormalizeTitleAndColor(t *testing.T) {
	start := ptrTime(time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC))

	libre := models.Turno{FechaHoraInicio: start, Servicio: models.Servicio{ID: 1, Nombre: "Corte", Duracion: 30}}
	reservado := libre
	reservado.Cliente = "Ana"

	libreEvent, _ := Normalize(libre)
	reservadoEvent, _ := Normalize(reservado)

	if libreEvent.Title != "Corte" {
		t.Fatalf("unexpected title %q", libreEvent.Title)
	}
	if reservadoEvent.Title != "Corte — Ana" {
		t.Fatalf("unexpected title %q", reservadoEvent.Title)
	}
	if libreEvent.Color == reservadoEvent.Color {
		t.Fatalf("reserved and open slots must have distinct colors")
	}

	// explicit estado wins over cliente presence
	explicit := libre
	explicit.Estado = models.EstadoReservado
	explicitEvent, _ := Normalize(explicit)
	if explicitEvent.Color != reservadoEvent.Color {
		t.Fatalf("explicit estado should color as reserved")
	}
}
