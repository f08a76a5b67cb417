package calendar

import (
	"fmt"
	"time"

	"turnate/internal/models"
)

const (
	// fallback when neither the turno nor its servicio carries a duration
	defaultDuracionMinutos = 30

	colorDisponible = "#1976d2"
	colorReservado  = "#d32f2f"
)

// MissingStartError marks a turno record that arrived without a start
// timestamp. The caller decides the fallback instead of this package
// silently inventing one.
type MissingStartError struct {
	TurnoID int64
}

func (e *MissingStartError) Error() string {
	return fmt.Sprintf("turno %d has no fecha_hora_inicio", e.TurnoID)
}

// Normalize turns a turno joined with its servicio into a display event.
// Start is converted to local time; duration precedence is the turno's own
// minutes, then the servicio's, then 30. Pure: same input, same event.
func Normalize(turno models.Turno) (models.CalendarEvent, error) {
	if turno.FechaHoraInicio == nil {
		return models.CalendarEvent{}, &MissingStartError{TurnoID: turno.ID}
	}

	return build(turno, turno.FechaHoraInicio.Local()), nil
}

// NormalizeWithFallback is Normalize with the legacy behavior made explicit:
// a record without a start lands at now so the calendar still renders it.
func NormalizeWithFallback(turno models.Turno, now time.Time) models.CalendarEvent {
	event, err := Normalize(turno)
	if err != nil {
		return build(turno, now)
	}

	return event
}

func build(turno models.Turno, start time.Time) models.CalendarEvent {
	duracion := turno.DuracionMinutos
	if duracion <= 0 {
		duracion = turno.Servicio.Duracion
	}
	if duracion <= 0 {
		duracion = defaultDuracionMinutos
	}

	title := turno.Servicio.Nombre
	if title == "" {
		title = "Servicio"
	}
	if turno.Cliente != "" {
		title += " — " + turno.Cliente
	}

	color := colorDisponible
	if turno.Reservado() {
		color = colorReservado
	}

	return models.CalendarEvent{
		Start: start,
		End:   start.Add(time.Duration(duracion) * time.Minute),
		Title: title,
		Color: color,
	}
}
