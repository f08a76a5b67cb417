package get

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"turnate/api"
	"turnate/internal/calendar"
	"turnate/internal/models"
	"turnate/pkg/response"
	"turnate/pkg/sl"
)

type TurnoLister interface {
	Turnos() []models.Turno
}

type Response struct {
	response.Response
	Events []api.EventResponse `json:"events"`
}

// New serves the calendar feed. Records without a start timestamp are kept
// visible with an explicit now fallback; each one is logged so bad data does
// not pass silently.
func New(log *slog.Logger, lister TurnoLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.calendar.events.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		turnos := lister.Turnos()
		now := time.Now()

		events := make([]api.EventResponse, 0, len(turnos))
		for _, t := range turnos {
			event, err := calendar.Normalize(t)
			if err != nil {
				log.Warn("Turno has no start, rendering at now", sl.Err(err))
				event = calendar.NormalizeWithFallback(t, now)
			}

			events = append(events, api.EventResponse{
				TurnoID:    t.ID,
				ServicioID: t.ServicioID,
				Start:      event.Start,
				End:        event.End,
				Title:      event.Title,
				Color:      event.Color,
				Cliente:    t.Cliente,
				Estado:     string(t.Estado),
			})
		}

		log.Info("Calendar feed served", slog.Int("events", len(events)))

		render.JSON(w, r, Response{Events: events})
	}
}
