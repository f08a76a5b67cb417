package hoy

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"turnate/internal/models"
	"turnate/pkg/response"
)

type TodayLister interface {
	TurnosHoy(now time.Time) []models.Turno
}

type Response struct {
	response.Response
	Turnos []models.Turno `json:"turnos"`
}

// New lists the turnos that land on today's local date, the summary shown
// next to the calendar.
func New(log *slog.Logger, lister TodayLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.turnos.hoy.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		turnos := lister.TurnosHoy(time.Now())
		if turnos == nil {
			turnos = []models.Turno{}
		}

		log.Info("Today's turnos served", slog.Int("count", len(turnos)))

		render.JSON(w, r, Response{Turnos: turnos})
	}
}
