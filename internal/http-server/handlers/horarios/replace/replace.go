package replace

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"turnate/api"
	"turnate/internal/horarios"
	"turnate/pkg/response"
	"turnate/pkg/sl"
)

type WeekReplacer interface {
	Replace(ctx context.Context, week horarios.WeekSchedule) error
}

// New substitutes the whole weekly schedule. The payload must carry the
// complete week; a day missing from it becomes closed. Blocks are taken as
// submitted, overlap and ordering included.
func New(log *slog.Logger, store WeekReplacer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.horarios.replace.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req api.WeekRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		week := horarios.WeekSchedule{}
		for name, blocks := range req {
			day := horarios.Weekday(name)
			if day.DiaSemana() == "" {
				log.Error("Unknown weekday", slog.String("day", name))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "unknown weekday "+name))
				return
			}
			week[day] = blocks
		}

		err := store.Replace(r.Context(), week)

		if errors.Is(err, response.ErrBackend) {
			log.Error("Backend call failed", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error(string(response.BACKEND_UNAVAILABLE), "backend request failed"))
			return
		}

		if err != nil {
			log.Error("Failed to replace horarios", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to replace horarios"))
			return
		}

		log.Info("Horarios replaced")

		render.JSON(w, r, response.Response{})
	}
}
