package delete

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"turnate/internal/turnos"
	"turnate/pkg/response"
	"turnate/pkg/sl"
)

type ServicioDeleter interface {
	DeleteServicio(ctx context.Context, id int64) error
}

type Refresher interface {
	Refresh(ctx context.Context) (turnos.JoinOutcome, error)
}

func New(log *slog.Logger, deleter ServicioDeleter, refresher Refresher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.servicios.delete.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			log.Error("Invalid servicio id", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid servicio id"))
			return
		}

		err = deleter.DeleteServicio(r.Context(), id)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("Servicio not found", slog.Int64("servicio_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "servicio not found"))
			return
		}

		if errors.Is(err, response.ErrBackend) {
			log.Error("Backend call failed", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error(string(response.BACKEND_UNAVAILABLE), "backend request failed"))
			return
		}

		if err != nil {
			log.Error("Failed to delete servicio", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to delete servicio"))
			return
		}

		if _, err := refresher.Refresh(r.Context()); err != nil {
			log.Warn("Refresh after delete failed", sl.Err(err))
		}

		log.Info("Servicio deleted", slog.Int64("servicio_id", id))

		w.WriteHeader(http.StatusNoContent)
	}
}
