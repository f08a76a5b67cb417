package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"turnate/api"
	"turnate/internal/backend"
	"turnate/internal/models"
	"turnate/internal/turnos"
	"turnate/pkg/response"
	"turnate/pkg/sl"
)

type ServicioUpdater interface {
	UpdateServicio(ctx context.Context, id int64, req backend.ServicioRequest) (models.Servicio, error)
}

type Refresher interface {
	Refresh(ctx context.Context) (turnos.JoinOutcome, error)
}

type Request struct {
	api.ServicioRequest
}

type Response struct {
	response.Response
	Servicio models.Servicio `json:"servicio,omitempty"`
}

func New(log *slog.Logger, updater ServicioUpdater, refresher Refresher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.servicios.update.New"

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

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		log.Info("Request body decoded", slog.Any("request", req))

		if err := validator.New().Struct(req.ServicioRequest); err != nil {
			var validateErrs validator.ValidationErrors
			if errors.As(err, &validateErrs) {
				log.Error("Invalid request", sl.Err(err))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.ValidationError(validateErrs))
				return
			}
		}

		servicio, err := updater.UpdateServicio(r.Context(), id, backend.ServicioRequest{
			Nombre:      req.Nombre,
			Duracion:    req.Duracion,
			Precio:      req.Precio,
			Descripcion: req.Descripcion,
		})

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
			log.Error("Failed to update servicio", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to update servicio"))
			return
		}

		if _, err := refresher.Refresh(r.Context()); err != nil {
			log.Warn("Refresh after update failed", sl.Err(err))
		}

		log.Info("Servicio updated", slog.Int64("servicio_id", id))

		render.JSON(w, r, Response{Servicio: servicio})
	}
}
