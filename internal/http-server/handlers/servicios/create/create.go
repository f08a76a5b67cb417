package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"turnate/api"
	"turnate/internal/backend"
	"turnate/internal/models"
	"turnate/internal/turnos"
	"turnate/pkg/response"
	"turnate/pkg/sl"
)

type ServicioCreator interface {
	CreateServicio(ctx context.Context, req backend.ServicioRequest) (models.Servicio, error)
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

// New creates a servicio at the backend and refreshes the repository so the
// new servicio is immediately bookable.
func New(log *slog.Logger, creator ServicioCreator, refresher Refresher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.servicios.create.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

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

		servicio, err := creator.CreateServicio(r.Context(), backend.ServicioRequest{
			Nombre:      req.Nombre,
			Duracion:    req.Duracion,
			Precio:      req.Precio,
			Descripcion: req.Descripcion,
		})

		if errors.Is(err, response.ErrBackend) {
			log.Error("Backend call failed", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error(string(response.BACKEND_UNAVAILABLE), "backend request failed"))
			return
		}

		if err != nil {
			log.Error("Failed to create servicio", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create servicio"))
			return
		}

		if _, err := refresher.Refresh(r.Context()); err != nil {
			log.Warn("Refresh after create failed", sl.Err(err))
		}

		log.Info("Servicio created", slog.Int64("servicio_id", servicio.ID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{Servicio: servicio})
	}
}
