package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"turnate/api"
	"turnate/internal/models"
	"turnate/pkg/response"
	"turnate/pkg/sl"
)

type SlotValidator interface {
	IsOpen(candidate time.Time) bool
}

type TurnoCreator interface {
	Create(ctx context.Context, servicioID int64, start time.Time) (models.Turno, error)
	DefaultServicioID() int64
}

type Request struct {
	api.SlotRequest
}

type Response struct {
	response.Response
	Turno models.Turno `json:"turno,omitempty"`
}

// New handles a calendar slot click: the start must fall inside an open
// working-hours block before a turno is created for it.
func New(log *slog.Logger, slots SlotValidator, creator TurnoCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.calendar.slots.create.New"

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

		if err := validator.New().Struct(req.SlotRequest); err != nil {
			var validateErrs validator.ValidationErrors
			if errors.As(err, &validateErrs) {
				log.Error("Invalid request", sl.Err(err))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.ValidationError(validateErrs))
				return
			}
		}

		start, err := time.Parse(time.RFC3339, req.Start)
		if err != nil {
			log.Error("Invalid start timestamp", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "start must be RFC3339"))
			return
		}

		if !slots.IsOpen(start.Local()) {
			log.Info("Slot rejected, outside working hours", slog.Time("start", start))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(string(response.SLOT_CLOSED), "slot is outside working hours"))
			return
		}

		servicioID := req.ServicioID
		if servicioID == 0 {
			servicioID = creator.DefaultServicioID()
		}

		turno, err := creator.Create(r.Context(), servicioID, start)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("Servicio not found", slog.Int64("servicio_id", servicioID))
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
			log.Error("Failed to create turno", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create turno"))
			return
		}

		log.Info("Turno created", slog.Int64("turno_id", turno.ID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{Turno: turno})
	}
}
