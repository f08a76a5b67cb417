package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"turnate/api"
	"turnate/internal/models"
	"turnate/pkg/response"
	"turnate/pkg/sl"
)

type TurnoUpdater interface {
	Update(ctx context.Context, id int64, patch models.TurnoPatch) (models.Turno, error)
}

type Request struct {
	api.TurnoUpdateRequest
}

type Response struct {
	response.Response
	Turno models.Turno `json:"turno,omitempty"`
}

func New(log *slog.Logger, updater TurnoUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.turnos.update.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			log.Error("Invalid turno id", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid turno id"))
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

		patch := models.TurnoPatch{
			Cliente:         req.Cliente,
			DuracionMinutos: req.DuracionMinutos,
		}

		if req.FechaHoraInicio != nil {
			start, err := time.Parse(time.RFC3339, *req.FechaHoraInicio)
			if err != nil {
				log.Error("Invalid fecha_hora_inicio", sl.Err(err))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "fecha_hora_inicio must be RFC3339"))
				return
			}
			utc := start.UTC()
			patch.FechaHoraInicio = &utc
		}

		if req.Estado != nil {
			estado := models.Estado(*req.Estado)
			if estado != models.EstadoDisponible && estado != models.EstadoReservado {
				log.Error("Invalid estado", slog.String("estado", *req.Estado))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "invalid estado"))
				return
			}
			patch.Estado = &estado
		}

		turno, err := updater.Update(r.Context(), id, patch)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("Turno not found", slog.Int64("turno_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "turno not found"))
			return
		}

		if errors.Is(err, response.ErrBackend) {
			log.Error("Backend call failed", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error(string(response.BACKEND_UNAVAILABLE), "backend request failed"))
			return
		}

		if err != nil {
			log.Error("Failed to update turno", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to update turno"))
			return
		}

		log.Info("Turno updated", slog.Int64("turno_id", id))

		render.JSON(w, r, Response{Turno: turno})
	}
}
