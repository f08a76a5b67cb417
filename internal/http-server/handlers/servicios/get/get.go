package get

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"turnate/internal/models"
	"turnate/pkg/response"
)

type ServicioLister interface {
	Servicios() []models.Servicio
	DefaultServicioID() int64
}

type Response struct {
	response.Response
	Servicios         []models.Servicio `json:"servicios"`
	DefaultServicioID int64             `json:"default_servicio_id,omitempty"`
}

func New(log *slog.Logger, lister ServicioLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.servicios.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		servicios := lister.Servicios()

		log.Info("Servicios served", slog.Int("count", len(servicios)))

		render.JSON(w, r, Response{
			Servicios:         servicios,
			DefaultServicioID: lister.DefaultServicioID(),
		})
	}
}
