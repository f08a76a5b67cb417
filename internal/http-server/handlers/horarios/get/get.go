package get

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"turnate/internal/horarios"
	"turnate/internal/models"
	"turnate/pkg/response"
)

type WeekGetter interface {
	Week() horarios.WeekSchedule
}

type Response struct {
	response.Response
	Week map[string][]models.TimeBlock `json:"week"`
}

func New(log *slog.Logger, store WeekGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.horarios.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		// every day present in the response, closed days as empty lists
		week := make(map[string][]models.TimeBlock, len(horarios.Week))
		stored := store.Week()
		for _, day := range horarios.Week {
			blocks := stored[day]
			if blocks == nil {
				blocks = []models.TimeBlock{}
			}
			week[string(day)] = blocks
		}

		log.Info("Horarios served")

		render.JSON(w, r, Response{Week: week})
	}
}
