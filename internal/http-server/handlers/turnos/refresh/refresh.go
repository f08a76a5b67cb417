package refresh

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"turnate/internal/turnos"
	"turnate/pkg/response"
	"turnate/pkg/sl"
)

type Refresher interface {
	Refresh(ctx context.Context) (turnos.JoinOutcome, error)
}

type Response struct {
	response.Response
	Outcome turnos.JoinOutcome `json:"outcome"`
}

func New(log *slog.Logger, refresher Refresher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.turnos.refresh.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		outcome, err := refresher.Refresh(r.Context())

		if errors.Is(err, response.ErrBackend) {
			log.Error("Backend call failed", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error(string(response.BACKEND_UNAVAILABLE), "backend request failed"))
			return
		}

		if err != nil {
			log.Error("Failed to refresh", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to refresh"))
			return
		}

		log.Info("Cache refreshed",
			slog.Int("matched", outcome.Matched),
			slog.Int("unmatched", len(outcome.Unmatched)),
		)

		render.JSON(w, r, Response{Outcome: outcome})
	}
}
