package create

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"turnate/api"
	"turnate/pkg/response"
)

type Response struct {
	response.Response
	Link api.ReservaLinkResponse `json:"link"`
}

// New issues a shareable reservation link for clients of the provider.
// Tokens are random, not derived from anything guessable.
func New(log *slog.Logger, publicURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.links.create.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		token := uuid.NewString()
		link := api.ReservaLinkResponse{
			Token: token,
			URL:   fmt.Sprintf("%s/reserva/%s", publicURL, token),
		}

		log.Info("Reservation link issued")

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{Link: link})
	}
}
