package api

import (
	"time"

	"turnate/internal/models"
)

// SlotRequest is a calendar slot click. ServicioID may be zero, in which
// case the repository's default servicio is used.
type SlotRequest struct {
	ServicioID int64  `json:"servicio_id"`
	Start      string `json:"start" validate:"required"`
}

type TurnoUpdateRequest struct {
	Cliente         *string `json:"cliente,omitempty"`
	FechaHoraInicio *string `json:"fecha_hora_inicio,omitempty"`
	DuracionMinutos *int    `json:"duracion_minutos,omitempty"`
	Estado          *string `json:"estado,omitempty"`
}

type ServicioRequest struct {
	Nombre      string  `json:"nombre" validate:"required"`
	Duracion    int     `json:"duracion" validate:"required,gt=0"`
	Precio      float64 `json:"precio" validate:"min=0"`
	Descripcion string  `json:"descripcion,omitempty"`
}

// WeekRequest is the full weekly schedule keyed by english weekday names
// ("monday".."sunday"). Replace semantics: days left out are closed.
type WeekRequest map[string][]models.TimeBlock

type EventResponse struct {
	TurnoID    int64     `json:"turno_id"`
	ServicioID int64     `json:"servicio_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Title      string    `json:"title"`
	Color      string    `json:"color"`
	Cliente    string    `json:"cliente,omitempty"`
	Estado     string    `json:"estado,omitempty"`
}

type ReservaLinkResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}
