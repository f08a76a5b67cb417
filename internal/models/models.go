package models

import "time"

type Estado string

const (
	EstadoDisponible Estado = "Disponible"
	EstadoReservado  Estado = "Reservado"
)

type Servicio struct {
	ID          int64   `json:"id"`
	Nombre      string  `json:"nombre"`
	Duracion    int     `json:"duracion"`
	Precio      float64 `json:"precio"`
	Descripcion string  `json:"descripcion,omitempty"`
}

// IsZero reports whether the servicio is the placeholder attached to a turno
// whose servicio_id did not match anything during a refresh join.
func (s Servicio) IsZero() bool {
	return s.ID == 0 && s.Nombre == ""
}

type Turno struct {
	ID              int64      `json:"id"`
	ServicioID      int64      `json:"servicio_id"`
	FechaHoraInicio *time.Time `json:"fecha_hora_inicio,omitempty"`
	DuracionMinutos int        `json:"duracion_minutos,omitempty"`
	Capacidad       int        `json:"capacidad,omitempty"`
	Precio          float64    `json:"precio,omitempty"`
	Cliente         string     `json:"cliente,omitempty"`
	Estado          Estado     `json:"estado,omitempty"`
	Servicio        Servicio   `json:"servicio"`
}

// Reservado treats an explicit estado as authoritative and falls back to the
// presence of a cliente, which is how the backend marks reserved slots.
func (t Turno) Reservado() bool {
	if t.Estado != "" {
		return t.Estado == EstadoReservado
	}
	return t.Cliente != ""
}

// Horario is one weekly working-hours row as the backend stores it.
// DiaSemana carries the Spanish day name ("Lunes".."Domingo").
type Horario struct {
	DiaSemana  string `json:"dia_semana"`
	HoraInicio string `json:"hora_inicio"`
	HoraFin    string `json:"hora_fin"`
}

// TimeBlock is one open interval of a day, both bounds zero-padded "HH:MM".
type TimeBlock struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type CalendarEvent struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Title string    `json:"title"`
	Color string    `json:"color"`
}

// TurnoPatch carries the fields a turno update may change. Nil fields are
// left out of the request body so the backend treats them as untouched.
type TurnoPatch struct {
	Cliente         *string    `json:"cliente,omitempty"`
	FechaHoraInicio *time.Time `json:"fecha_hora_inicio,omitempty"`
	DuracionMinutos *int       `json:"duracion_minutos,omitempty"`
	Estado          *Estado    `json:"estado,omitempty"`
}

// Session is the authenticated user, passed explicitly to every component
// that needs it. There is no ambient current-user state.
type Session struct {
	UserID           int64
	EmprendimientoID int64
	Token            string
}
