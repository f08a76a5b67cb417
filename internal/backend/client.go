package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"turnate/internal/models"
	"turnate/pkg/response"
)

// Client talks to the external Turnate REST backend. It owns no state beyond
// the session: every read and write is a single request, awaited to
// completion, with no retries and no caching. Callers decide what to do with
// the response payload.
type Client struct {
	baseURL    string
	session    models.Session
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration, session models.Session) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		session:    session,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type CreateTurnoRequest struct {
	ServicioID      int64   `json:"servicio_id"`
	FechaHoraInicio string  `json:"fecha_hora_inicio"`
	DuracionMinutos int     `json:"duracion_minutos"`
	Capacidad       int     `json:"capacidad"`
	Precio          float64 `json:"precio"`
}

type ServicioRequest struct {
	Nombre      string  `json:"nombre"`
	Duracion    int     `json:"duracion"`
	Precio      float64 `json:"precio"`
	Descripcion string  `json:"descripcion,omitempty"`
}

func (c *Client) MisServicios(ctx context.Context) ([]models.Servicio, error) {
	const op = "backend.Client.MisServicios"

	var servicios []models.Servicio
	if err := c.do(ctx, http.MethodGet, "/servicios/mis-servicios", nil, nil, &servicios); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return servicios, nil
}

func (c *Client) MisTurnos(ctx context.Context) ([]models.Turno, error) {
	const op = "backend.Client.MisTurnos"

	var turnos []models.Turno
	if err := c.do(ctx, http.MethodGet, "/turnos/mis-turnos", nil, nil, &turnos); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return turnos, nil
}

// CreateTurno posts a new turno. The idempotency key lets the backend drop
// duplicate submissions of the same slot click.
func (c *Client) CreateTurno(ctx context.Context, req CreateTurnoRequest, idempotencyKey string) (models.Turno, error) {
	const op = "backend.Client.CreateTurno"

	headers := map[string]string{}
	if idempotencyKey != "" {
		headers["Idempotency-Key"] = idempotencyKey
	}

	var turno models.Turno
	if err := c.do(ctx, http.MethodPost, "/turnos/", headers, req, &turno); err != nil {
		return models.Turno{}, fmt.Errorf("%s: %w", op, err)
	}

	return turno, nil
}

func (c *Client) UpdateTurno(ctx context.Context, id int64, patch models.TurnoPatch) (models.Turno, error) {
	const op = "backend.Client.UpdateTurno"

	var turno models.Turno
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/turnos/%d", id), nil, patch, &turno); err != nil {
		return models.Turno{}, fmt.Errorf("%s: %w", op, err)
	}

	return turno, nil
}

func (c *Client) DeleteTurno(ctx context.Context, id int64) error {
	const op = "backend.Client.DeleteTurno"

	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/turnos/%d", id), nil, nil, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *Client) GetHorarios(ctx context.Context, emprendimientoID int64) ([]models.Horario, error) {
	const op = "backend.Client.GetHorarios"

	var horarios []models.Horario
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/horarios/%d", emprendimientoID), nil, nil, &horarios); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return horarios, nil
}

// ReplaceHorarios substitutes the provider's whole weekly schedule. The
// backend contract is replace, not merge: rows missing from the payload are
// gone after the call.
func (c *Client) ReplaceHorarios(ctx context.Context, emprendedorID int64, rows []models.Horario) error {
	const op = "backend.Client.ReplaceHorarios"

	path := fmt.Sprintf("/emprendedores/%d/horarios:replace", emprendedorID)
	if err := c.do(ctx, http.MethodPut, path, nil, rows, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *Client) CreateServicio(ctx context.Context, req ServicioRequest) (models.Servicio, error) {
	const op = "backend.Client.CreateServicio"

	var servicio models.Servicio
	if err := c.do(ctx, http.MethodPost, "/mis/servicios", nil, req, &servicio); err != nil {
		return models.Servicio{}, fmt.Errorf("%s: %w", op, err)
	}

	return servicio, nil
}

func (c *Client) UpdateServicio(ctx context.Context, id int64, req ServicioRequest) (models.Servicio, error) {
	const op = "backend.Client.UpdateServicio"

	var servicio models.Servicio
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/servicios/%d", id), nil, req, &servicio); err != nil {
		return models.Servicio{}, fmt.Errorf("%s: %w", op, err)
	}

	return servicio, nil
}

func (c *Client) DeleteServicio(ctx context.Context, id int64) error {
	const op = "backend.Client.DeleteServicio"

	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/servicios/%d", id), nil, nil, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *Client) do(ctx context.Context, method, path string, headers map[string]string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", response.ErrBackend, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return response.ErrNotFound
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", response.ErrBackend, resp.StatusCode)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", response.ErrBackend, err)
	}

	return nil
}
