package hoy

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"turnate/internal/models"
)

type fakeLister struct {
	turnos []models.Turno
}

func (f *fakeLister) TurnosHoy(now time.Time) []models.Turno { return f.turnos }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestServesTodaysTurnos(t *testing.T) {
	handler := New(testLogger(), &fakeLister{turnos: []models.Turno{{ID: 1, ServicioID: 1}}})

	req := httptest.NewRequest(http.MethodGet, "/turnos/hoy", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Turnos) != 1 || resp.Turnos[0].ID != 1 {
		t.Fatalf("unexpected turnos %+v", resp.Turnos)
	}
}

func TestEmptyDayIsAnEmptyListNotNull(t *testing.T) {
	handler := New(testLogger(), &fakeLister{})

	req := httptest.NewRequest(http.MethodGet, "/turnos/hoy", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if string(raw["turnos"]) != "[]" {
		t.Fatalf("expected empty list, got %s", raw["turnos"])
	}
}
