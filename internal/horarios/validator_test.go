package horarios

import (
	"testing"
	"time"

	"turnate/internal/cache"
	"turnate/internal/models"
)

func storeWithWeek(week WeekSchedule) *Store {
	s := NewStore(nil, cache.NewNoop(), models.Session{EmprendimientoID: 1}, time.Minute)
	s.swap(week)
	return s
}

// 2025-01-06 is a Monday
func mondayAt(hour, min int) time.Time {
	return time.Date(2025, 1, 6, hour, min, 0, 0, time.Local)
}

func TestIsOpenHalfOpenInterval(t *testing.T) {
	s := storeWithWeek(WeekSchedule{
		Monday: {{From: "09:00", To: "18:00"}},
	})

	cases := []struct {
		name      string
		candidate time.Time
		open      bool
	}{
		{name: "exactly at opening", candidate: mondayAt(9, 0), open: true},
		{name: "just before closing", candidate: mondayAt(17, 59), open: true},
		{name: "exactly at closing", candidate: mondayAt(18, 0), open: false},
		{name: "before opening", candidate: mondayAt(8, 59), open: false},
		{name: "mid block", candidate: mondayAt(12, 30), open: true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := s.IsOpen(c.candidate); got != c.open {
				t.Fatalf("IsOpen(%v) = %v, want %v", c.candidate, got, c.open)
			}
		})
	}
}

func TestIsOpenAbsentDayIsClosed(t *testing.T) {
	s := storeWithWeek(WeekSchedule{
		Monday: {{From: "09:00", To: "18:00"}},
	})

	// 2025-01-07 is a Tuesday, not in the schedule
	for hour := 0; hour < 24; hour++ {
		candidate := time.Date(2025, 1, 7, hour, 0, 0, 0, time.Local)
		if s.IsOpen(candidate) {
			t.Fatalf("expected closed on absent day at %v", candidate)
		}
	}
}

func TestIsOpenEmptyDayIsClosed(t *testing.T) {
	s := storeWithWeek(WeekSchedule{
		Sunday: {},
	})

	candidate := time.Date(2025, 1, 5, 10, 0, 0, 0, time.Local) // Sunday
	if s.IsOpen(candidate) {
		t.Fatalf("expected closed on empty day")
	}
}

func TestIsOpenSecondBlockMatches(t *testing.T) {
	s := storeWithWeek(WeekSchedule{
		Monday: {
			{From: "09:00", To: "12:00"},
			{From: "14:00", To: "17:00"},
		},
	})

	if !s.IsOpen(mondayAt(14, 0)) {
		t.Fatalf("expected open at start of second block")
	}
	if s.IsOpen(mondayAt(13, 0)) {
		t.Fatalf("expected closed between blocks")
	}
}
