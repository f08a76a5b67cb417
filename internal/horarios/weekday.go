package horarios

import (
	"fmt"
	"time"
)

type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// diaSemana maps to the backend wire names. The horarios endpoints speak
// Spanish day names, the rest of the module does not.
var diaSemana = map[Weekday]string{
	Monday:    "Lunes",
	Tuesday:   "Martes",
	Wednesday: "Miércoles",
	Thursday:  "Jueves",
	Friday:    "Viernes",
	Saturday:  "Sábado",
	Sunday:    "Domingo",
}

var fromDiaSemana = func() map[string]Weekday {
	m := make(map[string]Weekday, len(diaSemana))
	for day, name := range diaSemana {
		m[name] = day
	}
	return m
}()

var fromTimeWeekday = map[time.Weekday]Weekday{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

// Week iterates in calendar order, Monday first.
var Week = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func (d Weekday) DiaSemana() string {
	return diaSemana[d]
}

func ParseDiaSemana(name string) (Weekday, error) {
	day, ok := fromDiaSemana[name]
	if !ok {
		return "", fmt.Errorf("unknown dia_semana %q", name)
	}
	return day, nil
}

func FromTime(d time.Weekday) Weekday {
	return fromTimeWeekday[d]
}
