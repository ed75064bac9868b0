package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// WeekdaySet é o conjunto de dias de trabalho como bitmask de 7 flags
// (bit 0 = domingo). A origem dos dados é uma lista livre de inteiros,
// então a validação acontece aqui, na borda do modelo.
type WeekdaySet uint8

func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s |= 1 << uint(d)
	}
	return s
}

// WeekdaySetFromInts valida e converte a lista dinâmica (0..6).
func WeekdaySetFromInts(days []int) (WeekdaySet, error) {
	var s WeekdaySet
	for _, d := range days {
		if d < 0 || d > 6 {
			return 0, fmt.Errorf("weekday fora do intervalo 0..6: %d", d)
		}
		s |= 1 << uint(d)
	}
	return s, nil
}

func (s WeekdaySet) Contains(d time.Weekday) bool {
	return s&(1<<uint(d)) != 0
}

func (s WeekdaySet) IsEmpty() bool {
	return s == 0
}

func (s WeekdaySet) Days() []int {
	out := make([]int, 0, 7)
	for d := 0; d < 7; d++ {
		if s&(1<<uint(d)) != 0 {
			out = append(out, d)
		}
	}
	return out
}

// --------------------------------------------------
// JSON
// --------------------------------------------------

func (s WeekdaySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Days())
}

func (s *WeekdaySet) UnmarshalJSON(b []byte) error {
	var days []int
	if err := json.Unmarshal(b, &days); err != nil {
		return err
	}

	set, err := WeekdaySetFromInts(days)
	if err != nil {
		return err
	}

	*s = set
	return nil
}

// --------------------------------------------------
// SQL (coluna armazenada como JSON array, ex.: [1,2,3,4,5])
// --------------------------------------------------

func (s WeekdaySet) Value() (driver.Value, error) {
	b, err := json.Marshal(s.Days())
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *WeekdaySet) Scan(value any) error {
	if value == nil {
		*s = 0
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("tipo inesperado para working_days: %T", value)
	}

	return s.UnmarshalJSON(raw)
}
