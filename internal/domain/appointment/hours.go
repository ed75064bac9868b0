package appointment

import (
	"time"

	"github.com/barberflow/agenda-api/internal/models"
)

// ===============================
// Horário de funcionamento
// ===============================

// DayWindow é o intervalo aberto efetivo de um dia. Open=false significa
// dia fechado (fora dos dias de trabalho ou horário não configurado).
type DayWindow struct {
	Start time.Time
	End   time.Time
	Open  bool
}

// anchorTimeOfDay ancora um "15:04" na data candidata, no fuso dela.
func anchorTimeOfDay(date time.Time, hm string) (time.Time, bool) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0,
		date.Location(),
	), true
}

// ShopWindow resolve o horário de funcionamento da barbearia na data.
func ShopWindow(shop *models.Barbershop, date time.Time) DayWindow {
	if shop == nil || shop.OpeningTime == "" || shop.ClosingTime == "" {
		return DayWindow{}
	}

	open, ok1 := anchorTimeOfDay(date, shop.OpeningTime)
	close, ok2 := anchorTimeOfDay(date, shop.ClosingTime)
	if !ok1 || !ok2 || !open.Before(close) {
		return DayWindow{}
	}

	return DayWindow{Start: open, End: close, Open: true}
}

// BarberWindow resolve o expediente do barbeiro na data; fechado quando
// o dia da semana não está no conjunto de trabalho.
func BarberWindow(barber *models.Barber, date time.Time) DayWindow {
	if barber == nil || barber.StartTime == "" || barber.EndTime == "" {
		return DayWindow{}
	}
	if !barber.WorkingDays.Contains(date.Weekday()) {
		return DayWindow{}
	}

	start, ok1 := anchorTimeOfDay(date, barber.StartTime)
	end, ok2 := anchorTimeOfDay(date, barber.EndTime)
	if !ok1 || !ok2 || !start.Before(end) {
		return DayWindow{}
	}

	return DayWindow{Start: start, End: end, Open: true}
}

// EffectiveWindow é a interseção shop ∩ barber para a data.
func EffectiveWindow(shop *models.Barbershop, barber *models.Barber, date time.Time) DayWindow {
	sw := ShopWindow(shop, date)
	bw := BarberWindow(barber, date)
	if !sw.Open || !bw.Open {
		return DayWindow{}
	}

	start := sw.Start
	if bw.Start.After(start) {
		start = bw.Start
	}
	end := sw.End
	if bw.End.Before(end) {
		end = bw.End
	}

	if !start.Before(end) {
		return DayWindow{}
	}
	return DayWindow{Start: start, End: end, Open: true}
}

func (w DayWindow) Covers(start, end time.Time) bool {
	if !w.Open {
		return false
	}
	return !start.Before(w.Start) && !end.After(w.End)
}

// WithinShopHours e WithinBarberHours são predicados independentes de
// propósito: o orquestrador valida os dois, nunca só a interseção.
func WithinShopHours(shop *models.Barbershop, start, end time.Time) bool {
	return ShopWindow(shop, start).Covers(start, end)
}

func WithinBarberHours(barber *models.Barber, start, end time.Time) bool {
	return BarberWindow(barber, start).Covers(start, end)
}
