package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barberflow/agenda-api/internal/models"
)

func testShop() *models.Barbershop {
	return &models.Barbershop{
		ID:          1,
		OpeningTime: "09:00",
		ClosingTime: "18:00",
		Active:      true,
	}
}

func testBarber() *models.Barber {
	return &models.Barber{
		ID:           1,
		BarbershopID: 1,
		StartTime:    "10:00",
		EndTime:      "17:00",
		WorkingDays:  models.NewWeekdaySet(time.Monday, time.Tuesday, time.Wednesday),
		Active:       true,
	}
}

// 2026-09-07 é segunda-feira
func monday(hour, min int) time.Time {
	return time.Date(2026, time.September, 7, hour, min, 0, 0, time.UTC)
}

func TestShopWindow(t *testing.T) {
	w := ShopWindow(testShop(), monday(0, 0))
	require.True(t, w.Open)
	assert.Equal(t, monday(9, 0), w.Start)
	assert.Equal(t, monday(18, 0), w.End)

	// sem horário configurado, dia fechado
	assert.False(t, ShopWindow(&models.Barbershop{}, monday(0, 0)).Open)

	// abertura depois do fechamento, dia fechado
	broken := testShop()
	broken.OpeningTime = "19:00"
	assert.False(t, ShopWindow(broken, monday(0, 0)).Open)
}

func TestBarberWindow_WeekdayGate(t *testing.T) {
	barber := testBarber()

	w := BarberWindow(barber, monday(0, 0))
	require.True(t, w.Open)
	assert.Equal(t, monday(10, 0), w.Start)
	assert.Equal(t, monday(17, 0), w.End)

	sunday := monday(0, 0).AddDate(0, 0, -1)
	assert.False(t, BarberWindow(barber, sunday).Open)

	thursday := monday(0, 0).AddDate(0, 0, 3)
	assert.False(t, BarberWindow(barber, thursday).Open)
}

func TestEffectiveWindow_Intersection(t *testing.T) {
	shop := testShop()
	barber := testBarber()

	// barbearia 09–18 ∩ barbeiro 10–17 = 10–17
	w := EffectiveWindow(shop, barber, monday(0, 0))
	require.True(t, w.Open)
	assert.Equal(t, monday(10, 0), w.Start)
	assert.Equal(t, monday(17, 0), w.End)

	// barbeiro começa antes da barbearia abrir: vale a barbearia
	early := testBarber()
	early.StartTime = "07:00"
	w = EffectiveWindow(shop, early, monday(0, 0))
	require.True(t, w.Open)
	assert.Equal(t, monday(9, 0), w.Start)

	// interseção vazia
	disjoint := testBarber()
	disjoint.StartTime = "18:00"
	disjoint.EndTime = "22:00"
	assert.False(t, EffectiveWindow(shop, disjoint, monday(0, 0)).Open)

	// qualquer lado fechado fecha o dia
	sunday := monday(0, 0).AddDate(0, 0, -1)
	assert.False(t, EffectiveWindow(shop, barber, sunday).Open)
}

func TestWithinBarberHours_EndBeyondClose(t *testing.T) {
	barber := testBarber() // até 17:00

	// 16:45 + 30min = 17:15: o fim estoura o expediente
	assert.False(t, WithinBarberHours(barber, monday(16, 45), monday(17, 15)))

	// 16:30 + 30min termina exatamente às 17:00: dentro
	assert.True(t, WithinBarberHours(barber, monday(16, 30), monday(17, 0)))

	assert.True(t, WithinBarberHours(barber, monday(10, 0), monday(10, 30)))
	assert.False(t, WithinBarberHours(barber, monday(9, 30), monday(10, 0)))
}

func TestWithinShopHours_IndependentOfBarber(t *testing.T) {
	shop := testShop()

	// dentro da barbearia mesmo fora do expediente do barbeiro
	assert.True(t, WithinShopHours(shop, monday(9, 0), monday(9, 30)))
	assert.False(t, WithinShopHours(shop, monday(17, 45), monday(18, 15)))
	assert.False(t, WithinShopHours(shop, monday(8, 0), monday(8, 30)))
}

func TestDayWindow_Covers(t *testing.T) {
	w := DayWindow{Start: monday(9, 0), End: monday(17, 0), Open: true}

	assert.True(t, w.Covers(monday(9, 0), monday(17, 0)))
	assert.False(t, w.Covers(monday(8, 59), monday(9, 30)))
	assert.False(t, w.Covers(monday(16, 45), monday(17, 1)))

	closed := DayWindow{}
	assert.False(t, closed.Covers(monday(10, 0), monday(10, 30)))
}

func TestWindows_RespectDateLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	date := time.Date(2026, time.September, 7, 0, 0, 0, 0, loc)
	w := ShopWindow(testShop(), date)

	require.True(t, w.Open)
	assert.Equal(t, loc.String(), w.Start.Location().String())
	assert.Equal(t, 9, w.Start.Hour())
}
