package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domain "github.com/barberflow/agenda-api/internal/domain/appointment"
	"github.com/barberflow/agenda-api/internal/httperr"
)

func newSlotsUC(repo *memRepo, cache *memSlotCache, stepMinutes int) *GetAvailableSlots {
	return NewGetAvailableSlots(
		repo, cache, domain.DefaultMachine(), stepMinutes, zap.NewNop(),
	)
}

func TestGetAvailableSlots_OrderedAndBounded(t *testing.T) {
	repo := newMemRepo()
	seedScheduling(repo)
	uc := newSlotsUC(repo, newMemSlotCache(), 30)

	slots, err := uc.Execute(context.Background(), 1, 1, mondayAt(0, 0))
	require.NoError(t, err)

	// janela efetiva 09:00–17:00 (interseção barbearia ∩ barbeiro),
	// passo de 30min: 16 slots, o último termina exatamente às 17:00
	require.Len(t, slots, 16)
	assert.Equal(t, mondayAt(9, 0), slots[0].Start)
	assert.Equal(t, mondayAt(9, 30), slots[0].End)
	assert.Equal(t, mondayAt(16, 30), slots[15].Start)
	assert.Equal(t, mondayAt(17, 0), slots[15].End)

	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i].Start.After(slots[i-1].Start))
	}
	for _, s := range slots {
		assert.True(t, s.Available)
	}
}

func TestGetAvailableSlots_BusyIntervalsFlagged(t *testing.T) {
	repo := newMemRepo()
	seedScheduling(repo)
	cache := newMemSlotCache()
	machine := domain.DefaultMachine()

	createUC := NewCreateAppointment(repo, cache, machine, testDispatcher(), zap.NewNop())
	_, err := createUC.Execute(context.Background(), CreateAppointmentInput{
		BarbershopID: 1, BarberID: 1, ClientID: 1,
		StartTime:  mondayAt(10, 0),
		ServiceIDs: []uint{2}, // 10:00–10:45
	})
	require.NoError(t, err)

	uc := newSlotsUC(repo, cache, 30)
	slots, err := uc.Execute(context.Background(), 1, 1, mondayAt(0, 0))
	require.NoError(t, err)
	require.Len(t, slots, 16)

	bySt := map[time.Time]bool{}
	for _, s := range slots {
		bySt[s.Start] = s.Available
	}

	// 10:00 e 10:30 intersectam a reserva; 09:30 e 11:00 não
	assert.True(t, bySt[mondayAt(9, 30)])
	assert.False(t, bySt[mondayAt(10, 0)])
	assert.False(t, bySt[mondayAt(10, 30)])
	assert.True(t, bySt[mondayAt(11, 0)])
}

func TestGetAvailableSlots_ClosedDayIsEmpty(t *testing.T) {
	repo := newMemRepo()
	seedScheduling(repo)
	uc := newSlotsUC(repo, newMemSlotCache(), 30)

	sunday := mondayAt(0, 0).AddDate(0, 0, -1)
	slots, err := uc.Execute(context.Background(), 1, 1, sunday)
	require.NoError(t, err)

	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestGetAvailableSlots_StepNeverCrossesClose(t *testing.T) {
	repo := newMemRepo()
	seedScheduling(repo)

	// janela de 09:00–17:00 com passo de 45min não fecha certinho:
	// o último slot precisa terminar às 16:30, nunca 17:15
	uc := newSlotsUC(repo, newMemSlotCache(), 45)

	slots, err := uc.Execute(context.Background(), 1, 1, mondayAt(0, 0))
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	last := slots[len(slots)-1]
	assert.False(t, last.End.After(mondayAt(17, 0)))
	assert.Equal(t, mondayAt(16, 30), last.End)
}

func TestGetAvailableSlots_UsesCache(t *testing.T) {
	repo := newMemRepo()
	seedScheduling(repo)
	cache := newMemSlotCache()
	uc := newSlotsUC(repo, cache, 30)

	first, err := uc.Execute(context.Background(), 1, 1, mondayAt(0, 0))
	require.NoError(t, err)
	require.Equal(t, 1, cache.setCount)

	second, err := uc.Execute(context.Background(), 1, 1, mondayAt(0, 0))
	require.NoError(t, err)

	assert.Equal(t, 1, cache.getHitCount)
	assert.Equal(t, 1, cache.setCount)
	assert.Equal(t, first, second)
}

func TestGetAvailableSlots_UnknownBarber(t *testing.T) {
	repo := newMemRepo()
	seedScheduling(repo)
	uc := newSlotsUC(repo, newMemSlotCache(), 30)

	_, err := uc.Execute(context.Background(), 1, 99, mondayAt(0, 0))
	require.Error(t, err)
	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))
}

func TestGetAvailableSlots_BarberFromOtherShop(t *testing.T) {
	repo := newMemRepo()
	seedScheduling(repo)
	uc := newSlotsUC(repo, newMemSlotCache(), 30)

	// barbeiro 1 pertence à barbearia 1: para a barbearia 2 ele não existe
	_, err := uc.Execute(context.Background(), 2, 1, mondayAt(0, 0))
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "barber_not_found"))
}

func TestIsBarberAvailable_BarberFromOtherShopFailsClosed(t *testing.T) {
	repo := newMemRepo()
	seedScheduling(repo)
	uc := NewIsBarberAvailable(repo, domain.DefaultMachine())

	ok, err := uc.Execute(context.Background(), 2, 1, mondayAt(10, 0), mondayAt(10, 30), 0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsBarberAvailable(t *testing.T) {
	repo := newMemRepo()
	seedScheduling(repo)
	cache := newMemSlotCache()
	machine := domain.DefaultMachine()

	createUC := NewCreateAppointment(repo, cache, machine, testDispatcher(), zap.NewNop())
	ap, err := createUC.Execute(context.Background(), CreateAppointmentInput{
		BarbershopID: 1, BarberID: 1, ClientID: 1,
		StartTime:  mondayAt(14, 0),
		ServiceIDs: []uint{1}, // 14:00–14:30
	})
	require.NoError(t, err)

	uc := NewIsBarberAvailable(repo, machine)
	ctx := context.Background()

	ok, err := uc.Execute(ctx, 1, 1, mondayAt(10, 0), mondayAt(10, 30), 0)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = uc.Execute(ctx, 1, 1, mondayAt(14, 15), mondayAt(14, 45), 0)
	require.NoError(t, err)
	assert.False(t, ok)

	// encostar na borda não conflita
	ok, err = uc.Execute(ctx, 1, 1, mondayAt(14, 30), mondayAt(15, 0), 0)
	require.NoError(t, err)
	assert.True(t, ok)

	// excluindo o próprio agendamento, o horário dele aparece livre
	ok, err = uc.Execute(ctx, 1, 1, mondayAt(14, 0), mondayAt(14, 30), ap.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// fora do expediente
	ok, err = uc.Execute(ctx, 1, 1, mondayAt(18, 0), mondayAt(18, 30), 0)
	require.NoError(t, err)
	assert.False(t, ok)

	// barbeiro desconhecido: fail closed, sem erro
	ok, err = uc.Execute(ctx, 1, 99, mondayAt(10, 0), mondayAt(10, 30), 0)
	require.NoError(t, err)
	assert.False(t, ok)

	// intervalo degenerado é erro de validação
	_, err = uc.Execute(ctx, 1, 1, mondayAt(10, 0), mondayAt(10, 0), 0)
	require.Error(t, err)
	assert.True(t, httperr.IsKind(err, httperr.KindValidation))
}
