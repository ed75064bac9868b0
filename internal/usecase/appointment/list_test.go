package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domain "github.com/barberflow/agenda-api/internal/domain/appointment"
	"github.com/barberflow/agenda-api/internal/httperr"
)

func seedAppointments(t *testing.T, repo *memRepo, cache *memSlotCache) {
	t.Helper()

	createUC := NewCreateAppointment(
		repo, cache, domain.DefaultMachine(), testDispatcher(), zap.NewNop(),
	)

	for _, start := range []struct{ hour, min int }{
		{9, 0}, {11, 0}, {14, 0},
	} {
		_, err := createUC.Execute(context.Background(), CreateAppointmentInput{
			BarbershopID: 1, BarberID: 1, ClientID: 1,
			StartTime:  mondayAt(start.hour, start.min),
			ServiceIDs: []uint{1},
		})
		require.NoError(t, err)
	}
}

func TestListAppointments_OrderedByStart(t *testing.T) {
	repo := newMemRepo()
	seedScheduling(repo)
	seedAppointments(t, repo, newMemSlotCache())

	uc := NewListAppointments(repo)

	out, err := uc.Execute(context.Background(), domain.Filter{BarbershopID: 1})
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, mondayAt(9, 0), out[0].StartTime)
	assert.Equal(t, mondayAt(11, 0), out[1].StartTime)
	assert.Equal(t, mondayAt(14, 0), out[2].StartTime)

	assert.Equal(t, "João", out[0].ClientName)
	assert.Equal(t, "Carlos", out[0].BarberName)
	assert.Equal(t, 1, out[0].ServiceCount)
}

func TestListAppointments_UpcomingAndHistory(t *testing.T) {
	repo := newMemRepo()
	seedScheduling(repo)
	seedAppointments(t, repo, newMemSlotCache())

	uc := NewListAppointments(repo)
	now := mondayAt(12, 0)

	upcoming, err := uc.Execute(context.Background(), domain.Filter{
		BarbershopID: 1,
		Upcoming:     true,
		Now:          now,
	})
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, mondayAt(14, 0), upcoming[0].StartTime)

	history, err := uc.Execute(context.Background(), domain.Filter{
		BarbershopID: 1,
		History:      true,
		Now:          now,
	})
	require.NoError(t, err)
	require.Len(t, history, 2)
}

func TestListAppointments_ReferenceInstantRequired(t *testing.T) {
	repo := newMemRepo()
	seedScheduling(repo)

	uc := NewListAppointments(repo)

	_, err := uc.Execute(context.Background(), domain.Filter{
		BarbershopID: 1,
		Upcoming:     true,
	})
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "missing_reference_instant"))

	_, err = uc.Execute(context.Background(), domain.Filter{
		BarbershopID: 1,
		History:      true,
	})
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "missing_reference_instant"))
}

func TestListAppointments_StatusAndRangeFilters(t *testing.T) {
	repo := newMemRepo()
	seedScheduling(repo)
	cache := newMemSlotCache()
	seedAppointments(t, repo, cache)

	machine := domain.DefaultMachine()
	cancelUC := NewCancelAppointment(repo, cache, machine, testDispatcher(), zap.NewNop())
	_, err := cancelUC.Execute(context.Background(), 1, 1, "")
	require.NoError(t, err)

	uc := NewListAppointments(repo)

	cancelled, err := uc.Execute(context.Background(), domain.Filter{
		BarbershopID: 1,
		Status:       domain.StatusCancelled,
	})
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	assert.Equal(t, "cancelled", cancelled[0].Status)

	ranged, err := uc.Execute(context.Background(), domain.Filter{
		BarbershopID: 1,
		From:         mondayAt(10, 0),
		To:           mondayAt(13, 0),
	})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, mondayAt(11, 0), ranged[0].StartTime)
}

func TestListAppointments_Pagination(t *testing.T) {
	repo := newMemRepo()
	seedScheduling(repo)
	seedAppointments(t, repo, newMemSlotCache())

	uc := NewListAppointments(repo)

	page, err := uc.Execute(context.Background(), domain.Filter{
		BarbershopID: 1,
		Limit:        2,
		Offset:       1,
	})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, mondayAt(11, 0), page[0].StartTime)
	assert.Equal(t, mondayAt(14, 0), page[1].StartTime)
}
