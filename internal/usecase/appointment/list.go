package appointment

import (
	"context"

	domain "github.com/barberflow/agenda-api/internal/domain/appointment"
	"github.com/barberflow/agenda-api/internal/dto"
	"github.com/barberflow/agenda-api/internal/httperr"
)

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

// Execute lista agendamentos por barbeiro/cliente/barbearia com filtros
// de status e período. Upcoming/History exigem o instante de referência
// no filtro (nada de ler relógio ambiente aqui).
func (uc *ListAppointments) Execute(
	ctx context.Context,
	f domain.Filter,
) ([]dto.AppointmentListDTO, error) {

	if (f.Upcoming || f.History) && f.Now.IsZero() {
		return nil, httperr.ValidationErr("missing_reference_instant")
	}

	appointments, err := uc.repo.ListAppointments(ctx, f)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, dto.AppointmentListDTO{
			ID:                   ap.ID,
			StartTime:            ap.StartTime,
			EndTime:              ap.EndTime,
			Status:               ap.Status,
			ClientName:           ap.Client.Name,
			BarberName:           ap.Barber.Name,
			TotalPrice:           ap.TotalPrice,
			TotalDurationMinutes: ap.TotalDurationMinutes,
			ServiceCount:         len(ap.Services),
			ProductCount:         len(ap.Products),
		})
	}

	return out, nil
}
