package appointment

import (
	"context"

	"go.uber.org/zap"

	"github.com/barberflow/agenda-api/internal/audit"
	domain "github.com/barberflow/agenda-api/internal/domain/appointment"
	"github.com/barberflow/agenda-api/internal/httperr"
	"github.com/barberflow/agenda-api/internal/models"
	"github.com/barberflow/agenda-api/internal/timezone"
)

type CancelAppointment struct {
	repo    domain.Repository
	cache   domain.SlotCache
	machine *domain.Machine
	audit   *audit.Dispatcher
	log     *zap.Logger
}

func NewCancelAppointment(
	repo domain.Repository,
	cache domain.SlotCache,
	machine *domain.Machine,
	auditd *audit.Dispatcher,
	log *zap.Logger,
) *CancelAppointment {
	return &CancelAppointment{
		repo:    repo,
		cache:   cache,
		machine: machine,
		audit:   auditd,
		log:     log,
	}
}

// Execute cancela o agendamento e devolve ao estoque exatamente as
// quantidades dos itens de produto. Cancelar duas vezes falha na
// segunda (invalid_state) e o estoque é creditado uma única vez.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	barbershopID, appointmentID uint,
	reason string,
) (*models.Appointment, error) {

	var cancelled *models.Appointment

	err := uc.repo.Transact(ctx, func(tx domain.Repository) error {

		ap, err := tx.GetAppointmentWithItems(ctx, appointmentID)
		if err != nil {
			return err
		}
		if ap.BarbershopID != barbershopID {
			return httperr.NotFoundErr("appointment_not_found")
		}

		shop, err := tx.GetBarbershopByID(ctx, ap.BarbershopID)
		if err != nil {
			return err
		}

		now := timezone.NowIn(shop.Timezone)
		if err := domain.Cancel(uc.machine, ap, reason, now); err != nil {
			return err
		}

		for _, item := range ap.Products {
			if err := tx.CreditProductStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		cancelled = ap
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, cancelled.BarberID, cancelled.StartTime)

	uc.audit.Dispatch(audit.Event{
		BarbershopID: cancelled.BarbershopID,
		Action:       "appointment_cancelled",
		Entity:       "appointment",
		EntityID:     &cancelled.ID,
	})

	uc.log.Info("appointment cancelled",
		zap.Uint("appointment_id", cancelled.ID),
	)

	return cancelled, nil
}
