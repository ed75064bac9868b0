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

type CompleteAppointment struct {
	repo    domain.Repository
	machine *domain.Machine
	audit   *audit.Dispatcher
	log     *zap.Logger
}

func NewCompleteAppointment(
	repo domain.Repository,
	machine *domain.Machine,
	auditd *audit.Dispatcher,
	log *zap.Logger,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:    repo,
		machine: machine,
		audit:   auditd,
		log:     log,
	}
}

// Execute marca o agendamento como concluído. Não mexe em estoque:
// conclusão é cumprimento do serviço, não movimentação de inventário.
func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	barbershopID, appointmentID uint,
) (*models.Appointment, error) {

	var completed *models.Appointment

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
		if err := domain.Complete(uc.machine, ap, now); err != nil {
			return err
		}

		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		completed = ap
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: completed.BarbershopID,
		Action:       "appointment_completed",
		Entity:       "appointment",
		EntityID:     &completed.ID,
	})

	uc.log.Info("appointment completed",
		zap.Uint("appointment_id", completed.ID),
	)

	return completed, nil
}
