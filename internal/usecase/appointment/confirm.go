package appointment

import (
	"context"

	"go.uber.org/zap"

	"github.com/barberflow/agenda-api/internal/audit"
	domain "github.com/barberflow/agenda-api/internal/domain/appointment"
	"github.com/barberflow/agenda-api/internal/httperr"
	"github.com/barberflow/agenda-api/internal/models"
)

type ConfirmAppointment struct {
	repo    domain.Repository
	machine *domain.Machine
	audit   *audit.Dispatcher
	log     *zap.Logger
}

func NewConfirmAppointment(
	repo domain.Repository,
	machine *domain.Machine,
	auditd *audit.Dispatcher,
	log *zap.Logger,
) *ConfirmAppointment {
	return &ConfirmAppointment{
		repo:    repo,
		machine: machine,
		audit:   auditd,
		log:     log,
	}
}

// Confirmação é opcional no fluxo: pular direto para concluído é válido.
func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	barbershopID, appointmentID uint,
) (*models.Appointment, error) {

	var confirmed *models.Appointment

	err := uc.repo.Transact(ctx, func(tx domain.Repository) error {

		ap, err := tx.GetAppointmentWithItems(ctx, appointmentID)
		if err != nil {
			return err
		}
		if ap.BarbershopID != barbershopID {
			return httperr.NotFoundErr("appointment_not_found")
		}

		if err := domain.Confirm(uc.machine, ap); err != nil {
			return err
		}

		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		confirmed = ap
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: confirmed.BarbershopID,
		Action:       "appointment_confirmed",
		Entity:       "appointment",
		EntityID:     &confirmed.ID,
	})

	return confirmed, nil
}

// ======================================================
// NO-SHOW (apenas no conjunto estendido de status)
// ======================================================

type MarkNoShow struct {
	repo    domain.Repository
	cache   domain.SlotCache
	machine *domain.Machine
	audit   *audit.Dispatcher
	log     *zap.Logger
}

func NewMarkNoShow(
	repo domain.Repository,
	cache domain.SlotCache,
	machine *domain.Machine,
	auditd *audit.Dispatcher,
	log *zap.Logger,
) *MarkNoShow {
	return &MarkNoShow{
		repo:    repo,
		cache:   cache,
		machine: machine,
		audit:   auditd,
		log:     log,
	}
}

// No-show libera o horário do barbeiro mas mantém o débito de estoque:
// o produto foi separado para a visita. No conjunto padrão de status a
// transição é rejeitada pela máquina.
func (uc *MarkNoShow) Execute(
	ctx context.Context,
	barbershopID, appointmentID uint,
) (*models.Appointment, error) {

	var marked *models.Appointment

	err := uc.repo.Transact(ctx, func(tx domain.Repository) error {

		ap, err := tx.GetAppointmentByID(ctx, appointmentID)
		if err != nil {
			return err
		}
		if ap.BarbershopID != barbershopID {
			return httperr.NotFoundErr("appointment_not_found")
		}

		if err := domain.MarkNoShow(uc.machine, ap); err != nil {
			return err
		}

		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		marked = ap
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, marked.BarberID, marked.StartTime)

	uc.audit.Dispatch(audit.Event{
		BarbershopID: marked.BarbershopID,
		Action:       "appointment_no_show",
		Entity:       "appointment",
		EntityID:     &marked.ID,
	})

	return marked, nil
}
