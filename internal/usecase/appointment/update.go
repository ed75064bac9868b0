package appointment

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/barberflow/agenda-api/internal/audit"
	domain "github.com/barberflow/agenda-api/internal/domain/appointment"
	"github.com/barberflow/agenda-api/internal/httperr"
	"github.com/barberflow/agenda-api/internal/models"
)

// ======================================================
// INPUT
// ======================================================

// Campos nil mantêm o valor atual; ponteiro para lista vazia remove tudo.
type UpdateAppointmentInput struct {
	BarbershopID  uint
	AppointmentID uint

	StartTime  *time.Time
	ServiceIDs *[]uint
	Products   *[]ProductLine
	Notes      *string

	RequestID string
}

// ======================================================
// USE CASE
// ======================================================

type UpdateAppointment struct {
	repo    domain.Repository
	cache   domain.SlotCache
	machine *domain.Machine
	audit   *audit.Dispatcher
	log     *zap.Logger
}

func NewUpdateAppointment(
	repo domain.Repository,
	cache domain.SlotCache,
	machine *domain.Machine,
	auditd *audit.Dispatcher,
	log *zap.Logger,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:    repo,
		cache:   cache,
		machine: machine,
		audit:   auditd,
		log:     log,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	if in.BarbershopID == 0 || in.AppointmentID == 0 {
		return nil, httperr.ValidationErr("missing_required_field")
	}
	if in.ServiceIDs != nil {
		if err := validateServiceIDs(*in.ServiceIDs); err != nil {
			return nil, err
		}
	}
	if in.Products != nil {
		if err := validateProductLines(*in.Products); err != nil {
			return nil, err
		}
	}

	var updated *models.Appointment
	var oldStart time.Time

	err := uc.repo.Transact(ctx, func(tx domain.Repository) error {

		ap, err := tx.GetAppointmentWithItems(ctx, in.AppointmentID)
		if err != nil {
			return err
		}

		// Agendamento de outra barbearia não existe para quem chamou.
		if ap.BarbershopID != in.BarbershopID {
			return httperr.NotFoundErr("appointment_not_found")
		}

		if domain.IsTerminal(domain.Status(ap.Status)) {
			return httperr.InvalidStateErr("invalid_state")
		}

		oldStart = ap.StartTime

		shop, err := tx.GetBarbershopByID(ctx, ap.BarbershopID)
		if err != nil {
			return err
		}
		barber, err := tx.GetBarberByID(ctx, ap.BarberID)
		if err != nil {
			return err
		}

		// --------------------------------------------------
		// 1. Estorna o estoque dos itens atuais; o débito novo
		//    acontece adiante, tudo na mesma transação
		// --------------------------------------------------
		for _, item := range ap.Products {
			if err := tx.CreditProductStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		// --------------------------------------------------
		// 2. Serviços: lista nova (snapshot fresco) ou snapshots atuais
		// --------------------------------------------------
		var serviceItems []models.AppointmentService
		var totalPrice float64
		var totalDuration int

		if in.ServiceIDs != nil {
			serviceItems, totalPrice, totalDuration, err = resolveServices(
				ctx, tx, shop.ID, *in.ServiceIDs,
			)
			if err != nil {
				return err
			}
		} else {
			for _, item := range ap.Services {
				totalPrice += item.Price
				totalDuration += item.DurationMinutes
			}
		}

		// --------------------------------------------------
		// 3. Janela nova + revalidação de disponibilidade
		//    (excluindo o próprio agendamento do scan)
		// --------------------------------------------------
		start := ap.StartTime
		if in.StartTime != nil {
			start = *in.StartTime
		}
		end := start.Add(time.Duration(totalDuration) * time.Minute)

		if !domain.WithinBarberHours(barber, start, end) {
			return httperr.SlotUnavailableErr("outside_working_hours")
		}
		if !domain.WithinShopHours(shop, start, end) {
			return httperr.SlotUnavailableErr("outside_shop_hours")
		}

		conflicts, err := tx.CountConflicts(
			ctx, barber.ID, start, end, ap.ID,
			uc.machine.BlockingStatuses(), true,
		)
		if err != nil {
			return err
		}
		if conflicts > 0 {
			return httperr.SlotUnavailableErr("time_conflict")
		}

		// --------------------------------------------------
		// 4. Produtos: lista nova ou re-débito das linhas atuais
		// --------------------------------------------------
		if in.Products != nil {
			productItems, productsTotal, err := resolveProducts(
				ctx, tx, shop.ID, *in.Products,
			)
			if err != nil {
				return err
			}
			totalPrice += productsTotal

			if err := tx.ReplaceProductItems(ctx, ap.ID, productItems); err != nil {
				return err
			}
		} else {
			for _, item := range ap.Products {
				if err := tx.DebitProductStock(ctx, item.ProductID, item.Quantity); err != nil {
					return err
				}
				totalPrice += item.Price * float64(item.Quantity)
			}
		}

		if in.ServiceIDs != nil {
			if err := tx.ReplaceServiceItems(ctx, ap.ID, serviceItems); err != nil {
				return err
			}
		}

		// --------------------------------------------------
		// 5. Atualiza o agendamento
		// --------------------------------------------------
		ap.StartTime = start
		ap.EndTime = end
		ap.TotalPrice = totalPrice
		ap.TotalDurationMinutes = totalDuration
		if in.Notes != nil {
			ap.Notes = *in.Notes
		}

		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		updated = ap
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, updated.BarberID, oldStart)
	uc.cache.Invalidate(ctx, updated.BarberID, updated.StartTime)

	uc.audit.Dispatch(audit.Event{
		BarbershopID: updated.BarbershopID,
		Action:       "appointment_updated",
		Entity:       "appointment",
		EntityID:     &updated.ID,
		RequestID:    in.RequestID,
	})

	uc.log.Info("appointment updated",
		zap.Uint("appointment_id", updated.ID),
		zap.Time("start", updated.StartTime),
	)

	return uc.repo.GetAppointmentWithItems(ctx, updated.ID)
}
