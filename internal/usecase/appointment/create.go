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

type ProductLine struct {
	ProductID uint
	Quantity  int
}

type CreateAppointmentInput struct {
	BarbershopID uint
	BarberID     uint
	ClientID     uint

	StartTime  time.Time
	ServiceIDs []uint
	Products   []ProductLine
	Notes      string

	RequestID string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo    domain.Repository
	cache   domain.SlotCache
	machine *domain.Machine
	audit   *audit.Dispatcher
	log     *zap.Logger
}

func NewCreateAppointment(
	repo domain.Repository,
	cache domain.SlotCache,
	machine *domain.Machine,
	auditd *audit.Dispatcher,
	log *zap.Logger,
) *CreateAppointment {
	return &CreateAppointment{
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

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	if err := validateCreateInput(in); err != nil {
		return nil, err
	}

	var created *models.Appointment

	err := uc.repo.Transact(ctx, func(tx domain.Repository) error {

		// --------------------------------------------------
		// 1. Colaboradores: barbearia, barbeiro, cliente
		// --------------------------------------------------
		shop, err := tx.GetBarbershopByID(ctx, in.BarbershopID)
		if err != nil {
			return err
		}

		barber, err := tx.GetBarberByID(ctx, in.BarberID)
		if err != nil {
			return err
		}
		if barber.BarbershopID != shop.ID {
			return httperr.NotFoundErr("barber_not_found")
		}

		if _, err := tx.GetClientByID(ctx, in.ClientID); err != nil {
			return err
		}

		// --------------------------------------------------
		// 2. Serviços: snapshot de preço/duração + totais
		// --------------------------------------------------
		serviceItems, totalPrice, totalDuration, err := resolveServices(
			ctx, tx, shop.ID, in.ServiceIDs,
		)
		if err != nil {
			return err
		}

		start := in.StartTime
		end := start.Add(time.Duration(totalDuration) * time.Minute)

		// --------------------------------------------------
		// 3. Expediente do barbeiro E horário da barbearia
		//    (dois predicados independentes, de propósito)
		// --------------------------------------------------
		if !domain.WithinBarberHours(barber, start, end) {
			return httperr.SlotUnavailableErr("outside_working_hours")
		}
		if !domain.WithinShopHours(shop, start, end) {
			return httperr.SlotUnavailableErr("outside_shop_hours")
		}

		// --------------------------------------------------
		// 4. Conflito de horário (linhas travadas até o commit)
		// --------------------------------------------------
		conflicts, err := tx.CountConflicts(
			ctx, barber.ID, start, end, 0,
			uc.machine.BlockingStatuses(), true,
		)
		if err != nil {
			return err
		}
		if conflicts > 0 {
			return httperr.SlotUnavailableErr("time_conflict")
		}

		// --------------------------------------------------
		// 5. Produtos: snapshot de preço + débito de estoque
		// --------------------------------------------------
		productItems, productsTotal, err := resolveProducts(
			ctx, tx, shop.ID, in.Products,
		)
		if err != nil {
			return err
		}
		totalPrice += productsTotal

		// --------------------------------------------------
		// 6. Persistência (appointment + itens, tudo ou nada)
		// --------------------------------------------------
		ap := &models.Appointment{
			BarbershopID:         shop.ID,
			BarberID:             barber.ID,
			ClientID:             in.ClientID,
			StartTime:            start,
			EndTime:              end,
			TotalPrice:           totalPrice,
			TotalDurationMinutes: totalDuration,
			Status:               string(uc.machine.Initial()),
			Notes:                in.Notes,
			Services:             serviceItems,
			Products:             productItems,
		}

		if err := tx.CreateAppointment(ctx, ap); err != nil {
			return err
		}

		created = ap
		return nil
	})

	if err != nil {
		if httperr.IsKind(err, httperr.KindSlotUnavailable) {
			uc.audit.Dispatch(audit.Event{
				BarbershopID: in.BarbershopID,
				UserID:       nil,
				Action:       "appointment_conflict",
				Entity:       "appointment",
				RequestID:    in.RequestID,
				Metadata: map[string]any{
					"barber_id": in.BarberID,
					"start":     in.StartTime,
				},
			})
		}
		return nil, err
	}

	uc.cache.Invalidate(ctx, created.BarberID, created.StartTime)

	uc.audit.Dispatch(audit.Event{
		BarbershopID: created.BarbershopID,
		Action:       "appointment_created",
		Entity:       "appointment",
		EntityID:     &created.ID,
		RequestID:    in.RequestID,
	})

	uc.log.Info("appointment created",
		zap.Uint("appointment_id", created.ID),
		zap.Uint("barber_id", created.BarberID),
		zap.Time("start", created.StartTime),
	)

	return uc.repo.GetAppointmentWithItems(ctx, created.ID)
}

// ======================================================
// HELPERS
// ======================================================

func validateCreateInput(in CreateAppointmentInput) error {
	if in.BarbershopID == 0 || in.BarberID == 0 || in.ClientID == 0 {
		return httperr.ValidationErr("missing_required_field")
	}
	if in.StartTime.IsZero() {
		return httperr.ValidationErr("invalid_start_time")
	}
	if err := validateServiceIDs(in.ServiceIDs); err != nil {
		return err
	}
	return validateProductLines(in.Products)
}

// validateServiceIDs garante lista não vazia e sem repetição: o item de
// linha é único por (appointment, service).
func validateServiceIDs(ids []uint) error {
	if len(ids) == 0 {
		return httperr.ValidationErr("services_required")
	}

	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return httperr.ValidationErr("duplicate_service")
		}
		seen[id] = true
	}
	return nil
}

// validateProductLines rejeita quantidade < 1 e produto repetido antes
// de qualquer débito de estoque.
func validateProductLines(lines []ProductLine) error {
	seen := make(map[uint]bool, len(lines))
	for _, p := range lines {
		if p.Quantity < 1 {
			return httperr.ValidationErr("invalid_quantity")
		}
		if seen[p.ProductID] {
			return httperr.ValidationErr("duplicate_product")
		}
		seen[p.ProductID] = true
	}
	return nil
}

func resolveServices(
	ctx context.Context,
	tx domain.Repository,
	shopID uint,
	serviceIDs []uint,
) ([]models.AppointmentService, float64, int, error) {

	items := make([]models.AppointmentService, 0, len(serviceIDs))
	var totalPrice float64
	var totalDuration int

	for _, id := range serviceIDs {
		svc, err := tx.GetActiveService(ctx, shopID, id)
		if err != nil {
			return nil, 0, 0, err
		}

		items = append(items, models.AppointmentService{
			ServiceID:       svc.ID,
			Price:           svc.Price,
			DurationMinutes: svc.DurationMinutes,
		})
		totalPrice += svc.Price
		totalDuration += svc.DurationMinutes
	}

	return items, totalPrice, totalDuration, nil
}

func resolveProducts(
	ctx context.Context,
	tx domain.Repository,
	shopID uint,
	lines []ProductLine,
) ([]models.AppointmentProduct, float64, error) {

	items := make([]models.AppointmentProduct, 0, len(lines))
	var total float64

	for _, line := range lines {
		product, err := tx.GetActiveProduct(ctx, shopID, line.ProductID)
		if err != nil {
			return nil, 0, err
		}

		if err := tx.DebitProductStock(ctx, product.ID, line.Quantity); err != nil {
			return nil, 0, err
		}

		items = append(items, models.AppointmentProduct{
			ProductID: product.ID,
			Quantity:  line.Quantity,
			Price:     product.Price,
		})
		total += product.Price * float64(line.Quantity)
	}

	return items, total, nil
}
