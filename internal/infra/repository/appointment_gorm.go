package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/barberflow/agenda-api/internal/domain/appointment"
	"github.com/barberflow/agenda-api/internal/httperr"
	"github.com/barberflow/agenda-api/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Transação
// --------------------------------------------------

func (r *AppointmentGormRepository) Transact(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Lookups
// --------------------------------------------------

func (r *AppointmentGormRepository) GetBarbershopByID(
	ctx context.Context,
	id uint,
) (*models.Barbershop, error) {

	var shop models.Barbershop
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		First(&shop, id).Error; err != nil {
		return nil, notFoundOr(err, "barbershop_not_found")
	}
	return &shop, nil
}

func (r *AppointmentGormRepository) GetBarberByID(
	ctx context.Context,
	id uint,
) (*models.Barber, error) {

	var barber models.Barber
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		First(&barber, id).Error; err != nil {
		return nil, notFoundOr(err, "barber_not_found")
	}
	return &barber, nil
}

func (r *AppointmentGormRepository) GetClientByID(
	ctx context.Context,
	id uint,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).First(&client, id).Error; err != nil {
		return nil, notFoundOr(err, "client_not_found")
	}
	return &client, nil
}

func (r *AppointmentGormRepository) GetActiveService(
	ctx context.Context,
	shopID uint,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND barbershop_id = ? AND active = ?", serviceID, shopID, true).
		First(&svc).Error; err != nil {
		return nil, notFoundOr(err, "service_not_found")
	}
	return &svc, nil
}

func (r *AppointmentGormRepository) GetActiveProduct(
	ctx context.Context,
	shopID uint,
	productID uint,
) (*models.Product, error) {

	var product models.Product
	if err := r.db.WithContext(ctx).
		Where("id = ? AND barbershop_id = ? AND active = ?", productID, shopID, true).
		First(&product).Error; err != nil {
		return nil, notFoundOr(err, "product_not_found")
	}
	return &product, nil
}

// --------------------------------------------------
// Estoque
// --------------------------------------------------

// DebitProductStock debita condicionalmente: o WHERE garante que
// stock_quantity nunca fica negativo, mesmo sob concorrência.
func (r *AppointmentGormRepository) DebitProductStock(
	ctx context.Context,
	productID uint,
	quantity int,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", productID, quantity).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))

	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&models.Product{}).
			Where("id = ?", productID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return httperr.NotFoundErr("product_not_found")
		}
		return httperr.InsufficientStockErr("insufficient_stock")
	}

	return nil
}

func (r *AppointmentGormRepository) CreditProductStock(
	ctx context.Context,
	productID uint,
	quantity int,
) error {

	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", quantity)).
		Error
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	if err := r.db.WithContext(ctx).Create(ap).Error; err != nil {
		if IsExclusionConflict(err) {
			// perdedor da corrida: a constraint de não-sobreposição segurou
			return httperr.SlotUnavailableErr("time_conflict")
		}
		return err
	}
	return nil
}

func (r *AppointmentGormRepository) GetAppointmentByID(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, id).Error; err != nil {
		return nil, notFoundOr(err, "appointment_not_found")
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) GetAppointmentWithItems(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Barbershop").
		Preload("Barber").
		Preload("Client").
		Preload("Services").
		Preload("Services.Service").
		Preload("Products").
		Preload("Products.Product").
		First(&ap, id).Error; err != nil {
		return nil, notFoundOr(err, "appointment_not_found")
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	err := r.db.WithContext(ctx).
		Omit("Services", "Products", "Barbershop", "Barber", "Client").
		Save(ap).Error
	if err != nil && IsExclusionConflict(err) {
		return httperr.SlotUnavailableErr("time_conflict")
	}
	return err
}

// --------------------------------------------------
// Conflitos / disponibilidade
// --------------------------------------------------

func (r *AppointmentGormRepository) CountConflicts(
	ctx context.Context,
	barberID uint,
	start time.Time,
	end time.Time,
	excludeID uint,
	blocking []domain.Status,
	forUpdate bool,
) (int64, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("id").
		Where(
			"barber_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			barberID, statusStrings(blocking), end, start,
		)

	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	if forUpdate {
		// FOR UPDATE não combina com agregação; trava as linhas e conta
		// no cliente (o conjunto do dia é pequeno)
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var ids []uint
	if err := q.Find(&ids).Error; err != nil {
		return 0, err
	}

	return int64(len(ids)), nil
}

func (r *AppointmentGormRepository) ListIntervalsForDay(
	ctx context.Context,
	barberID uint,
	dayStart time.Time,
	dayEnd time.Time,
	blocking []domain.Status,
) ([]domain.Interval, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("start_time", "end_time").
		Where(
			"barber_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			barberID, statusStrings(blocking), dayEnd, dayStart,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Interval, 0, len(apps))
	for _, ap := range apps {
		out = append(out, domain.Interval{Start: ap.StartTime, End: ap.EndTime})
	}
	return out, nil
}

// --------------------------------------------------
// Itens de linha
// --------------------------------------------------

func (r *AppointmentGormRepository) ReplaceServiceItems(
	ctx context.Context,
	appointmentID uint,
	items []models.AppointmentService,
) error {

	if err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Delete(&models.AppointmentService{}).Error; err != nil {
		return err
	}

	if len(items) == 0 {
		return nil
	}

	for i := range items {
		items[i].AppointmentID = appointmentID
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *AppointmentGormRepository) ReplaceProductItems(
	ctx context.Context,
	appointmentID uint,
	items []models.AppointmentProduct,
) error {

	if err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Delete(&models.AppointmentProduct{}).Error; err != nil {
		return err
	}

	if len(items) == 0 {
		return nil
	}

	for i := range items {
		items[i].AppointmentID = appointmentID
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// --------------------------------------------------
// Listagem
// --------------------------------------------------

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	f domain.Filter,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Barber").
		Preload("Client").
		Preload("Services").
		Preload("Products")

	if f.BarbershopID != 0 {
		q = q.Where("barbershop_id = ?", f.BarbershopID)
	}
	if f.BarberID != 0 {
		q = q.Where("barber_id = ?", f.BarberID)
	}
	if f.ClientID != 0 {
		q = q.Where("client_id = ?", f.ClientID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if !f.From.IsZero() {
		q = q.Where("start_time >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("start_time < ?", f.To)
	}

	order := "start_time ASC"
	if f.Upcoming {
		q = q.Where("start_time >= ?", f.Now)
	}
	if f.History {
		q = q.Where("start_time < ?", f.Now)
		order = "start_time DESC"
	}

	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var apps []models.Appointment
	if err := q.Order(order).Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// --------------------------------------------------
// Helpers
// --------------------------------------------------

func statusStrings(statuses []domain.Status) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}

func notFoundOr(err error, code string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.NotFoundErr(code)
	}
	return err
}

// IsExclusionConflict detecta violação da constraint de não-sobreposição
// (23P01) ou de unicidade (23505) vinda do Postgres.
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23P01" || pgErr.Code == "23505"
	}
	return false
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
