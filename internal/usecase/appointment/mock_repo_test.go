package appointment

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/barberflow/agenda-api/internal/audit"
	domain "github.com/barberflow/agenda-api/internal/domain/appointment"
	"github.com/barberflow/agenda-api/internal/httperr"
	"github.com/barberflow/agenda-api/internal/models"
)

// ======================================================
// REPOSITÓRIO EM MEMÓRIA
// ======================================================

// memRepo implementa domain.Repository em memória, com a mesma
// semântica do repositório gorm: lookups filtram ativos, débito de
// estoque é condicional e Transact desfaz tudo em caso de erro.
type memRepo struct {
	shops    map[uint]*models.Barbershop
	barbers  map[uint]*models.Barber
	clients  map[uint]*models.Client
	services map[uint]*models.Service
	products map[uint]*models.Product

	appointments map[uint]*models.Appointment
	nextID       uint
}

func newMemRepo() *memRepo {
	return &memRepo{
		shops:        map[uint]*models.Barbershop{},
		barbers:      map[uint]*models.Barber{},
		clients:      map[uint]*models.Client{},
		services:     map[uint]*models.Service{},
		products:     map[uint]*models.Product{},
		appointments: map[uint]*models.Appointment{},
		nextID:       1,
	}
}

var _ domain.Repository = (*memRepo)(nil)

// --------------------------------------------------
// Transação: snapshot do estado mutável + rollback
// --------------------------------------------------

func (r *memRepo) Transact(ctx context.Context, fn func(domain.Repository) error) error {
	productsBackup := make(map[uint]*models.Product, len(r.products))
	for id, p := range r.products {
		cp := *p
		productsBackup[id] = &cp
	}

	appointmentsBackup := make(map[uint]*models.Appointment, len(r.appointments))
	for id, ap := range r.appointments {
		appointmentsBackup[id] = cloneAppointment(ap)
	}
	nextIDBackup := r.nextID

	if err := fn(r); err != nil {
		r.products = productsBackup
		r.appointments = appointmentsBackup
		r.nextID = nextIDBackup
		return err
	}
	return nil
}

// --------------------------------------------------
// Lookups
// --------------------------------------------------

func (r *memRepo) GetBarbershopByID(ctx context.Context, id uint) (*models.Barbershop, error) {
	shop, ok := r.shops[id]
	if !ok || !shop.Active {
		return nil, httperr.NotFoundErr("barbershop_not_found")
	}
	return shop, nil
}

func (r *memRepo) GetBarberByID(ctx context.Context, id uint) (*models.Barber, error) {
	barber, ok := r.barbers[id]
	if !ok || !barber.Active {
		return nil, httperr.NotFoundErr("barber_not_found")
	}
	return barber, nil
}

func (r *memRepo) GetClientByID(ctx context.Context, id uint) (*models.Client, error) {
	client, ok := r.clients[id]
	if !ok {
		return nil, httperr.NotFoundErr("client_not_found")
	}
	return client, nil
}

func (r *memRepo) GetActiveService(ctx context.Context, shopID, serviceID uint) (*models.Service, error) {
	svc, ok := r.services[serviceID]
	if !ok || svc.BarbershopID != shopID || !svc.Active {
		return nil, httperr.NotFoundErr("service_not_found")
	}
	return svc, nil
}

func (r *memRepo) GetActiveProduct(ctx context.Context, shopID, productID uint) (*models.Product, error) {
	p, ok := r.products[productID]
	if !ok || p.BarbershopID != shopID || !p.Active {
		return nil, httperr.NotFoundErr("product_not_found")
	}
	return p, nil
}

// --------------------------------------------------
// Estoque
// --------------------------------------------------

func (r *memRepo) DebitProductStock(ctx context.Context, productID uint, quantity int) error {
	p, ok := r.products[productID]
	if !ok {
		return httperr.NotFoundErr("product_not_found")
	}
	if p.StockQuantity < quantity {
		return httperr.InsufficientStockErr("insufficient_stock")
	}
	p.StockQuantity -= quantity
	return nil
}

func (r *memRepo) CreditProductStock(ctx context.Context, productID uint, quantity int) error {
	if p, ok := r.products[productID]; ok {
		p.StockQuantity += quantity
	}
	return nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *memRepo) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	ap.ID = r.nextID
	r.nextID++

	for i := range ap.Services {
		ap.Services[i].AppointmentID = ap.ID
	}
	for i := range ap.Products {
		ap.Products[i].AppointmentID = ap.ID
	}

	r.appointments[ap.ID] = cloneAppointment(ap)
	return nil
}

func (r *memRepo) GetAppointmentByID(ctx context.Context, id uint) (*models.Appointment, error) {
	ap, ok := r.appointments[id]
	if !ok {
		return nil, httperr.NotFoundErr("appointment_not_found")
	}
	return cloneAppointment(ap), nil
}

func (r *memRepo) GetAppointmentWithItems(ctx context.Context, id uint) (*models.Appointment, error) {
	ap, ok := r.appointments[id]
	if !ok {
		return nil, httperr.NotFoundErr("appointment_not_found")
	}

	out := cloneAppointment(ap)
	if barber, ok := r.barbers[out.BarberID]; ok {
		out.Barber = *barber
	}
	if client, ok := r.clients[out.ClientID]; ok {
		out.Client = *client
	}
	return out, nil
}

// UpdateAppointment grava só os campos escalares; itens de linha mudam
// via Replace*Items, como no repositório gorm.
func (r *memRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	existing, ok := r.appointments[ap.ID]
	if !ok {
		return httperr.NotFoundErr("appointment_not_found")
	}

	clone := cloneAppointment(ap)
	clone.Services = existing.Services
	clone.Products = existing.Products
	r.appointments[ap.ID] = clone
	return nil
}

func (r *memRepo) CountConflicts(
	ctx context.Context,
	barberID uint,
	start time.Time,
	end time.Time,
	excludeID uint,
	blocking []domain.Status,
	forUpdate bool,
) (int64, error) {

	var count int64
	for _, ap := range r.appointments {
		if ap.BarberID != barberID || ap.ID == excludeID {
			continue
		}
		if !statusIn(ap.Status, blocking) {
			continue
		}
		if domain.Overlaps(start, end, ap.StartTime, ap.EndTime) {
			count++
		}
	}
	return count, nil
}

func (r *memRepo) ListIntervalsForDay(
	ctx context.Context,
	barberID uint,
	dayStart time.Time,
	dayEnd time.Time,
	blocking []domain.Status,
) ([]domain.Interval, error) {

	out := []domain.Interval{}
	for _, ap := range r.appointments {
		if ap.BarberID != barberID || !statusIn(ap.Status, blocking) {
			continue
		}
		if domain.Overlaps(dayStart, dayEnd, ap.StartTime, ap.EndTime) {
			out = append(out, domain.Interval{Start: ap.StartTime, End: ap.EndTime})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

// --------------------------------------------------
// Itens de linha
// --------------------------------------------------

func (r *memRepo) ReplaceServiceItems(ctx context.Context, appointmentID uint, items []models.AppointmentService) error {
	ap, ok := r.appointments[appointmentID]
	if !ok {
		return httperr.NotFoundErr("appointment_not_found")
	}

	replaced := make([]models.AppointmentService, len(items))
	copy(replaced, items)
	for i := range replaced {
		replaced[i].AppointmentID = appointmentID
	}
	ap.Services = replaced
	return nil
}

func (r *memRepo) ReplaceProductItems(ctx context.Context, appointmentID uint, items []models.AppointmentProduct) error {
	ap, ok := r.appointments[appointmentID]
	if !ok {
		return httperr.NotFoundErr("appointment_not_found")
	}

	replaced := make([]models.AppointmentProduct, len(items))
	copy(replaced, items)
	for i := range replaced {
		replaced[i].AppointmentID = appointmentID
	}
	ap.Products = replaced
	return nil
}

// --------------------------------------------------
// Listagem
// --------------------------------------------------

func (r *memRepo) ListAppointments(ctx context.Context, f domain.Filter) ([]models.Appointment, error) {
	out := []models.Appointment{}

	for _, ap := range r.appointments {
		if f.BarbershopID != 0 && ap.BarbershopID != f.BarbershopID {
			continue
		}
		if f.BarberID != 0 && ap.BarberID != f.BarberID {
			continue
		}
		if f.ClientID != 0 && ap.ClientID != f.ClientID {
			continue
		}
		if f.Status != "" && ap.Status != string(f.Status) {
			continue
		}
		if !f.From.IsZero() && ap.StartTime.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && !ap.StartTime.Before(f.To) {
			continue
		}
		if f.Upcoming && ap.StartTime.Before(f.Now) {
			continue
		}
		if f.History && !ap.StartTime.Before(f.Now) {
			continue
		}

		cp := cloneAppointment(ap)
		if barber, ok := r.barbers[cp.BarberID]; ok {
			cp.Barber = *barber
		}
		if client, ok := r.clients[cp.ClientID]; ok {
			cp.Client = *client
		}
		out = append(out, *cp)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })

	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []models.Appointment{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}

	return out, nil
}

// ======================================================
// HELPERS
// ======================================================

func cloneAppointment(ap *models.Appointment) *models.Appointment {
	cp := *ap
	cp.Services = make([]models.AppointmentService, len(ap.Services))
	copy(cp.Services, ap.Services)
	cp.Products = make([]models.AppointmentProduct, len(ap.Products))
	copy(cp.Products, ap.Products)
	return &cp
}

func statusIn(status string, set []domain.Status) bool {
	for _, s := range set {
		if string(s) == status {
			return true
		}
	}
	return false
}

// memSlotCache registra invalidações para os testes inspecionarem.
type memSlotCache struct {
	entries      map[string][]domain.TimeSlot
	invalidated  []string
	setCount     int
	getHitCount  int
	getMissCount int
}

func newMemSlotCache() *memSlotCache {
	return &memSlotCache{entries: map[string][]domain.TimeSlot{}}
}

func cacheKey(barberID uint, date time.Time) string {
	return fmt.Sprintf("%d:%s", barberID, date.Format("2006-01-02"))
}

func (c *memSlotCache) Get(ctx context.Context, barberID uint, date time.Time) ([]domain.TimeSlot, bool) {
	slots, ok := c.entries[cacheKey(barberID, date)]
	if ok {
		c.getHitCount++
	} else {
		c.getMissCount++
	}
	return slots, ok
}

func (c *memSlotCache) Set(ctx context.Context, barberID uint, date time.Time, slots []domain.TimeSlot) {
	c.entries[cacheKey(barberID, date)] = slots
	c.setCount++
}

func (c *memSlotCache) Invalidate(ctx context.Context, barberID uint, date time.Time) {
	delete(c.entries, cacheKey(barberID, date))
	c.invalidated = append(c.invalidated, cacheKey(barberID, date))
}

var _ domain.SlotCache = (*memSlotCache)(nil)

// ======================================================
// FIXTURES
// ======================================================

// seedScheduling monta o cenário padrão: barbearia 09:00–18:00, barbeiro
// seg–sáb 09:00–17:00, um cliente, dois serviços e um produto com estoque.
func seedScheduling(r *memRepo) {
	r.shops[1] = &models.Barbershop{
		ID:          1,
		Name:        "Navalha de Ouro",
		Slug:        "navalha-de-ouro",
		Timezone:    "America/Sao_Paulo",
		OpeningTime: "09:00",
		ClosingTime: "18:00",
		Active:      true,
	}

	r.barbers[1] = &models.Barber{
		ID:           1,
		BarbershopID: 1,
		Name:         "Carlos",
		StartTime:    "09:00",
		EndTime:      "17:00",
		WorkingDays: models.NewWeekdaySet(
			time.Monday, time.Tuesday, time.Wednesday,
			time.Thursday, time.Friday, time.Saturday,
		),
		Active: true,
	}

	r.clients[1] = &models.Client{ID: 1, BarbershopID: 1, Name: "João"}

	r.services[1] = &models.Service{
		ID: 1, BarbershopID: 1, Name: "Corte",
		Price: 30, DurationMinutes: 30, Active: true,
	}
	r.services[2] = &models.Service{
		ID: 2, BarbershopID: 1, Name: "Barba",
		Price: 45, DurationMinutes: 45, Active: true,
	}

	r.products[1] = &models.Product{
		ID: 1, BarbershopID: 1, Name: "Pomada",
		Price: 25, StockQuantity: 2, Active: true,
	}
}

func testDispatcher() *audit.Dispatcher {
	return audit.NewDispatcher(audit.New(nil), zap.NewNop())
}

// mondayAt devolve 2026-09-07 (segunda-feira) com a hora dada, em UTC.
func mondayAt(hour, min int) time.Time {
	return time.Date(2026, time.September, 7, hour, min, 0, 0, time.UTC)
}
