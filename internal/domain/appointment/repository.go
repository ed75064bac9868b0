package appointment

import (
	"context"
	"time"

	"github.com/barberflow/agenda-api/internal/models"
)

// Filter parametriza a listagem de agendamentos. Referência de "agora"
// vem de fora (Upcoming/History determinísticos e testáveis).
type Filter struct {
	BarbershopID uint
	BarberID     uint
	ClientID     uint
	Status       Status

	From time.Time
	To   time.Time

	Upcoming bool
	History  bool
	Now      time.Time

	Limit  int
	Offset int
}

type Repository interface {
	// Transact executa fn dentro de uma transação; o Repository passado
	// para fn está amarrado à transação. Qualquer erro faz rollback total.
	Transact(ctx context.Context, fn func(Repository) error) error

	// -------- Colaboradores externos (lookups) --------
	GetBarbershopByID(ctx context.Context, id uint) (*models.Barbershop, error)
	GetBarberByID(ctx context.Context, id uint) (*models.Barber, error)
	GetClientByID(ctx context.Context, id uint) (*models.Client, error)
	GetActiveService(ctx context.Context, shopID, serviceID uint) (*models.Service, error)
	GetActiveProduct(ctx context.Context, shopID, productID uint) (*models.Product, error)

	// -------- Estoque --------
	DebitProductStock(ctx context.Context, productID uint, quantity int) error
	CreditProductStock(ctx context.Context, productID uint, quantity int) error

	// -------- Appointment --------
	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	GetAppointmentByID(ctx context.Context, id uint) (*models.Appointment, error)
	GetAppointmentWithItems(ctx context.Context, id uint) (*models.Appointment, error)
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error

	// CountConflicts conta agendamentos bloqueantes do barbeiro que
	// intersectam [start, end); excludeID ignora o próprio agendamento
	// (update in place). Com forUpdate, trava as linhas (check-then-insert
	// serializado).
	CountConflicts(
		ctx context.Context,
		barberID uint,
		start time.Time,
		end time.Time,
		excludeID uint,
		blocking []Status,
		forUpdate bool,
	) (int64, error)

	ListIntervalsForDay(
		ctx context.Context,
		barberID uint,
		dayStart time.Time,
		dayEnd time.Time,
		blocking []Status,
	) ([]Interval, error)

	// -------- Itens de linha --------
	ReplaceServiceItems(ctx context.Context, appointmentID uint, items []models.AppointmentService) error
	ReplaceProductItems(ctx context.Context, appointmentID uint, items []models.AppointmentProduct) error

	// -------- Listagem --------
	ListAppointments(ctx context.Context, f Filter) ([]models.Appointment, error)
}

// SlotCache é o cache de slots por barbeiro+data. Implementação em redis;
// mutações na agenda do dia invalidam a entrada.
type SlotCache interface {
	Get(ctx context.Context, barberID uint, date time.Time) ([]TimeSlot, bool)
	Set(ctx context.Context, barberID uint, date time.Time, slots []TimeSlot)
	Invalidate(ctx context.Context, barberID uint, date time.Time)
}
