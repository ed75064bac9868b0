package models

import (
	"time"

	"gorm.io/gorm"
)

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarbershopID uint       `gorm:"index:idx_appointments_shop_start" json:"barbershop_id"`
	Barbershop   Barbershop `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"barbershop"`

	BarberID uint   `gorm:"index:idx_appointments_barber_start" json:"barber_id"`
	Barber   Barber `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"barber"`

	ClientID uint   `gorm:"index:idx_appointments_client_start" json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	StartTime time.Time `gorm:"index:idx_appointments_barber_start;index:idx_appointments_client_start;index:idx_appointments_shop_start" json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	TotalPrice           float64 `json:"total_price"`
	TotalDurationMinutes int     `json:"total_duration_minutes"`

	Status string `gorm:"size:20;default:'scheduled'" json:"status"`
	Notes  string `gorm:"type:text" json:"notes"`

	// Itens de linha com snapshot de preço; o agendamento é dono (cascade)
	Services []AppointmentService `gorm:"constraint:OnDelete:CASCADE;" json:"services"`
	Products []AppointmentProduct `gorm:"constraint:OnDelete:CASCADE;" json:"products"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// AppointmentService é o item de linha de serviço com snapshot de
// preço/duração no momento da reserva. Único por (appointment, service).
type AppointmentService struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	AppointmentID uint `gorm:"uniqueIndex:idx_appointment_service" json:"appointment_id"`

	ServiceID uint    `gorm:"uniqueIndex:idx_appointment_service" json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AppointmentProduct é o item de linha de produto; criar/remover este
// registro anda junto com débito/crédito de estoque na mesma transação.
type AppointmentProduct struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	AppointmentID uint `gorm:"uniqueIndex:idx_appointment_product" json:"appointment_id"`

	ProductID uint    `gorm:"uniqueIndex:idx_appointment_product" json:"product_id"`
	Product   Product `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"product"`

	Quantity int     `gorm:"default:1" json:"quantity"`
	Price    float64 `json:"price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
