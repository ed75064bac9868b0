package models

import (
	"time"

	"gorm.io/gorm"
)

// Serviço prestado (corte, barba...). O agendamento guarda snapshot de
// preço/duração, então alterações aqui não afetam agendamentos existentes.
type Service struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	BarbershopID uint `gorm:"index" json:"barbershop_id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`

	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`

	Active bool `gorm:"default:true" json:"active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
