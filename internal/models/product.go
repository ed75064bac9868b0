package models

import "time"

// Produto de revenda com controle de estoque. stock_quantity nunca fica
// negativo: o débito é sempre condicional dentro da transação de agendamento.
type Product struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	BarbershopID uint `gorm:"index" json:"barbershop_id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	Category    string `gorm:"size:50" json:"category"`

	Price         float64 `json:"price"`
	StockQuantity int     `gorm:"default:0" json:"stock_quantity"`
	MinStock      int     `gorm:"default:0" json:"min_stock"`

	Active bool `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
