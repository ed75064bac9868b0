package dto

import "time"

type AppointmentListDTO struct {
	ID         uint      `json:"id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Status     string    `json:"status"`
	ClientName string    `json:"client_name"`
	BarberName string    `json:"barber_name"`

	TotalPrice           float64 `json:"total_price"`
	TotalDurationMinutes int     `json:"total_duration_minutes"`
	ServiceCount         int     `json:"service_count"`
	ProductCount         int     `json:"product_count"`
}
