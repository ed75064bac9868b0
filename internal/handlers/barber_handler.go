package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/barberflow/agenda-api/internal/httperr"
	"github.com/barberflow/agenda-api/internal/httpresp"
	"github.com/barberflow/agenda-api/internal/middleware"
	"github.com/barberflow/agenda-api/internal/models"
)

type BarberHandler struct {
	db *gorm.DB
}

func NewBarberHandler(db *gorm.DB) *BarberHandler {
	return &BarberHandler{db: db}
}

// --------- Requests ---------

type CreateBarberRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
	Phone string `json:"phone"`

	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
	WorkingDays []int  `json:"working_days" binding:"required,min=1"`
}

type UpdateBarberRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`

	StartTime   *string `json:"start_time,omitempty"`
	EndTime     *string `json:"end_time,omitempty"`
	WorkingDays *[]int  `json:"working_days,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

// valida "15:04" e o invariante start < end
func validWorkingHours(start, end string) bool {
	s, err1 := time.Parse("15:04", start)
	e, err2 := time.Parse("15:04", end)
	return err1 == nil && err2 == nil && s.Before(e)
}

// --------- Handlers ---------

func (h *BarberHandler) List(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	var barbers []models.Barber
	if err := h.db.
		Where("barbershop_id = ?", barbershopID).
		Order("id ASC").
		Find(&barbers).Error; err != nil {
		httperr.Internal(c, "failed_to_list_barbers", "Erro ao listar barbeiros.")
		return
	}

	httpresp.List(c, barbers)
}

func (h *BarberHandler) Create(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	var req CreateBarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if !validWorkingHours(req.StartTime, req.EndTime) {
		httperr.BadRequest(c, "invalid_working_hours", "Expediente inválido (início deve vir antes do fim).")
		return
	}

	days, err := models.WeekdaySetFromInts(req.WorkingDays)
	if err != nil {
		httperr.BadRequest(c, "invalid_working_days", "Dias de trabalho inválidos.")
		return
	}

	barber := models.Barber{
		BarbershopID: barbershopID,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		WorkingDays:  days,
		Active:       true,
	}

	if err := h.db.Create(&barber).Error; err != nil {
		httperr.Internal(c, "failed_to_create_barber", "Erro ao criar barbeiro.")
		return
	}

	httpresp.Created(c, barber)
}

func (h *BarberHandler) Update(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var barber models.Barber
	if err := h.db.
		Where("id = ? AND barbershop_id = ?", id, barbershopID).
		First(&barber).Error; err != nil {
		httperr.NotFound(c, "barber_not_found", "Barbeiro não encontrado.")
		return
	}

	var req UpdateBarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if req.Name != nil {
		barber.Name = *req.Name
	}
	if req.Email != nil {
		barber.Email = *req.Email
	}
	if req.Phone != nil {
		barber.Phone = *req.Phone
	}
	if req.StartTime != nil {
		barber.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		barber.EndTime = *req.EndTime
	}
	if !validWorkingHours(barber.StartTime, barber.EndTime) {
		httperr.BadRequest(c, "invalid_working_hours", "Expediente inválido (início deve vir antes do fim).")
		return
	}
	if req.WorkingDays != nil {
		days, err := models.WeekdaySetFromInts(*req.WorkingDays)
		if err != nil {
			httperr.BadRequest(c, "invalid_working_days", "Dias de trabalho inválidos.")
			return
		}
		barber.WorkingDays = days
	}
	if req.Active != nil {
		barber.Active = *req.Active
	}

	if err := h.db.Save(&barber).Error; err != nil {
		httperr.Internal(c, "failed_to_update_barber", "Erro ao atualizar barbeiro.")
		return
	}

	httpresp.OK(c, barber)
}

// Delete é soft delete; barbeiro removido some da disponibilidade.
func (h *BarberHandler) Delete(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	res := h.db.
		Where("id = ? AND barbershop_id = ?", id, barbershopID).
		Delete(&models.Barber{})

	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_barber", "Erro ao remover barbeiro.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "barber_not_found", "Barbeiro não encontrado.")
		return
	}

	httpresp.OK(c, gin.H{"deleted": true})
}
