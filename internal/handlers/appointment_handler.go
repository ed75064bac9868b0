package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/barberflow/agenda-api/internal/domain/appointment"
	"github.com/barberflow/agenda-api/internal/httperr"
	"github.com/barberflow/agenda-api/internal/httpresp"
	"github.com/barberflow/agenda-api/internal/middleware"
	"github.com/barberflow/agenda-api/internal/models"
	ucAppointment "github.com/barberflow/agenda-api/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	db *gorm.DB

	createUC    *ucAppointment.CreateAppointment
	updateUC    *ucAppointment.UpdateAppointment
	cancelUC    *ucAppointment.CancelAppointment
	completeUC  *ucAppointment.CompleteAppointment
	confirmUC   *ucAppointment.ConfirmAppointment
	noShowUC    *ucAppointment.MarkNoShow
	slotsUC     *ucAppointment.GetAvailableSlots
	availableUC *ucAppointment.IsBarberAvailable
	listUC      *ucAppointment.ListAppointments
}

func NewAppointmentHandler(
	db *gorm.DB,
	createUC *ucAppointment.CreateAppointment,
	updateUC *ucAppointment.UpdateAppointment,
	cancelUC *ucAppointment.CancelAppointment,
	completeUC *ucAppointment.CompleteAppointment,
	confirmUC *ucAppointment.ConfirmAppointment,
	noShowUC *ucAppointment.MarkNoShow,
	slotsUC *ucAppointment.GetAvailableSlots,
	availableUC *ucAppointment.IsBarberAvailable,
	listUC *ucAppointment.ListAppointments,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:          db,
		createUC:    createUC,
		updateUC:    updateUC,
		cancelUC:    cancelUC,
		completeUC:  completeUC,
		confirmUC:   confirmUC,
		noShowUC:    noShowUC,
		slotsUC:     slotsUC,
		availableUC: availableUC,
		listUC:      listUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type AppointmentProductRequest struct {
	ID       uint `json:"id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1"`
}

type CreateAppointmentRequest struct {
	BarberID   uint                        `json:"barber_id" binding:"required"`
	ClientID   uint                        `json:"client_id" binding:"required"`
	Date       string                      `json:"date" binding:"required"`
	Time       string                      `json:"time" binding:"required"`
	ServiceIDs []uint                      `json:"service_ids" binding:"required,min=1"`
	Products   []AppointmentProductRequest `json:"products"`
	Notes      string                      `json:"notes"`
}

type UpdateAppointmentRequest struct {
	Date       *string                      `json:"date,omitempty"`
	Time       *string                      `json:"time,omitempty"`
	ServiceIDs *[]uint                      `json:"service_ids,omitempty"`
	Products   *[]AppointmentProductRequest `json:"products,omitempty"`
	Notes      *string                      `json:"notes,omitempty"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	var shop models.Barbershop
	if err := h.db.First(&shop, barbershopID).Error; err != nil {
		httperr.NotFound(c, "barbershop_not_found", "Barbearia não encontrada.")
		return
	}

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	start, err := parseDateTimeInShop(&shop, req.Date, req.Time)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
		return
	}

	in := ucAppointment.CreateAppointmentInput{
		BarbershopID: barbershopID,
		BarberID:     req.BarberID,
		ClientID:     req.ClientID,
		StartTime:    start,
		ServiceIDs:   req.ServiceIDs,
		Products:     toProductLines(req.Products),
		Notes:        req.Notes,
		RequestID:    middleware.RequestIDFrom(c),
	}

	ap, err := h.createUC.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// UPDATE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var shop models.Barbershop
	if err := h.db.First(&shop, barbershopID).Error; err != nil {
		httperr.NotFound(c, "barbershop_not_found", "Barbearia não encontrada.")
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	in := ucAppointment.UpdateAppointmentInput{
		BarbershopID:  barbershopID,
		AppointmentID: id,
		Notes:         req.Notes,
		RequestID:     middleware.RequestIDFrom(c),
	}

	if req.Date != nil && req.Time != nil {
		start, err := parseDateTimeInShop(&shop, *req.Date, *req.Time)
		if err != nil {
			httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
			return
		}
		in.StartTime = &start
	} else if req.Date != nil || req.Time != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Data e hora andam juntas.")
		return
	}

	if req.ServiceIDs != nil {
		in.ServiceIDs = req.ServiceIDs
	}
	if req.Products != nil {
		lines := toProductLines(*req.Products)
		in.Products = &lines
	}

	ap, err := h.updateUC.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// TRANSIÇÕES DE STATUS
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req CancelAppointmentRequest
	_ = c.ShouldBindJSON(&req) // motivo é opcional

	ap, err := h.cancelUC.Execute(c.Request.Context(), barbershopID, id, req.Reason)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ap, err := h.completeUC.Execute(c.Request.Context(), barbershopID, id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ap, err := h.confirmUC.Execute(c.Request.Context(), barbershopID, id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) NoShow(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ap, err := h.noShowUC.Execute(c.Request.Context(), barbershopID, id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// DISPONIBILIDADE
// ======================================================

// GET /barbers/:id/slots?date=2006-01-02
func (h *AppointmentHandler) Slots(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	barberID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var barber models.Barber
	if err := h.db.Where("barbershop_id = ?", barbershopID).
		First(&barber, barberID).Error; err != nil {
		httperr.NotFound(c, "barber_not_found", "Barbeiro não encontrado.")
		return
	}

	var shop models.Barbershop
	if err := h.db.First(&shop, barbershopID).Error; err != nil {
		httperr.NotFound(c, "barbershop_not_found", "Barbearia não encontrada.")
		return
	}

	date, err := parseDateInShop(&shop, c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	slots, err := h.slotsUC.Execute(c.Request.Context(), barbershopID, barberID, date)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, slots)
}

// GET /barbers/:id/available?date=...&start=...&end=...&exclude=...
func (h *AppointmentHandler) Available(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	barberID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var barber models.Barber
	if err := h.db.Where("barbershop_id = ?", barbershopID).
		First(&barber, barberID).Error; err != nil {
		// fail closed: barbeiro desconhecido ou de outra barbearia
		// nunca está disponível
		httpresp.OK(c, gin.H{"available": false})
		return
	}

	var shop models.Barbershop
	if err := h.db.First(&shop, barbershopID).Error; err != nil {
		httpresp.OK(c, gin.H{"available": false})
		return
	}

	start, err1 := parseDateTimeInShop(&shop, c.Query("date"), c.Query("start"))
	end, err2 := parseDateTimeInShop(&shop, c.Query("date"), c.Query("end"))
	if err1 != nil || err2 != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
		return
	}

	var excludeID uint
	if v := c.Query("exclude"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_exclude_id", "Parâmetro exclude inválido.")
			return
		}
		excludeID = uint(n)
	}

	available, err := h.availableUC.Execute(
		c.Request.Context(), barbershopID, barberID, start, end, excludeID,
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"available": available})
}

// ======================================================
// LISTAGEM
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	var shop models.Barbershop
	if err := h.db.First(&shop, barbershopID).Error; err != nil {
		httperr.NotFound(c, "barbershop_not_found", "Barbearia não encontrada.")
		return
	}

	f := domain.Filter{
		BarbershopID: barbershopID,
		Status:       domain.Status(c.Query("status")),
	}

	if v := c.Query("barber_id"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			f.BarberID = uint(n)
		}
	}
	if v := c.Query("client_id"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			f.ClientID = uint(n)
		}
	}

	if v := c.Query("date_from"); v != "" {
		from, err := parseDateInShop(&shop, v)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "date_from inválido.")
			return
		}
		f.From = from
	}
	if v := c.Query("date_to"); v != "" {
		to, err := parseDateInShop(&shop, v)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "date_to inválido.")
			return
		}
		f.To = to.AddDate(0, 0, 1) // inclusivo no dia final
	}

	switch c.Query("period") {
	case "upcoming":
		f.Upcoming = true
		f.Now = nowInShop(&shop)
	case "history":
		f.History = true
		f.Now = nowInShop(&shop)
	}

	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.Limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.Offset = n
		}
	}

	out, err := h.listUC.Execute(c.Request.Context(), f)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, out)
}

// ======================================================
// HELPERS
// ======================================================

func parseIDParam(c *gin.Context) (uint, bool) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || n == 0 {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return 0, false
	}
	return uint(n), true
}

func toProductLines(reqs []AppointmentProductRequest) []ucAppointment.ProductLine {
	lines := make([]ucAppointment.ProductLine, 0, len(reqs))
	for _, r := range reqs {
		lines = append(lines, ucAppointment.ProductLine{
			ProductID: r.ID,
			Quantity:  r.Quantity,
		})
	}
	return lines
}
