package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/barberflow/agenda-api/internal/audit"
	"github.com/barberflow/agenda-api/internal/config"
	domain "github.com/barberflow/agenda-api/internal/domain/appointment"
	"github.com/barberflow/agenda-api/internal/handlers"
	infraRepo "github.com/barberflow/agenda-api/internal/infra/repository"
	"github.com/barberflow/agenda-api/internal/middleware"
	ucAppointment "github.com/barberflow/agenda-api/internal/usecase/appointment"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client, cfg *config.Config, log *zap.Logger) {

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	var slotCache domain.SlotCache = infraRepo.NoopSlotCache{}
	if rdb != nil {
		slotCache = infraRepo.NewRedisSlotCache(
			rdb,
			time.Duration(cfg.SlotCacheTTLSeconds)*time.Second,
			cfg.SlotStepMinutes,
			log,
		)
	}

	machine := domain.MachineFor(cfg.StatusSet)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, log)

	// ======================================================
	// 🧠 USE CASES — APPOINTMENTS
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo, slotCache, machine, auditDispatcher, log,
	)

	updateAppointmentUC := ucAppointment.NewUpdateAppointment(
		appointmentRepo, slotCache, machine, auditDispatcher, log,
	)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		appointmentRepo, slotCache, machine, auditDispatcher, log,
	)

	completeAppointmentUC := ucAppointment.NewCompleteAppointment(
		appointmentRepo, machine, auditDispatcher, log,
	)

	confirmAppointmentUC := ucAppointment.NewConfirmAppointment(
		appointmentRepo, machine, auditDispatcher, log,
	)

	markNoShowUC := ucAppointment.NewMarkNoShow(
		appointmentRepo, slotCache, machine, auditDispatcher, log,
	)

	getAvailableSlotsUC := ucAppointment.NewGetAvailableSlots(
		appointmentRepo, slotCache, machine, cfg.SlotStepMinutes, log,
	)

	isBarberAvailableUC := ucAppointment.NewIsBarberAvailable(
		appointmentRepo, machine,
	)

	listAppointmentsUC := ucAppointment.NewListAppointments(appointmentRepo)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	barbershopHandler := handlers.NewBarbershopHandler(db)
	barberHandler := handlers.NewBarberHandler(db)
	serviceHandler := handlers.NewServiceHandler(db, cfg)
	productHandler := handlers.NewProductHandler(db)
	clientHandler := handlers.NewClientHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		db,
		createAppointmentUC,
		updateAppointmentUC,
		cancelAppointmentUC,
		completeAppointmentUC,
		confirmAppointmentUC,
		markNoShowUC,
		getAvailableSlotsUC,
		isBarberAvailableUC,
		listAppointmentsUC,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me/barbershop", barbershopHandler.Get)
			secured.PATCH("/me/barbershop", barbershopHandler.Update)

			secured.GET("/me/barbers", barberHandler.List)
			secured.POST("/me/barbers", barberHandler.Create)
			secured.PATCH("/me/barbers/:id", barberHandler.Update)
			secured.DELETE("/me/barbers/:id", barberHandler.Delete)

			secured.GET("/me/services", serviceHandler.List)
			secured.POST("/me/services", serviceHandler.Create)
			secured.PATCH("/me/services/:id", serviceHandler.Update)
			secured.DELETE("/me/services/:id", serviceHandler.Delete)

			secured.GET("/me/products", productHandler.List)
			secured.POST("/me/products", productHandler.Create)
			secured.PATCH("/me/products/:id", productHandler.Update)
			secured.PATCH("/me/products/:id/stock", productHandler.AdjustStock)

			secured.GET("/me/clients", clientHandler.List)
			secured.GET("/me/clients/:id", clientHandler.Get)
			secured.POST("/me/clients", clientHandler.Create)
			secured.PATCH("/me/clients/:id", clientHandler.Update)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/me/appointments", appointmentHandler.Create)
			secured.GET("/me/appointments", appointmentHandler.List)
			secured.PATCH("/me/appointments/:id", appointmentHandler.Update)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/me/appointments/:id/complete", appointmentHandler.Complete)
			secured.PATCH("/me/appointments/:id/confirm", appointmentHandler.Confirm)
			secured.PATCH("/me/appointments/:id/no-show", appointmentHandler.NoShow)

			secured.GET("/me/barbers/:id/slots", appointmentHandler.Slots)
			secured.GET("/me/barbers/:id/availability", appointmentHandler.Available)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
