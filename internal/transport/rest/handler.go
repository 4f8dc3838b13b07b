package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fixpoint/config"
	"fixpoint/internal/service"
	"fixpoint/pkg/auth"
)

type Handler struct {
	services *service.Services
	logger   *zap.Logger
	config   *config.Config
	tokens   *auth.TokenManager
}

func NewHandler(services *service.Services, logger *zap.Logger, config *config.Config, tokens *auth.TokenManager) *Handler {
	return &Handler{
		services: services,
		logger:   logger,
		config:   config,
		tokens:   tokens,
	}
}

func (h *Handler) InitRoutes(router *gin.Engine) {
	router.Use(h.loggerMiddleware())

	router.Use(h.metricsMiddleware())

	router.Use(h.corsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.config.Version})
	})

	api := router.Group("/api/v1")
	{
		availability := api.Group("/availability")
		{
			availability.GET("/", h.getDayAvailability)
			availability.GET("/range", h.getRangeAvailability)
		}

		calendar := api.Group("/calendar")
		calendar.Use(h.authMiddleware())
		{
			calendar.GET("/business-hours", h.getBusinessHours)
			calendar.PUT("/business-hours", h.upsertBusinessHours)

			calendar.GET("/special-dates", h.getSpecialDates)
			calendar.PUT("/special-dates", h.upsertSpecialDate)
			calendar.DELETE("/special-dates/:date", h.deleteSpecialDate)
		}

		slots := api.Group("/slots")
		{
			slots.GET("/", h.getSlots)

			auth := slots.Group("/", h.authMiddleware())
			{
				auth.POST("/generate", h.generateSlots)
				auth.PUT("/:id/availability", h.setSlotAvailability)
			}
		}

		appointments := api.Group("/appointments")
		{
			appointments.POST("/", h.createAppointment)
			appointments.GET("/number/:number", h.getAppointmentByNumber)

			auth := appointments.Group("/")
			auth.Use(h.authMiddleware())
			{
				auth.GET("/", h.getAppointments)
				auth.GET("/:id", h.getAppointmentByID)
				auth.POST("/:id/confirm", h.confirmAppointment)
				auth.POST("/:id/arrive", h.markAppointmentArrived)
				auth.POST("/:id/no-show", h.markAppointmentNoShow)
				auth.POST("/:id/convert", h.convertAppointment)
				auth.PUT("/:id/reschedule", h.rescheduleAppointment)
				auth.DELETE("/:id", h.cancelAppointment)
			}
		}
	}
}
