package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fixpoint/internal/domain"
)

// @Summary Book an appointment
// @Description Resolves the customer, checks for conflicts and books the appointment
// @Tags Appointments
// @Accept json
// @Produce json
// @Param input body domain.CreateAppointmentDTO true "Booking request"
// @Success 201 {object} domain.Appointment "Created appointment"
// @Failure 400 {object} errorResponseBody "Validation error"
// @Failure 409 {object} errorResponseBody "Scheduling conflict"
// @Failure 502 {object} errorResponseBody "Collaborator failure"
// @Router /appointments [post]
func (h *Handler) createAppointment(c *gin.Context) {
	var req domain.CreateAppointmentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("malformed booking payload", zap.Error(err))
		badRequestResponse(c, "malformed request body")
		return
	}

	appointment, err := h.services.Appointment.Create(c.Request.Context(), req)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	createdResponse(c, appointment)
}

// @Summary Get appointment
// @Tags Appointments
// @Produce json
// @Param id path int true "Appointment ID"
// @Success 200 {object} domain.Appointment
// @Failure 404 {object} errorResponseBody "Not found"
// @Security ApiKeyAuth
// @Router /appointments/{id} [get]
func (h *Handler) getAppointmentByID(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	appointment, err := h.services.Appointment.GetByID(c.Request.Context(), id)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, appointment)
}

// @Summary Get appointment by number
// @Tags Appointments
// @Produce json
// @Param number path string true "Appointment number"
// @Success 200 {object} domain.Appointment
// @Failure 404 {object} errorResponseBody "Not found"
// @Router /appointments/number/{number} [get]
func (h *Handler) getAppointmentByNumber(c *gin.Context) {
	appointment, err := h.services.Appointment.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, appointment)
}

// @Summary List appointments
// @Tags Appointments
// @Produce json
// @Param status query string false "Status filter"
// @Param date_from query string false "Start date (YYYY-MM-DD)"
// @Param date_to query string false "End date (YYYY-MM-DD)"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} paginatedResponse
// @Security ApiKeyAuth
// @Router /appointments [get]
func (h *Handler) getAppointments(c *gin.Context) {
	var filter domain.AppointmentFilter

	if statusStr := c.DefaultQuery("status", ""); statusStr != "" {
		status := domain.AppointmentStatus(statusStr)
		filter.Status = &status
	}

	if dateFrom := c.DefaultQuery("date_from", ""); dateFrom != "" {
		if parsed, err := time.Parse("2006-01-02", dateFrom); err == nil {
			filter.StartDate = &parsed
		}
	}

	if dateTo := c.DefaultQuery("date_to", ""); dateTo != "" {
		if parsed, err := time.Parse("2006-01-02", dateTo); err == nil {
			filter.EndDate = &parsed
		}
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	filter.Limit = limit
	filter.Offset = offset

	appointments, total, err := h.services.Appointment.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list appointments", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	page := offset/limit + 1

	paginatedSuccessResponse(c, appointments, total, page, limit)
}

// @Summary Confirm appointment
// @Tags Appointments
// @Param id path int true "Appointment ID"
// @Success 200 {object} successResponseBody
// @Failure 404 {object} errorResponseBody "Not found"
// @Failure 422 {object} errorResponseBody "Invalid transition"
// @Security ApiKeyAuth
// @Router /appointments/{id}/confirm [post]
func (h *Handler) confirmAppointment(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	if err := h.services.Appointment.Confirm(c.Request.Context(), id); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, gin.H{"id": id, "status": domain.AppointmentStatusConfirmed})
}

// @Summary Mark appointment arrived
// @Tags Appointments
// @Param id path int true "Appointment ID"
// @Success 200 {object} successResponseBody
// @Failure 404 {object} errorResponseBody "Not found"
// @Failure 422 {object} errorResponseBody "Invalid transition"
// @Security ApiKeyAuth
// @Router /appointments/{id}/arrive [post]
func (h *Handler) markAppointmentArrived(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	if err := h.services.Appointment.MarkArrived(c.Request.Context(), id); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, gin.H{"id": id, "status": domain.AppointmentStatusArrived})
}

// @Summary Mark appointment no-show
// @Tags Appointments
// @Param id path int true "Appointment ID"
// @Success 200 {object} successResponseBody
// @Failure 404 {object} errorResponseBody "Not found"
// @Failure 422 {object} errorResponseBody "Invalid transition"
// @Security ApiKeyAuth
// @Router /appointments/{id}/no-show [post]
func (h *Handler) markAppointmentNoShow(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	if err := h.services.Appointment.MarkNoShow(c.Request.Context(), id); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, gin.H{"id": id, "status": domain.AppointmentStatusNoShow})
}

// @Summary Cancel appointment
// @Description Cancels the appointment, releases any reserved slot and sends a cancellation notice
// @Tags Appointments
// @Accept json
// @Param id path int true "Appointment ID"
// @Param input body domain.CancelAppointmentDTO true "Cancellation reason"
// @Success 200 {object} successResponseBody
// @Failure 400 {object} errorResponseBody "Missing reason"
// @Failure 404 {object} errorResponseBody "Not found"
// @Failure 422 {object} errorResponseBody "Invalid transition"
// @Security ApiKeyAuth
// @Router /appointments/{id} [delete]
func (h *Handler) cancelAppointment(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	var req domain.CancelAppointmentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "cancellation reason is required")
		return
	}

	if err := h.services.Appointment.Cancel(c.Request.Context(), id, req.Reason); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, gin.H{"id": id, "status": domain.AppointmentStatusCancelled})
}

// @Summary Reschedule appointment
// @Tags Appointments
// @Accept json
// @Param id path int true "Appointment ID"
// @Param input body domain.RescheduleAppointmentDTO true "New date and time"
// @Success 200 {object} successResponseBody
// @Failure 400 {object} errorResponseBody "Validation error"
// @Failure 409 {object} errorResponseBody "Scheduling conflict"
// @Failure 422 {object} errorResponseBody "Invalid transition"
// @Security ApiKeyAuth
// @Router /appointments/{id}/reschedule [put]
func (h *Handler) rescheduleAppointment(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	var req domain.RescheduleAppointmentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "malformed request body")
		return
	}

	if err := h.services.Appointment.Reschedule(c.Request.Context(), id, req); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, gin.H{"id": id})
}

// @Summary Convert appointment to ticket
// @Description Creates a repair ticket from the appointment; the appointment flips to converted only if ticket creation succeeds
// @Tags Appointments
// @Accept json
// @Produce json
// @Param id path int true "Appointment ID"
// @Param input body domain.ConvertAppointmentDTO false "Overrides"
// @Success 201 {object} successResponseBody "Created ticket id"
// @Failure 404 {object} errorResponseBody "Not found"
// @Failure 422 {object} errorResponseBody "Invalid transition"
// @Failure 502 {object} errorResponseBody "Ticket subsystem failure"
// @Security ApiKeyAuth
// @Router /appointments/{id}/convert [post]
func (h *Handler) convertAppointment(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	var req domain.ConvertAppointmentDTO
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequestResponse(c, "malformed request body")
			return
		}
	}

	ticketID, err := h.services.Appointment.ConvertToTicket(c.Request.Context(), id, req)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	createdResponse(c, gin.H{"appointment_id": id, "ticket_id": ticketID})
}

func appointmentID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "invalid appointment id")
		return 0, false
	}
	return id, true
}
