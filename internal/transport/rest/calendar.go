package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fixpoint/internal/domain"
)

// @Summary List business hours
// @Tags Calendar
// @Produce json
// @Success 200 {array} domain.BusinessHours "Weekday rules"
// @Failure 401 {object} errorResponseBody "Unauthorized"
// @Failure 500 {object} errorResponseBody "Internal server error"
// @Security ApiKeyAuth
// @Router /calendar/business-hours [get]
func (h *Handler) getBusinessHours(c *gin.Context) {
	hours, err := h.services.Calendar.ListBusinessHours(c.Request.Context())
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, hours)
}

// @Summary Upsert business hours
// @Description Creates or replaces the recurring rule for one weekday
// @Tags Calendar
// @Accept json
// @Produce json
// @Param input body domain.UpsertBusinessHoursDTO true "Weekday rule"
// @Success 200 {object} successResponseBody
// @Failure 400 {object} errorResponseBody "Validation error"
// @Failure 401 {object} errorResponseBody "Unauthorized"
// @Failure 500 {object} errorResponseBody "Internal server error"
// @Security ApiKeyAuth
// @Router /calendar/business-hours [put]
func (h *Handler) upsertBusinessHours(c *gin.Context) {
	var req domain.UpsertBusinessHoursDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("malformed business hours payload", zap.Error(err))
		badRequestResponse(c, "malformed request body")
		return
	}

	if err := h.services.Calendar.UpsertBusinessHours(c.Request.Context(), req); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, gin.H{"day_of_week": req.DayOfWeek})
}

// @Summary List special dates
// @Tags Calendar
// @Produce json
// @Param start query string true "Start date (YYYY-MM-DD)"
// @Param end query string true "End date (YYYY-MM-DD)"
// @Success 200 {array} domain.SpecialDate "Overrides in range"
// @Failure 400 {object} errorResponseBody "Validation error"
// @Failure 401 {object} errorResponseBody "Unauthorized"
// @Security ApiKeyAuth
// @Router /calendar/special-dates [get]
func (h *Handler) getSpecialDates(c *gin.Context) {
	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		badRequestResponse(c, "invalid start date, expected YYYY-MM-DD")
		return
	}

	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		badRequestResponse(c, "invalid end date, expected YYYY-MM-DD")
		return
	}

	specials, err := h.services.Calendar.ListSpecialDates(c.Request.Context(), start, end)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, specials)
}

// @Summary Upsert special date
// @Description Creates or replaces a closure or special-hours override for one date
// @Tags Calendar
// @Accept json
// @Produce json
// @Param input body domain.UpsertSpecialDateDTO true "Override"
// @Success 200 {object} successResponseBody
// @Failure 400 {object} errorResponseBody "Validation error"
// @Failure 401 {object} errorResponseBody "Unauthorized"
// @Security ApiKeyAuth
// @Router /calendar/special-dates [put]
func (h *Handler) upsertSpecialDate(c *gin.Context) {
	var req domain.UpsertSpecialDateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("malformed special date payload", zap.Error(err))
		badRequestResponse(c, "malformed request body")
		return
	}

	if err := h.services.Calendar.UpsertSpecialDate(c.Request.Context(), req); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, gin.H{"date": req.Date})
}

// @Summary Delete special date
// @Tags Calendar
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 204 "Deleted"
// @Failure 400 {object} errorResponseBody "Validation error"
// @Failure 401 {object} errorResponseBody "Unauthorized"
// @Failure 404 {object} errorResponseBody "Not found"
// @Security ApiKeyAuth
// @Router /calendar/special-dates/{date} [delete]
func (h *Handler) deleteSpecialDate(c *gin.Context) {
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		badRequestResponse(c, "invalid date, expected YYYY-MM-DD")
		return
	}

	if err := h.services.Calendar.DeleteSpecialDate(c.Request.Context(), date); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}
