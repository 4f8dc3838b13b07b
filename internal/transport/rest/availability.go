package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @Summary Day availability
// @Description Resolves calendar rules and bookable slots for a single date
// @Tags Availability
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} domain.DayAvailability "Resolved availability"
// @Failure 400 {object} errorResponseBody "Validation error"
// @Failure 500 {object} errorResponseBody "Internal server error"
// @Router /availability [get]
func (h *Handler) getDayAvailability(c *gin.Context) {
	dateStr := c.Query("date")
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		badRequestResponse(c, "invalid date, expected YYYY-MM-DD")
		return
	}

	day, err := h.services.Availability.ResolveDay(c.Request.Context(), date)
	if err != nil {
		h.logger.Error("failed to resolve day availability", zap.String("date", dateStr), zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, day)
}

// @Summary Range availability
// @Description Resolves availability for every date in the range with a constant number of queries
// @Tags Availability
// @Produce json
// @Param start query string true "Start date (YYYY-MM-DD)"
// @Param end query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} map[string]domain.DayAvailability "Per-date availability"
// @Failure 400 {object} errorResponseBody "Validation error"
// @Failure 500 {object} errorResponseBody "Internal server error"
// @Router /availability/range [get]
func (h *Handler) getRangeAvailability(c *gin.Context) {
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

	days, err := h.services.Availability.ResolveRange(c.Request.Context(), start, end)
	if err != nil {
		h.logger.Error("failed to resolve range availability", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, days)
}
