package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fixpoint/internal/domain"
)

// @Summary List slots
// @Tags Slots
// @Produce json
// @Param date query string false "Single date (YYYY-MM-DD)"
// @Param start query string false "Start date (YYYY-MM-DD)"
// @Param end query string false "End date (YYYY-MM-DD)"
// @Param available query bool false "Only slots with free capacity"
// @Success 200 {array} domain.Slot "Slots"
// @Failure 400 {object} errorResponseBody "Validation error"
// @Router /slots [get]
func (h *Handler) getSlots(c *gin.Context) {
	var filter domain.SlotFilter

	if dateStr := c.Query("date"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			badRequestResponse(c, "invalid date, expected YYYY-MM-DD")
			return
		}
		filter.StartDate = &date
		filter.EndDate = &date
	} else {
		if startStr := c.Query("start"); startStr != "" {
			start, err := time.Parse("2006-01-02", startStr)
			if err != nil {
				badRequestResponse(c, "invalid start date, expected YYYY-MM-DD")
				return
			}
			filter.StartDate = &start
		}
		if endStr := c.Query("end"); endStr != "" {
			end, err := time.Parse("2006-01-02", endStr)
			if err != nil {
				badRequestResponse(c, "invalid end date, expected YYYY-MM-DD")
				return
			}
			filter.EndDate = &end
		}
	}

	filter.OnlyAvailable = c.Query("available") == "true"

	slots, err := h.services.Slot.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list slots", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, slots)
}

// @Summary Generate slots
// @Description Generates bookable slots from resolved business hours; dates that already have slots are left untouched
// @Tags Slots
// @Accept json
// @Produce json
// @Param input body domain.GenerateSlotsDTO true "Generation parameters"
// @Success 201 {object} successResponseBody "Number of slots created"
// @Failure 400 {object} errorResponseBody "Validation error"
// @Failure 401 {object} errorResponseBody "Unauthorized"
// @Security ApiKeyAuth
// @Router /slots/generate [post]
func (h *Handler) generateSlots(c *gin.Context) {
	var req domain.GenerateSlotsDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("malformed slot generation payload", zap.Error(err))
		badRequestResponse(c, "malformed request body")
		return
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		badRequestResponse(c, "invalid start_date, expected YYYY-MM-DD")
		return
	}

	var created int
	if req.EndDate == "" || req.EndDate == req.StartDate {
		created, err = h.services.Slot.GenerateForDate(c.Request.Context(), start, req.DurationMinutes, req.StaffID, req.MaxCapacity)
	} else {
		var end time.Time
		end, err = time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			badRequestResponse(c, "invalid end_date, expected YYYY-MM-DD")
			return
		}
		created, err = h.services.Slot.GenerateForRange(c.Request.Context(), start, end, req.DurationMinutes, req.StaffID, req.MaxCapacity)
	}
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	createdResponse(c, gin.H{"created": created})
}

// @Summary Toggle slot availability
// @Tags Slots
// @Accept json
// @Produce json
// @Param id path int true "Slot ID"
// @Param input body object true "{\"is_available\": bool}"
// @Success 200 {object} successResponseBody
// @Failure 400 {object} errorResponseBody "Validation error"
// @Failure 401 {object} errorResponseBody "Unauthorized"
// @Failure 404 {object} errorResponseBody "Slot not found"
// @Security ApiKeyAuth
// @Router /slots/{id}/availability [put]
func (h *Handler) setSlotAvailability(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "invalid slot id")
		return
	}

	var req struct {
		IsAvailable bool `json:"is_available"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "malformed request body")
		return
	}

	if err := h.services.Slot.SetAvailability(c.Request.Context(), id, req.IsAvailable); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, gin.H{"id": id, "is_available": req.IsAvailable})
}
