package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fixpoint/internal/domain"
)

type errorResponseBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    int    `json:"code,omitempty"`
}

type successResponseBody struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type paginatedResponse struct {
	Data       interface{} `json:"data"`
	TotalCount int         `json:"total_count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

func successResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, successResponseBody{
		Status: "success",
		Data:   data,
	})
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, errorResponseBody{
		Status:  "error",
		Message: message,
		Code:    statusCode,
	})
}

func paginatedSuccessResponse(c *gin.Context, data interface{}, totalCount, page, pageSize int) {
	totalPages := totalCount / pageSize
	if totalCount%pageSize > 0 {
		totalPages++
	}

	c.JSON(http.StatusOK, paginatedResponse{
		Data:       data,
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}

func createdResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, successResponseBody{
		Status: "success",
		Data:   data,
	})
}

func noContentResponse(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func badRequestResponse(c *gin.Context, message string) {
	errorResponse(c, http.StatusBadRequest, message)
}

func unauthorizedResponse(c *gin.Context) {
	errorResponse(c, http.StatusUnauthorized, "authorization required")
}

func notFoundResponse(c *gin.Context, message string) {
	errorResponse(c, http.StatusNotFound, message)
}

// serviceErrorResponse maps the domain error taxonomy onto HTTP statuses.
func serviceErrorResponse(c *gin.Context, err error) {
	var (
		validationErr *domain.ValidationError
		conflictErr   *domain.ConflictError
		transitionErr *domain.InvalidTransitionError
		dependencyErr *domain.DependencyError
	)

	switch {
	case errors.Is(err, domain.ErrNotFound):
		errorResponse(c, http.StatusNotFound, "not found")
	case errors.As(err, &validationErr):
		errorResponse(c, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &conflictErr):
		errorResponse(c, http.StatusConflict, conflictErr.Error())
	case errors.As(err, &transitionErr):
		errorResponse(c, http.StatusUnprocessableEntity, transitionErr.Error())
	case errors.As(err, &dependencyErr):
		errorResponse(c, http.StatusBadGateway, dependencyErr.Error())
	default:
		errorResponse(c, http.StatusInternalServerError, "internal server error")
	}
}
