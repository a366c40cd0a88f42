package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"claimflow-system/internal/apperr"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

func successResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func errorResponse(message string) APIResponse {
	return APIResponse{
		Success: false,
		Message: message,
	}
}

func successWithMetaResponse(message string, data interface{}, meta interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	}
}

// respondError maps the service error vocabulary to HTTP statuses. Storage
// failures stay generic: internal detail is for logs, not callers.
func respondError(c *gin.Context, err error) {
	var fieldErr *apperr.FieldError
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse("Resource not found"))
	case errors.Is(err, apperr.ErrConflict):
		c.JSON(http.StatusConflict, errorResponse("Resource was modified concurrently, retry against fresh state"))
	case errors.As(err, &fieldErr):
		c.JSON(http.StatusBadRequest, errorResponse(fieldErr.Error()))
	case errors.Is(err, apperr.ErrValidation):
		c.JSON(http.StatusBadRequest, errorResponse("Validation failed"))
	default:
		c.JSON(http.StatusInternalServerError, errorResponse("Internal server error"))
	}
}
