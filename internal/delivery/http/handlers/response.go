package handlers

import (
	"log/slog"
	"net/http"

	"github.com/LavaJover/trust-marketplace-service/internal/delivery/http/dto"
	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	"github.com/gin-gonic/gin"
)

func SuccessResponse(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, dto.Envelope{Success: true, Data: data})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.Envelope{Success: false, Error: &dto.ErrorBody{Message: message}})
}

// StatusFor maps an error to its HTTP status by domain error kind.
func StatusFor(err error) int {
	switch domain.Kind(err) {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindState:
		return http.StatusUnprocessableEntity
	case domain.KindExternal:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// HandleError writes err with the status of its kind. Internal errors are logged.
func HandleError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed", "route", c.FullPath(), "error", err)
	}
	ErrorResponse(c, status, err.Error())
}

// bindJSON decodes the body into req and writes a 400 on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}
