// File: internal/handler/errors.go
package handler

import (
	"context"
	"errors"
	"net/http"

	"bloodlink/internal/api"
	"bloodlink/internal/backend"

	"github.com/labstack/echo/v4"
)

// ErrorStatus 將 backend 錯誤對應到 HTTP 狀態碼
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, backend.ErrInvalidCredentials),
		errors.Is(err, backend.ErrInvalidCurrentPassword),
		errors.Is(err, backend.ErrNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, backend.ErrEmailExists),
		errors.Is(err, backend.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, backend.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, backend.ErrInvalidRole),
		errors.Is(err, backend.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// ErrorJSON 回傳 api.ErrorResponse
func ErrorJSON(c echo.Context, err error) error {
	return c.JSON(ErrorStatus(err), api.ErrorResponse{Message: err.Error()})
}
