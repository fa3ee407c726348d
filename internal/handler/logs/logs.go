package logs

import (
	"context"
	"net/http"

	"bloodlink/internal/handler"
	"bloodlink/internal/model"

	"github.com/labstack/echo/v4"
)

type Backend interface {
	GetLogs(ctx context.Context) ([]model.AuditLog, error)
}

// ListLogsHandler 回傳稽核紀錄，最新的在前
// @Summary     List audit logs
// @Tags        logs
// @Produce     json
// @Success     200 {array}  model.AuditLog
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /logs [get]
func ListLogsHandler(b Backend) echo.HandlerFunc {
	return func(c echo.Context) error {
		logs, err := b.GetLogs(c.Request().Context())
		if err != nil {
			return handler.ErrorJSON(c, err)
		}
		return c.JSON(http.StatusOK, logs)
	}
}
