// File: internal/handler/ping.go
package handler

import (
	"context"
	"net/http"

	"bloodlink/internal/api"

	"github.com/labstack/echo/v4"
)

// Pinger 由 backend.Backend 實作
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingHandler 健康檢查
// @Summary     Health Check
// @Description 回傳 pong，並檢查儲存層連線是否正常
// @Tags        health
// @Produce     json
// @Success     200 {object} api.PingResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /ping [get]
func PingHandler(p Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := p.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "store unhealthy"})
		}
		return c.JSON(http.StatusOK, api.PingResponse{Message: "pong"})
	}
}
