// File: internal/router/router.go
package router

import (
	"github.com/labstack/echo/v4"

	"bloodlink/internal/backend"
	"bloodlink/internal/handler"
	"bloodlink/internal/handler/auth"
	"bloodlink/internal/handler/donations"
	"bloodlink/internal/handler/logs"
	"bloodlink/internal/handler/users"
	"bloodlink/internal/middleware"
)

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, b *backend.Backend) {
	api := e.Group("/api")

	// 健康檢查
	api.GET("/ping", handler.PingHandler(b))

	// 登入、註冊、登出
	api.POST("/auth/login", auth.LoginHandler(b))
	api.POST("/auth/register", auth.RegisterHandler(b))
	api.POST("/auth/logout", auth.LogoutHandler(b), middleware.RequireAuth)

	// 當前使用者個人資料
	apiUsersMe := api.Group("/users/me", middleware.RequireAuth)
	apiUsersMe.GET("", users.GetMyUserHandler(b))
	apiUsersMe.PUT("", users.UpdateMyUserHandler(b))
	apiUsersMe.PATCH("/password", users.UpdateMyUserPasswordHandler(b))

	// 管理員專屬 Users
	api.GET("/users", users.ListUsersHandler(b), middleware.RequireAdmin)
	api.PUT("/users/:user_id", users.UpdateUserHandler(b), middleware.RequireAdmin)

	// 捐血紀錄
	api.GET("/donations", donations.ListDonationsHandler(b), middleware.RequireAdmin)
	api.GET("/donations/me", donations.ListMyDonationsHandler(b), middleware.RequireAuth)
	api.POST("/donations", donations.CreateDonationHandler(b), middleware.RequireAuth)
	api.PATCH("/donations/:donation_id/status", donations.UpdateDonationStatusHandler(b), middleware.RequireAdmin)

	// 稽核紀錄
	api.GET("/logs", logs.ListLogsHandler(b), middleware.RequireAdmin)
}
