// File: internal/handler/auth/auth.go
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"bloodlink/internal/api"
	"bloodlink/internal/backend"
	"bloodlink/internal/handler"
	"bloodlink/internal/middleware"
	"bloodlink/internal/model"
	"bloodlink/internal/service"

	"github.com/labstack/echo/v4"
)

// TokenTTL 存取令牌有效期限
const TokenTTL = 24 * time.Hour

var (
	issueAccessToken = service.IssueAccessToken
	timeNow          = time.Now
)

// Backend 為 auth handler 需要的 backend 操作
type Backend interface {
	Login(ctx context.Context, email, password string) (model.User, error)
	Register(ctx context.Context, in backend.RegisterInput) (model.User, error)
	Logout(ctx context.Context, userID string) error
}

func respondWithToken(c echo.Context, code int, user model.User) error {
	token, err := issueAccessToken(user, TokenTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: fmt.Sprintf("failed to issue token: %v", err)})
	}
	return c.JSON(code, api.AuthResponse{
		User:        user,
		AccessToken: token,
		ExpiresAt:   timeNow().Add(TokenTTL).UTC(),
	})
}

// LoginHandler 使用 Email/Password 驗證並回傳 JWT
// @Summary     登入使用者
// @Description 使用 Email 與 Password 進行驗證，回傳使用者資料與存取令牌
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.LoginRequest true "登入資料"
// @Success     200  {object} api.AuthResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /auth/login [post]
func LoginHandler(b Backend) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: fmt.Sprintf("無效的請求資料: %v", err)})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		user, err := b.Login(c.Request().Context(), strings.ToLower(req.Email), req.Password)
		if err != nil {
			return handler.ErrorJSON(c, err)
		}
		return respondWithToken(c, http.StatusOK, user)
	}
}

// RegisterHandler 建立一般使用者帳號
// @Summary     註冊使用者
// @Description 建立角色為 USER 的新帳號 (Email 會自動轉小寫)，成功後直接回傳存取令牌
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.RegisterRequest true "註冊資料"
// @Success     201  {object} api.AuthResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     409  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /auth/register [post]
func RegisterHandler(b Backend) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RegisterRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		user, err := b.Register(c.Request().Context(), backend.RegisterInput{
			Name:       strings.TrimSpace(req.Name),
			Email:      strings.ToLower(req.Email),
			Password:   req.Password,
			Role:       model.RoleUser,
			BloodGroup: req.BloodGroup,
			Location:   req.Location,
			Phone:      req.Phone,
		})
		if err != nil {
			return handler.ErrorJSON(c, err)
		}
		return respondWithToken(c, http.StatusCreated, user)
	}
}

// LogoutHandler 清除 session 並記錄登出
// @Summary     登出
// @Tags        auth
// @Success     204 "No Content"
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /auth/logout [post]
func LogoutHandler(b Backend) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := middleware.Claims(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		if err := b.Logout(c.Request().Context(), claims.UserID); err != nil {
			return handler.ErrorJSON(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
