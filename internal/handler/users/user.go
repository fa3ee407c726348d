package users

import (
	"context"
	"net/http"
	"strings"

	"bloodlink/internal/api"
	"bloodlink/internal/backend"
	"bloodlink/internal/handler"
	"bloodlink/internal/middleware"
	"bloodlink/internal/model"

	"github.com/labstack/echo/v4"
)

const errSuperAdminOnly = "only a super admin can grant or revoke SUPERADMIN"

// Backend 為 users handler 需要的 backend 操作
type Backend interface {
	GetUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, userID string) (model.User, error)
	UpdateUserProfile(ctx context.Context, userID string, patch backend.ProfileUpdate) (model.User, error)
	ChangePassword(ctx context.Context, userID, current, newPassword string) error
}

func profilePatch(req api.UpdateUserRequest) backend.ProfileUpdate {
	patch := backend.ProfileUpdate{
		Name:             req.Name,
		BloodGroup:       req.BloodGroup,
		Location:         req.Location,
		Phone:            req.Phone,
		LastDonationDate: req.LastDonationDate,
	}
	if req.Email != nil {
		email := strings.ToLower(*req.Email)
		patch.Email = &email
	}
	return patch
}

// @Summary     List users
// @Description 回傳所有使用者 (不含密碼)
// @Tags        users
// @Produce     json
// @Success     200 {array}  model.User
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users [get]
func ListUsersHandler(b Backend) echo.HandlerFunc {
	return func(c echo.Context) error {
		users, err := b.GetUsers(c.Request().Context())
		if err != nil {
			return handler.ErrorJSON(c, err)
		}
		return c.JSON(http.StatusOK, users)
	}
}

// @Summary     Update a user by ID
// @Description 管理員更新任一使用者的個人資料與角色；只覆寫有帶的欄位
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       user_id path     string                     true "使用者 ID"
// @Param       body    body     api.AdminUpdateUserRequest true "要更新的欄位"
// @Success     200     {object} model.User
// @Failure     400     {object} api.ErrorResponse
// @Failure     401     {object} api.ErrorResponse
// @Failure     403     {object} api.ErrorResponse
// @Failure     404     {object} api.ErrorResponse
// @Failure     409     {object} api.ErrorResponse
// @Failure     500     {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/{user_id} [put]
func UpdateUserHandler(b Backend) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("user_id")
		if id == "" {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid user ID"})
		}

		var req api.AdminUpdateUserRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		claims, ok := middleware.Claims(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		ctx := c.Request().Context()
		patch := profilePatch(req.UpdateUserRequest)
		if req.Role != nil {
			role := model.Role(*req.Role)
			// 只有 SUPERADMIN 可以授予或撤銷 SUPERADMIN
			if claims.Role != model.RoleSuperAdmin {
				if role == model.RoleSuperAdmin {
					return c.JSON(http.StatusForbidden, api.ErrorResponse{Message: errSuperAdminOnly})
				}
				target, err := b.GetUser(ctx, id)
				if err != nil {
					return handler.ErrorJSON(c, err)
				}
				if target.Role == model.RoleSuperAdmin {
					return c.JSON(http.StatusForbidden, api.ErrorResponse{Message: errSuperAdminOnly})
				}
			}
			patch.Role = &role
		}
		user, err := b.UpdateUserProfile(ctx, id, patch)
		if err != nil {
			return handler.ErrorJSON(c, err)
		}
		return c.JSON(http.StatusOK, user)
	}
}

// @Summary     Get current user info
// @Description 透過 JWT Token 取得當前使用者詳細資訊
// @Tags        users
// @Produce     json
// @Success     200 {object} model.User
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me [get]
func GetMyUserHandler(b Backend) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := middleware.Claims(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		user, err := b.GetUser(c.Request().Context(), claims.UserID)
		if err != nil {
			return handler.ErrorJSON(c, err)
		}
		return c.JSON(http.StatusOK, user)
	}
}

// @Summary     Update current user info
// @Description 使用 JWT 更新當前使用者的個人資料，角色不可自行修改
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       body body     api.UpdateUserRequest true "要更新的欄位"
// @Success     200  {object} model.User
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     409  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me [put]
func UpdateMyUserHandler(b Backend) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.UpdateUserRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		claims, ok := middleware.Claims(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		user, err := b.UpdateUserProfile(c.Request().Context(), claims.UserID, profilePatch(req))
		if err != nil {
			return handler.ErrorJSON(c, err)
		}
		return c.JSON(http.StatusOK, user)
	}
}

// @Summary     Update own password
// @Description 驗證目前密碼並更新為新密碼
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       body body api.UpdateMyPasswordRequest true "目前密碼與新密碼"
// @Success     204  "No Content"
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me/password [patch]
func UpdateMyUserPasswordHandler(b Backend) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.UpdateMyPasswordRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		claims, ok := middleware.Claims(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		if err := b.ChangePassword(c.Request().Context(), claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
			return handler.ErrorJSON(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
