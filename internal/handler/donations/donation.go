// File: internal/handler/donations/donation.go
package donations

import (
	"context"
	"errors"
	"net/http"

	"bloodlink/internal/api"
	"bloodlink/internal/backend"
	"bloodlink/internal/handler"
	"bloodlink/internal/middleware"
	"bloodlink/internal/model"

	"github.com/labstack/echo/v4"
)

// Backend 為 donations handler 需要的 backend 操作
type Backend interface {
	GetDonations(ctx context.Context) ([]model.DonationRecord, error)
	GetUserDonations(ctx context.Context, userID string) ([]model.DonationRecord, error)
	AddDonation(ctx context.Context, in backend.DonationInput) (model.DonationRecord, error)
	UpdateDonationStatus(ctx context.Context, id string, status model.DonationStatus, adminID string) error
	GetUser(ctx context.Context, userID string) (model.User, error)
}

// @Summary     List all donations
// @Description 回傳所有捐血紀錄，最新的在前
// @Tags        donations
// @Produce     json
// @Success     200 {array}  model.DonationRecord
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /donations [get]
func ListDonationsHandler(b Backend) echo.HandlerFunc {
	return func(c echo.Context) error {
		rows, err := b.GetDonations(c.Request().Context())
		if err != nil {
			return handler.ErrorJSON(c, err)
		}
		return c.JSON(http.StatusOK, rows)
	}
}

// @Summary     List my donations
// @Description 回傳當前使用者的捐血紀錄
// @Tags        donations
// @Produce     json
// @Success     200 {array}  model.DonationRecord
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /donations/me [get]
func ListMyDonationsHandler(b Backend) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := middleware.Claims(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		rows, err := b.GetUserDonations(c.Request().Context(), claims.UserID)
		if err != nil {
			return handler.ErrorJSON(c, err)
		}
		return c.JSON(http.StatusOK, rows)
	}
}

// @Summary     Log a donation
// @Description 一般使用者只能替自己登記，狀態固定為 PENDING；管理員可指定 userId 與 status
// @Tags        donations
// @Accept      json
// @Produce     json
// @Param       body body     api.CreateDonationRequest true "捐血資料"
// @Success     201  {object} model.DonationRecord
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /donations [post]
func CreateDonationHandler(b Backend) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.CreateDonationRequest
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

		in := backend.DonationInput{
			UserID:         req.UserID,
			UserName:       req.UserName,
			UserBloodGroup: req.UserBloodGroup,
			DonationDate:   req.DonationDate,
			Location:       req.Location,
			Units:          req.Units,
			Status:         model.DonationStatus(req.Status),
		}
		// 非管理員只能替自己登記待審核紀錄
		if !claims.IsAdmin() {
			in.UserID = claims.UserID
			in.UserName = ""
			in.UserBloodGroup = ""
			in.Status = model.DonationPending
		}
		if in.UserID == "" {
			in.UserID = claims.UserID
		}

		// 名字與血型沒帶時從使用者資料補上；找不到使用者時照原樣寫入
		if in.UserName == "" || in.UserBloodGroup == "" {
			owner, err := b.GetUser(c.Request().Context(), in.UserID)
			if err != nil && !errors.Is(err, backend.ErrUserNotFound) {
				return handler.ErrorJSON(c, err)
			}
			if err == nil {
				if in.UserName == "" {
					in.UserName = owner.Name
				}
				if in.UserBloodGroup == "" {
					in.UserBloodGroup = owner.BloodGroup
				}
			}
		}

		rec, err := b.AddDonation(c.Request().Context(), in)
		if err != nil {
			return handler.ErrorJSON(c, err)
		}
		return c.JSON(http.StatusCreated, rec)
	}
}

// @Summary     Update donation status
// @Description 將待審核的捐血紀錄標記為 COMPLETED 或 REJECTED
// @Tags        donations
// @Accept      json
// @Produce     json
// @Param       donation_id path string                          true "捐血紀錄 ID"
// @Param       body        body api.UpdateDonationStatusRequest true "新狀態"
// @Success     204         "No Content"
// @Failure     400         {object} api.ErrorResponse
// @Failure     401         {object} api.ErrorResponse
// @Failure     403         {object} api.ErrorResponse
// @Failure     409         {object} api.ErrorResponse
// @Failure     500         {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /donations/{donation_id}/status [patch]
func UpdateDonationStatusHandler(b Backend) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("donation_id")
		if id == "" {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid donation ID"})
		}

		var req api.UpdateDonationStatusRequest
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

		if err := b.UpdateDonationStatus(c.Request().Context(), id, model.DonationStatus(req.Status), claims.UserID); err != nil {
			return handler.ErrorJSON(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
