package account

import (
	"errors"
	"net/http"

	"azarpredictor-backend/internal/ledger"
	"azarpredictor-backend/internal/middleware"
	"azarpredictor-backend/internal/models"
	"azarpredictor-backend/internal/services"
	"azarpredictor-backend/internal/utils"
	"azarpredictor-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	accounts *services.AccountService
}

func NewHandler(accounts *services.AccountService) *Handler {
	return &Handler{accounts: accounts}
}

// UpsertAccount godoc
// @Summary Create or update an account
// @Description Sets tier and credits of an account, creating it when missing. Credit changes are written to the ledger. Admin only.
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param user_id path string true "User ID"
// @Param body body UpsertAccountRequest true "Account settings"
// @Success 200 {object} utils.Response{data=AccountItem}
// @Success 201 {object} utils.Response{data=AccountItem}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /admin/users/{user_id} [put]
func (h *Handler) UpsertAccount(c *gin.Context) {
	var uri AccountURI
	if !utils.BindURIAndValidate(c, &uri) {
		return
	}
	var req UpsertAccountRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	acct, created, err := h.accounts.Upsert(c.Request.Context(), services.UpsertAccount{
		UserID:   uri.UserID,
		Tier:     models.Tier(req.Tier),
		Credits:  *req.Credits,
		Operator: c.GetString(middleware.AdminSubjectKey),
		IP:       c.ClientIP(),
		Device:   c.Request.UserAgent(),
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUnknownTier):
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(err.Error()))
		case errors.Is(err, ledger.ErrConcurrentUpdate):
			c.JSON(http.StatusConflict, utils.NewErrorResponse(err.Error()))
		default:
			logger.Log.Error("account upsert failed",
				zap.String("request_id", middleware.RequestID(c)),
				zap.String("user_id", uri.UserID),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to update account"))
		}
		return
	}

	status, message := http.StatusOK, "Account updated successfully"
	if created {
		status, message = http.StatusCreated, "Account created successfully"
	}
	c.JSON(status, utils.NewSuccessResponse(message, AccountItem{
		UserID:          acct.UserID,
		Tier:            acct.Tier,
		Credits:         acct.Credits,
		DailyUses:       acct.DailyUses,
		LastInteraction: acct.LastInteraction,
		Version:         acct.Version,
		UpdatedAt:       acct.UpdatedAt,
	}))
}
