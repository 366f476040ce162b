package user

import (
	"errors"
	"net/http"

	"azarpredictor-backend/internal/ledger"
	"azarpredictor-backend/internal/middleware"
	"azarpredictor-backend/internal/services"
	"azarpredictor-backend/internal/utils"
	"azarpredictor-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	accounts      *services.AccountService
	defaultUserID string
}

func NewHandler(accounts *services.AccountService, defaultUserID string) *Handler {
	return &Handler{accounts: accounts, defaultUserID: defaultUserID}
}

// GetStatus godoc
// @Summary Account status
// @Description Tier, balance and today's usage of an account. Read only.
// @Tags user
// @Produce json
// @Param user_id query string false "User identifier" default(test_user)
// @Success 200 {object} user.StatusResponse
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /user_status [get]
func (h *Handler) GetStatus(c *gin.Context) {
	var req StatusRequest
	if !utils.BindQueryAndValidate(c, &req) {
		return
	}
	userID := req.UserID
	if userID == "" {
		userID = h.defaultUserID
	}

	st, err := h.accounts.Status(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ledger.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, utils.NewErrorResponse("Usuario no encontrado."))
			return
		}
		logger.Log.Error("status lookup failed",
			zap.String("request_id", middleware.RequestID(c)),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Error interno al consultar el usuario."))
		return
	}

	c.JSON(http.StatusOK, StatusResponse{
		UserID:   st.UserID,
		Nivel:    st.Tier,
		Creditos: st.Credits,
		UsosHoy:  st.DailyUses,
		MaxUsos:  st.MaxUses,
	})
}
