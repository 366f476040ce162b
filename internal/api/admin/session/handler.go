package session

import (
	"errors"
	"net/http"
	"time"

	"azarpredictor-backend/internal/middleware"
	"azarpredictor-backend/internal/services"
	"azarpredictor-backend/internal/utils"
	"azarpredictor-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	secret   string
	denylist *services.TokenDenylist
}

func NewHandler(secret string, denylist *services.TokenDenylist) *Handler {
	return &Handler{secret: secret, denylist: denylist}
}

// Logout godoc
// @Summary Revoke the current admin token
// @Description Adds the bearer token to the denylist until it expires. Requires redis.
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Failure 503 {object} utils.Response
// @Router /admin/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	tokenString := c.GetString(middleware.AdminTokenKey)

	// the middleware already validated the token
	claims, _ := utils.ValidateToken(h.secret, tokenString)
	exp, ok := claims["exp"].(float64)
	if !ok {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Invalid token expiration"))
		return
	}

	err := h.denylist.Add(c.Request.Context(), tokenString, time.Until(time.Unix(int64(exp), 0)))
	if err != nil {
		if errors.Is(err, services.ErrDenylistUnavailable) {
			c.JSON(http.StatusServiceUnavailable, utils.NewErrorResponse(err.Error()))
			return
		}
		logger.Log.Error("token revocation failed", zap.String("request_id", middleware.RequestID(c)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to denylist token"))
		return
	}

	logger.Log.Info("admin token revoked", zap.String("subject", c.GetString(middleware.AdminSubjectKey)))
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Logged out successfully", nil))
}
