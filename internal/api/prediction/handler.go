package prediction

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"azarpredictor-backend/internal/ledger"
	"azarpredictor-backend/internal/metrics"
	"azarpredictor-backend/internal/middleware"
	"azarpredictor-backend/internal/services"
	"azarpredictor-backend/internal/utils"
	"azarpredictor-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	predictions   *services.PredictionService
	defaultUserID string
}

func NewHandler(predictions *services.PredictionService, defaultUserID string) *Handler {
	return &Handler{predictions: predictions, defaultUserID: defaultUserID}
}

// Generate godoc
// @Summary Generate combinations
// @Description Charges the caller's account according to its tier and returns the generated combinations.
// @Tags prediction
// @Produce json
// @Param user_id query string false "User identifier" default(test_user)
// @Success 200 {object} prediction.GenerateResponse
// @Failure 400 {object} utils.Response
// @Failure 403 {object} utils.Response "status limit or no_credits"
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /generar_ia [get]
func (h *Handler) Generate(c *gin.Context) {
	start := time.Now()
	defer func() {
		metrics.PredictionDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	var req GenerateRequest
	if !utils.BindQueryAndValidate(c, &req) {
		return
	}
	userID := req.UserID
	if userID == "" {
		userID = h.defaultUserID
	}

	res, err := h.predictions.Generate(c.Request.Context(), userID, services.RequestMeta{
		IP:     c.ClientIP(),
		Device: c.Request.UserAgent(),
	})
	if err != nil {
		h.writeError(c, userID, err)
		return
	}

	metrics.PredictionRequestsTotal.WithLabelValues(string(res.Tier), "success").Inc()
	metrics.CombinationsGeneratedTotal.Add(float64(len(res.Combinations)))
	metrics.CreditsChargedTotal.Add(float64(res.Charged))

	message := fmt.Sprintf("Pronóstico Ilimitado nivel %s generado.", res.Tier)
	if res.Metered {
		message = fmt.Sprintf("Pronóstico %s generado. Créditos restantes: %d", tierLabel(res.Tier), *res.RemainingCredits)
	}

	c.JSON(http.StatusOK, GenerateResponse{
		Status:            utils.StatusSuccess,
		Message:           message,
		Data:              res.Combinations,
		CreditosRestantes: res.RemainingCredits,
	})
}

func (h *Handler) writeError(c *gin.Context, userID string, err error) {
	var (
		quotaErr  *ledger.QuotaError
		creditErr *ledger.CreditError
	)

	switch {
	case errors.Is(err, ledger.ErrUserNotFound):
		metrics.PredictionRequestsTotal.WithLabelValues("unknown", "not_found").Inc()
		c.JSON(http.StatusNotFound, utils.NewErrorResponse("Por favor, regístrese primero."))

	case errors.As(err, &quotaErr):
		metrics.PredictionRequestsTotal.WithLabelValues("metered", utils.StatusLimit).Inc()
		c.JSON(http.StatusForbidden, utils.NewStatusResponse(utils.StatusLimit,
			fmt.Sprintf("Límite diario (%d pronósticos) alcanzado. Vuelve mañana.", quotaErr.Limit)))

	case errors.As(err, &creditErr):
		metrics.PredictionRequestsTotal.WithLabelValues("metered", utils.StatusNoCredits).Inc()
		c.JSON(http.StatusForbidden, utils.NewStatusResponse(utils.StatusNoCredits,
			fmt.Sprintf("Créditos insuficientes (%d/%d).", creditErr.Credits, creditErr.Cost)))

	case errors.Is(err, ledger.ErrConcurrentUpdate):
		metrics.PredictionRequestsTotal.WithLabelValues("unknown", "conflict").Inc()
		c.JSON(http.StatusConflict, utils.NewErrorResponse("La cuenta fue modificada por otra solicitud. Inténtelo de nuevo."))

	default:
		metrics.PredictionRequestsTotal.WithLabelValues("unknown", "error").Inc()
		_ = c.Error(err)
		logger.Log.Error("prediction failed",
			zap.String("request_id", middleware.RequestID(c)),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Error interno al generar el pronóstico."))
	}
}
