package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const (
	Banner       = "Motor de IA de AzarPredictor Activo."
	probeTimeout = 2 * time.Second
)

type CheckResponse struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Redis     string    `json:"redis"`
	Timestamp time.Time `json:"timestamp"`
}

// Handler reports liveness. Redis only degrades the status since the
// service runs without its cache; a nil client is reported as disabled.
type Handler struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewHandler(db *gorm.DB, rdb *redis.Client) *Handler {
	return &Handler{db: db, redis: rdb}
}

// Root godoc
// @Summary Service banner
// @Produce plain
// @Success 200 {string} string
// @Router / [get]
func (h *Handler) Root(c *gin.Context) {
	c.String(http.StatusOK, Banner)
}

// Check godoc
// @Summary Health check
// @Description Pings the database and, when configured, redis.
// @Tags health
// @Produce json
// @Success 200 {object} health.CheckResponse
// @Failure 503 {object} health.CheckResponse
// @Router /healthz [get]
func (h *Handler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	resp := CheckResponse{Status: "ok", Database: "ok", Redis: "disabled", Timestamp: time.Now()}

	code := http.StatusOK
	if err := h.pingDB(ctx); err != nil {
		code = http.StatusServiceUnavailable
		resp.Status, resp.Database = "down", err.Error()
	}
	if h.redis != nil {
		resp.Redis = "ok"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			resp.Redis = err.Error()
			if code == http.StatusOK {
				resp.Status = "degraded"
			}
		}
	}

	c.JSON(code, resp)
}

func (h *Handler) pingDB(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
