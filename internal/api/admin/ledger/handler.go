package ledger

import (
	"fmt"
	"net/http"
	"time"

	"azarpredictor-backend/internal/models"
	"azarpredictor-backend/internal/services"
	"azarpredictor-backend/internal/utils"
	"azarpredictor-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultLimit = 20
	exportLimit  = 10000
)

type Handler struct {
	ledger *services.LedgerService
}

func NewHandler(ledger *services.LedgerService) *Handler {
	return &Handler{ledger: ledger}
}

// toFilter assumes q passed validation, so the time layouts parse.
func (q ListQuery) toFilter() services.LedgerFilter {
	filter := services.LedgerFilter{Page: q.Page, Limit: q.Limit}
	if q.UserID != "" {
		filter.UserID = &q.UserID
	}
	if q.Type != "" {
		t := models.EntryType(q.Type)
		filter.Type = &t
	}
	if start, err := time.Parse(time.RFC3339, q.StartTime); err == nil {
		filter.StartTime = &start
	}
	if end, err := time.Parse(time.RFC3339, q.EndTime); err == nil {
		filter.EndTime = &end
	}
	return filter
}

// ListEntries godoc
// @Summary List ledger entries
// @Description Get a paginated list of ledger entries, newest first. Admin only.
// @Tags admin
// @Produce json
// @Security Bearer
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param user_id query string false "Filter by user ID"
// @Param type query string false "Filter by entry type"
// @Param start_time query string false "Filter by start time (RFC3339)"
// @Param end_time query string false "Filter by end time (RFC3339)"
// @Success 200 {object} utils.Response{data=ListResponse}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /admin/ledger [get]
func (h *Handler) ListEntries(c *gin.Context) {
	var q ListQuery
	if !utils.BindQueryAndValidate(c, &q) {
		return
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = defaultLimit
	}

	entries, total, err := h.ledger.Find(c.Request.Context(), q.toFilter())
	if err != nil {
		logger.Log.Error("ledger query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to fetch ledger entries"))
		return
	}

	items := make([]EntryItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, EntryItem{
			ID:             e.ID,
			CreatedAt:      e.CreatedAt,
			UserID:         e.UserID,
			Type:           e.Type,
			Amount:         e.Amount,
			BalanceBefore:  e.BalanceBefore,
			BalanceAfter:   e.BalanceAfter,
			DailyUsesAfter: e.DailyUsesAfter,
			Reason:         e.Reason,
			Operator:       e.Operator,
			IPAddress:      e.IPAddress,
			DeviceInfo:     e.DeviceInfo,
			Hash:           e.Hash,
			Verified:       h.ledger.Verify(e),
		})
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Ledger entries retrieved successfully", ListResponse{
		Entries: items,
		Total:   total,
		Page:    q.Page,
		Limit:   q.Limit,
	}))
}

// ExportEntries godoc
// @Summary Export ledger entries
// @Description Export matching ledger entries to CSV with a hash verification column. Admin only.
// @Tags admin
// @Produce text/csv
// @Security Bearer
// @Param user_id query string false "Filter by user ID"
// @Param type query string false "Filter by entry type"
// @Param start_time query string false "Filter by start time (RFC3339)"
// @Param end_time query string false "Filter by end time (RFC3339)"
// @Success 200 {string} string "CSV content"
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /admin/ledger/export [get]
func (h *Handler) ExportEntries(c *gin.Context) {
	var q ListQuery
	if !utils.BindQueryAndValidate(c, &q) {
		return
	}
	q.Page, q.Limit = 1, exportLimit

	entries, _, err := h.ledger.Find(c.Request.Context(), q.toFilter())
	if err != nil {
		logger.Log.Error("ledger export query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to fetch ledger entries"))
		return
	}

	csvContent, err := h.ledger.GenerateCSV(entries)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to generate CSV"))
		return
	}

	filename := fmt.Sprintf("ledger_%s.csv", time.Now().Format("20060102150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", csvContent)
}
