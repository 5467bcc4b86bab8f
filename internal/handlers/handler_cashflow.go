package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/hisaabkitab/hisaab_backend/internal/apperrors"
	"github.com/hisaabkitab/hisaab_backend/internal/core/domain"
	portssvc "github.com/hisaabkitab/hisaab_backend/internal/core/ports/services"
	"github.com/hisaabkitab/hisaab_backend/internal/dto"
	"github.com/hisaabkitab/hisaab_backend/internal/middleware"
)

// cashflowHandler handles HTTP requests for the cashflow view.
type cashflowHandler struct {
	cashflowService portssvc.CashflowSvcFacade
}

func newCashflowHandler(cs portssvc.CashflowSvcFacade) *cashflowHandler {
	return &cashflowHandler{cashflowService: cs}
}

// registerCashflowRoutes registers routes related to the cashflow ledger.
func registerCashflowRoutes(rg *gin.RouterGroup, cashflowService portssvc.CashflowSvcFacade) {
	h := newCashflowHandler(cashflowService)

	cashflow := rg.Group("/cashflow")
	{
		cashflow.GET("/summary", h.getSummary)
		cashflow.GET("/entries", h.listEntries)
		cashflow.POST("/reconcile", h.reconcile)
	}
}

// parseDateParam accepts RFC3339 timestamps or plain dates.
func parseDateParam(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

func parseSummaryParams(c *gin.Context) (dto.CashflowSummaryParams, error) {
	params := dto.CashflowSummaryParams{
		Granularity: domain.Granularity(c.DefaultQuery("granularity", string(domain.Daily))),
		SearchText:  c.Query("search"),
	}

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := parseDateParam(fromStr)
		if err != nil {
			return params, errors.New("invalid 'from' date: " + fromStr)
		}
		params.From = from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := parseDateParam(toStr)
		if err != nil {
			return params, errors.New("invalid 'to' date: " + toStr)
		}
		params.To = to
	}
	if headStr := c.Query("accountHead"); headStr != "" {
		head := domain.AccountHead(headStr)
		params.AccountHead = &head
	}
	if sourceStr := c.Query("sourceType"); sourceStr != "" {
		source := domain.CashflowSourceType(sourceStr)
		params.SourceType = &source
	}
	if minStr := c.Query("minAmount"); minStr != "" {
		d, err := decimal.NewFromString(minStr)
		if err != nil {
			return params, errors.New("invalid 'minAmount': " + minStr)
		}
		m := domain.NewMoneyFromDecimal(d)
		params.MinAmount = &m
	}
	if maxStr := c.Query("maxAmount"); maxStr != "" {
		d, err := decimal.NewFromString(maxStr)
		if err != nil {
			return params, errors.New("invalid 'maxAmount': " + maxStr)
		}
		m := domain.NewMoneyFromDecimal(d)
		params.MaxAmount = &m
	}
	return params, nil
}

// getSummary godoc
// @Summary Get the cashflow summary
// @Description Buckets filtered cashflow entries by day, week or month with running totals
// @Tags cashflow
// @Produce  json
// @Param   from query string false "Window start (RFC3339 or YYYY-MM-DD)"
// @Param   to query string false "Window end (RFC3339 or YYYY-MM-DD)"
// @Param   granularity query string false "Bucket size: DAY, WEEK or MONTH (default DAY)"
// @Param   accountHead query string false "Account head filter (CASH, BANK, OTHER)"
// @Param   sourceType query string false "Source type filter"
// @Param   minAmount query string false "Minimum absolute amount"
// @Param   maxAmount query string false "Maximum absolute amount"
// @Param   search query string false "Source reference substring"
// @Success 200 {object} domain.CashflowSummary
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to summarize cashflow"
// @Security BearerAuth
// @Router /cashflow/summary [get]
func (h *cashflowHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	params, err := parseSummaryParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.cashflowService.Summarize(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to summarize cashflow", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to summarize cashflow"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// listEntries godoc
// @Summary List cashflow entries
// @Description Retrieves a page of raw entries for drill-down, oldest first
// @Tags cashflow
// @Produce  json
// @Param   from query string false "Window start (RFC3339 or YYYY-MM-DD)"
// @Param   to query string false "Window end (RFC3339 or YYYY-MM-DD)"
// @Param   accountHead query string false "Account head filter"
// @Param   sourceType query string false "Source type filter"
// @Param   search query string false "Source reference substring"
// @Param   limit query int false "Page size (default 50)"
// @Param   offset query int false "Page offset"
// @Success 200 {array} dto.CashflowEntryResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list entries"
// @Security BearerAuth
// @Router /cashflow/entries [get]
func (h *cashflowHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	summaryParams, err := parseSummaryParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	params := dto.ListCashflowEntriesParams{CashflowSummaryParams: summaryParams}
	params.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	params.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	entries, err := h.cashflowService.ListEntries(c.Request.Context(), params)
	if err != nil {
		logger.Error("Failed to list cashflow entries", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list entries"})
		return
	}

	c.JSON(http.StatusOK, dto.ToCashflowEntryResponses(entries))
}

// reconcile godoc
// @Summary Reconcile the cashflow ledger
// @Description Rebuilds entries from source payments, expenses and incomes and repairs drift
// @Tags cashflow
// @Produce  json
// @Success 200 {object} domain.ReconciliationResult
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to reconcile cashflow"
// @Security BearerAuth
// @Router /cashflow/reconcile [post]
func (h *cashflowHandler) reconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	result, err := h.cashflowService.Reconcile(c.Request.Context())
	if err != nil {
		logger.Error("Failed to reconcile cashflow", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reconcile cashflow"})
		return
	}

	logger.Info("Cashflow reconciled",
		slog.Int("inserted", result.Inserted),
		slog.Int("deleted", result.Deleted),
		slog.Int("unchanged", result.Unchanged))
	c.JSON(http.StatusOK, result)
}
