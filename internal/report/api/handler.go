package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	ledgerapi "github.com/hk2807/sevaledger/backend/internal/ledger/api"
	"github.com/hk2807/sevaledger/backend/internal/report/service"
)

type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

func (h *ReportHandler) RegisterRoutes(r *gin.RouterGroup) {
	reports := r.Group("/reports")
	{
		reports.GET("/funds", h.FundSummary)
	}
}

type categorySummaryResp struct {
	Category string `json:"category"`
	Code     string `json:"code"`
	Cash     string `json:"cash"`
	UPI      string `json:"upi"`
	Total    string `json:"total"`
	TxCount  int64  `json:"tx_count"`
	IsActive bool   `json:"is_active"`
}

// FundSummary returns per-category balances plus grand totals.
// GET /api/v1/reports/funds
func (h *ReportHandler) FundSummary(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"
	summary, err := h.svc.FundSummary(c.Request.Context(), includeInactive)
	if err != nil {
		ledgerapi.WriteError(c, err)
		return
	}

	categories := make([]categorySummaryResp, len(summary.Categories))
	for i, cs := range summary.Categories {
		categories[i] = categorySummaryResp{
			Category: string(cs.Category),
			Code:     cs.Code,
			Cash:     cs.Balance.Cash.String(),
			UPI:      cs.Balance.UPI.String(),
			Total:    cs.Balance.Total.String(),
			TxCount:  cs.TxCount,
			IsActive: cs.IsActive,
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"total_cash": summary.TotalCash.String(),
		"total_upi":  summary.TotalUPI.String(),
		"total":      summary.Total.String(),
	})
}
