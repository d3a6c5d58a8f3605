package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/hk2807/sevaledger/backend/internal/ledger/domain"
	"github.com/hk2807/sevaledger/backend/internal/ledger/service"
)

type FundHandler struct {
	svc *service.FundService
}

func NewFundHandler(svc *service.FundService) *FundHandler {
	return &FundHandler{svc: svc}
}

func (h *FundHandler) RegisterRoutes(r *gin.RouterGroup) {
	funds := r.Group("/funds")
	{
		funds.POST("", h.CreateFund)
		funds.GET("", h.ListFunds)
		funds.POST("/transfer", h.Transfer)
		funds.GET("/:category", h.GetFund)
		funds.GET("/:category/transactions", h.ListTransactions)
		funds.POST("/:category/adjustments", h.Adjust)
	}
}

// CreateFund provisions the fund for a category, or returns the existing
// one. POST /api/v1/funds
func (h *FundHandler) CreateFund(c *gin.Context) {
	var req CreateFundReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	fund, err := h.svc.FindOrCreateFund(c.Request.Context(), domain.FundCategory(req.Category), actingUser(c), req.Description)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFundResp(fund))
}

// ListFunds returns active funds; ?include_inactive=true widens the list.
// GET /api/v1/funds
func (h *FundHandler) ListFunds(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"
	funds, err := h.svc.ListFunds(c.Request.Context(), includeInactive)
	if err != nil {
		WriteError(c, err)
		return
	}

	out := make([]FundResp, len(funds))
	for i := range funds {
		out[i] = toFundResp(&funds[i])
	}
	c.JSON(http.StatusOK, gin.H{"funds": out})
}

// GetFund returns the active fund for one category.
// GET /api/v1/funds/:category
func (h *FundHandler) GetFund(c *gin.Context) {
	fund, err := h.svc.GetFundByCategory(c.Request.Context(), domain.FundCategory(c.Param("category")))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFundResp(fund))
}

// ListTransactions pages a fund's ledger history.
// GET /api/v1/funds/:category/transactions?limit=&offset=
func (h *FundHandler) ListTransactions(c *gin.Context) {
	ctx := c.Request.Context()
	fund, err := h.svc.GetFundByCategory(ctx, domain.FundCategory(c.Param("category")))
	if err != nil {
		WriteError(c, err)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	txs, err := h.svc.Transactions(ctx, fund.ID, limit, offset)
	if err != nil {
		WriteError(c, err)
		return
	}
	total, err := h.svc.TransactionCount(ctx, fund.ID)
	if err != nil {
		WriteError(c, err)
		return
	}

	out := make([]TransactionResp, len(txs))
	for i := range txs {
		out[i] = toTransactionResp(&txs[i])
	}
	c.JSON(http.StatusOK, gin.H{
		"fund_id":      fund.ID,
		"total":        total,
		"transactions": out,
	})
}

// Transfer moves money between two categories.
// POST /api/v1/funds/transfer
func (h *FundHandler) Transfer(c *gin.Context) {
	var req TransferReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount format: " + req.Amount})
		return
	}

	result, err := h.svc.Transfer(c.Request.Context(),
		domain.FundCategory(req.FromCategory),
		domain.FundCategory(req.ToCategory),
		domain.PaymentMethod(req.Method),
		amount,
		actingUser(c),
		req.Description,
	)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "transfer completed",
		"debit_tx":  toTransactionResp(result.DebitTx),
		"credit_tx": toTransactionResp(result.CreditTx),
		"from":      toFundResp(result.From),
		"to":        toFundResp(result.To),
	})
}

// Adjust applies a manual credit or debit to one fund.
// POST /api/v1/funds/:category/adjustments
func (h *FundHandler) Adjust(c *gin.Context) {
	var req AdjustmentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount format: " + req.Amount})
		return
	}

	ctx := c.Request.Context()
	fund, err := h.svc.GetFundByCategory(ctx, domain.FundCategory(c.Param("category")))
	if err != nil {
		WriteError(c, err)
		return
	}

	mreq := service.MutationRequest{
		Method:      domain.PaymentMethod(req.Method),
		Amount:      amount,
		Source:      domain.SourceAdjustment,
		PerformedBy: actingUser(c),
		Description: req.Description,
	}

	var entry *domain.LedgerTransaction
	if req.Type == string(domain.TxDebit) {
		entry, err = h.svc.Debit(ctx, fund.ID, mreq)
	} else {
		entry, err = h.svc.Credit(ctx, fund.ID, mreq)
	}
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTransactionResp(entry))
}

// actingUser reads the identity the gateway middleware resolved.
func actingUser(c *gin.Context) string {
	return c.GetString("x-user-id")
}
