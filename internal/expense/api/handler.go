package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/hk2807/sevaledger/backend/internal/expense/domain"
	"github.com/hk2807/sevaledger/backend/internal/expense/service"
	ledgerapi "github.com/hk2807/sevaledger/backend/internal/ledger/api"
	ledger "github.com/hk2807/sevaledger/backend/internal/ledger/domain"
)

type ExpenseHandler struct {
	svc *service.ExpenseService
}

func NewExpenseHandler(svc *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{svc: svc}
}

func (h *ExpenseHandler) RegisterRoutes(r *gin.RouterGroup) {
	expenses := r.Group("/expenses")
	{
		expenses.POST("", h.Create)
		expenses.GET("", h.List)
		expenses.GET("/:id", h.Get)
		expenses.POST("/:id/allocate", h.Allocate)
	}
}

// Create records an expense. POST /api/v1/expenses
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req CreateExpenseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount format: " + req.Amount})
		return
	}

	e, err := h.svc.Create(c.Request.Context(), service.CreateRequest{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Amount:      amount,
		CreatedBy:   c.GetString("x-user-id"),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toExpenseResp(e))
}

// List filters expenses by status and category.
// GET /api/v1/expenses?status=&category=&limit=&offset=
func (h *ExpenseHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	es, err := h.svc.List(c.Request.Context(), domain.ListFilter{
		Status:   domain.ExpenseStatus(c.Query("status")),
		Category: c.Query("category"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	out := make([]ExpenseResp, len(es))
	for i := range es {
		out[i] = toExpenseResp(&es[i])
	}
	c.JSON(http.StatusOK, gin.H{"expenses": out})
}

// Get returns one expense. GET /api/v1/expenses/:id
func (h *ExpenseHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expense id"})
		return
	}
	e, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toExpenseResp(e))
}

// Allocate pays a pending expense out of a fund.
// POST /api/v1/expenses/:id/allocate
func (h *ExpenseHandler) Allocate(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expense id"})
		return
	}

	var req AllocateExpenseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	e, entry, err := h.svc.Allocate(c.Request.Context(), id,
		ledger.FundCategory(req.FundCategory),
		ledger.PaymentMethod(req.Method),
		c.GetString("x-user-id"),
	)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "expense allocated",
		"expense": toExpenseResp(e),
		"tx_id":   entry.ID,
	})
}

func (h *ExpenseHandler) writeError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrExpenseNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	ledgerapi.WriteError(c, err)
}
