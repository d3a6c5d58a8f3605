package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/hk2807/sevaledger/backend/internal/donation/domain"
	"github.com/hk2807/sevaledger/backend/internal/donation/service"
	ledgerapi "github.com/hk2807/sevaledger/backend/internal/ledger/api"
	ledger "github.com/hk2807/sevaledger/backend/internal/ledger/domain"
)

type DonationHandler struct {
	svc *service.DonationService
}

func NewDonationHandler(svc *service.DonationService) *DonationHandler {
	return &DonationHandler{svc: svc}
}

func (h *DonationHandler) RegisterRoutes(r *gin.RouterGroup) {
	donations := r.Group("/donations")
	{
		donations.POST("", h.Create)
		donations.GET("", h.List)
		donations.GET("/:id", h.Get)
		donations.POST("/:id/process", h.Process)
	}
}

// Create records a donation. POST /api/v1/donations
func (h *DonationHandler) Create(c *gin.Context) {
	var req CreateDonationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	amount := decimal.Zero
	if req.Amount != "" {
		var err error
		amount, err = decimal.NewFromString(req.Amount)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount format: " + req.Amount})
			return
		}
	}

	d, err := h.svc.Create(c.Request.Context(), service.CreateRequest{
		DonorName:    req.DonorName,
		DonorPhone:   req.DonorPhone,
		Type:         domain.DonationType(req.Type),
		Amount:       amount,
		FundCategory: ledger.FundCategory(req.FundCategory),
		Notes:        req.Notes,
		CreatedBy:    c.GetString("x-user-id"),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toDonationResp(d))
}

// List filters donations by status and fund category.
// GET /api/v1/donations?status=&category=&limit=&offset=
func (h *DonationHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	ds, err := h.svc.List(c.Request.Context(), domain.ListFilter{
		Status:   domain.DonationStatus(c.Query("status")),
		Category: c.Query("category"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	out := make([]DonationResp, len(ds))
	for i := range ds {
		out[i] = toDonationResp(&ds[i])
	}
	c.JSON(http.StatusOK, gin.H{"donations": out})
}

// Get returns one donation. GET /api/v1/donations/:id
func (h *DonationHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid donation id"})
		return
	}
	d, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDonationResp(d))
}

// Process posts a pending donation to its fund.
// POST /api/v1/donations/:id/process
func (h *DonationHandler) Process(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid donation id"})
		return
	}

	d, entry, err := h.svc.Process(c.Request.Context(), id, c.GetString("x-user-id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "donation processed",
		"donation": toDonationResp(d),
		"tx_id":    entry.ID,
	})
}

func (h *DonationHandler) writeError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrDonationNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	ledgerapi.WriteError(c, err)
}
