package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hk2807/sevaledger/backend/internal/donation/domain"
	ledger "github.com/hk2807/sevaledger/backend/internal/ledger/domain"
	ledgersvc "github.com/hk2807/sevaledger/backend/internal/ledger/service"
)

// Ledger is the slice of the fund service donation processing needs.
type Ledger interface {
	FindOrCreateFund(ctx context.Context, category ledger.FundCategory, performedBy, description string) (*ledger.Fund, error)
	Credit(ctx context.Context, fundID int64, req ledgersvc.MutationRequest) (*ledger.LedgerTransaction, error)
}

// CreateRequest records a new donation. Amount arrives as a decimal
// string from the API layer.
type CreateRequest struct {
	DonorName    string
	DonorPhone   string
	Type         domain.DonationType
	Amount       decimal.Decimal
	FundCategory ledger.FundCategory
	Notes        string
	CreatedBy    string
}

type DonationService struct {
	donations domain.DonationRepository
	ledger    Ledger
	logger    *zap.Logger
}

func NewDonationService(donations domain.DonationRepository, l Ledger, logger *zap.Logger) *DonationService {
	return &DonationService{donations: donations, ledger: l, logger: logger}
}

// Create records a donation in pending state. Monetary donations stay
// pending until Process posts them to a fund.
func (s *DonationService) Create(ctx context.Context, req CreateRequest) (*domain.Donation, error) {
	switch {
	case strings.TrimSpace(req.DonorName) == "":
		return nil, ledger.NewValidationError("donor_name", "donor name is required")
	case !req.Type.IsValid():
		return nil, ledger.NewValidationError("type", fmt.Sprintf("unknown donation type %q", req.Type))
	case req.Type.IsMonetary() && !req.Amount.IsPositive():
		return nil, ledger.NewValidationError("amount", "amount must be positive")
	}

	category := req.FundCategory
	if category == "" {
		category = ledger.CategoryGeneral
	}
	if !category.IsValid() {
		return nil, ledger.NewValidationError("fund_category", fmt.Sprintf("unknown fund category %q", category))
	}

	d := &domain.Donation{
		ReceiptNo:    receiptNo(),
		DonorName:    strings.TrimSpace(req.DonorName),
		DonorPhone:   req.DonorPhone,
		Type:         req.Type,
		Amount:       req.Amount,
		FundCategory: category,
		Status:       domain.StatusPending,
		Notes:        req.Notes,
		CreatedBy:    req.CreatedBy,
	}
	if err := s.donations.Create(ctx, d); err != nil {
		return nil, err
	}

	s.logger.Info("donation recorded",
		zap.String("receipt_no", d.ReceiptNo),
		zap.String("type", string(d.Type)),
		zap.String("amount", d.Amount.String()),
	)
	return d, nil
}

func (s *DonationService) Get(ctx context.Context, id int64) (*domain.Donation, error) {
	return s.donations.FindByID(ctx, id)
}

func (s *DonationService) List(ctx context.Context, f domain.ListFilter) ([]domain.Donation, error) {
	return s.donations.List(ctx, f)
}

// Process posts a pending monetary donation to its fund: resolve or
// create the fund for the donation's category, credit it, then mark the
// donation processed so it cannot post twice.
func (s *DonationService) Process(ctx context.Context, id int64, performedBy string) (*domain.Donation, *ledger.LedgerTransaction, error) {
	d, err := s.donations.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if d.Status == domain.StatusProcessed {
		return nil, nil, ledger.NewValidationError("status", fmt.Sprintf("donation %s already processed", d.ReceiptNo))
	}
	if !d.Type.IsMonetary() {
		return nil, nil, ledger.NewValidationError("type", "only cash and upi donations post to funds")
	}
	if !d.Amount.IsPositive() {
		return nil, nil, ledger.NewValidationError("amount", "amount must be positive")
	}

	fund, err := s.ledger.FindOrCreateFund(ctx, d.FundCategory, performedBy, "")
	if err != nil {
		return nil, nil, err
	}

	entry, err := s.ledger.Credit(ctx, fund.ID, ledgersvc.MutationRequest{
		Method:      d.Type.Method(),
		Amount:      d.Amount,
		Source:      ledger.SourceDonation,
		Ref:         ledger.SourceRef{Kind: ledger.RefDonation, ID: strconv.FormatInt(d.ID, 10)},
		PerformedBy: performedBy,
		Description: fmt.Sprintf("Donation %s from %s", d.ReceiptNo, d.DonorName),
	})
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	d.Status = domain.StatusProcessed
	d.ProcessedAt = &now
	if err := s.donations.Update(ctx, d); err != nil {
		// The credit is already committed. Log loudly so the operator
		// can reconcile by receipt number before anyone retries.
		s.logger.Error("donation credited but status update failed",
			zap.String("receipt_no", d.ReceiptNo), zap.Error(err))
		return nil, nil, err
	}

	s.logger.Info("donation posted to fund",
		zap.String("receipt_no", d.ReceiptNo),
		zap.String("fund_code", fund.Code),
		zap.String("amount", d.Amount.String()),
	)
	return d, entry, nil
}

// receiptNo builds a donation receipt number, e.g. RCT-8F14E45F.
func receiptNo() string {
	return "RCT-" + strings.ToUpper(uuid.NewString()[:8])
}
