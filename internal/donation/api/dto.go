package api

import (
	"time"

	"github.com/hk2807/sevaledger/backend/internal/donation/domain"
)

type CreateDonationReq struct {
	DonorName    string `json:"donor_name" binding:"required"`
	DonorPhone   string `json:"donor_phone"`
	Type         string `json:"type" binding:"required,oneof=cash upi inkind"`
	Amount       string `json:"amount"`
	FundCategory string `json:"fund_category"`
	Notes        string `json:"notes"`
}

type DonationResp struct {
	ID           int64      `json:"id"`
	ReceiptNo    string     `json:"receipt_no"`
	DonorName    string     `json:"donor_name"`
	DonorPhone   string     `json:"donor_phone,omitempty"`
	Type         string     `json:"type"`
	Amount       string     `json:"amount"`
	FundCategory string     `json:"fund_category"`
	Status       string     `json:"status"`
	Notes        string     `json:"notes,omitempty"`
	ProcessedAt  *time.Time `json:"processed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func toDonationResp(d *domain.Donation) DonationResp {
	return DonationResp{
		ID:           d.ID,
		ReceiptNo:    d.ReceiptNo,
		DonorName:    d.DonorName,
		DonorPhone:   d.DonorPhone,
		Type:         string(d.Type),
		Amount:       d.Amount.String(),
		FundCategory: string(d.FundCategory),
		Status:       string(d.Status),
		Notes:        d.Notes,
		ProcessedAt:  d.ProcessedAt,
		CreatedAt:    d.CreatedAt,
	}
}
