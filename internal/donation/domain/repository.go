package domain

import "context"

// ListFilter narrows donation listings.
type ListFilter struct {
	Status   DonationStatus
	Category string
	Limit    int
	Offset   int
}

// DonationRepository is the port for donation persistence.
type DonationRepository interface {
	Create(ctx context.Context, d *Donation) error

	// FindByID returns ErrDonationNotFound when the id is unknown.
	FindByID(ctx context.Context, id int64) (*Donation, error)

	List(ctx context.Context, f ListFilter) ([]Donation, error)

	// Update persists status and processing stamps. Amount, donor and
	// type are fixed after creation.
	Update(ctx context.Context, d *Donation) error
}
