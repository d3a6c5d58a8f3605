package domain

import "context"

// ListFilter narrows expense listings.
type ListFilter struct {
	Status   ExpenseStatus
	Category string
	Limit    int
	Offset   int
}

// ExpenseRepository is the port for expense persistence.
type ExpenseRepository interface {
	Create(ctx context.Context, e *Expense) error

	// FindByID returns ErrExpenseNotFound when the id is unknown.
	FindByID(ctx context.Context, id int64) (*Expense, error)

	List(ctx context.Context, f ListFilter) ([]Expense, error)

	// Update persists status and allocation stamps.
	Update(ctx context.Context, e *Expense) error
}
