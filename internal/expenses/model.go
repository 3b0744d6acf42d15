package expenses

import (
	"time"

	"github.com/bizhub-erp/bizhub/internal/shared"
)

// Expense is a flat ledger row contributing to cash-flow and profit-loss
// reports.
type Expense struct {
	ID            int64       `json:"id"`
	Category      string      `json:"category"`
	Description   string      `json:"description"`
	Amount        float64     `json:"amount"`
	Date          shared.Date `json:"date"`
	PaymentMethod string      `json:"payment_method"`
	Notes         string      `json:"notes,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// ExpenseInput is the inbound payload. expense_date is the legacy alias.
type ExpenseInput struct {
	Category      string  `json:"category"`
	Description   string  `json:"description"`
	Amount        float64 `json:"amount"`
	Date          string  `json:"date"`
	ExpenseDate   string  `json:"expense_date"`
	PaymentMethod string  `json:"payment_method"`
	Notes         string  `json:"notes"`
}

// Expense maps the input onto the canonical entity.
func (in ExpenseInput) Expense() (Expense, error) {
	rawDate := in.Date
	if rawDate == "" {
		rawDate = in.ExpenseDate
	}
	var date shared.Date
	if rawDate == "" {
		date = shared.Today()
	} else {
		parsed, err := shared.ParseDate(rawDate)
		if err != nil {
			return Expense{}, err
		}
		date = parsed
	}
	category := in.Category
	if category == "" {
		category = "general"
	}
	return Expense{
		Category:      category,
		Description:   in.Description,
		Amount:        in.Amount,
		Date:          date,
		PaymentMethod: in.PaymentMethod,
		Notes:         in.Notes,
	}, nil
}
