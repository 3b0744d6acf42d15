package parties

import "time"

// Party types.
const (
	TypeCustomer = "customer"
	TypeSupplier = "supplier"
	TypeBoth     = "both"
)

// Party statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Party is a customer or supplier with a running balance.
// Balance is a signed ledger total: positive means the party owes the
// business, negative means the business owes the party.
type Party struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name" validate:"required"`
	Type              string     `json:"type" validate:"oneof=customer supplier both"`
	Phone             string     `json:"phone"`
	Email             string     `json:"email" validate:"omitempty,email"`
	Address           string     `json:"address"`
	GSTNumber         string     `json:"gst_number"`
	Balance           float64    `json:"balance"`
	CreditLimit       float64    `json:"credit_limit" validate:"gte=0"`
	Status            string     `json:"status" validate:"oneof=active inactive"`
	TotalTransactions int64      `json:"total_transactions"`
	LastTransaction   *time.Time `json:"last_transaction,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
