package sales

import (
	"time"

	"github.com/bizhub-erp/bizhub/internal/lineitem"
	"github.com/bizhub-erp/bizhub/internal/shared"
)

// Document statuses.
const (
	StatusDraft     = "draft"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Payment statuses, derived from paid_amount against total_amount.
const (
	PaymentPaid    = "paid"
	PaymentPartial = "partial"
	PaymentUnpaid  = "unpaid"
)

// Sale is a sales invoice: a header row plus embedded line items.
type Sale struct {
	ID                 int64          `json:"id"`
	InvoiceNumber      string         `json:"invoice_number"`
	PartyID            *int64         `json:"party_id,omitempty"`
	PartyName          string         `json:"party_name"`
	InvoiceDate        shared.Date    `json:"invoice_date"`
	Items              lineitem.Lines `json:"items"`
	Subtotal           float64        `json:"subtotal"`
	TaxAmount          float64        `json:"tax_amount"`
	Discount           float64        `json:"discount"`
	TotalAmount        float64        `json:"total_amount"`
	PaidAmount         float64        `json:"paid_amount"`
	PaymentStatus      string         `json:"payment_status"`
	PaymentMethod      string         `json:"payment_method"`
	Status             string         `json:"status"`
	Notes              string         `json:"notes,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	CreditLimitWarning bool           `json:"credit_limit_warning,omitempty"`
}

// Posted reports whether the document affects balances, stock and the ledger.
func (s Sale) Posted() bool {
	return s.Status != StatusDraft && s.Status != StatusCancelled && s.TotalAmount > 0
}

// DerivePaymentStatus classifies paid against total.
func DerivePaymentStatus(total, paid float64) string {
	switch {
	case total > 0 && paid >= total:
		return PaymentPaid
	case paid > 0:
		return PaymentPartial
	default:
		return PaymentUnpaid
	}
}
