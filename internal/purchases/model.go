package purchases

import (
	"time"

	"github.com/bizhub-erp/bizhub/internal/lineitem"
	"github.com/bizhub-erp/bizhub/internal/shared"
)

const (
	StatusDraft     = "draft"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

const (
	PaymentPaid    = "paid"
	PaymentPartial = "partial"
	PaymentUnpaid  = "unpaid"
)

// Purchase is a supplier bill: a header row plus embedded line items.
type Purchase struct {
	ID            int64          `json:"id"`
	BillNumber    string         `json:"bill_number"`
	PartyID       *int64         `json:"party_id,omitempty"`
	PartyName     string         `json:"party_name"`
	BillDate      shared.Date    `json:"bill_date"`
	Items         lineitem.Lines `json:"items"`
	Subtotal      float64        `json:"subtotal"`
	TaxAmount     float64        `json:"tax_amount"`
	Discount      float64        `json:"discount"`
	TotalAmount   float64        `json:"total_amount"`
	PaidAmount    float64        `json:"paid_amount"`
	PaymentStatus string         `json:"payment_status"`
	PaymentMethod string         `json:"payment_method"`
	Status        string         `json:"status"`
	Notes         string         `json:"notes,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Posted reports whether the document affects balances, stock and the ledger.
func (p Purchase) Posted() bool {
	return p.Status != StatusDraft && p.Status != StatusCancelled && p.TotalAmount > 0
}

// DerivePaymentStatus classifies paid against total.
func DerivePaymentStatus(total, paid float64) string {
	switch {
	case total > 0 && paid >= total:
		return "paid"
	case paid > 0:
		return "partial"
	default:
		return "unpaid"
	}
}
