package purchases

import (
	"github.com/bizhub-erp/bizhub/internal/lineitem"
	"github.com/bizhub-erp/bizhub/internal/shared"
)

// PurchaseInput carries an inbound purchase payload with its legacy aliases
// (supplier_id/party_id, bill_date/date, total/grand_total/total_amount).
type PurchaseInput struct {
	BillNumber    string `json:"bill_number"`
	InvoiceNumber string `json:"invoice_number"`

	PartyID    *int64 `json:"party_id"`
	SupplierID *int64 `json:"supplier_id"`

	PartyName    string `json:"party_name"`
	SupplierName string `json:"supplier_name"`

	BillDate string `json:"bill_date"`
	Date     string `json:"date"`

	Items lineitem.Lines `json:"items"`

	Subtotal  *float64 `json:"subtotal"`
	TaxAmount float64  `json:"tax_amount"`
	Discount  float64  `json:"discount"`

	TotalAmount *float64 `json:"total_amount"`
	Total       *float64 `json:"total"`
	GrandTotal  *float64 `json:"grand_total"`

	PaidAmount *float64 `json:"paid_amount"`
	Paid       *float64 `json:"paid"`

	PaymentMethod string `json:"payment_method"`
	Status        string `json:"status"`
	Notes         string `json:"notes"`
}

func firstFloat(values ...*float64) (float64, bool) {
	for _, v := range values {
		if v != nil {
			return *v, true
		}
	}
	return 0, false
}

// Purchase maps the input onto the canonical entity.
func (in PurchaseInput) Purchase() (Purchase, error) {
	partyID := in.PartyID
	if partyID == nil {
		partyID = in.SupplierID
	}
	partyName := in.PartyName
	if partyName == "" {
		partyName = in.SupplierName
	}
	number := in.BillNumber
	if number == "" {
		number = in.InvoiceNumber
	}

	rawDate := in.BillDate
	if rawDate == "" {
		rawDate = in.Date
	}
	var date shared.Date
	if rawDate == "" {
		date = shared.Today()
	} else {
		parsed, err := shared.ParseDate(rawDate)
		if err != nil {
			return Purchase{}, err
		}
		date = parsed
	}

	subtotal, ok := firstFloat(in.Subtotal)
	if !ok {
		subtotal = lineitem.Total(in.Items)
	}
	total, ok := firstFloat(in.TotalAmount, in.Total, in.GrandTotal)
	if !ok {
		total = subtotal + in.TaxAmount - in.Discount
	}
	paid, _ := firstFloat(in.PaidAmount, in.Paid)

	status := in.Status
	if status == "" {
		status = StatusCompleted
	}

	return Purchase{
		BillNumber:    number,
		PartyID:       partyID,
		PartyName:     partyName,
		BillDate:      date,
		Items:         in.Items,
		Subtotal:      subtotal,
		TaxAmount:     in.TaxAmount,
		Discount:      in.Discount,
		TotalAmount:   total,
		PaidAmount:    paid,
		PaymentStatus: DerivePaymentStatus(total, paid),
		PaymentMethod: in.PaymentMethod,
		Status:        status,
		Notes:         in.Notes,
	}, nil
}
