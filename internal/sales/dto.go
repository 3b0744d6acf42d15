package sales

import (
	"github.com/bizhub-erp/bizhub/internal/lineitem"
	"github.com/bizhub-erp/bizhub/internal/shared"
)

// SaleInput carries an inbound sale payload with its legacy aliases
// (customer_id/party_id, date/invoice_date, total/grand_total/total_amount,
// paid/paid_amount). Items tolerate both native arrays and string-encoded
// JSON via lineitem.Lines.
type SaleInput struct {
	InvoiceNumber string `json:"invoice_number"`

	PartyID    *int64 `json:"party_id"`
	CustomerID *int64 `json:"customer_id"`

	PartyName    string `json:"party_name"`
	CustomerName string `json:"customer_name"`

	InvoiceDate string `json:"invoice_date"`
	Date        string `json:"date"`

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

// Sale maps the input onto the canonical entity, deriving totals that the
// caller omitted: subtotal from line items, total from subtotal + tax −
// discount, payment status from paid against total.
func (in SaleInput) Sale() (Sale, error) {
	partyID := in.PartyID
	if partyID == nil {
		partyID = in.CustomerID
	}
	partyName := in.PartyName
	if partyName == "" {
		partyName = in.CustomerName
	}

	rawDate := in.InvoiceDate
	if rawDate == "" {
		rawDate = in.Date
	}
	var date shared.Date
	if rawDate == "" {
		date = shared.Today()
	} else {
		parsed, err := shared.ParseDate(rawDate)
		if err != nil {
			return Sale{}, err
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

	return Sale{
		InvoiceNumber: in.InvoiceNumber,
		PartyID:       partyID,
		PartyName:     partyName,
		InvoiceDate:   date,
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
