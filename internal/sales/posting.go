package sales

import "github.com/bizhub-erp/bizhub/internal/ledger"

// postingEffect is the full set of side effects a posted sale has on the
// rest of the system: one ledger entry, one signed party balance delta, and
// a stock delta per product line. Computed as plain data so the SQL that
// applies it stays a mechanical translation.
type postingEffect struct {
	LedgerKind   string
	LedgerMemo   string
	LedgerAmount float64
	PartyID      *int64
	PartyDelta   float64
	StockDeltas  map[int64]float64
}

// saleEffect computes the effect of posting (sign=1) or reversing (sign=-1)
// a sale. A sale grows the customer's receivable by the full document total
// and consumes stock per line; lines without an item id carry no stock.
func saleEffect(sale Sale, sign float64) postingEffect {
	kind := ledger.KindSale
	memo := "sale " + sale.InvoiceNumber
	if sign < 0 {
		kind = ledger.KindReversal
		memo = "reverse " + memo
	}
	eff := postingEffect{
		LedgerKind:   kind,
		LedgerMemo:   memo,
		LedgerAmount: sign * sale.TotalAmount,
		PartyID:      sale.PartyID,
		PartyDelta:   sign * sale.TotalAmount,
		StockDeltas:  make(map[int64]float64),
	}
	for _, line := range sale.Items {
		if line.ItemID == 0 {
			continue
		}
		eff.StockDeltas[line.ItemID] -= sign * line.Quantity
	}
	return eff
}
