package purchases

import "github.com/bizhub-erp/bizhub/internal/ledger"

// postingEffect is the full set of side effects a posted purchase has on
// the rest of the system: one ledger entry, one signed party balance delta,
// and a stock delta per product line.
type postingEffect struct {
	LedgerKind   string
	LedgerMemo   string
	LedgerAmount float64
	PartyID      *int64
	PartyDelta   float64
	StockDeltas  map[int64]float64
}

// purchaseEffect computes the effect of posting (sign=1) or reversing
// (sign=-1) a purchase. A purchase grows what the business owes the
// supplier, so the party balance moves by minus the document total, and
// stock grows per line; lines without an item id carry no stock.
func purchaseEffect(purchase Purchase, sign float64) postingEffect {
	kind := ledger.KindPurchase
	memo := "purchase " + purchase.BillNumber
	if sign < 0 {
		kind = ledger.KindReversal
		memo = "reverse " + memo
	}
	eff := postingEffect{
		LedgerKind:   kind,
		LedgerMemo:   memo,
		LedgerAmount: -sign * purchase.TotalAmount,
		PartyID:      purchase.PartyID,
		PartyDelta:   -sign * purchase.TotalAmount,
		StockDeltas:  make(map[int64]float64),
	}
	for _, line := range purchase.Items {
		if line.ItemID == 0 {
			continue
		}
		eff.StockDeltas[line.ItemID] += sign * line.Quantity
	}
	return eff
}
