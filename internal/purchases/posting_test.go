package purchases

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bizhub-erp/bizhub/internal/ledger"
	"github.com/bizhub-erp/bizhub/internal/lineitem"
)

func TestPurchaseEffectDecrementsSupplierBalanceByTotal(t *testing.T) {
	partyID := int64(9)
	purchase := Purchase{
		ID:          4,
		BillNumber:  "BILL-0004",
		PartyID:     &partyID,
		TotalAmount: 50,
		Items: lineitem.Lines{
			{ItemID: 1, Name: "Rice", Quantity: 20, Price: 2.5, Total: 50},
		},
	}

	eff := purchaseEffect(purchase, 1)
	require.Equal(t, ledger.KindPurchase, eff.LedgerKind)
	require.Equal(t, -50.0, eff.LedgerAmount)
	require.Equal(t, &partyID, eff.PartyID)
	require.Equal(t, -50.0, eff.PartyDelta)
	require.Equal(t, map[int64]float64{1: 20}, eff.StockDeltas)
}

func TestPurchaseEffectReversalFlipsEverything(t *testing.T) {
	partyID := int64(9)
	purchase := Purchase{
		BillNumber:  "BILL-0004",
		PartyID:     &partyID,
		TotalAmount: 50,
		Items:       lineitem.Lines{{ItemID: 1, Quantity: 20}},
	}

	eff := purchaseEffect(purchase, -1)
	require.Equal(t, ledger.KindReversal, eff.LedgerKind)
	require.Equal(t, 50.0, eff.LedgerAmount)
	require.Equal(t, 50.0, eff.PartyDelta)
	require.Equal(t, map[int64]float64{1: -20}, eff.StockDeltas)
}

func TestDraftPurchaseHasNoEffects(t *testing.T) {
	purchase := Purchase{
		BillNumber:  "BILL-0005",
		TotalAmount: 50,
		Status:      StatusDraft,
	}
	require.False(t, purchase.Posted())
}
