package sales

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bizhub-erp/bizhub/internal/ledger"
	"github.com/bizhub-erp/bizhub/internal/lineitem"
)

func TestSaleEffectMovesBalanceAndStock(t *testing.T) {
	partyID := int64(3)
	sale := Sale{
		ID:            7,
		InvoiceNumber: "INV-0007",
		PartyID:       &partyID,
		TotalAmount:   50,
		Items: lineitem.Lines{
			{ItemID: 1, Name: "Rice", Quantity: 2, Price: 20, Total: 40},
			{ItemID: 2, Name: "Oil", Quantity: 1, Price: 10, Total: 10},
		},
	}

	eff := saleEffect(sale, 1)
	require.Equal(t, ledger.KindSale, eff.LedgerKind)
	require.Equal(t, 50.0, eff.LedgerAmount)
	require.Equal(t, &partyID, eff.PartyID)
	require.Equal(t, 50.0, eff.PartyDelta)
	require.Equal(t, map[int64]float64{1: -2, 2: -1}, eff.StockDeltas)
}

func TestSaleEffectReversalFlipsEverything(t *testing.T) {
	partyID := int64(3)
	sale := Sale{
		InvoiceNumber: "INV-0007",
		PartyID:       &partyID,
		TotalAmount:   50,
		Items:         lineitem.Lines{{ItemID: 1, Quantity: 2}},
	}

	eff := saleEffect(sale, -1)
	require.Equal(t, ledger.KindReversal, eff.LedgerKind)
	require.Equal(t, -50.0, eff.LedgerAmount)
	require.Equal(t, -50.0, eff.PartyDelta)
	require.Equal(t, map[int64]float64{1: 2}, eff.StockDeltas)
}

func TestSaleEffectSkipsLinesWithoutItems(t *testing.T) {
	sale := Sale{
		InvoiceNumber: "INV-0008",
		TotalAmount:   30,
		Items: lineitem.Lines{
			{Name: "Delivery", Quantity: 1, Total: 30},
		},
	}

	eff := saleEffect(sale, 1)
	require.Nil(t, eff.PartyID)
	require.Empty(t, eff.StockDeltas)
	require.Equal(t, 30.0, eff.LedgerAmount)
}

func TestSaleEffectAggregatesRepeatedItems(t *testing.T) {
	sale := Sale{
		InvoiceNumber: "INV-0009",
		Items: lineitem.Lines{
			{ItemID: 5, Quantity: 2},
			{ItemID: 5, Quantity: 3},
		},
	}

	eff := saleEffect(sale, 1)
	require.Equal(t, map[int64]float64{5: -5}, eff.StockDeltas)
}
