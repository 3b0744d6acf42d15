package reports

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/bizhub-erp/bizhub/internal/lineitem"
)

func ptr(v int64) *int64 { return &v }

func TestTransactionSummaryBoundsAreInclusive(t *testing.T) {
	sales := []SaleRow{
		{ID: 1, Date: "2026-01-01", Total: 100},
		{ID: 2, Date: "2026-01-15", Total: 200},
		{ID: 3, Date: "2026-01-31", Total: 400},
		{ID: 4, Date: "2026-02-01", Total: 800},
	}
	purchases := []PurchaseRow{
		{ID: 1, Date: "2026-01-01", Total: 50},
		{ID: 2, Date: "2026-02-02", Total: 75},
	}

	got := computeTransactionSummary(sales, purchases, "2026-01-01", "2026-01-31")
	want := TransactionSummary{
		TotalSales:       700,
		TotalPurchases:   50,
		NetProfit:        650,
		SalesCount:       3,
		PurchasesCount:   1,
		TransactionCount: 4,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestTransactionSummaryPartialPayments(t *testing.T) {
	sales := []SaleRow{{ID: 1, Date: "2026-01-10", Total: 100, Paid: 40}}
	purchases := []PurchaseRow{{ID: 1, Date: "2026-01-12", Total: 30, Paid: 30}}

	got := computeTransactionSummary(sales, purchases, "", "")
	require.Equal(t, 100.0, got.TotalSales)
	require.Equal(t, 30.0, got.TotalPurchases)
	require.Equal(t, 70.0, got.NetProfit)
	require.Equal(t, 2, got.TransactionCount)
}

func TestTransactionSummaryOpenBoundsIncludeEverything(t *testing.T) {
	sales := []SaleRow{
		{ID: 1, Date: "2020-06-01", Total: 10},
		{ID: 2, Date: "2030-06-01", Total: 20},
	}
	got := computeTransactionSummary(sales, nil, "", "")
	require.Equal(t, 30.0, got.TotalSales)
	require.Equal(t, 2, got.TransactionCount)
}

func TestSalesReportGroupsByPartyAndDay(t *testing.T) {
	sales := []SaleRow{
		{ID: 1, PartyID: ptr(7), PartyName: "Acme", Date: "2026-03-01", Total: 100, Paid: 100},
		{ID: 2, PartyID: ptr(7), PartyName: "Acme", Date: "2026-03-02", Total: 50, Paid: 0},
		{ID: 3, PartyID: ptr(9), PartyName: "Globex", Date: "2026-03-01", Total: 30, Paid: 10},
		{ID: 4, PartyName: "walk-in", Date: "2026-03-01", Total: 5, Paid: 5},
	}

	got := computeSalesReport(sales, "", "")
	require.Equal(t, DocumentSummary{Count: 4, Total: 185, Paid: 115, Due: 70}, got.Summary)
	wantParties := []PartyTotal{
		{PartyID: 7, PartyName: "Acme", Count: 2, Total: 150, Paid: 100, Due: 50},
		{PartyID: 9, PartyName: "Globex", Count: 1, Total: 30, Paid: 10, Due: 20},
	}
	if diff := cmp.Diff(wantParties, got.ByParty); diff != "" {
		t.Fatalf("byParty mismatch (-want +got):\n%s", diff)
	}
	wantDays := []DayTotal{
		{Date: "2026-03-01", Count: 3, Total: 135},
		{Date: "2026-03-02", Count: 1, Total: 50},
	}
	if diff := cmp.Diff(wantDays, got.ByDay); diff != "" {
		t.Fatalf("byDay mismatch (-want +got):\n%s", diff)
	}
}

func TestPartyStatementKeysByIDNotName(t *testing.T) {
	parties := []PartyRow{
		{ID: 1, Name: "Sharma Traders"},
		{ID: 2, Name: "Sharma Traders"},
	}
	sales := []SaleRow{
		{ID: 10, PartyID: ptr(1), Date: "2026-01-05", Total: 100},
		{ID: 11, PartyID: ptr(2), Date: "2026-01-06", Total: 40},
	}
	purchases := []PurchaseRow{
		{ID: 20, PartyID: ptr(1), Date: "2026-01-07", Total: 30},
	}

	got := computePartyStatement(parties, sales, purchases, "", "")
	require.Len(t, got.Parties, 2)
	require.Equal(t, int64(1), got.Parties[0].PartyID)
	require.Equal(t, 70.0, got.Parties[0].Closing)
	require.Equal(t, int64(2), got.Parties[1].PartyID)
	require.Equal(t, 40.0, got.Parties[1].Closing)
}

func TestPartyStatementRunningBalanceIsChronological(t *testing.T) {
	sales := []SaleRow{
		{ID: 2, PartyID: ptr(1), Date: "2026-01-10", Total: 50},
		{ID: 1, PartyID: ptr(1), Date: "2026-01-01", Total: 100},
	}
	purchases := []PurchaseRow{
		{ID: 3, PartyID: ptr(1), Date: "2026-01-05", Total: 30},
	}

	got := computePartyStatement([]PartyRow{{ID: 1, Name: "Acme"}}, sales, purchases, "", "")
	require.Len(t, got.Parties, 1)
	entries := got.Parties[0].Entries
	wantBalances := []float64{100, 70, 120}
	require.Len(t, entries, len(wantBalances))
	for i, want := range wantBalances {
		require.Equal(t, want, entries[i].Balance, "entry %d", i)
	}
}

func TestPartyStatementIgnoresInputOrder(t *testing.T) {
	parties := []PartyRow{{ID: 1, Name: "Acme"}, {ID: 2, Name: "Bright Co"}}
	sales := []SaleRow{
		{ID: 1, PartyID: ptr(1), Date: "2026-01-01", Total: 100},
		{ID: 2, PartyID: ptr(2), Date: "2026-01-02", Total: 40},
		{ID: 3, PartyID: ptr(1), Date: "2026-01-10", Total: 50},
	}
	purchases := []PurchaseRow{
		{ID: 4, PartyID: ptr(1), Date: "2026-01-05", Total: 30},
	}

	forward := computePartyStatement(parties, sales, purchases, "", "")

	reversedSales := []SaleRow{sales[2], sales[1], sales[0]}
	reversedParties := []PartyRow{parties[1], parties[0]}
	shuffled := computePartyStatement(reversedParties, reversedSales, purchases, "", "")

	if diff := cmp.Diff(forward, shuffled); diff != "" {
		t.Fatalf("statement depends on input order (-forward +shuffled):\n%s", diff)
	}
}

func TestCashFlowCombinesAllSources(t *testing.T) {
	sales := []SaleRow{{ID: 1, Date: "2026-05-01", Total: 200, Paid: 150}}
	purchases := []PurchaseRow{{ID: 1, Date: "2026-05-01", Total: 100, Paid: 80}}
	expenses := []ExpenseRow{{ID: 1, Date: "2026-05-02", Amount: 40}}
	cash := []CashRow{
		{ID: 1, Type: "in", Date: "2026-05-02", Amount: 25},
		{ID: 2, Type: "out", Date: "2026-05-01", Amount: 10},
	}

	got := computeCashFlow(sales, purchases, expenses, cash, "", "")
	want := CashFlowReport{
		Days: []CashFlowDay{
			{Date: "2026-05-01", Inflows: 150, Outflows: 90, Net: 60},
			{Date: "2026-05-02", Inflows: 25, Outflows: 40, Net: -15},
		},
		TotalInflows:  175,
		TotalOutflows: 130,
		Net:           45,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("cashflow mismatch (-want +got):\n%s", diff)
	}
}

func TestProfitLossPricesCOGSFromItems(t *testing.T) {
	items := []ItemRow{
		{ID: 1, Name: "Widget", Type: "product", PurchasePrice: 6},
		{ID: 2, Name: "Gadget", Type: "product", PurchasePrice: 3},
	}
	sales := []SaleRow{
		{ID: 1, Date: "2026-01-10", Total: 100, Items: lineitem.Lines{
			{ItemID: 1, Name: "Widget", Quantity: 5, Price: 10, Total: 50},
			{Name: "gadget", Quantity: 10, Price: 5, Total: 50},
		}},
	}
	expenses := []ExpenseRow{{ID: 1, Date: "2026-01-15", Amount: 12}}

	got := computeProfitLoss(sales, expenses, items, "", "")
	want := ProfitLossReport{
		Revenue:     100,
		COGS:        60, // 5*6 by id + 10*3 by name
		GrossProfit: 40,
		Expenses:    12,
		NetProfit:   28,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("profit-loss mismatch (-want +got):\n%s", diff)
	}
}

func TestItemStockBacksOutOpeningFromMovement(t *testing.T) {
	items := []ItemRow{
		{ID: 1, Name: "Widget", Type: "product", Unit: "pcs", Stock: 20, PurchasePrice: 4},
		{ID: 2, Name: "Consulting", Type: "service"},
	}
	sales := []SaleRow{
		{ID: 1, Date: "2026-02-01", Items: lineitem.Lines{{ItemID: 1, Quantity: 5}}},
	}
	purchases := []PurchaseRow{
		{ID: 1, Date: "2026-02-02", Items: lineitem.Lines{{ItemID: 1, Quantity: 10}}},
	}

	got := computeItemStock(items, sales, purchases, "", "", "2026-02-10")
	require.Equal(t, "2026-02-10", got.StockAsOf)
	require.Len(t, got.Items, 1, "services are excluded")
	row := got.Items[0]
	require.Equal(t, 15.0, row.OpeningStock)
	require.Equal(t, 10.0, row.Purchased)
	require.Equal(t, 5.0, row.Sold)
	require.Equal(t, 20.0, row.ClosingStock)
	require.Equal(t, 80.0, row.Valuation)
}

func TestExpenseReportGroupsByCategory(t *testing.T) {
	expenses := []ExpenseRow{
		{ID: 1, Category: "rent", Date: "2026-01-01", Amount: 500},
		{ID: 2, Category: "fuel", Date: "2026-01-02", Amount: 30},
		{ID: 3, Category: "rent", Date: "2026-02-01", Amount: 500},
	}

	got := computeExpenseReport(expenses, "2026-01-01", "2026-01-31")
	want := ExpenseReport{
		Categories: []CategoryTotal{
			{Category: "fuel", Count: 1, Total: 30},
			{Category: "rent", Count: 1, Total: 500},
		},
		Total: 530,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("expense report mismatch (-want +got):\n%s", diff)
	}
}

func TestDashboardSplitsReceivablesAndPayables(t *testing.T) {
	parties := []PartyRow{
		{ID: 1, Balance: 120},
		{ID: 2, Balance: -45},
		{ID: 3, Balance: 0},
	}
	sales := []SaleRow{
		{ID: 1, Date: "2026-08-30", Total: 90},
		{ID: 2, Date: "2026-08-12", Total: 60},
	}
	purchases := []PurchaseRow{{ID: 1, Date: "2026-08-30", Total: 40}}
	expenses := []ExpenseRow{{ID: 1, Date: "2026-08-05", Amount: 15}}

	got := computeDashboard(sales, purchases, expenses, parties, []ItemRow{{ID: 1}}, "2026-08-30", "2026-08-01")
	require.Equal(t, 90.0, got.TodaySales)
	require.Equal(t, 40.0, got.TodayPurchases)
	require.Equal(t, 150.0, got.MonthSales)
	require.Equal(t, 40.0, got.MonthPurchases)
	require.Equal(t, 15.0, got.MonthExpenses)
	require.Equal(t, 95.0, got.MonthNetProfit)
	require.Equal(t, 120.0, got.Receivables)
	require.Equal(t, 45.0, got.Payables)
	require.Equal(t, 3, got.PartyCount)
	require.Equal(t, 1, got.ItemCount)
}
