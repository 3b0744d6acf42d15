package reports

import (
	"time"

	"github.com/bizhub-erp/bizhub/internal/lineitem"
)

// Report type discriminators accepted by the reports endpoint. Each maps to
// its own computation; none fall back onto another.
const (
	TypeTransactionSummary = "transaction-summary"
	TypeSales              = "sales"
	TypePurchases          = "purchases"
	TypePartyStatement     = "party-statement"
	TypeParty              = "party"
	TypeCashFlow           = "cashflow"
	TypeProfitLoss         = "profit-loss"
	TypeItemStock          = "item-stock"
	TypeTax                = "tax"
	TypeExpenses           = "expenses"
	TypeDashboard          = "dashboard"
)

// Known reports whether t is a supported report type.
func Known(t string) bool {
	switch t {
	case TypeTransactionSummary, TypeSales, TypePurchases, TypePartyStatement,
		TypeParty, TypeCashFlow, TypeProfitLoss, TypeItemStock, TypeTax,
		TypeExpenses, TypeDashboard:
		return true
	}
	return false
}

// DateRange is the inclusive window a report was computed over. Empty bounds
// mean unbounded.
type DateRange struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// Report is the common response envelope for every report type.
type Report struct {
	Type        string    `json:"type"`
	Data        any       `json:"data"`
	GeneratedAt time.Time `json:"generatedAt"`
	DateRange   DateRange `json:"dateRange"`
}

// Row types loaded from storage. Dates are ISO strings so inclusive range
// checks are plain lexical comparisons.

type SaleRow struct {
	ID        int64          `json:"id"`
	PartyID   *int64         `json:"partyId,omitempty"`
	PartyName string         `json:"partyName"`
	Date      string         `json:"date"`
	Items     lineitem.Lines `json:"items,omitempty"`
	Subtotal  float64        `json:"subtotal"`
	TaxAmount float64        `json:"taxAmount"`
	Discount  float64        `json:"discount"`
	Total     float64        `json:"total"`
	Paid      float64        `json:"paid"`
}

type PurchaseRow struct {
	ID        int64          `json:"id"`
	PartyID   *int64         `json:"partyId,omitempty"`
	PartyName string         `json:"partyName"`
	Date      string         `json:"date"`
	Items     lineitem.Lines `json:"items,omitempty"`
	Subtotal  float64        `json:"subtotal"`
	TaxAmount float64        `json:"taxAmount"`
	Discount  float64        `json:"discount"`
	Total     float64        `json:"total"`
	Paid      float64        `json:"paid"`
}

type ExpenseRow struct {
	ID       int64   `json:"id"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
	Amount   float64 `json:"amount"`
}

type CashRow struct {
	ID       int64   `json:"id"`
	Type     string  `json:"type"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
	Amount   float64 `json:"amount"`
}

type PartyRow struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	Type             string     `json:"type"`
	Balance          float64    `json:"balance"`
	LastTransaction  *time.Time `json:"lastTransaction,omitempty"`
	TotalTransaction int        `json:"totalTransactions"`
}

type ItemRow struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Unit          string  `json:"unit"`
	Stock         float64 `json:"stock"`
	SalePrice     float64 `json:"salePrice"`
	PurchasePrice float64 `json:"purchasePrice"`
}

// Computed report payloads. One result schema per report type.

type TransactionSummary struct {
	TotalSales       float64 `json:"totalSales"`
	TotalPurchases   float64 `json:"totalPurchases"`
	NetProfit        float64 `json:"netProfit"`
	SalesCount       int     `json:"salesCount"`
	PurchasesCount   int     `json:"purchasesCount"`
	TransactionCount int     `json:"transactionCount"`
}

type DocumentSummary struct {
	Count int     `json:"count"`
	Total float64 `json:"total"`
	Paid  float64 `json:"paid"`
	Due   float64 `json:"due"`
}

type PartyTotal struct {
	PartyID   int64   `json:"partyId"`
	PartyName string  `json:"partyName"`
	Count     int     `json:"count"`
	Total     float64 `json:"total"`
	Paid      float64 `json:"paid"`
	Due       float64 `json:"due"`
}

type DayTotal struct {
	Date  string  `json:"date"`
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

type SalesReport struct {
	Summary DocumentSummary `json:"summary"`
	ByParty []PartyTotal    `json:"byParty"`
	ByDay   []DayTotal      `json:"byDay"`
	Rows    []SaleRow       `json:"rows"`
}

type PurchasesReport struct {
	Summary DocumentSummary `json:"summary"`
	ByParty []PartyTotal    `json:"byParty"`
	ByDay   []DayTotal      `json:"byDay"`
	Rows    []PurchaseRow   `json:"rows"`
}

type StatementEntry struct {
	Date    string  `json:"date"`
	Kind    string  `json:"kind"`
	RefID   int64   `json:"refId"`
	Amount  float64 `json:"amount"`
	Balance float64 `json:"balance"`
}

type PartyStatement struct {
	PartyID   int64            `json:"partyId"`
	PartyName string           `json:"partyName"`
	Entries   []StatementEntry `json:"entries"`
	Closing   float64          `json:"closing"`
}

type PartyStatementReport struct {
	Parties []PartyStatement `json:"parties"`
}

type PartyAggregate struct {
	PartyID        int64      `json:"partyId"`
	Name           string     `json:"name"`
	Type           string     `json:"type"`
	SalesTotal     float64    `json:"salesTotal"`
	PurchasesTotal float64    `json:"purchasesTotal"`
	Balance        float64    `json:"balance"`
	LastActivity   *time.Time `json:"lastActivity,omitempty"`
}

type PartyReport struct {
	Parties []PartyAggregate `json:"parties"`
}

type CashFlowDay struct {
	Date     string  `json:"date"`
	Inflows  float64 `json:"inflows"`
	Outflows float64 `json:"outflows"`
	Net      float64 `json:"net"`
}

type CashFlowReport struct {
	Days          []CashFlowDay `json:"days"`
	TotalInflows  float64       `json:"totalInflows"`
	TotalOutflows float64       `json:"totalOutflows"`
	Net           float64       `json:"net"`
}

type ProfitLossReport struct {
	Revenue     float64 `json:"revenue"`
	COGS        float64 `json:"cogs"`
	GrossProfit float64 `json:"grossProfit"`
	Expenses    float64 `json:"expenses"`
	NetProfit   float64 `json:"netProfit"`
}

type ItemStockRow struct {
	ItemID       int64   `json:"itemId"`
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`
	OpeningStock float64 `json:"openingStock"`
	Purchased    float64 `json:"purchased"`
	Sold         float64 `json:"sold"`
	ClosingStock float64 `json:"closingStock"`
	Valuation    float64 `json:"valuation"`
}

// ItemStockReport snapshots stock as of StockAsOf (the generation date):
// closingStock and valuation are the live stored quantities, and
// openingStock is backed out from the window's movements. For windows
// ending in the past the figures therefore describe today's position, not
// the historical one; StockAsOf makes that explicit to consumers.
type ItemStockReport struct {
	StockAsOf string         `json:"stockAsOf"`
	Items     []ItemStockRow `json:"items"`
}

type TaxReport struct {
	TaxCollected float64 `json:"taxCollected"`
	TaxPaid      float64 `json:"taxPaid"`
	NetLiability float64 `json:"netLiability"`
}

type CategoryTotal struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Total    float64 `json:"total"`
}

type ExpenseReport struct {
	Categories []CategoryTotal `json:"categories"`
	Total      float64         `json:"total"`
}

type DashboardSummary struct {
	TodaySales     float64 `json:"todaySales"`
	TodayPurchases float64 `json:"todayPurchases"`
	MonthSales     float64 `json:"monthSales"`
	MonthPurchases float64 `json:"monthPurchases"`
	MonthExpenses  float64 `json:"monthExpenses"`
	MonthNetProfit float64 `json:"monthNetProfit"`
	Receivables    float64 `json:"receivables"`
	Payables       float64 `json:"payables"`
	PartyCount     int     `json:"partyCount"`
	ItemCount      int     `json:"itemCount"`
}
