package reports

import (
	"sort"
	"strings"
)

// withinRange checks an ISO date against inclusive bounds. Empty bounds are
// open. ISO dates compare correctly as strings.
func withinRange(date, from, to string) bool {
	if from != "" && date < from {
		return false
	}
	if to != "" && date > to {
		return false
	}
	return true
}

func filterSales(rows []SaleRow, from, to string) []SaleRow {
	out := make([]SaleRow, 0, len(rows))
	for _, r := range rows {
		if withinRange(r.Date, from, to) {
			out = append(out, r)
		}
	}
	return out
}

func filterPurchases(rows []PurchaseRow, from, to string) []PurchaseRow {
	out := make([]PurchaseRow, 0, len(rows))
	for _, r := range rows {
		if withinRange(r.Date, from, to) {
			out = append(out, r)
		}
	}
	return out
}

func filterExpenses(rows []ExpenseRow, from, to string) []ExpenseRow {
	out := make([]ExpenseRow, 0, len(rows))
	for _, r := range rows {
		if withinRange(r.Date, from, to) {
			out = append(out, r)
		}
	}
	return out
}

func filterCash(rows []CashRow, from, to string) []CashRow {
	out := make([]CashRow, 0, len(rows))
	for _, r := range rows {
		if withinRange(r.Date, from, to) {
			out = append(out, r)
		}
	}
	return out
}

func computeTransactionSummary(sales []SaleRow, purchases []PurchaseRow, from, to string) TransactionSummary {
	var s TransactionSummary
	for _, row := range filterSales(sales, from, to) {
		s.TotalSales += row.Total
		s.SalesCount++
	}
	for _, row := range filterPurchases(purchases, from, to) {
		s.TotalPurchases += row.Total
		s.PurchasesCount++
	}
	s.NetProfit = s.TotalSales - s.TotalPurchases
	s.TransactionCount = s.SalesCount + s.PurchasesCount
	return s
}

func computeSalesReport(sales []SaleRow, from, to string) SalesReport {
	rows := filterSales(sales, from, to)
	report := SalesReport{Rows: rows, ByParty: []PartyTotal{}, ByDay: []DayTotal{}}

	byParty := map[int64]*PartyTotal{}
	byDay := map[string]*DayTotal{}
	for _, row := range rows {
		report.Summary.Count++
		report.Summary.Total += row.Total
		report.Summary.Paid += row.Paid
		if row.PartyID != nil {
			entry, ok := byParty[*row.PartyID]
			if !ok {
				entry = &PartyTotal{PartyID: *row.PartyID, PartyName: row.PartyName}
				byParty[*row.PartyID] = entry
			}
			entry.Count++
			entry.Total += row.Total
			entry.Paid += row.Paid
			entry.Due = entry.Total - entry.Paid
		}
		day, ok := byDay[row.Date]
		if !ok {
			day = &DayTotal{Date: row.Date}
			byDay[row.Date] = day
		}
		day.Count++
		day.Total += row.Total
	}
	report.Summary.Due = report.Summary.Total - report.Summary.Paid
	for _, entry := range byParty {
		report.ByParty = append(report.ByParty, *entry)
	}
	for _, day := range byDay {
		report.ByDay = append(report.ByDay, *day)
	}
	sort.Slice(report.ByParty, func(i, j int) bool { return report.ByParty[i].PartyID < report.ByParty[j].PartyID })
	sort.Slice(report.ByDay, func(i, j int) bool { return report.ByDay[i].Date < report.ByDay[j].Date })
	return report
}

func computePurchasesReport(purchases []PurchaseRow, from, to string) PurchasesReport {
	rows := filterPurchases(purchases, from, to)
	report := PurchasesReport{Rows: rows, ByParty: []PartyTotal{}, ByDay: []DayTotal{}}

	byParty := map[int64]*PartyTotal{}
	byDay := map[string]*DayTotal{}
	for _, row := range rows {
		report.Summary.Count++
		report.Summary.Total += row.Total
		report.Summary.Paid += row.Paid
		if row.PartyID != nil {
			entry, ok := byParty[*row.PartyID]
			if !ok {
				entry = &PartyTotal{PartyID: *row.PartyID, PartyName: row.PartyName}
				byParty[*row.PartyID] = entry
			}
			entry.Count++
			entry.Total += row.Total
			entry.Paid += row.Paid
			entry.Due = entry.Total - entry.Paid
		}
		day, ok := byDay[row.Date]
		if !ok {
			day = &DayTotal{Date: row.Date}
			byDay[row.Date] = day
		}
		day.Count++
		day.Total += row.Total
	}
	report.Summary.Due = report.Summary.Total - report.Summary.Paid
	for _, entry := range byParty {
		report.ByParty = append(report.ByParty, *entry)
	}
	for _, day := range byDay {
		report.ByDay = append(report.ByDay, *day)
	}
	sort.Slice(report.ByParty, func(i, j int) bool { return report.ByParty[i].PartyID < report.ByParty[j].PartyID })
	sort.Slice(report.ByDay, func(i, j int) bool { return report.ByDay[i].Date < report.ByDay[j].Date })
	return report
}

// computePartyStatement groups strictly by party id so that two parties
// sharing a name never merge.
func computePartyStatement(parties []PartyRow, sales []SaleRow, purchases []PurchaseRow, from, to string) PartyStatementReport {
	names := make(map[int64]string, len(parties))
	for _, p := range parties {
		names[p.ID] = p.Name
	}

	type raw struct {
		date   string
		kind   string
		refID  int64
		amount float64
	}
	entries := map[int64][]raw{}
	for _, row := range filterSales(sales, from, to) {
		if row.PartyID == nil {
			continue
		}
		entries[*row.PartyID] = append(entries[*row.PartyID], raw{row.Date, "sale", row.ID, row.Total})
	}
	for _, row := range filterPurchases(purchases, from, to) {
		if row.PartyID == nil {
			continue
		}
		entries[*row.PartyID] = append(entries[*row.PartyID], raw{row.Date, "purchase", row.ID, -row.Total})
	}

	report := PartyStatementReport{Parties: []PartyStatement{}}
	ids := make([]int64, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		lines := entries[id]
		sort.Slice(lines, func(i, j int) bool {
			if lines[i].date != lines[j].date {
				return lines[i].date < lines[j].date
			}
			if lines[i].kind != lines[j].kind {
				return lines[i].kind < lines[j].kind
			}
			return lines[i].refID < lines[j].refID
		})
		statement := PartyStatement{PartyID: id, PartyName: names[id], Entries: make([]StatementEntry, 0, len(lines))}
		var running float64
		for _, line := range lines {
			running += line.amount
			statement.Entries = append(statement.Entries, StatementEntry{
				Date:    line.date,
				Kind:    line.kind,
				RefID:   line.refID,
				Amount:  line.amount,
				Balance: running,
			})
		}
		statement.Closing = running
		report.Parties = append(report.Parties, statement)
	}
	return report
}

func computePartyReport(parties []PartyRow, sales []SaleRow, purchases []PurchaseRow, from, to string) PartyReport {
	salesTotals := map[int64]float64{}
	for _, row := range filterSales(sales, from, to) {
		if row.PartyID != nil {
			salesTotals[*row.PartyID] += row.Total
		}
	}
	purchaseTotals := map[int64]float64{}
	for _, row := range filterPurchases(purchases, from, to) {
		if row.PartyID != nil {
			purchaseTotals[*row.PartyID] += row.Total
		}
	}

	report := PartyReport{Parties: make([]PartyAggregate, 0, len(parties))}
	for _, p := range parties {
		report.Parties = append(report.Parties, PartyAggregate{
			PartyID:        p.ID,
			Name:           p.Name,
			Type:           p.Type,
			SalesTotal:     salesTotals[p.ID],
			PurchasesTotal: purchaseTotals[p.ID],
			Balance:        p.Balance,
			LastActivity:   p.LastTransaction,
		})
	}
	sort.Slice(report.Parties, func(i, j int) bool { return report.Parties[i].PartyID < report.Parties[j].PartyID })
	return report
}

func computeCashFlow(sales []SaleRow, purchases []PurchaseRow, expenses []ExpenseRow, cash []CashRow, from, to string) CashFlowReport {
	days := map[string]*CashFlowDay{}
	day := func(date string) *CashFlowDay {
		d, ok := days[date]
		if !ok {
			d = &CashFlowDay{Date: date}
			days[date] = d
		}
		return d
	}

	for _, row := range filterSales(sales, from, to) {
		day(row.Date).Inflows += row.Paid
	}
	for _, row := range filterPurchases(purchases, from, to) {
		day(row.Date).Outflows += row.Paid
	}
	for _, row := range filterExpenses(expenses, from, to) {
		day(row.Date).Outflows += row.Amount
	}
	for _, row := range filterCash(cash, from, to) {
		if row.Type == "out" {
			day(row.Date).Outflows += row.Amount
		} else {
			day(row.Date).Inflows += row.Amount
		}
	}

	report := CashFlowReport{Days: make([]CashFlowDay, 0, len(days))}
	for _, d := range days {
		d.Net = d.Inflows - d.Outflows
		report.Days = append(report.Days, *d)
		report.TotalInflows += d.Inflows
		report.TotalOutflows += d.Outflows
	}
	sort.Slice(report.Days, func(i, j int) bool { return report.Days[i].Date < report.Days[j].Date })
	report.Net = report.TotalInflows - report.TotalOutflows
	return report
}

// computeProfitLoss prices cost of goods sold from item purchase prices,
// resolving sold lines by item id first and name second.
func computeProfitLoss(sales []SaleRow, expenses []ExpenseRow, items []ItemRow, from, to string) ProfitLossReport {
	byID := make(map[int64]ItemRow, len(items))
	byName := make(map[string]ItemRow, len(items))
	for _, item := range items {
		byID[item.ID] = item
		byName[strings.ToLower(item.Name)] = item
	}

	var report ProfitLossReport
	for _, row := range filterSales(sales, from, to) {
		report.Revenue += row.Total
		for _, line := range row.Items {
			item, ok := byID[line.ItemID]
			if !ok {
				item, ok = byName[strings.ToLower(line.Name)]
			}
			if ok {
				report.COGS += line.Quantity * item.PurchasePrice
			}
		}
	}
	report.GrossProfit = report.Revenue - report.COGS
	for _, row := range filterExpenses(expenses, from, to) {
		report.Expenses += row.Amount
	}
	report.NetProfit = report.GrossProfit - report.Expenses
	return report
}

// computeItemStock derives movement per item from posted documents rather
// than scanning by name. Closing is the stock stored as of asOf; opening
// backs out the window's movement from it.
func computeItemStock(items []ItemRow, sales []SaleRow, purchases []PurchaseRow, from, to, asOf string) ItemStockReport {
	sold := map[int64]float64{}
	soldByName := map[string]float64{}
	for _, row := range filterSales(sales, from, to) {
		for _, line := range row.Items {
			if line.ItemID > 0 {
				sold[line.ItemID] += line.Quantity
			} else if line.Name != "" {
				soldByName[strings.ToLower(line.Name)] += line.Quantity
			}
		}
	}
	purchased := map[int64]float64{}
	purchasedByName := map[string]float64{}
	for _, row := range filterPurchases(purchases, from, to) {
		for _, line := range row.Items {
			if line.ItemID > 0 {
				purchased[line.ItemID] += line.Quantity
			} else if line.Name != "" {
				purchasedByName[strings.ToLower(line.Name)] += line.Quantity
			}
		}
	}

	report := ItemStockReport{StockAsOf: asOf, Items: []ItemStockRow{}}
	for _, item := range items {
		if item.Type != "product" {
			continue
		}
		soldQty := sold[item.ID] + soldByName[strings.ToLower(item.Name)]
		purchasedQty := purchased[item.ID] + purchasedByName[strings.ToLower(item.Name)]
		report.Items = append(report.Items, ItemStockRow{
			ItemID:       item.ID,
			Name:         item.Name,
			Unit:         item.Unit,
			OpeningStock: item.Stock - purchasedQty + soldQty,
			Purchased:    purchasedQty,
			Sold:         soldQty,
			ClosingStock: item.Stock,
			Valuation:    item.Stock * item.PurchasePrice,
		})
	}
	sort.Slice(report.Items, func(i, j int) bool { return report.Items[i].ItemID < report.Items[j].ItemID })
	return report
}

func computeTax(sales []SaleRow, purchases []PurchaseRow, from, to string) TaxReport {
	var report TaxReport
	for _, row := range filterSales(sales, from, to) {
		report.TaxCollected += row.TaxAmount
	}
	for _, row := range filterPurchases(purchases, from, to) {
		report.TaxPaid += row.TaxAmount
	}
	report.NetLiability = report.TaxCollected - report.TaxPaid
	return report
}

func computeExpenseReport(expenses []ExpenseRow, from, to string) ExpenseReport {
	categories := map[string]*CategoryTotal{}
	report := ExpenseReport{Categories: []CategoryTotal{}}
	for _, row := range filterExpenses(expenses, from, to) {
		entry, ok := categories[row.Category]
		if !ok {
			entry = &CategoryTotal{Category: row.Category}
			categories[row.Category] = entry
		}
		entry.Count++
		entry.Total += row.Amount
		report.Total += row.Amount
	}
	for _, entry := range categories {
		report.Categories = append(report.Categories, *entry)
	}
	sort.Slice(report.Categories, func(i, j int) bool { return report.Categories[i].Category < report.Categories[j].Category })
	return report
}

func computeDashboard(sales []SaleRow, purchases []PurchaseRow, expenses []ExpenseRow, parties []PartyRow, items []ItemRow, today, monthStart string) DashboardSummary {
	var d DashboardSummary
	for _, row := range filterSales(sales, today, today) {
		d.TodaySales += row.Total
	}
	for _, row := range filterPurchases(purchases, today, today) {
		d.TodayPurchases += row.Total
	}
	for _, row := range filterSales(sales, monthStart, today) {
		d.MonthSales += row.Total
	}
	for _, row := range filterPurchases(purchases, monthStart, today) {
		d.MonthPurchases += row.Total
	}
	for _, row := range filterExpenses(expenses, monthStart, today) {
		d.MonthExpenses += row.Amount
	}
	d.MonthNetProfit = d.MonthSales - d.MonthPurchases - d.MonthExpenses
	for _, p := range parties {
		d.PartyCount++
		if p.Balance > 0 {
			d.Receivables += p.Balance
		} else {
			d.Payables += -p.Balance
		}
	}
	d.ItemCount = len(items)
	return d
}
