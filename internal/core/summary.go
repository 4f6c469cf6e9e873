package core

import "sort"

// MonthlySummary aggregates one calendar month of the transaction log.
// Month is the "YYYY-MM" token produced by Date.MonthKey.
type MonthlySummary struct {
	Month    string
	Income   Money
	Expenses Money
	Savings  Money
}

// MonthlyStatistics groups the transaction log by calendar month and derives
// income, expense and savings totals per month, most recent month first.
// Card kind is irrelevant here: the view mixes transactions from all cards.
// Months with no transactions are never synthesized. The result is a pure
// function of the input.
func MonthlyStatistics(history []Transaction) []MonthlySummary {
	byMonth := make(map[string]*MonthlySummary)
	for _, t := range history {
		key := t.Date.MonthKey()
		s, ok := byMonth[key]
		if !ok {
			s = &MonthlySummary{Month: key}
			byMonth[key] = s
		}
		if t.Kind == Income {
			s.Income = s.Income.Add(t.Amount)
		} else {
			s.Expenses = s.Expenses.Add(t.Amount)
		}
	}

	out := make([]MonthlySummary, 0, len(byMonth))
	for _, s := range byMonth {
		s.Savings = s.Income.Sub(s.Expenses)
		out = append(out, *s)
	}
	// Lexicographic order of the month token equals chronological order.
	sort.Slice(out, func(i, j int) bool { return out[i].Month > out[j].Month })
	return out
}
