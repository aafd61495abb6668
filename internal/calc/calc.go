// Package calc derives totals and the chart series from a ledger snapshot.
// Every function is pure; callers recompute after each mutation.
package calc

import (
	"sort"
	"time"

	"github.com/jinzhu/now"

	"speseledger/internal/core"
	"speseledger/internal/ledger"
)

// Point is one chart sample: X is the record date, Y its amount.
type Point struct {
	X        string  `json:"x" yaml:"x"`
	Y        float64 `json:"y" yaml:"y"`
	Category string  `json:"category" yaml:"category"`
}

// State bundles everything handed back to the presentation layer.
type State struct {
	Expenses   []core.Expense
	Income     float64
	TotalSpent float64
	Remaining  float64
	Series     []Point
}

// Derive recomputes the full derived state of l.
func Derive(l ledger.Ledger) State {
	return State{
		Expenses:   l.Clone().Expenses,
		Income:     l.MonthlyIncome.Float(),
		TotalSpent: TotalSpent(l),
		Remaining:  Remaining(l),
		Series:     ChartSeries(l),
	}
}

// Spent sums record amounts in cents. Ledger transitions keep the sum within
// core.MaxCents.
func Spent(l ledger.Ledger) core.Money {
	var total int64
	for _, e := range l.Expenses {
		total += e.Amount.Cents
	}
	return core.Money{Cents: total}
}

// TotalSpent is the sum of all amounts, 0 for an empty ledger.
func TotalSpent(l ledger.Ledger) float64 {
	return Spent(l).Float()
}

// Balance is income minus spent, in cents. It may be negative.
func Balance(l ledger.Ledger) core.Money {
	return core.Money{Cents: l.MonthlyIncome.Cents - Spent(l).Cents}
}

// Remaining is income minus total spent. Overspending yields a negative value.
func Remaining(l ledger.Ledger) float64 {
	return Balance(l).Float()
}

// ChartSeries returns one point per record in ledger order. Back-dated
// records stay where they were inserted.
func ChartSeries(l ledger.Ledger) []Point {
	points := make([]Point, len(l.Expenses))
	for i, e := range l.Expenses {
		points[i] = Point{X: e.Date.String(), Y: e.Amount.Float(), Category: e.Category}
	}
	return points
}

// ChronologicalSeries is ChartSeries stably sorted by date.
func ChronologicalSeries(l ledger.Ledger) []Point {
	points := ChartSeries(l)
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].X < points[j].X
	})
	return points
}

// ByCategory totals amounts per category, in first-seen order.
func ByCategory(l ledger.Ledger) []core.CategoryAmount {
	return byCategory(l.Expenses)
}

func byCategory(expenses []core.Expense) []core.CategoryAmount {
	index := map[string]int{}
	out := []core.CategoryAmount{}
	for _, e := range expenses {
		i, ok := index[e.Category]
		if !ok {
			i = len(out)
			index[e.Category] = i
			out = append(out, core.CategoryAmount{Name: e.Category})
		}
		out[i].Amount.Cents += e.Amount.Cents
	}
	return out
}

// MonthOverview summarizes the records dated within year/month.
func MonthOverview(l ledger.Ledger, year, month int) core.MonthOverview {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	begin := now.With(first).BeginningOfMonth()
	end := now.With(first).EndOfMonth()

	var in []core.Expense
	for _, e := range l.Expenses {
		if e.Date.Before(begin) || e.Date.After(end) {
			continue
		}
		in = append(in, e)
	}

	overview := core.MonthOverview{
		Year:       year,
		Month:      month,
		Count:      len(in),
		ByCategory: byCategory(in),
	}
	for _, e := range in {
		overview.Total.Cents += e.Amount.Cents
	}
	return overview
}
