package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"speseledger/internal/calc"
	"speseledger/internal/core"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// PrintExpenses writes the record table with positional indices.
func PrintExpenses(w io.Writer, expenses []core.Expense) error {
	if len(expenses) == 0 {
		_, err := fmt.Fprintln(w, "No expenses.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "INDEX\tDATE\tCATEGORY\tAMOUNT\tID")
	for i, e := range expenses {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i, e.Date, e.Category, e.Amount, e.ID)
	}
	return tw.Flush()
}

// PrintTotals writes income, spent and remaining.
func PrintTotals(w io.Writer, s calc.State) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "Monthly income:\t%.2f\n", s.Income)
	fmt.Fprintf(tw, "Total spent:\t%.2f\n", s.TotalSpent)
	fmt.Fprintf(tw, "Remaining:\t%.2f\n", s.Remaining)
	return tw.Flush()
}

// PrintState writes the record table followed by the totals.
func PrintState(w io.Writer, s calc.State) error {
	if err := PrintExpenses(w, s.Expenses); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return PrintTotals(w, s)
}

// PrintSeries writes one chart point per line.
func PrintSeries(w io.Writer, series []calc.Point) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "X\tY\tCATEGORY")
	for _, p := range series {
		fmt.Fprintf(tw, "%s\t%.2f\t%s\n", p.X, p.Y, p.Category)
	}
	return tw.Flush()
}

// PrintOverview writes the totals of one calendar month.
func PrintOverview(w io.Writer, o core.MonthOverview) error {
	fmt.Fprintf(w, "%04d-%02d: %d expenses, total %s\n", o.Year, o.Month, o.Count, o.Total)
	if len(o.ByCategory) == 0 {
		return nil
	}
	tw := newTable(w)
	for _, c := range o.ByCategory {
		fmt.Fprintf(tw, "  %s\t%s\n", c.Name, c.Amount)
	}
	return tw.Flush()
}

// PrintDraft echoes a rejected draft so the user can correct it.
func PrintDraft(w io.Writer, d core.Draft) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "  date:\t%s\n", d.Date)
	fmt.Fprintf(tw, "  category:\t%s\n", d.Category)
	fmt.Fprintf(tw, "  amount:\t%g\n", d.Amount)
	return tw.Flush()
}
