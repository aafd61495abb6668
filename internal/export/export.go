// Package export renders a ledger and its derived state for other tools.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"speseledger/internal/calc"
	"speseledger/internal/ledger"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts json, yaml/yml and csv in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported export format %q: must be json, yaml or csv", s)
	}
}

type Row struct {
	Index    int     `json:"index" yaml:"index"`
	ID       string  `json:"id" yaml:"id"`
	Date     string  `json:"date" yaml:"date"`
	Category string  `json:"category" yaml:"category"`
	Amount   float64 `json:"amount" yaml:"amount"`
}

type CategoryTotal struct {
	Category string  `json:"category" yaml:"category"`
	Total    float64 `json:"total" yaml:"total"`
}

// Document is the JSON and YAML export shape.
type Document struct {
	MonthlyIncome float64         `json:"monthly_income" yaml:"monthly_income"`
	TotalSpent    float64         `json:"total_spent" yaml:"total_spent"`
	Remaining     float64         `json:"remaining" yaml:"remaining"`
	Expenses      []Row           `json:"expenses" yaml:"expenses"`
	ByCategory    []CategoryTotal `json:"by_category" yaml:"by_category"`
	Series        []calc.Point    `json:"series" yaml:"series"`
}

// NewDocument derives the export document from l.
func NewDocument(l ledger.Ledger) Document {
	state := calc.Derive(l)
	doc := Document{
		MonthlyIncome: state.Income,
		TotalSpent:    state.TotalSpent,
		Remaining:     state.Remaining,
		Expenses:      make([]Row, len(state.Expenses)),
		ByCategory:    []CategoryTotal{},
		Series:        state.Series,
	}
	for i, e := range state.Expenses {
		doc.Expenses[i] = Row{Index: i, ID: e.ID, Date: e.Date.String(), Category: e.Category, Amount: e.Amount.Float()}
	}
	for _, c := range calc.ByCategory(l) {
		doc.ByCategory = append(doc.ByCategory, CategoryTotal{Category: c.Name, Total: c.Amount.Float()})
	}
	return doc
}

// Write renders l to w in format.
func Write(w io.Writer, format Format, l ledger.Ledger) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(NewDocument(l)); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(NewDocument(l)); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return nil
	case FormatCSV:
		return writeCSV(w, l)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func writeCSV(w io.Writer, l ledger.Ledger) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"index", "id", "date", "category", "amount"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, e := range l.Expenses {
		row := []string{strconv.Itoa(i), e.ID, e.Date.String(), e.Category, e.Amount.String()}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
