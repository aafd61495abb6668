package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"speseledger/internal/core"
	"speseledger/internal/ledger"
)

func sample(t *testing.T) ledger.Ledger {
	t.Helper()
	l := ledger.SetMonthlyIncome(ledger.Empty(), 1000)
	for _, d := range []core.Draft{
		{Date: "2024-01-05", Category: "Food", Amount: 50},
		{Date: "2024-01-01", Category: "Gifts, misc", Amount: 20.5},
		{Date: "2024-01-07", Category: "Food", Amount: 4.5},
	} {
		var err error
		l, err = ledger.AddExpense(l, d)
		require.NoError(t, err)
	}
	return l
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": FormatJSON, "YAML": FormatYAML, "yml": FormatYAML, " csv ": FormatCSV} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestNewDocument(t *testing.T) {
	l := sample(t)
	doc := NewDocument(l)

	assert.Equal(t, 1000.0, doc.MonthlyIncome)
	assert.Equal(t, 75.0, doc.TotalSpent)
	assert.Equal(t, 925.0, doc.Remaining)
	require.Len(t, doc.Expenses, 3)
	assert.Equal(t, Row{Index: 1, ID: l.Expenses[1].ID, Date: "2024-01-01", Category: "Gifts, misc", Amount: 20.5}, doc.Expenses[1])
	assert.Equal(t, []CategoryTotal{{Category: "Food", Total: 54.5}, {Category: "Gifts, misc", Total: 20.5}}, doc.ByCategory)
	require.Len(t, doc.Series, 3)
	assert.Equal(t, "2024-01-01", doc.Series[1].X)
}

func TestWriteJSONAndYAML(t *testing.T) {
	l := sample(t)
	want := NewDocument(l)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, l))
	var fromJSON Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fromJSON))
	assert.Equal(t, want, fromJSON)

	buf.Reset()
	require.NoError(t, Write(&buf, FormatYAML, l))
	assert.Contains(t, buf.String(), "monthly_income: 1000")
	var fromYAML Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, want, fromYAML)
}

func TestWriteCSV(t *testing.T) {
	l := sample(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, l))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"index", "id", "date", "category", "amount"}, records[0])
	assert.Equal(t, []string{"1", l.Expenses[1].ID, "2024-01-01", "Gifts, misc", "20.50"}, records[2])
}

func TestWriteEmptyLedger(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, ledger.Empty()))
	assert.Contains(t, buf.String(), `"expenses": []`)
	assert.Contains(t, buf.String(), `"series": []`)

	assert.Error(t, Write(&buf, Format("xml"), ledger.Empty()))
}
