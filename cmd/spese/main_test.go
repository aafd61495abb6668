package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"speseledger/internal/core"
	"speseledger/internal/ledger"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.json")
	t.Setenv("DATA_BACKEND", "file")
	t.Setenv("LEDGER_FILE_PATH", path)
	t.Setenv("PERSIST_INCOME", "true")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("AMQP_URL", "")
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	addDate, addCategory, addOther, addAmount = "", "", "", ""
	deleteID, summaryMonth, chartChronological = "", monthValue{}, false
	exportFormat, exportOutput = "json", ""

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestScenario(t *testing.T) {
	setupEnv(t)

	_, _, err := run(t, "income", "1000")
	require.NoError(t, err)
	_, _, err = run(t, "add", "--date", "2024-03-01", "--category", "Food", "--amount", "50")
	require.NoError(t, err)
	out, _, err := run(t, "add", "--date", "2024-02-28", "--category", "Other", "--other", "Gifts", "--amount", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "Gifts")
	assert.Contains(t, out, "930.00")

	out, _, err = run(t, "delete", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 2024-03-01 Food 50.00")
	assert.Contains(t, out, "980.00")

	out, _, err = run(t, "export", "--format", "json")
	require.NoError(t, err)
	var doc struct {
		MonthlyIncome float64 `json:"monthly_income"`
		TotalSpent    float64 `json:"total_spent"`
		Remaining     float64 `json:"remaining"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 1000.0, doc.MonthlyIncome)
	assert.Equal(t, 20.0, doc.TotalSpent)
	assert.Equal(t, 980.0, doc.Remaining)
}

func TestAddRejectedKeepsDraft(t *testing.T) {
	setupEnv(t)

	_, errOut, err := run(t, "add", "--date", "2024-03-01", "--category", "Food", "--amount", "-5")
	require.ErrorIs(t, err, ledger.ErrRejected)
	assert.Contains(t, errOut, "Draft kept")
	assert.Contains(t, errOut, "2024-03-01")

	_, errOut, err = run(t, "add", "--date", "2024-03-01", "--category", "Other", "--amount", "5")
	require.ErrorIs(t, err, ledger.ErrRejected)
	assert.Contains(t, errOut, "Other")

	out, _, err := run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No expenses.")
}

func TestAddUnknownCategory(t *testing.T) {
	setupEnv(t)

	_, _, err := run(t, "add", "--category", "Rent", "--amount", "5")
	assert.Error(t, err)
}

func TestAddCommaAmount(t *testing.T) {
	setupEnv(t)

	out, _, err := run(t, "add", "--date", "2024-03-01", "--category", "Food", "--amount", "12,50")
	require.NoError(t, err)
	assert.Contains(t, out, "12.50")

	_, _, err = run(t, "add", "--date", "2024-03-01", "--category", "Food", "--amount", "twelve")
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
}

func TestIncomeNegativeAccepted(t *testing.T) {
	setupEnv(t)

	out, _, err := run(t, "income", "--", "-200")
	require.NoError(t, err)
	assert.Contains(t, out, "-200.00")
}

func TestDeleteOutOfRange(t *testing.T) {
	setupEnv(t)

	_, _, err := run(t, "delete", "3")
	assert.ErrorIs(t, err, ledger.ErrInvariantViolation)

	_, _, err = run(t, "delete")
	assert.Error(t, err)
}

func TestChartChronological(t *testing.T) {
	setupEnv(t)

	_, _, err := run(t, "add", "--date", "2024-03-05", "--category", "Food", "--amount", "1")
	require.NoError(t, err)
	_, _, err = run(t, "add", "--date", "2024-03-01", "--category", "Entertainment", "--amount", "2")
	require.NoError(t, err)

	out, _, err := run(t, "chart")
	require.NoError(t, err)
	assert.Less(t, bytes.Index([]byte(out), []byte("2024-03-05")), bytes.Index([]byte(out), []byte("2024-03-01")))

	out, _, err = run(t, "chart", "--chronological")
	require.NoError(t, err)
	assert.Less(t, bytes.Index([]byte(out), []byte("2024-03-01")), bytes.Index([]byte(out), []byte("2024-03-05")))
}

func TestSummaryMonth(t *testing.T) {
	setupEnv(t)

	_, _, err := run(t, "add", "--date", "2024-03-05", "--category", "Food", "--amount", "10")
	require.NoError(t, err)
	_, _, err = run(t, "add", "--date", "2024-04-01", "--category", "Food", "--amount", "99")
	require.NoError(t, err)

	out, _, err := run(t, "summary", "--month", "2024-03")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-03: 1 expenses, total 10.00")

	_, _, err = run(t, "summary", "--month", "March")
	assert.Error(t, err)
}

func TestMonthValue(t *testing.T) {
	var m monthValue
	assert.Equal(t, "", m.String())
	require.NoError(t, m.Set("2024-03"))
	assert.Equal(t, "2024-03", m.String())
	assert.Equal(t, "month", m.Type())
	assert.Error(t, m.Set("2024-13"))
}
