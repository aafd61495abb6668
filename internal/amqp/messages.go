package amqp

import (
	"encoding/json"
	"time"

	"speseledger/internal/calc"
	"speseledger/internal/ledger"
)

// ExpensePayload is the wire shape of one record.
type ExpensePayload struct {
	ID       string  `json:"id"`
	Date     string  `json:"date"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// LedgerChangedMessage announces one applied mutation together with the
// derived totals after it.
type LedgerChangedMessage struct {
	Op         string          `json:"op"`
	Index      int             `json:"index"`
	Expense    *ExpensePayload `json:"expense,omitempty"`
	Count      int             `json:"count"`
	Income     float64         `json:"income"`
	TotalSpent float64         `json:"total_spent"`
	Remaining  float64         `json:"remaining"`
	Timestamp  time.Time       `json:"timestamp"`
}

// NewLedgerChangedMessage builds the message for c.
func NewLedgerChangedMessage(c ledger.Change) *LedgerChangedMessage {
	msg := &LedgerChangedMessage{
		Op:         string(c.Op),
		Index:      c.Index,
		Count:      c.Ledger.Len(),
		Income:     c.Ledger.MonthlyIncome.Float(),
		TotalSpent: calc.TotalSpent(c.Ledger),
		Remaining:  calc.Remaining(c.Ledger),
		Timestamp:  time.Now().UTC(),
	}
	if c.Op != ledger.OpSetIncome {
		msg.Expense = &ExpensePayload{
			ID:       c.Expense.ID,
			Date:     c.Expense.Date.String(),
			Category: c.Expense.Category,
			Amount:   c.Expense.Amount.Float(),
		}
	}
	return msg
}

// ToJSON converts the message to JSON bytes
func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerChangedMessageFromJSON creates a message from JSON bytes
func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
