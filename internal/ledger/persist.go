package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"speseledger/internal/core"
	applog "speseledger/internal/log"
	"speseledger/internal/storage"
)

// Fixed storage keys.
const (
	ExpensesKey = "expenses"
	IncomeKey   = "monthly_income"
)

// Persister loads and saves whole ledgers.
type Persister interface {
	Load(ctx context.Context) (Ledger, error)
	Save(ctx context.Context, l Ledger) error
}

// record is the stored shape of one expense.
type record struct {
	ID       string  `json:"id,omitempty"`
	Date     string  `json:"date"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// KVPersister stores the record array under ExpensesKey and, when income
// persistence is on, the income as a JSON number under IncomeKey.
type KVPersister struct {
	kv            storage.KV
	persistIncome bool
}

func NewKVPersister(kv storage.KV, persistIncome bool) *KVPersister {
	return &KVPersister{kv: kv, persistIncome: persistIncome}
}

// Load implements Persister. Missing keys yield an empty ledger. Undecodable
// values and records breaking the ledger invariants yield ErrCorrupt.
func (p *KVPersister) Load(ctx context.Context) (Ledger, error) {
	l := Empty()

	raw, ok, err := p.kv.Get(ctx, ExpensesKey)
	if errors.Is(err, storage.ErrCorrupt) {
		return Empty(), fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if err != nil {
		return Empty(), fmt.Errorf("read %s: %w", ExpensesKey, err)
	}
	if ok {
		expenses, err := decodeExpenses(raw)
		if err != nil {
			return Empty(), err
		}
		l.Expenses = expenses
	}

	if !p.persistIncome {
		return l, nil
	}
	raw, ok, err = p.kv.Get(ctx, IncomeKey)
	if err != nil {
		return Empty(), fmt.Errorf("read %s: %w", IncomeKey, err)
	}
	if ok {
		var income float64
		if err := json.Unmarshal(raw, &income); err != nil {
			return Empty(), fmt.Errorf("%w: %s: %w", ErrCorrupt, IncomeKey, err)
		}
		l.MonthlyIncome = core.FromFloat(income)
	}
	return l, nil
}

// Save implements Persister. Each key is overwritten whole.
func (p *KVPersister) Save(ctx context.Context, l Ledger) error {
	records := make([]record, len(l.Expenses))
	for i, e := range l.Expenses {
		records[i] = record{
			ID:       e.ID,
			Date:     e.Date.String(),
			Category: e.Category,
			Amount:   e.Amount.Float(),
		}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ExpensesKey, err)
	}
	if err := p.kv.Put(ctx, ExpensesKey, data); err != nil {
		return err
	}

	if !p.persistIncome {
		return nil
	}
	data, err = json.Marshal(l.MonthlyIncome.Float())
	if err != nil {
		return fmt.Errorf("encode %s: %w", IncomeKey, err)
	}
	return p.kv.Put(ctx, IncomeKey, data)
}

func decodeExpenses(raw []byte) ([]core.Expense, error) {
	var records []record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, ExpensesKey, err)
	}
	expenses := make([]core.Expense, 0, len(records))
	for i, r := range records {
		date, err := core.ParseDate(r.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", ErrCorrupt, i, err)
		}
		if math.IsNaN(r.Amount) {
			return nil, fmt.Errorf("%w: record %d: %w", ErrCorrupt, i, core.ErrInvalidAmount)
		}
		e := core.Expense{
			ID:       r.ID,
			Date:     date,
			Category: r.Category,
			Amount:   core.FromFloat(r.Amount),
		}
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", ErrCorrupt, i, err)
		}
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		expenses = append(expenses, e)
	}
	if _, err := spentCents(expenses); err != nil {
		return nil, fmt.Errorf("%w: total spent out of range: %w", ErrCorrupt, err)
	}
	return expenses, nil
}

// Load reads persisted state through p. It never fails: absent, unreadable or
// corrupt state is logged and degrades to an empty ledger.
func Load(ctx context.Context, p Persister) Ledger {
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentLedger)

	l, err := p.Load(ctx)
	if err != nil {
		errorType := applog.ErrorTypePersistence
		if errors.Is(err, ErrCorrupt) {
			errorType = applog.ErrorTypeCorrupt
		}
		logger.WarnContext(ctx, "Persisted ledger unusable, starting empty",
			applog.NewFields().WithError(err).WithErrorType(errorType).WithOperation(applog.OpLoad).ToSlice()...)
		return Empty()
	}

	logger.DebugContext(ctx, "Ledger loaded",
		applog.FieldCount, l.Len(),
		applog.FieldIncomeCents, l.MonthlyIncome.Cents)
	return l
}
