// Package ledger holds the expense ledger: the ordered record sequence plus
// the declared monthly income, the validated transitions over it and its
// write-through persistence.
package ledger

import (
	"errors"
	"fmt"

	"speseledger/internal/core"
)

var (
	// ErrRejected wraps a draft that failed validation. The ledger is unchanged.
	ErrRejected = errors.New("expense rejected")
	// ErrInvariantViolation reports a caller contract breach such as an
	// out-of-range index.
	ErrInvariantViolation = errors.New("invariant violation")
	// ErrNotFound reports an unknown record id.
	ErrNotFound = errors.New("expense not found")
	// ErrCorrupt reports persisted state that cannot be decoded.
	ErrCorrupt = errors.New("persisted ledger is corrupt")
	// ErrPersist reports a failed write. The in-memory ledger was already
	// updated when it is returned.
	ErrPersist = errors.New("persist ledger")
)

// Ledger is an immutable snapshot. Transitions return a new value and never
// share the record slice with their input.
type Ledger struct {
	Expenses      []core.Expense
	MonthlyIncome core.Money
}

// Empty returns a ledger with no records and zero income.
func Empty() Ledger {
	return Ledger{Expenses: []core.Expense{}}
}

// Len returns the number of records.
func (l Ledger) Len() int {
	return len(l.Expenses)
}

// Clone returns a copy that does not share the record slice.
func (l Ledger) Clone() Ledger {
	out := Ledger{
		Expenses:      make([]core.Expense, len(l.Expenses)),
		MonthlyIncome: l.MonthlyIncome,
	}
	copy(out.Expenses, l.Expenses)
	return out
}

// IndexOf returns the position of the record with id, or -1.
func (l Ledger) IndexOf(id string) int {
	for i, e := range l.Expenses {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// AddExpense validates draft and appends it. Duplicates are legal. On
// rejection current is returned as is together with an error wrapping
// ErrRejected and the reason from core. A draft that would push the total
// spent past core.MaxCents is rejected with core.ErrInvalidAmount.
func AddExpense(current Ledger, draft core.Draft) (Ledger, error) {
	e, err := draft.Expense()
	if err != nil {
		return current, fmt.Errorf("%w: %w", ErrRejected, err)
	}
	spent, err := spentCents(current.Expenses)
	if err == nil {
		_, err = spent.AddChecked(e.Amount)
	}
	if err != nil {
		return current, fmt.Errorf("%w: total spent would exceed %s: %w", ErrRejected, core.Money{Cents: core.MaxCents}, err)
	}
	return appendExpense(current, e), nil
}

// spentCents sums amounts, failing with core.ErrInvalidAmount past
// core.MaxCents.
func spentCents(expenses []core.Expense) (core.Money, error) {
	var total core.Money
	for _, e := range expenses {
		next, err := total.AddChecked(e.Amount)
		if err != nil {
			return core.Money{}, err
		}
		total = next
	}
	return total, nil
}

func appendExpense(current Ledger, e core.Expense) Ledger {
	next := Ledger{
		Expenses:      make([]core.Expense, len(current.Expenses), len(current.Expenses)+1),
		MonthlyIncome: current.MonthlyIncome,
	}
	copy(next.Expenses, current.Expenses)
	next.Expenses = append(next.Expenses, e)
	return next
}

// DeleteExpense removes the record at index. Indices are positional: every
// later record shifts down by one.
func DeleteExpense(current Ledger, index int) (Ledger, error) {
	if index < 0 || index >= len(current.Expenses) {
		return current, fmt.Errorf("%w: index %d out of range [0, %d)", ErrInvariantViolation, index, len(current.Expenses))
	}
	next := Ledger{
		Expenses:      make([]core.Expense, 0, len(current.Expenses)-1),
		MonthlyIncome: current.MonthlyIncome,
	}
	next.Expenses = append(next.Expenses, current.Expenses[:index]...)
	next.Expenses = append(next.Expenses, current.Expenses[index+1:]...)
	return next, nil
}

// DeleteExpenseByID removes the record carrying id.
func DeleteExpenseByID(current Ledger, id string) (Ledger, error) {
	i := current.IndexOf(id)
	if i < 0 {
		return current, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return DeleteExpense(current, i)
}

// SetMonthlyIncome replaces the income with value as given. Negative values
// are accepted.
func SetMonthlyIncome(current Ledger, value float64) Ledger {
	next := current.Clone()
	next.MonthlyIncome = core.FromFloat(value)
	return next
}
