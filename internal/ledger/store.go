package ledger

import (
	"context"
	"fmt"
	"sync"

	"speseledger/internal/core"
	applog "speseledger/internal/log"
)

// Op names a ledger mutation.
type Op string

const (
	OpAdd       Op = "add"
	OpDelete    Op = "delete"
	OpSetIncome Op = "set_income"
)

// Change describes one applied mutation. Index is the position the record
// was appended at or removed from, -1 for income changes.
type Change struct {
	Op      Op
	Index   int
	Expense core.Expense
	Ledger  Ledger
}

// Observer is called after every applied mutation.
type Observer func(ctx context.Context, c Change)

// Store owns the current ledger snapshot. Every mutation is applied in
// memory, written through to the persister, then announced to observers.
type Store struct {
	mu        sync.Mutex
	persister Persister
	current   Ledger
	observers []Observer
}

// Open loads the persisted ledger. It never fails, see Load.
func Open(ctx context.Context, p Persister) *Store {
	return &Store{
		persister: p,
		current:   Load(ctx, p),
	}
}

// Subscribe registers an observer.
func (s *Store) Subscribe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Snapshot returns a copy of the current ledger.
func (s *Store) Snapshot() Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Add validates and appends draft. A rejected draft leaves the ledger
// untouched and returns an error wrapping ErrRejected.
func (s *Store) Add(ctx context.Context, draft core.Draft) (core.Expense, error) {
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentLedger)

	s.mu.Lock()
	next, err := AddExpense(s.current, draft)
	if err != nil {
		s.mu.Unlock()
		logger.InfoContext(ctx, "Expense rejected",
			applog.NewFields().WithError(err).WithErrorType(applog.ErrorTypeValidation).WithOperation(applog.OpAdd).ToSlice()...)
		return core.Expense{}, err
	}
	s.current = next
	s.mu.Unlock()

	index := next.Len() - 1
	e := next.Expenses[index]
	logger.InfoContext(ctx, "Expense added",
		applog.NewFields().
			WithExpense(e.ID, e.Date.String(), e.Category, e.Amount.Cents).
			WithIndex(index).
			WithOperation(applog.OpAdd).
			ToSlice()...)

	return e, s.commit(ctx, Change{Op: OpAdd, Index: index, Expense: e, Ledger: next})
}

// Delete removes the record at index. An out-of-range index returns an error
// wrapping ErrInvariantViolation.
func (s *Store) Delete(ctx context.Context, index int) (core.Expense, error) {
	s.mu.Lock()
	current := s.current
	next, err := DeleteExpense(current, index)
	if err != nil {
		s.mu.Unlock()
		applog.FromContext(ctx).WithComponent(applog.ComponentLedger).ErrorContext(ctx, "Delete out of range",
			applog.NewFields().WithError(err).WithErrorType(applog.ErrorTypeInvariant).WithIndex(index).WithOperation(applog.OpDelete).ToSlice()...)
		return core.Expense{}, err
	}
	s.current = next
	s.mu.Unlock()

	return s.deleted(ctx, current.Expenses[index], index, next)
}

// DeleteByID removes the record carrying id.
func (s *Store) DeleteByID(ctx context.Context, id string) (core.Expense, error) {
	s.mu.Lock()
	current := s.current
	index := current.IndexOf(id)
	next, err := DeleteExpenseByID(current, id)
	if err != nil {
		s.mu.Unlock()
		applog.FromContext(ctx).WithComponent(applog.ComponentLedger).InfoContext(ctx, "Delete of unknown expense",
			applog.NewFields().WithError(err).WithErrorType(applog.ErrorTypeNotFound).WithOperation(applog.OpDelete).ToSlice()...)
		return core.Expense{}, err
	}
	s.current = next
	s.mu.Unlock()

	return s.deleted(ctx, current.Expenses[index], index, next)
}

func (s *Store) deleted(ctx context.Context, e core.Expense, index int, next Ledger) (core.Expense, error) {
	applog.FromContext(ctx).WithComponent(applog.ComponentLedger).InfoContext(ctx, "Expense deleted",
		applog.NewFields().
			WithExpense(e.ID, e.Date.String(), e.Category, e.Amount.Cents).
			WithIndex(index).
			WithOperation(applog.OpDelete).
			ToSlice()...)
	return e, s.commit(ctx, Change{Op: OpDelete, Index: index, Expense: e, Ledger: next})
}

// SetMonthlyIncome replaces the income as given.
func (s *Store) SetMonthlyIncome(ctx context.Context, value float64) error {
	s.mu.Lock()
	next := SetMonthlyIncome(s.current, value)
	s.current = next
	s.mu.Unlock()

	applog.FromContext(ctx).WithComponent(applog.ComponentLedger).InfoContext(ctx, "Monthly income set",
		applog.FieldIncomeCents, next.MonthlyIncome.Cents,
		applog.FieldOperation, applog.OpSetIncome)

	return s.commit(ctx, Change{Op: OpSetIncome, Index: -1, Ledger: next})
}

// commit writes next through and notifies observers. Observers run even when
// the write fails since memory already holds the new state.
func (s *Store) commit(ctx context.Context, c Change) error {
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentLedger)

	var spent int64
	for _, e := range c.Ledger.Expenses {
		spent += e.Amount.Cents
	}

	var persistErr error
	if err := s.persister.Save(ctx, c.Ledger); err != nil {
		persistErr = fmt.Errorf("%w: %w", ErrPersist, err)
		logger.ErrorContext(ctx, "Ledger not persisted, memory and storage diverged",
			applog.NewFields().
				WithError(err).
				WithErrorType(applog.ErrorTypePersistence).
				WithOperation(applog.OpPersist).
				WithTotals(c.Ledger.Len(), spent, c.Ledger.MonthlyIncome.Cents).
				ToSlice()...)
	} else {
		logger.DebugContext(ctx, "Ledger persisted",
			applog.NewFields().
				WithOperation(applog.OpPersist).
				WithTotals(c.Ledger.Len(), spent, c.Ledger.MonthlyIncome.Cents).
				ToSlice()...)
	}

	s.mu.Lock()
	observers := append([]Observer(nil), s.observers...)
	s.mu.Unlock()
	for _, o := range observers {
		o(ctx, Change{Op: c.Op, Index: c.Index, Expense: c.Expense, Ledger: c.Ledger.Clone()})
	}
	return persistErr
}
