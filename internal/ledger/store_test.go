package ledger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"speseledger/internal/core"
	applog "speseledger/internal/log"
	"speseledger/internal/storage"
)

type failingKV struct {
	storage.KV
	err error
}

func (f failingKV) Put(context.Context, string, []byte) error { return f.err }

type brokenReader struct{ storage.Memory }

func (*brokenReader) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("disk unplugged")
}

func TestPersistRoundTrip(t *testing.T) {
	ctx := context.Background()
	l := mustAdd(t, Empty(), core.Draft{Date: "2024-01-05", Category: "Food", Amount: 50})
	l = mustAdd(t, l, core.Draft{Date: "2024-01-01", Category: "Gifts", Amount: 20.25})
	l = SetMonthlyIncome(l, 1000)

	t.Run("income persisted", func(t *testing.T) {
		p := NewKVPersister(storage.NewMemory(), true)
		require.NoError(t, p.Save(ctx, l))
		got, err := p.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, l, got)
	})

	t.Run("income not persisted", func(t *testing.T) {
		kv := storage.NewMemory()
		p := NewKVPersister(kv, false)
		require.NoError(t, p.Save(ctx, l))
		got, err := p.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, l.Expenses, got.Expenses)
		assert.Zero(t, got.MonthlyIncome.Cents)

		_, ok, _ := kv.Get(ctx, IncomeKey)
		assert.False(t, ok)
	})

	t.Run("file backend", func(t *testing.T) {
		f, err := storage.NewFile(filepath.Join(t.TempDir(), "ledger.json"))
		require.NoError(t, err)
		p := NewKVPersister(f, true)
		require.NoError(t, p.Save(ctx, l))
		got, err := p.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, l, got)
	})
}

func TestPersistFormat(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	l := mustAdd(t, Empty(), core.Draft{Date: "2024-01-05", Category: "Food", Amount: 50})
	l = SetMonthlyIncome(l, 1000)
	require.NoError(t, NewKVPersister(kv, true).Save(ctx, l))

	raw, ok, err := kv.Get(ctx, ExpensesKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":"`+l.Expenses[0].ID+`","date":"2024-01-05","category":"Food","amount":50}]`, string(raw))

	raw, _, _ = kv.Get(ctx, IncomeKey)
	assert.JSONEq(t, `1000`, string(raw))
}

func TestLoadWithoutIDsAssignsThem(t *testing.T) {
	kv := storage.NewMemoryFrom(map[string][]byte{
		ExpensesKey: []byte(`[{"date":"2024-01-05","category":"Food","amount":50},{"date":"2024-01-01","category":"Gifts","amount":20}]`),
	})
	l, err := NewKVPersister(kv, true).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, l.Len())
	assert.NotEmpty(t, l.Expenses[0].ID)
	assert.NotEqual(t, l.Expenses[0].ID, l.Expenses[1].ID)
	assert.Equal(t, int64(2000), l.Expenses[1].Amount.Cents)
}

func TestLoadDegradesToEmpty(t *testing.T) {
	cases := map[string]map[string][]byte{
		"absent":           {},
		"not json":         {ExpensesKey: []byte(`{oops`)},
		"wrong shape":      {ExpensesKey: []byte(`{"date":"2024-01-05"}`)},
		"bad date":         {ExpensesKey: []byte(`[{"date":"05/01/2024","category":"Food","amount":5}]`)},
		"empty category":   {ExpensesKey: []byte(`[{"date":"2024-01-05","category":"","amount":5}]`)},
		"zero amount":      {ExpensesKey: []byte(`[{"date":"2024-01-05","category":"Food","amount":0}]`)},
		"oversized amount": {ExpensesKey: []byte(`[{"date":"2024-01-05","category":"Food","amount":1e16}]`)},
		"total overflow":   {ExpensesKey: []byte(`[{"date":"2024-01-05","category":"Food","amount":6e14},{"date":"2024-01-06","category":"Food","amount":6e14}]`)},
		"corrupt income":   {ExpensesKey: []byte(`[]`), IncomeKey: []byte(`"lots"`)},
	}
	for name, seed := range cases {
		t.Run(name, func(t *testing.T) {
			l := Load(context.Background(), NewKVPersister(storage.NewMemoryFrom(seed), true))
			assert.Equal(t, Empty(), l)
		})
	}

	t.Run("read error", func(t *testing.T) {
		l := Load(context.Background(), NewKVPersister(&brokenReader{}, true))
		assert.Equal(t, Empty(), l)
	})
}

func TestKVPersisterReportsCorrupt(t *testing.T) {
	kv := storage.NewMemoryFrom(map[string][]byte{ExpensesKey: []byte(`nope`)})
	_, err := NewKVPersister(kv, true).Load(context.Background())
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestStoreScenario(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	s := Open(ctx, NewKVPersister(kv, true))
	assert.Equal(t, Empty(), s.Snapshot())

	require.NoError(t, s.SetMonthlyIncome(ctx, 1000))

	food, err := s.Add(ctx, core.Draft{Date: "2024-01-05", Category: "Food", Amount: 50})
	require.NoError(t, err)
	assert.Equal(t, "Food", food.Category)
	require.Equal(t, 1, s.Snapshot().Len())

	category, err := core.ResolveCategory(core.CategoryOther, "Gifts")
	require.NoError(t, err)
	_, err = s.Add(ctx, core.Draft{Date: "2024-01-01", Category: category, Amount: 20})
	require.NoError(t, err)

	removed, err := s.Delete(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, food, removed)

	snap := s.Snapshot()
	require.Equal(t, 1, snap.Len())
	assert.Equal(t, "2024-01-01", snap.Expenses[0].Date.String())
	assert.Equal(t, "Gifts", snap.Expenses[0].Category)
	assert.Equal(t, int64(2000), snap.Expenses[0].Amount.Cents)

	reopened := Open(ctx, NewKVPersister(kv, true))
	assert.Equal(t, snap, reopened.Snapshot(), "every mutation is written through")
	assert.Equal(t, 4, kv.Puts()/2, "one save per mutation, two keys per save")
}

func TestStoreRejectedAndOutOfRange(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	s := Open(ctx, NewKVPersister(kv, true))

	var changes []Change
	s.Subscribe(func(_ context.Context, c Change) { changes = append(changes, c) })

	_, err := s.Add(ctx, core.Draft{Date: "2024-01-05", Category: "Food", Amount: -1})
	require.ErrorIs(t, err, ErrRejected)

	_, err = s.Delete(ctx, 0)
	require.ErrorIs(t, err, ErrInvariantViolation)

	_, err = s.DeleteByID(ctx, "nope")
	require.ErrorIs(t, err, ErrNotFound)

	assert.Empty(t, changes)
	assert.Zero(t, kv.Puts(), "failed operations are not persisted")
	assert.Equal(t, Empty(), s.Snapshot())
}

func TestStoreNotifiesObservers(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, NewKVPersister(storage.NewMemory(), true))

	var changes []Change
	s.Subscribe(func(_ context.Context, c Change) { changes = append(changes, c) })

	e, err := s.Add(ctx, core.Draft{Date: "2024-01-05", Category: "Food", Amount: 50})
	require.NoError(t, err)
	require.NoError(t, s.SetMonthlyIncome(ctx, 10))
	_, err = s.DeleteByID(ctx, e.ID)
	require.NoError(t, err)

	require.Len(t, changes, 3)
	assert.Equal(t, OpAdd, changes[0].Op)
	assert.Equal(t, 0, changes[0].Index)
	assert.Equal(t, e, changes[0].Expense)
	assert.Equal(t, 1, changes[0].Ledger.Len())

	assert.Equal(t, OpSetIncome, changes[1].Op)
	assert.Equal(t, -1, changes[1].Index)
	assert.Equal(t, int64(1000), changes[1].Ledger.MonthlyIncome.Cents)

	assert.Equal(t, OpDelete, changes[2].Op)
	assert.Equal(t, e.ID, changes[2].Expense.ID)
	assert.Zero(t, changes[2].Ledger.Len())
}

func TestStoreSurfacesPersistFailure(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	s := Open(ctx, NewKVPersister(failingKV{KV: storage.NewMemory(), err: boom}, true))

	notified := false
	s.Subscribe(func(context.Context, Change) { notified = true })

	_, err := s.Add(ctx, core.Draft{Date: "2024-01-05", Category: "Food", Amount: 50})
	require.ErrorIs(t, err, ErrPersist)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, s.Snapshot().Len(), "memory keeps the mutation")
	assert.True(t, notified)
}

func TestStoreLogsTotalsAndNotFound(t *testing.T) {
	var buf bytes.Buffer
	ctx := applog.WithContext(context.Background(), applog.New(applog.Config{Level: slog.LevelDebug, Output: &buf}))

	s := Open(ctx, NewKVPersister(storage.NewMemory(), true))
	require.NoError(t, s.SetMonthlyIncome(ctx, 100))
	_, err := s.Add(ctx, core.Draft{Date: "2024-01-05", Category: "Food", Amount: 12.5})
	require.NoError(t, err)
	_, err = s.DeleteByID(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	out := buf.String()
	assert.Contains(t, out, "total_cents=1250")
	assert.Contains(t, out, "income_cents=10000")
	assert.Contains(t, out, "error_type=not_found_error")
}
