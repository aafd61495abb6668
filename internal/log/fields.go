package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldErrorType   = "error_type"
	FieldBackend     = "backend"
	FieldKey         = "key"
	FieldPath        = "path"
	FieldCount       = "count"
	FieldIndex       = "index"
	FieldExpenseID   = "expense_id"
	FieldDate        = "date"
	FieldCategory    = "category"
	FieldAmountCents = "amount_cents"
	FieldIncomeCents = "income_cents"
	FieldTotalCents  = "total_cents"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentBackend = "backend"
	ComponentAMQP    = "amqp"
	ComponentExport  = "export"
	ComponentCLI     = "cli"
)

// Operations defines standard operation names
const (
	OpLoad      = "load"
	OpAdd       = "add"
	OpDelete    = "delete"
	OpSetIncome = "set_income"
	OpPersist   = "persist"
	OpPublish   = "publish"
	OpExport    = "export"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeInvariant     = "invariant_violation"
	ErrorTypeCorrupt       = "corrupt_data"
	ErrorTypePersistence   = "persistence_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeNetwork       = "network_error"
	ErrorTypeNotFound      = "not_found_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithErrorType adds the error category
func (f LogFields) WithErrorType(errorType string) LogFields {
	f[FieldErrorType] = errorType
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithExpense adds expense-related fields
func (f LogFields) WithExpense(id, date, category string, amountCents int64) LogFields {
	f[FieldExpenseID] = id
	f[FieldDate] = date
	f[FieldCategory] = category
	f[FieldAmountCents] = amountCents
	return f
}

// WithIndex adds the positional index of a record
func (f LogFields) WithIndex(index int) LogFields {
	f[FieldIndex] = index
	return f
}

// WithTotals adds the derived totals after a mutation
func (f LogFields) WithTotals(count int, totalCents, incomeCents int64) LogFields {
	f[FieldCount] = count
	f[FieldTotalCents] = totalCents
	f[FieldIncomeCents] = incomeCents
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
