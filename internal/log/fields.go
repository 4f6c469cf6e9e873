package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldError         = "error"
	FieldOperation     = "operation"

	FieldCardID          = "card_id"
	FieldCardKind        = "card_kind"
	FieldTransactionID   = "transaction_id"
	FieldTransactionKind = "transaction_kind"
	FieldAmountCents     = "amount_cents"
	FieldDeltaCents      = "delta_cents"
	FieldBalanceCents    = "balance_cents"
	FieldSheetsRef       = "sheets_ref"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentExport  = "export"
)

// Operations defines standard operation names
const (
	OpCreate = "create"
	OpRecord = "record"
	OpDelete = "delete"
	OpAudit  = "audit"
	OpExport = "export"
)

// LogFields provides a builder for structured log fields
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithCard adds card-related fields
func (f LogFields) WithCard(id int64, kind string, balanceCents int64) LogFields {
	f[FieldCardID] = id
	f[FieldCardKind] = kind
	f[FieldBalanceCents] = balanceCents
	return f
}

// WithTransaction adds transaction-related fields
func (f LogFields) WithTransaction(id, cardID int64, kind string, amountCents int64) LogFields {
	f[FieldTransactionID] = id
	f[FieldCardID] = cardID
	f[FieldTransactionKind] = kind
	f[FieldAmountCents] = amountCents
	return f
}

// ToSlice converts LogFields to a flat key/value slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
