package logging

// Field names shared by all pipeline stages so log output can be filtered by key.
const (
	FieldRunID         = "run_id"
	FieldStage         = "stage"
	FieldTable         = "table"
	FieldBackend       = "backend"
	FieldTransactionID = "transaction_id"
	FieldMatchType     = "match_type"
	FieldRecurringID   = "recurring_id"
	FieldProject       = "project"
	FieldCurrency      = "currency"
	FieldYearMonth     = "year_month"
	FieldCounterparty  = "counterparty"
	FieldStatus        = "status"
	FieldError         = "error"
	FieldDuration      = "duration_ms"
	FieldCount         = "count"
	FieldInputFile     = "input_file"
)
