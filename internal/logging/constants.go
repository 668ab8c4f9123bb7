package logging

// Standard field names, so that log output can be filtered consistently.
const (
	FieldUserID        = "user_id"
	FieldTransactionID = "transaction_id"
	FieldRuleID        = "rule_id"
	FieldFormat        = "format"
	FieldFilename      = "filename"
	FieldCategory      = "category"
	FieldReason        = "reason"
	FieldRow           = "row"
	FieldCount         = "count"
	FieldSkipped       = "skipped"
	FieldInputFile     = "input_file"
	FieldOutputFile    = "output_file"
	FieldStore         = "store"
	FieldComponent     = "component"
)
