package logger

// Standard field names for consistent structured logging across mirror.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Run identity
	FieldRunID     = "run_id"
	FieldComponent = "component"

	// Source locations
	FieldFile   = "file"
	FieldLine   = "line"
	FieldColumn = "column"

	// Translation units
	FieldClass    = "class"
	FieldMember   = "member"
	FieldOperator = "operator"
	FieldMarker   = "marker"
	FieldMode     = "mode"
	FieldUnit     = "unit"

	// Outputs
	FieldOutput = "output"
	FieldReport = "report"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount = "count"
	FieldSize  = "size"
)
