// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldService       = "service"
	FieldComponent     = "component"
	FieldTransactionID = "transaction_id"
	FieldTraceID       = "trace_id"
	FieldSpanID        = "span_id"

	// Event fields
	FieldEvent = "event"

	// HTTP fields
	FieldMethod  = "method"
	FieldURL     = "url"
	FieldPath    = "path"
	FieldStatus  = "status"
	FieldHeaders = "headers"
	FieldBody    = "body"

	// Error fields
	FieldErrorKey  = "error_key"
	FieldFaultType = "fault_type"
	FieldStack     = "stack_trace"
)
