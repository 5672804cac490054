package logging

const (
	// FieldComponent names the package or subsystem emitting the record.
	FieldComponent = "component"
	// FieldRunID carries the identifier of the current scan run.
	FieldRunID = "run_id"
	// FieldEntry names the corpus entry being processed.
	FieldEntry = "entry"
	// FieldEventType is a stable machine-readable tag for the event.
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to try next.
	FieldErrorHint = "error_hint"
	// FieldImpact describes the user-facing consequence of a warning.
	FieldImpact = "impact"
)
