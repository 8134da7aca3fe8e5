package record

import "fmt"

// FieldError reports a record field that failed validation.
type FieldError struct {
	Record string // "place", "race", ...
	Field  string
	Value  any
	Reason string
	Err    error // underlying cause, if any
}

func (e *FieldError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Record, e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s.%s %v: %s", e.Record, e.Field, e.Value, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldErr(record, field string, value any, reason string) error {
	return &FieldError{Record: record, Field: field, Value: value, Reason: reason}
}

func wrapFieldErr(record, field string, value any, err error) error {
	return &FieldError{Record: record, Field: field, Value: value, Reason: "invalid", Err: err}
}
