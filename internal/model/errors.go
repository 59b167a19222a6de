package model

import "fmt"

// ConfigError marks a fatal configuration problem detected before any trial
// runs: invalid position range, missing gold answer, insufficient distractor
// supply. A run never degrades silently around one of these.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// NewConfigError creates a ConfigError for the given field.
func NewConfigError(field, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// TrialError marks a single-trial inference failure. It is recorded on the
// trial's result and never aborts the rest of the batch.
type TrialError struct {
	QAItemID string
	Position int
	Err      error
}

func (e *TrialError) Error() string {
	return fmt.Sprintf("trial %s@%d: %v", e.QAItemID, e.Position, e.Err)
}

func (e *TrialError) Unwrap() error {
	return e.Err
}
