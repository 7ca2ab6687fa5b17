package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownTarget is returned when a target name is not one of the
	// registered predicted quantities.
	ErrUnknownTarget = errors.New("unknown target")

	// ErrScoring wraps an unexpected failure inside a scoring function.
	ErrScoring = errors.New("scoring failed")

	// ErrMissingParameters is returned by Simulate when the base record or
	// the feature to vary is absent.
	ErrMissingParameters = errors.New("base features and vary feature are required")

	// ErrUnknownFeature is returned by Simulate when the feature to vary is
	// not part of the schema.
	ErrUnknownFeature = errors.New("unknown feature")

	// ErrBadStepCount is returned by Simulate for non-positive step counts.
	ErrBadStepCount = errors.New("step count must be positive")
)

// ValidationKind tags the reason a record failed validation.
type ValidationKind string

const (
	MissingFeatures ValidationKind = "missing_features"
	NullValues      ValidationKind = "null_values"
	NegativeValues  ValidationKind = "negative_values"
)

// ValidationError reports why a record was rejected, naming the offending
// schema fields. It is surfaced to callers verbatim.
type ValidationError struct {
	Kind   ValidationKind
	Fields []string
}

func (e *ValidationError) Error() string {
	fields := strings.Join(e.Fields, ", ")
	switch e.Kind {
	case MissingFeatures:
		return fmt.Sprintf("missing required features: %s", fields)
	case NullValues:
		return fmt.Sprintf("record contains missing values: %s", fields)
	case NegativeValues:
		return fmt.Sprintf("record contains negative values, biological metrics must be non-negative: %s", fields)
	default:
		return fmt.Sprintf("invalid record: %s", fields)
	}
}

// IsRecoverable reports whether err is one of the structured, caller-facing
// error kinds (as opposed to an internal fault).
func IsRecoverable(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr) ||
		errors.Is(err, ErrUnknownTarget) ||
		errors.Is(err, ErrMissingParameters) ||
		errors.Is(err, ErrUnknownFeature) ||
		errors.Is(err, ErrBadStepCount)
}
