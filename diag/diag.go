// Package diag holds the error and warning types shared by the liquidity
// engine packages.
package diag

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("liqstress: validation failed")

	// ErrDegenerateInput is matched by every *DegenerateInputError.
	ErrDegenerateInput = errors.New("liqstress: degenerate input")
)

// ValidationError reports malformed input. A run that hits one produces no KPIs.
type ValidationError struct {
	PositionID string // empty when the problem is not tied to a position
	Field      string
	Reason     string
}

func (e *ValidationError) Error() string {
	if e.PositionID == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("position %q: invalid %s: %s", e.PositionID, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid is shorthand for building a *ValidationError.
func Invalid(positionID, field, format string, args ...any) *ValidationError {
	return &ValidationError{
		PositionID: positionID,
		Field:      field,
		Reason:     fmt.Sprintf(format, args...),
	}
}

// DegenerateInputError reports input on which KPIs are undefined, such as an
// empty portfolio or a zero-length horizon.
type DegenerateInputError struct {
	Reason string
}

func (e *DegenerateInputError) Error() string {
	return "degenerate input: " + e.Reason
}

func (e *DegenerateInputError) Is(target error) bool { return target == ErrDegenerateInput }

// Warning codes.
const (
	CodeUnclassified       = "UNCLASSIFIED_INSTRUMENT"
	CodeImpactSkipped      = "IMPACT_SKIPPED"
	CodeUnmatchedMechanism = "BEHAVIOR_UNMATCHED_MECHANISM"
)

// Warning is a non-fatal finding collected during a run and returned next to
// the KPIs.
type Warning struct {
	Code       string `json:"code" yaml:"code"`
	PositionID string `json:"position_id,omitempty" yaml:"position_id,omitempty"`
	Msg        string `json:"msg" yaml:"msg"`
}

func (w Warning) String() string {
	if w.PositionID == "" {
		return w.Code + ": " + w.Msg
	}
	return fmt.Sprintf("%s [%s]: %s", w.Code, w.PositionID, w.Msg)
}
