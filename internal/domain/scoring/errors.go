package scoring

import (
	"errors"
	"fmt"
)

// Kind classifies scoring failures so callers can react without parsing messages.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindNotFound        Kind = "not_found"
	KindDataUnavailable Kind = "data_unavailable"
	KindConfiguration   Kind = "configuration"
)

var (
	ErrManagersNotConfigured = errors.New("managers not configured")
	ErrInvalidPctRange       = errors.New("max pct below min pct")
	ErrNoScoredTargets       = errors.New("no scored targets")
)

// Error carries a machine-readable kind and a human next step.
type Error struct {
	Kind    Kind
	Message string
	Hint    string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(message, hint string) *Error {
	return &Error{Kind: KindValidation, Message: message, Hint: hint}
}

func NotFound(message, hint string) *Error {
	return &Error{Kind: KindNotFound, Message: message, Hint: hint}
}

func DataUnavailable(message, hint string, cause error) *Error {
	return &Error{Kind: KindDataUnavailable, Message: message, Hint: hint, Err: cause}
}

func Configuration(message, hint string, cause error) *Error {
	return &Error{Kind: KindConfiguration, Message: message, Hint: hint, Err: cause}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var scoringErr *Error
	if errors.As(err, &scoringErr) {
		return scoringErr.Kind
	}
	return ""
}

// HintOf returns the next-step hint of the first *Error in err's chain.
func HintOf(err error) string {
	var scoringErr *Error
	if errors.As(err, &scoringErr) {
		return scoringErr.Hint
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
