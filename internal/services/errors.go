package services

import "errors"

type Kind int

const (
	KindUnauthorized Kind = iota + 1
	KindForbidden
	KindValidation
	KindConflict
	KindNotFound
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation error"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not found"
	case KindStorage:
		return "storage error"
	default:
		return "unknown"
	}
}

// Validation and conflict reasons.
const (
	ReasonCoverLetterTooShort = "cover letter too short"
	ReasonResumeTooLarge      = "resume too large"
	ReasonResumeType          = "unsupported resume type"
	ReasonInvalidSalary       = "salary must be a whole number"
	ReasonAlreadyApplied      = "already applied"
	ReasonJobNotOpen          = "job is not accepting applications"
)

// Error is the failure type of every service operation.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so errors.Is(err, ErrConflict) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Reason == "" && t.Err == nil && t.Kind == e.Kind
}

var (
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrForbidden    = &Error{Kind: KindForbidden}
	ErrValidation   = &Error{Kind: KindValidation}
	ErrConflict     = &Error{Kind: KindConflict}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrStorage      = &Error{Kind: KindStorage}
)

func validationError(reason string) error {
	return &Error{Kind: KindValidation, Reason: reason}
}

func missingField(name string) error {
	return validationError("missing field: " + name)
}

func storageError(op string, err error) error {
	return &Error{Kind: KindStorage, Reason: op, Err: err}
}

// KindOf returns the Kind carried by err, or 0 when err is not a service error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// ReasonOf returns the reason carried by err.
func ReasonOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ""
}
