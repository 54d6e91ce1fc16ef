package gameerr

import (
	"fmt"
)

// Kind classifies a failure so callers can decide how to surface it
type Kind string

// Kind constants
const (
	KindInsufficientPlayers   Kind = "insufficient-players"
	KindInvalidBet            Kind = "invalid-bet"
	KindUndistributableAmount Kind = "undistributable-amount"
	KindUnbalancedSettlement  Kind = "unbalanced-settlement"
	KindChipSetLocked         Kind = "chip-set-locked"
	KindStateConflict         Kind = "state-conflict"
	KindChipCountMismatch     Kind = "chip-count-mismatch"
	KindNotFound              Kind = "not-found"
)

// Error is a classified error with a message that is safe to show to the operator
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}

	return e.Message
}

// Is matches any *Error of the same kind, regardless of the message
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Kind == e.Kind
}

// sentinels for errors.Is
var (
	ErrInsufficientPlayers   = &Error{Kind: KindInsufficientPlayers, Message: "at least two players are required"}
	ErrInvalidBet            = &Error{Kind: KindInvalidBet, Message: "invalid bet"}
	ErrUndistributableAmount = &Error{Kind: KindUndistributableAmount, Message: "amount cannot be distributed with the available chips"}
	ErrUnbalancedSettlement  = &Error{Kind: KindUnbalancedSettlement, Message: "settlement is not balanced"}
	ErrChipSetLocked         = &Error{Kind: KindChipSetLocked, Message: "chip set cannot change once players have bought in"}
	ErrStateConflict         = &Error{Kind: KindStateConflict, Message: "state conflict"}
	ErrChipCountMismatch     = &Error{Kind: KindChipCountMismatch, Message: "chip count does not match the amount"}
	ErrNotFound              = &Error{Kind: KindNotFound, Message: "not found"}
)

// New returns an error of the given kind with a formatted message
func New(kind Kind, format string, a ...interface{}) error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, a...),
	}
}

// KindOf returns the kind of err, or an empty Kind if err was not produced by this package
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}

		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}

		err = u.Unwrap()
	}

	return ""
}
