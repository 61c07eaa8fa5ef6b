package services

import (
	"errors"
	"fmt"

	"rewardportal/internal/models"
)

type Kind string

const (
	KindNotFound            Kind = "NOT_FOUND"
	KindValidation          Kind = "VALIDATION"
	KindInsufficientCredits Kind = "INSUFFICIENT_CREDITS"
	KindGameDisabled        Kind = "GAME_DISABLED"
	KindNoRewardsAvailable  Kind = "NO_REWARDS_AVAILABLE"
	KindRetryConflict       Kind = "RETRY_CONFLICT"
	KindInternal            Kind = "INTERNAL"
)

// Error is the classified failure every service operation returns.
// Category, Required and Balance are only set for the kinds that carry them.
type Error struct {
	Kind     Kind            `json:"code"`
	Message  string          `json:"message"`
	Category models.Category `json:"category,omitempty"`
	Required int             `json:"required,omitempty"`
	Balance  int             `json:"balance,omitempty"`
	Err      error           `json:"-"`
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

// KindOf classifies err. Unclassified errors are INTERNAL.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func errNotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func errValidation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func errInsufficientCredits(required, balance int) *Error {
	return &Error{
		Kind:     KindInsufficientCredits,
		Message:  fmt.Sprintf("%d credits required, balance is %d", required, balance),
		Required: required,
		Balance:  balance,
	}
}

func errGameDisabled(category models.Category) *Error {
	return &Error{Kind: KindGameDisabled, Message: fmt.Sprintf("%s is disabled", category), Category: category}
}

func errNoRewardsAvailable(category models.Category) *Error {
	return &Error{Kind: KindNoRewardsAvailable, Message: fmt.Sprintf("no rewards available for %s", category), Category: category}
}

func errRetryConflict(format string, args ...any) *Error {
	return &Error{Kind: KindRetryConflict, Message: fmt.Sprintf(format, args...)}
}

func errInternal(err error, format string, args ...any) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...), Err: err}
}

// classify keeps an already classified error and wraps anything else as INTERNAL.
func classify(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return errInternal(err, format, args...)
}
