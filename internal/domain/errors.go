package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotRegistered   = errors.New("player not registered on ranking source")
	ErrInvalidUsername = errors.New("username failed identity check")
	ErrTransientFetch  = errors.New("transient fetch error")
	ErrParse           = errors.New("malformed upstream payload")
	ErrNoData          = errors.New("no data available")

	// ErrOffline is returned by ELO sources for players that cannot be queried right now.
	ErrOffline = errors.New("player is offline")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
