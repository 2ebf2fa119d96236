// Package service holds the business rules of the gym: members, payments,
// the exercise catalog, routine versioning and the client viewer.
package service

import (
	"errors"
	"time"

	"alcyxob/gym-admin/internal/repository"
)

// --- Error Definitions ---
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrAccessDenied     = errors.New("access denied")
	ErrUnauthenticated  = errors.New("authentication required")
)

// Clock returns the current time. Services take one so tests can pin it.
type Clock func() time.Time

func systemClock() time.Time { return time.Now() }

func clockOrDefault(c Clock) Clock {
	if c == nil {
		return systemClock
	}
	return c
}

// notFound maps repository.ErrNotFound to the service sentinel and passes
// any other error through.
func notFound(err, sentinel error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return sentinel
	}
	return err
}
