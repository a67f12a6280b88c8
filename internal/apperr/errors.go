// Package apperr defines the error taxonomy shared by the trade API and
// the notification pipeline. Handlers map these types onto HTTP status
// codes; the notifier uses them as error-kind labels for metrics.
package apperr

import "fmt"

// ValidationError reports malformed or missing input.
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Detail
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Detail)
}

// NotFoundError reports a referenced user, game, or trade offer that
// does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ConflictError reports a duplicate pending trade offer or a taken
// unique field.
type ConflictError struct {
	Detail     string
	ExistingID string
}

func (e *ConflictError) Error() string {
	return e.Detail
}

// AuthenticationError reports a failed credential check.
type AuthenticationError struct {
	Detail string
}

func (e *AuthenticationError) Error() string {
	return e.Detail
}

// AuthorizationError reports an actor that is not allowed to perform
// the operation, e.g. accepting an offer they did not receive.
type AuthorizationError struct {
	Detail string
}

func (e *AuthorizationError) Error() string {
	return e.Detail
}

// StateError reports an invalid lifecycle transition, e.g. accepting
// an offer that is no longer pending.
type StateError struct {
	Current string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("trade offer is already %s", e.Current)
}

// ConnectivityError reports an unreachable upstream (store or bus).
type ConnectivityError struct {
	System string
	Err    error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.System, e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// PublishError reports a failed event publish. The preceding store
// write is authoritative; callers log and count this, never propagate
// it to the request path.
type PublishError struct {
	Topic string
	Err   error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish to %s failed: %v", e.Topic, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}
