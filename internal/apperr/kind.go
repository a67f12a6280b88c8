package apperr

import "errors"

// Kind returns a short label for the error's category, used as the
// error_type attribute on error counters.
func Kind(err error) string {
	var (
		ve   *ValidationError
		nf   *NotFoundError
		cf   *ConflictError
		an   *AuthenticationError
		az   *AuthorizationError
		se   *StateError
		conn *ConnectivityError
		pub  *PublishError
	)
	switch {
	case errors.As(err, &ve):
		return "validation"
	case errors.As(err, &nf):
		return "not_found"
	case errors.As(err, &cf):
		return "conflict"
	case errors.As(err, &an):
		return "authentication"
	case errors.As(err, &az):
		return "authorization"
	case errors.As(err, &se):
		return "state"
	case errors.As(err, &conn):
		return "connectivity"
	case errors.As(err, &pub):
		return "publish"
	default:
		return "internal"
	}
}
