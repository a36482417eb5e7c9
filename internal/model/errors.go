package model

import "errors"

// Error kinds the store and auth layers wrap with fmt.Errorf("%w").
// Callers classify failures with errors.Is; the API layer maps each kind
// to an HTTP status.
var (
	// ErrConstraintViolation marks writes the data invariants reject:
	// duplicate keys, dangling references, location cycles, invalid values.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrPermissionDenied marks operations the acting user's role does not
	// allow.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrAuthenticationFailed marks failed logins. Unknown usernames and
	// wrong passwords produce the same error.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrInvalidToken marks tokens that fail verification: bad signature,
	// wrong kind, or elapsed expiry.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUnknownQuantity marks countable items that have no stock counts
	// recorded yet.
	ErrUnknownQuantity = errors.New("unknown quantity")
)
