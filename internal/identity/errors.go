package identity

import "errors"

var (
	// ErrIdentityIncomplete is returned when the external identity carries no usable email.
	// Sign-in stops before the store is touched.
	ErrIdentityIncomplete = errors.New("external identity has no usable email")

	// ErrStorageFailure is returned when the user store is unreachable or a create
	// conflict persists after one retry.
	ErrStorageFailure = errors.New("user store failure")

	// ErrConflict is returned by a Store when a concurrent writer created the same
	// email between lookup and insert. The resolver retries once on it.
	ErrConflict = errors.New("concurrent user create conflict")
)
