// Package repository defines the credential store used by the auth
// handlers and its backends.  Sentinel errors below let higher layers
// tell "no such user" and "email taken" apart from infrastructure
// failures without depending on a particular driver.
package repository

import "errors"

// ErrNotFound is returned when no user matches the lookup.  Handlers
// translate it into 404 on login and 401 in the auth middleware.
var ErrNotFound = errors.New("user not found")

// ErrDuplicateKey is returned by Create when the email is already taken.
// Backends derive it from their own unique-key violation so that two
// concurrent registrations for one email cannot both succeed.
var ErrDuplicateKey = errors.New("duplicate key: email already exists")
