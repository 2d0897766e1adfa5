package model

import "time"

// User is the public projection of a row in the `users` collection.  It is
// the only user type handlers ever serialise, and it deliberately has no
// field for the password hash: a response built from a User cannot leak
// the secret no matter how it is encoded.
//
// Fields:
//
//	ID        – opaque identifier assigned by the store (UUID or ObjectID hex).
//	Name      – display name supplied at registration.
//	Email     – lowercased, unique login key.
//	IsActive  – account flag, true at creation.
//	CreatedAt – set by the store on insert.
//	UpdatedAt – set by the store on every write.
type User struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserSecret pairs a User with its bcrypt hash.  Stores only return it from
// FindByEmailWithSecret, which exists for login verification.
type UserSecret struct {
	User
	PasswordHash string `json:"-"`
}

// NewUser is the input to a store Create call.
type NewUser struct {
	Name         string
	Email        string
	PasswordHash string
}
