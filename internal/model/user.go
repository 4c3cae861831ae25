package model

import "time"

// User mirrors the 'users' table. Accounts are created at signup and
// never mutated or deleted afterwards. The password is stored only as
// a bcrypt hash; handlers expose name and email, nothing else.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Email        string    // users.email (unique)
	PasswordHash string    // users.password_hash
	CreatedAt    time.Time // users.created_at
}
