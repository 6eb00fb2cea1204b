package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a dashboard account. Authentication is email/password
// with Argon2id hashing; the salt is stored alongside the hash.
type User struct {
	ID           uuid.UUID  `db:"id"`
	Email        string     `db:"email"`
	PasswordHash []byte     `db:"password_hash"`
	PasswordSalt []byte     `db:"password_salt"`
	Enabled      bool       `db:"enabled"`
	LastLoginAt  *time.Time `db:"last_login_at"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

// IsValid reports whether the account may log in.
func (u *User) IsValid() bool {
	return u.Enabled
}
