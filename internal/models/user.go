package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DisabledPasswordSentinel is written over the stored hash when an account
// is soft-disabled. It can never equal a real bcrypt output, so logins fail
// even against a database restored without the disabled column.
const DisabledPasswordSentinel = "0"

type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Disabled     bool      `db:"disabled" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Claims defines the structure of the JWT claims.
type Claims struct {
	UserID int64  `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
