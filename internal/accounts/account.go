package accounts

import (
	"errors"
	"time"
)

var (
	// ErrDuplicateUsername is returned when creating an account whose
	// username is already taken.
	ErrDuplicateUsername = errors.New("username already taken")
	// ErrInvalidCredentials is returned on unknown username or wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotFound is returned when an account does not exist.
	ErrNotFound = errors.New("account not found")
)

// Account represents a login principal that owns certificates
type Account struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Username     string    `bson:"username" json:"username"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	Admin        bool      `bson:"admin" json:"admin"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}
