package identity

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered wallet owner.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Credentials carries a username/password pair for registration and login.
type Credentials struct {
	Username string
	Password string
}
