package user

import (
	"strings"
	"time"
)

// User is an account. PasswordHash never leaves the service in responses.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PhoneNumber  string    `json:"phone_number"`
	Address      string    `json:"address"`
	CreatedAt    time.Time `json:"created_at"`
}

// Patch lists the fields an update may change. Nil fields are left as they
// are; there is no way to set CreatedAt.
type Patch struct {
	Email       *string
	Password    *string
	FirstName   *string
	LastName    *string
	PhoneNumber *string
	Address     *string
}

func setID(u *User, id uint64) { u.ID = id }

// emailKey is the unique index key: emails compare case-insensitively.
func emailKey(u User) string {
	return normalizeEmail(u.Email)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
