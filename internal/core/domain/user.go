package domain

import (
	"errors"
	"time"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("username already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrAccountLocked = errors.New("account locked")
var ErrForbidden = errors.New("access forbidden")
var ErrWeakPassword = errors.New("password does not meet strength requirements")
var ErrInvalidRole = errors.New("invalid role")
var ErrTokenExpired = errors.New("token expired")
var ErrTokenMalformed = errors.New("token malformed")
var ErrInvalidRefreshToken = errors.New("invalid refresh token")

// ValidRole reports whether r is one of the two assignable roles.
func ValidRole(r string) bool {
	return r == RoleUser || r == RoleAdmin
}

// User models an account in the system.
//
// Invariants: Username is unique and immutable after creation.
// FailedLoginAttempts resets to zero on a successful login. AccountLocked is
// set once FailedLoginAttempts reaches the configured threshold and is only
// cleared by an admin unlock, which also resets the counter.
type User struct {
	ID                  string     `json:"id"`
	Username            string     `json:"username"`
	PasswordHash        string     `json:"-"`
	Email               string     `json:"email,omitempty"`
	FirstName           string     `json:"first_name,omitempty"`
	LastName            string     `json:"last_name,omitempty"`
	AvatarURL           string     `json:"avatar_url,omitempty"`
	Role                string     `json:"role"`
	AccountLocked       bool       `json:"account_locked"`
	FailedLoginAttempts int        `json:"failed_login_attempts"`
	LastLoginAttempt    *time.Time `json:"last_login_attempt,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}
