package domain

import (
	"context"
	"time"
)

// =============================================================================
// USER DOMAIN ERRORS
// =============================================================================

var (
	ErrUserNotFound     = &Error{Code: ENOTFOUND, Message: "User not found"}
	ErrEmailTaken       = &Error{Code: ECONFLICT, Message: "An account with this email already exists"}
	ErrBadCredentials   = &Error{Code: EUNAUTHORIZED, Message: "Invalid email or password"}
	ErrSessionNotFound  = &Error{Code: EUNAUTHORIZED, Message: "Session expired, please log in again"}
	ErrAddressNotFound  = &Error{Code: ENOTFOUND, Message: "Address not found"}
	ErrNotAddressOwner  = &Error{Code: EFORBIDDEN, Message: "Address belongs to a different account"}
)

// Role gates access to the admin area.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// User is a registered account.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         Role
	CreatedAt    time.Time
}

// IsAdmin reports whether the user may access the admin area.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// FullName joins first and last name for display.
func (u User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Session is a DB-backed login session identified by an opaque token held
// in an HttpOnly cookie.
type Session struct {
	ID        int64
	UserID    int64
	Token     string
	UserAgent string
	IP        string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Address is a saved shipping address. Ownership must be verified against
// the requesting user before use.
type Address struct {
	ID        int64
	UserID    int64
	FullName  string
	Phone     string
	City      string
	Street    string
	CreatedAt time.Time
}

// AddressInput carries form data for address creation.
type AddressInput struct {
	FullName string `validate:"required,min=2,max=120"`
	Phone    string `validate:"required,ma_phone"`
	City     string `validate:"required,min=2,max=80"`
	Street   string `validate:"required,min=4,max=200"`
}

// UserStore is the persistence boundary for accounts, sessions, and
// saved addresses.
type UserStore interface {
	CreateUser(ctx context.Context, user User) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id int64) (User, error)
	UpdateProfile(ctx context.Context, id int64, firstName, lastName string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error

	CreateSession(ctx context.Context, session Session) (Session, error)
	GetUserBySessionToken(ctx context.Context, token string) (User, error)
	ListSessions(ctx context.Context, userID int64) ([]Session, error)
	DeleteSessionByToken(ctx context.Context, token string) error
	DeleteSessionByID(ctx context.Context, userID, sessionID int64) error

	CreateAddress(ctx context.Context, userID int64, input AddressInput) (Address, error)
	GetAddress(ctx context.Context, id int64) (Address, error)
	ListAddresses(ctx context.Context, userID int64) ([]Address, error)
	DeleteAddress(ctx context.Context, userID, addressID int64) error
}
