package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/atlasware/souq/internal/auth"
	"github.com/atlasware/souq/internal/domain"
	"github.com/atlasware/souq/internal/validation"
)

// sessionTTL matches the session cookie lifetime.
const sessionTTL = 30 * 24 * time.Hour

// SignupParams carries the registration form.
type SignupParams struct {
	Email     string `validate:"required,email,max=254"`
	Password  string `validate:"required,min=8,max=128"`
	FirstName string `validate:"required,min=1,max=80"`
	LastName  string `validate:"required,min=1,max=80"`
}

// LoginParams carries the login form plus request metadata recorded on the
// session for the active-sessions screen.
type LoginParams struct {
	Email     string
	Password  string
	UserAgent string
	IP        string
}

// UserService provides account, session, and address management.
type UserService interface {
	// Signup registers an account and logs it in, returning the session
	// token to set as a cookie.
	Signup(ctx context.Context, params SignupParams) (*domain.User, string, error)

	// Login verifies credentials and creates a DB-backed session. Wrong
	// email and wrong password are indistinguishable to the caller.
	Login(ctx context.Context, params LoginParams) (*domain.User, string, error)

	// Logout revokes the session behind the token. Unknown tokens are not
	// an error.
	Logout(ctx context.Context, token string) error

	// GetUserBySessionToken resolves a cookie token to a live user.
	GetUserBySessionToken(ctx context.Context, token string) (*domain.User, error)

	UpdateProfile(ctx context.Context, userID int64, firstName, lastName string) error
	ChangePassword(ctx context.Context, userID int64, current, next string) error

	ListSessions(ctx context.Context, userID int64) ([]domain.Session, error)
	RevokeSession(ctx context.Context, userID, sessionID int64) error

	CreateAddress(ctx context.Context, userID int64, input domain.AddressInput) (*domain.Address, error)
	ListAddresses(ctx context.Context, userID int64) ([]domain.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID int64) error
}

type userService struct {
	users     domain.UserStore
	validator *validation.Validator
}

// NewUserService creates a new UserService instance
func NewUserService(users domain.UserStore, validator *validation.Validator) UserService {
	return &userService{
		users:     users,
		validator: validator,
	}
}

func (s *userService) Signup(ctx context.Context, params SignupParams) (*domain.User, string, error) {
	const op = "user.signup"

	params.Email = strings.ToLower(strings.TrimSpace(params.Email))
	params.FirstName = strings.TrimSpace(params.FirstName)
	params.LastName = strings.TrimSpace(params.LastName)

	if err := s.validator.Struct(op, params); err != nil {
		return nil, "", err
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return nil, "", domain.Invalid(op, "Password must be at least 8 characters")
		}
		return nil, "", domain.Internal(err, op, "failed to hash password")
	}

	user, err := s.users.CreateUser(ctx, domain.User{
		Email:        params.Email,
		PasswordHash: hash,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Role:         domain.RoleCustomer,
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.createSession(ctx, user.ID, "", "")
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

func (s *userService) Login(ctx context.Context, params LoginParams) (*domain.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(params.Email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if domain.ErrorCode(err) == domain.ENOTFOUND {
			return nil, "", domain.ErrBadCredentials
		}
		return nil, "", err
	}

	if err := auth.VerifyPassword(params.Password, user.PasswordHash); err != nil {
		return nil, "", domain.ErrBadCredentials
	}

	token, err := s.createSession(ctx, user.ID, params.UserAgent, params.IP)
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

func (s *userService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.users.DeleteSessionByToken(ctx, token)
}

func (s *userService) GetUserBySessionToken(ctx context.Context, token string) (*domain.User, error) {
	user, err := s.users.GetUserBySessionToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID int64, firstName, lastName string) error {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" && lastName == "" {
		return domain.Invalid("user.update_profile", "Name cannot be empty")
	}
	return s.users.UpdateProfile(ctx, userID, firstName, lastName)
}

func (s *userService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	const op = "user.change_password"

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := auth.VerifyPassword(current, user.PasswordHash); err != nil {
		return domain.Unauthorized(op, "Current password is incorrect")
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return domain.Invalid(op, "Password must be at least 8 characters")
		}
		return domain.Internal(err, op, "failed to hash password")
	}

	return s.users.UpdatePassword(ctx, userID, hash)
}

func (s *userService) ListSessions(ctx context.Context, userID int64) ([]domain.Session, error) {
	return s.users.ListSessions(ctx, userID)
}

func (s *userService) RevokeSession(ctx context.Context, userID, sessionID int64) error {
	return s.users.DeleteSessionByID(ctx, userID, sessionID)
}

func (s *userService) CreateAddress(ctx context.Context, userID int64, input domain.AddressInput) (*domain.Address, error) {
	const op = "user.create_address"

	input.FullName = strings.TrimSpace(input.FullName)
	input.Phone = strings.TrimSpace(input.Phone)
	input.City = strings.TrimSpace(input.City)
	input.Street = strings.TrimSpace(input.Street)

	if err := s.validator.Struct(op, input); err != nil {
		return nil, err
	}

	address, err := s.users.CreateAddress(ctx, userID, input)
	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (s *userService) ListAddresses(ctx context.Context, userID int64) ([]domain.Address, error) {
	return s.users.ListAddresses(ctx, userID)
}

func (s *userService) DeleteAddress(ctx context.Context, userID, addressID int64) error {
	return s.users.DeleteAddress(ctx, userID, addressID)
}

func (s *userService) createSession(ctx context.Context, userID int64, userAgent, ip string) (string, error) {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return "", domain.Internal(err, "session.create", "failed to generate session token")
	}

	_, err = s.users.CreateSession(ctx, domain.Session{
		UserID:    userID,
		Token:     token,
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: time.Now().Add(sessionTTL),
	})
	if err != nil {
		return "", err
	}

	return token, nil
}
