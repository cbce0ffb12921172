package postgres

import (
	"context"
	"errors"

	"github.com/atlasware/souq/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserStore implements domain.UserStore using PostgreSQL.
type UserStore struct {
	pool *pgxpool.Pool
}

var _ domain.UserStore = (*UserStore)(nil)

// NewUserStore creates a PostgreSQL-backed user store.
func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

const userColumns = `id, email, password_hash, first_name, last_name, role, created_at`

func (s *UserStore) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Role).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrEmailTaken
		}
		return domain.User{}, domain.Internal(err, "user.create", "failed to create user")
	}
	return user, nil
}

func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	var u domain.User
	err := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, domain.Internal(err, "user.get_by_email", "failed to get user")
	}
	return u, nil
}

func (s *UserStore) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	var u domain.User
	err := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, domain.Internal(err, "user.get", "failed to get user")
	}
	return u, nil
}

func (s *UserStore) UpdateProfile(ctx context.Context, id int64, firstName, lastName string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET first_name = $1, last_name = $2 WHERE id = $3`, firstName, lastName, id)
	if err != nil {
		return domain.Internal(err, "user.update_profile", "failed to update profile")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (s *UserStore) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return domain.Internal(err, "user.update_password", "failed to update password")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// =============================================================================
// SESSIONS
// =============================================================================

func (s *UserStore) CreateSession(ctx context.Context, session domain.Session) (domain.Session, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO sessions (user_id, token, user_agent, ip, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		session.UserID, session.Token, session.UserAgent, session.IP, session.ExpiresAt).
		Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		return domain.Session{}, domain.Internal(err, "session.create", "failed to create session")
	}
	return session, nil
}

// GetUserBySessionToken resolves a session token to its user, ignoring
// expired sessions.
func (s *UserStore) GetUserBySessionToken(ctx context.Context, token string) (domain.User, error) {
	var u domain.User
	err := s.pool.QueryRow(ctx, `
		SELECT u.id, u.email, u.password_hash, u.first_name, u.last_name, u.role, u.created_at
		FROM sessions se
		JOIN users u ON u.id = se.user_id
		WHERE se.token = $1 AND se.expires_at > now()`, token).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrSessionNotFound
		}
		return domain.User{}, domain.Internal(err, "session.resolve", "failed to resolve session")
	}
	return u, nil
}

func (s *UserStore) ListSessions(ctx context.Context, userID int64) ([]domain.Session, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, token, user_agent, ip, created_at, expires_at
		FROM sessions WHERE user_id = $1 AND expires_at > now()
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, domain.Internal(err, "session.list", "failed to list sessions")
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		var se domain.Session
		if err := rows.Scan(&se.ID, &se.UserID, &se.Token, &se.UserAgent, &se.IP, &se.CreatedAt, &se.ExpiresAt); err != nil {
			return nil, domain.Internal(err, "session.list", "failed to scan session")
		}
		sessions = append(sessions, se)
	}
	return sessions, rows.Err()
}

func (s *UserStore) DeleteSessionByToken(ctx context.Context, token string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token); err != nil {
		return domain.Internal(err, "session.delete", "failed to delete session")
	}
	return nil
}

// DeleteSessionByID revokes one of the user's own sessions. The user_id
// predicate keeps one user from revoking another's session.
func (s *UserStore) DeleteSessionByID(ctx context.Context, userID, sessionID int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1 AND user_id = $2`, sessionID, userID)
	if err != nil {
		return domain.Internal(err, "session.revoke", "failed to revoke session")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// =============================================================================
// ADDRESSES
// =============================================================================

func (s *UserStore) CreateAddress(ctx context.Context, userID int64, input domain.AddressInput) (domain.Address, error) {
	var a domain.Address
	err := s.pool.QueryRow(ctx, `
		INSERT INTO addresses (user_id, full_name, phone, city, street)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, full_name, phone, city, street, created_at`,
		userID, input.FullName, input.Phone, input.City, input.Street).
		Scan(&a.ID, &a.UserID, &a.FullName, &a.Phone, &a.City, &a.Street, &a.CreatedAt)
	if err != nil {
		return domain.Address{}, domain.Internal(err, "address.create", "failed to create address")
	}
	return a, nil
}

func (s *UserStore) GetAddress(ctx context.Context, id int64) (domain.Address, error) {
	var a domain.Address
	err := s.pool.QueryRow(ctx, `
		SELECT id, user_id, full_name, phone, city, street, created_at
		FROM addresses WHERE id = $1`, id).
		Scan(&a.ID, &a.UserID, &a.FullName, &a.Phone, &a.City, &a.Street, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Address{}, domain.ErrAddressNotFound
		}
		return domain.Address{}, domain.Internal(err, "address.get", "failed to get address")
	}
	return a, nil
}

func (s *UserStore) ListAddresses(ctx context.Context, userID int64) ([]domain.Address, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, full_name, phone, city, street, created_at
		FROM addresses WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, domain.Internal(err, "address.list", "failed to list addresses")
	}
	defer rows.Close()

	var addresses []domain.Address
	for rows.Next() {
		var a domain.Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.FullName, &a.Phone, &a.City, &a.Street, &a.CreatedAt); err != nil {
			return nil, domain.Internal(err, "address.list", "failed to scan address")
		}
		addresses = append(addresses, a)
	}
	return addresses, rows.Err()
}

func (s *UserStore) DeleteAddress(ctx context.Context, userID, addressID int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM addresses WHERE id = $1 AND user_id = $2`, addressID, userID)
	if err != nil {
		return domain.Internal(err, "address.delete", "failed to delete address")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAddressNotFound
	}
	return nil
}
