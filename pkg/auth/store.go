package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/recouvro/recouvro/pkg/apperrors"
)

// uniqueViolation is the PostgreSQL error code for duplicate unique keys.
const uniqueViolation = "23505"

// Store is the credential store backed by PostgreSQL. Usernames are
// case-normalized to lower case before storage and lookup.
type Store struct {
	db      *sql.DB
	hasher  Hasher
	timeout time.Duration
}

// NewStore creates a credential store. Every call carries a bounded timeout;
// expiry surfaces as apperrors.ErrStoreUnavailable.
func NewStore(db *sql.DB, hasher Hasher, timeout time.Duration) *Store {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &Store{db: db, hasher: hasher, timeout: timeout}
}

// Create registers a new user. The role is settable only here; there is no
// promotion endpoint. An empty role defaults to RolePublic.
func (s *Store) Create(ctx context.Context, username, password string, role Role) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, apperrors.Required("username")
	}
	if password == "" {
		return nil, apperrors.Required("password")
	}
	if role == "" {
		role = RolePublic
	}
	if !ValidRole(role) {
		return nil, apperrors.Validation("role", "must be public or admin")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, username, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at
	`, user.ID, user.Username, user.PasswordHash, string(user.Role)).Scan(&user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, fmt.Errorf("username %q: %w", username, apperrors.ErrConflict)
		}
		return nil, storeError("create user", err)
	}

	return user, nil
}

// GetByUsername looks up a user by case-normalized username.
func (s *Store) GetByUsername(ctx context.Context, username string) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	user := &User{}
	var role string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, role, created_at
		FROM users WHERE username = $1
	`, username).Scan(&user.ID, &user.Username, &user.PasswordHash, &role, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, storeError("get user", err)
	}
	user.Role = Role(role)

	return user, nil
}

// CheckPassword verifies a login candidate against the stored hash.
func (s *Store) CheckPassword(user *User, candidate string) bool {
	return s.hasher.Compare(user.PasswordHash, candidate)
}

// Migrate creates the users table if missing.
func (s *Store) Migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'public',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	return nil
}

func storeError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, apperrors.ErrStoreUnavailable)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
