package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matchup-gg/matchup/internal/apperr"
	"github.com/matchup-gg/matchup/internal/auth"
	"github.com/matchup-gg/matchup/internal/models"
)

var (
	ErrUserNotFound   = apperr.New(apperr.NotFound, "USER_NOT_FOUND", "user not found")
	ErrEmailTaken     = apperr.New(apperr.InvalidState, "EMAIL_TAKEN", "email is already registered")
	ErrBadCredentials = apperr.New(apperr.Unauthenticated, "BAD_CREDENTIALS", "invalid email or password")
)

// UserStore is the postgres store for identity records.
type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

// Create hashes the password and inserts the user, assigning an id when
// absent.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	hash, err := auth.CreateHash(user.Password, auth.Params)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.Password = hash

	err = pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, `
			INSERT INTO users (id, email, password, display_name, role, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, user.ID, user.Email, user.Password, user.DisplayName, user.Role, user.CreatedAt)
		return execErr
	})
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *UserStore) getBy(ctx context.Context, where string, arg any) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx, `
		SELECT id, email, password, display_name, role, created_at
		FROM users
		WHERE `+where, arg).Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.Role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getBy(ctx, `email = $1`, email)
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.getBy(ctx, `id = $1`, id)
}

// Authenticate verifies email/password and returns the user on success.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *UserStore) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	match, err := auth.ComparePasswordAndHash(password, u.Password)
	if err != nil || !match {
		return nil, ErrBadCredentials
	}
	u.Password = ""
	return u, nil
}
