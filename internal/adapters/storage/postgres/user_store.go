package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"dashchat/internal/domain"
)

const uniqueViolation = "23505"

// UserStore persists account records in postgres.
type UserStore struct {
	db *pgxpool.Pool
}

func NewUserStore(db *pgxpool.Pool) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	out := &domain.User{}

	query := `
		INSERT INTO users (first_name, last_name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, first_name, last_name, email, password_hash, created_at`

	err := s.db.QueryRow(ctx, query,
		user.FirstName,
		user.LastName,
		normalizeEmail(user.Email),
		user.PasswordHash,
	).Scan(
		&out.ID,
		&out.FirstName,
		&out.LastName,
		&out.Email,
		&out.PasswordHash,
		&out.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return out, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, first_name, last_name, email, password_hash, created_at
		FROM users WHERE email = $1`
	return s.scanOne(ctx, query, normalizeEmail(email))
}

func (s *UserStore) FindByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	query := `SELECT id, first_name, last_name, email, password_hash, created_at
		FROM users WHERE id = $1`
	return s.scanOne(ctx, query, id)
}

func (s *UserStore) UpdateProfile(ctx context.Context, id domain.UserID, firstName, lastName string) error {
	query := `UPDATE users SET first_name = $2, last_name = $3 WHERE id = $1`

	tag, err := s.db.Exec(ctx, query, id, firstName, lastName)
	if err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (s *UserStore) UpdatePassword(ctx context.Context, id domain.UserID, passwordHash []byte) error {
	query := `UPDATE users SET password_hash = $2 WHERE id = $1`

	tag, err := s.db.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (s *UserStore) Delete(ctx context.Context, id domain.UserID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (s *UserStore) scanOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	user := &domain.User{}

	err := s.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}

	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
