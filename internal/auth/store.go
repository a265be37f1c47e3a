package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/love-prep/backend/internal/database"
	"github.com/love-prep/backend/internal/models"
)

const userColumns = `id, username, email, password, role, status,
	distractors_enabled, distractor_probability, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Role, &u.Status,
		&u.DistractorsEnabled, &u.DistractorProbability, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Store owns the users and password_reset_tokens tables.
type Store struct {
	db database.DBTX
}

func NewStore(db database.DBTX) *Store {
	return &Store{db: db}
}

func (s *Store) WithDB(db database.DBTX) *Store {
	return &Store{db: db}
}

// Create inserts a user. The first account ever created becomes an admin.
func (s *Store) Create(ctx context.Context, username, email, hash string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO users (username, email, password, role)
		 VALUES ($1, $2, $3, CASE WHEN EXISTS (SELECT 1 FROM users) THEN 'user' ELSE 'admin' END)
		 RETURNING `+userColumns,
		username, email, hash,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", database.MapError(err))
	}
	return u, nil
}

func (s *Store) ByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, database.MapError(err))
	}
	return u, nil
}

// ByLogin matches the username exactly or the email case-insensitively.
func (s *Store) ByLogin(ctx context.Context, login string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1 OR email = LOWER($1)`, login))
	if err != nil {
		return nil, fmt.Errorf("get user by login: %w", database.MapError(err))
	}
	return u, nil
}

func (s *Store) ByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", database.MapError(err))
	}
	return u, nil
}

// UserRole implements middleware.RoleLookup.
func (s *Store) UserRole(ctx context.Context, id int64) (models.Role, models.UserStatus, error) {
	var role models.Role
	var status models.UserStatus
	err := s.db.QueryRowContext(ctx, `SELECT role, status FROM users WHERE id = $1`, id).Scan(&role, &status)
	if err != nil {
		return "", "", fmt.Errorf("get user role: %w", database.MapError(err))
	}
	return role, status, nil
}

func (s *Store) UpdatePassword(ctx context.Context, id int64, hash string) error {
	return s.exec(ctx, "update password",
		`UPDATE users SET password = $2, updated_at = NOW() WHERE id = $1`, id, hash)
}

func (s *Store) List(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (s *Store) SetStatus(ctx context.Context, id int64, status models.UserStatus) error {
	return s.exec(ctx, "set user status",
		`UPDATE users SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
}

func (s *Store) SetRole(ctx context.Context, id int64, role models.Role) error {
	return s.exec(ctx, "set user role",
		`UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1`, id, role)
}

// Delete removes the user; progress, attempts and sessions cascade.
func (s *Store) Delete(ctx context.Context, id int64) error {
	return s.exec(ctx, "delete user", `DELETE FROM users WHERE id = $1`, id)
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (s *Store) CreateResetToken(ctx context.Context, token uuid.UUID, userID int64, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO password_reset_tokens (token, user_id, expires_at) VALUES ($1, $2, $3)`,
		token, userID, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("create reset token: %w", err)
	}
	return nil
}

// ConsumeResetToken marks an unused, unexpired token as used and returns its
// user. Any other token yields database.ErrNotFound.
func (s *Store) ConsumeResetToken(ctx context.Context, token uuid.UUID, now time.Time) (int64, error) {
	var userID int64
	err := s.db.QueryRowContext(ctx,
		`UPDATE password_reset_tokens SET used_at = $2
		 WHERE token = $1 AND used_at IS NULL AND expires_at > $2
		 RETURNING user_id`,
		token, now,
	).Scan(&userID)
	if err != nil {
		return 0, fmt.Errorf("consume reset token: %w", database.MapError(err))
	}
	return userID, nil
}

func (s *Store) exec(ctx context.Context, op, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, database.ErrNotFound)
	}
	return nil
}
