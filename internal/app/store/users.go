package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is an account row in the credential store.
type User struct {
	ID            uuid.UUID
	Name          string
	Email         string
	PasswordHash  string
	AvatarKey     string
	LearningStyle string
	Difficulty    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CreateUserParams carries the fields required to create an account.
type CreateUserParams struct {
	Name         string
	Email        string
	PasswordHash string
}

const userColumns = `id, name, email, password_hash, avatar_key, learning_style, difficulty, created_at, updated_at`

// scanUser reads one user row in userColumns order.
func scanUser(row interface{ Scan(dest ...any) error }) (User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.AvatarKey,
		&u.LearningStyle,
		&u.Difficulty,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

// CreateUser inserts a new account and returns the stored row.
// A duplicate email surfaces as a unique violation (see IsUniqueViolation).
func (s *Store) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, lower($2), $3)
		RETURNING `+userColumns,
		params.Name, params.Email, params.PasswordHash,
	)

	return scanUser(row)
}

// GetUserByEmail fetches an account by its login email.
// This is the credential store's findByLoginKey operation.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = lower($1)`,
		email,
	)

	u, err := scanUser(row)
	if err != nil {
		return User{}, mapNoRows(err)
	}
	return u, nil
}

// GetUserByID fetches an account by its subject id.
// This is the credential store's findBySubjectId operation.
func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1`,
		id,
	)

	u, err := scanUser(row)
	if err != nil {
		return User{}, mapNoRows(err)
	}
	return u, nil
}

// UpdateAvatarKey records the storage key of the user's uploaded avatar.
func (s *Store) UpdateAvatarKey(ctx context.Context, id uuid.UUID, key string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users
		SET avatar_key = $2, updated_at = now()
		WHERE id = $1`,
		id, key,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePreferences stores the account's learning preferences.
func (s *Store) UpdatePreferences(ctx context.Context, id uuid.UUID, learningStyle, difficulty string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users
		SET learning_style = $2, difficulty = $3, updated_at = now()
		WHERE id = $1`,
		id, learningStyle, difficulty,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
