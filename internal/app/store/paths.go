package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LearningPath is a generated course outline saved for a user.
// The struct serializes directly into API responses.
type LearningPath struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Modules     []string  `json:"modules"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AddLearningPathParams carries the fields required to persist a generated path.
type AddLearningPathParams struct {
	UserID      uuid.UUID
	Title       string
	Description string
	Modules     []string
}

// AddLearningPath saves a generated learning path for the user.
func (s *Store) AddLearningPath(ctx context.Context, params AddLearningPathParams) (LearningPath, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO learning_paths (user_id, title, description, modules)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, title, description, modules, created_at`,
		params.UserID, params.Title, params.Description, params.Modules,
	)

	var p LearningPath
	err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Description, &p.Modules, &p.CreatedAt)
	if err != nil {
		return LearningPath{}, err
	}
	return p, nil
}

// ListLearningPaths returns all paths saved for the user, newest first.
func (s *Store) ListLearningPaths(ctx context.Context, userID uuid.UUID) ([]LearningPath, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, title, description, modules, created_at
		FROM learning_paths
		WHERE user_id = $1
		ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	paths := make([]LearningPath, 0)
	for rows.Next() {
		var p LearningPath
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Description, &p.Modules, &p.CreatedAt); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}

	return paths, rows.Err()
}
