package circles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sonder-app/sonder-backend/internal/common"
	"github.com/sonder-app/sonder-backend/internal/dbx"
	"github.com/sonder-app/sonder-backend/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new circle and returns it with the generated id and timestamps.
func (r *PostgresRepository) Create(ctx context.Context, circle *models.Circle) (*models.Circle, error) {
	query := `
		INSERT INTO circles (name, description, picture_url)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, last_modified
	`
	err := r.db.QueryRowContext(ctx, query, circle.Name, circle.Description, circle.PictureURL).
		Scan(&circle.ID, &circle.CreatedAt, &circle.LastModified)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return circle, nil
}

// GetByID returns the circle with the given id, or common.ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Circle, error) {
	query := `
		SELECT id, name, description, picture_url, created_at, last_modified
		FROM circles
		WHERE id = $1
	`
	circle := &models.Circle{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&circle.ID, &circle.Name, &circle.Description, &circle.PictureURL,
			&circle.CreatedAt, &circle.LastModified)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return circle, nil
}

// Update persists name, description, and picture for an existing circle.
func (r *PostgresRepository) Update(ctx context.Context, circle *models.Circle) error {
	query := `
		UPDATE circles
		SET name = $2, description = $3, picture_url = $4, last_modified = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, circle.ID, circle.Name, circle.Description, circle.PictureURL)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}
