package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sonder-app/sonder-backend/internal/common"
	"github.com/sonder-app/sonder-backend/internal/dbx"
	"github.com/sonder-app/sonder-backend/internal/server/models"
)

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505). Email is the only unique column on users.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = "id, circle_id, email, first_name, last_name, username, picture_url, created_at, last_modified"

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.CircleID, &user.Email, &user.FirstName,
		&user.LastName, &user.Username, &user.PictureURL, &user.CreatedAt, &user.LastModified)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// Create inserts a new user and returns it with the generated id and timestamps.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (circle_id, email, first_name, last_name, username, picture_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, last_modified
	`
	err := r.db.QueryRowContext(ctx, query,
		user.CircleID, user.Email, user.FirstName, user.LastName, user.Username, user.PictureURL).
		Scan(&user.ID, &user.CreatedAt, &user.LastModified)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrEmailInUse
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return user, nil
}

// GetByID returns the user with the given id, or common.ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// GetByEmail returns the user with the given (normalized) email,
// or common.ErrNotFound.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

// Update persists profile fields and circle membership for an existing user.
func (r *PostgresRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET circle_id = $2, email = $3, first_name = $4, last_name = $5,
		    username = $6, picture_url = $7, last_modified = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		user.ID, user.CircleID, user.Email, user.FirstName, user.LastName,
		user.Username, user.PictureURL)
	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrEmailInUse
		}
		return fmt.Errorf("error performing sql request: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// ListByCircle returns all members of the given circle.
func (r *PostgresRepository) ListByCircle(ctx context.Context, circleID string) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE circle_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, circleID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var members []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.CircleID, &user.Email, &user.FirstName,
			&user.LastName, &user.Username, &user.PictureURL, &user.CreatedAt, &user.LastModified); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		members = append(members, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return members, nil
}
