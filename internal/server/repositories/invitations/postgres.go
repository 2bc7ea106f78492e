package invitations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

// Create stores a new invitation for circleID with an expiry of now+validity.
func (r *PostgresRepository) Create(ctx context.Context, circleID string, code string, validity time.Duration) (*models.CircleInvitation, error) {
	query := `
		INSERT INTO circle_invitations (circle_id, invitation_code, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	inv := &models.CircleInvitation{
		InvitationCode: code,
		CircleID:       circleID,
		ExpiresAt:      time.Now().Add(validity),
	}
	if err := r.db.QueryRowContext(ctx, query, circleID, code, inv.ExpiresAt).Scan(&inv.ID); err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return inv, nil
}

// FindByCode looks up an invitation by its code.
func (r *PostgresRepository) FindByCode(ctx context.Context, code string) (*models.CircleInvitation, error) {
	query := `
		SELECT id, circle_id, expires_at, revoked
		FROM circle_invitations
		WHERE invitation_code = $1
	`
	inv := &models.CircleInvitation{InvitationCode: code}
	err := r.db.QueryRowContext(ctx, query, code).
		Scan(&inv.ID, &inv.CircleID, &inv.ExpiresAt, &inv.Revoked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrInvitationNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return inv, nil
}

// RevokeAllForCircle revokes every active invitation of the circle in one
// conditional UPDATE.
func (r *PostgresRepository) RevokeAllForCircle(ctx context.Context, circleID string) error {
	query := `
		UPDATE circle_invitations
		SET revoked = true
		WHERE circle_id = $1 AND NOT revoked
	`
	if _, err := r.db.ExecContext(ctx, query, circleID); err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return nil
}
