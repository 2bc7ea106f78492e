package credentials

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

// tableByKind maps each credential kind to its table. Table names come from
// this fixed map only, never from caller input.
var tableByKind = map[models.CredentialKind]string{
	models.KindAccess:  "access_tokens",
	models.KindRefresh: "refresh_tokens",
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

func table(kind models.CredentialKind) string {
	t, ok := tableByKind[kind]
	if !ok {
		panic(fmt.Sprintf("unknown credential kind %q", kind))
	}
	return t
}

// Create stores a new credential for userID with an expiry of now+validity.
// The unique index on the token column is the hard backstop against secret
// collisions.
func (r *PostgresRepository) Create(ctx context.Context, kind models.CredentialKind, userID string, token string, validity time.Duration) (*models.Credential, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, table(kind))

	cred := &models.Credential{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().Add(validity),
	}
	if err := r.db.QueryRowContext(ctx, query, userID, token, cred.ExpiresAt).Scan(&cred.ID); err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return cred, nil
}

// Find looks up a credential by its opaque secret.
func (r *PostgresRepository) Find(ctx context.Context, kind models.CredentialKind, token string) (*models.Credential, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, expires_at, revoked
		FROM %s
		WHERE token = $1
	`, table(kind))

	cred := &models.Credential{Token: token}
	err := r.db.QueryRowContext(ctx, query, token).
		Scan(&cred.ID, &cred.UserID, &cred.ExpiresAt, &cred.Revoked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return cred, nil
}

// RevokeAllForUser revokes every active credential of the kind for the user
// in one conditional UPDATE, so concurrent issuance cannot interleave a
// read-then-write pair.
func (r *PostgresRepository) RevokeAllForUser(ctx context.Context, kind models.CredentialKind, userID string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET revoked = true
		WHERE user_id = $1 AND NOT revoked
	`, table(kind))

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return nil
}

// Revoke marks a single credential as revoked by its secret. The update is
// conditional on the credential still being active, so when two transactions
// race to consume the same secret only one succeeds; the loser gets
// common.ErrCredentialRevoked.
func (r *PostgresRepository) Revoke(ctx context.Context, kind models.CredentialKind, token string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET revoked = true
		WHERE token = $1 AND NOT revoked
	`, table(kind))

	res, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrCredentialRevoked
	}
	return nil
}
