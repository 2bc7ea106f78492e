// Package services contains the server-side business logic: credential
// issuance and validation, the refresh state machine, provider login,
// circles, invitations, and picture storage.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sonder-app/sonder-backend/internal/common"
	"github.com/sonder-app/sonder-backend/internal/dbx"
	"github.com/sonder-app/sonder-backend/internal/server/config"
	"github.com/sonder-app/sonder-backend/internal/server/models"
	"github.com/sonder-app/sonder-backend/internal/server/repositories/repomanager"
)

// Secret sizes in random bytes per credential kind. Refresh tokens live for
// weeks and are the higher-value target, so they get the larger secret.
const (
	accessSecretBytes  = 16
	refreshSecretBytes = 64
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	Access  *models.Credential
	Refresh *models.Credential
}

// TokenService issues, validates, and rotates bearer credentials. Issuance
// keeps the invariant that a user has at most one non-revoked credential of
// each kind: prior credentials are revoked in the same transaction that
// inserts the new one.
type TokenService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	accessValidity  time.Duration
	refreshValidity time.Duration
}

// NewTokenService constructs a TokenService using repositories and server config.
func NewTokenService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *TokenService {
	return &TokenService{
		db:              db,
		repomanager:     m,
		accessValidity:  cfg.AccessTokenValidity,
		refreshValidity: cfg.RefreshTokenValidity,
	}
}

func (s *TokenService) secretBytes(kind models.CredentialKind) int {
	if kind == models.KindRefresh {
		return refreshSecretBytes
	}
	return accessSecretBytes
}

func (s *TokenService) validity(kind models.CredentialKind) time.Duration {
	if kind == models.KindRefresh {
		return s.refreshValidity
	}
	return s.accessValidity
}

// issue revokes every active credential of the kind for the user, then
// inserts a fresh one. Must run on a transactional handle; the revocation is
// a single conditional UPDATE so re-running after a failed attempt is safe.
func (s *TokenService) issue(ctx context.Context, tx dbx.DBTX, kind models.CredentialKind, userID string) (*models.Credential, error) {
	repo := s.repomanager.Credentials(tx)

	if err := repo.RevokeAllForUser(ctx, kind, userID); err != nil {
		return nil, fmt.Errorf("error revoking prior credentials: %w", err)
	}

	secret, err := common.MakeRandSecret(s.secretBytes(kind))
	if err != nil {
		return nil, fmt.Errorf("error generating secret: %w", err)
	}

	cred, err := repo.Create(ctx, kind, userID, secret, s.validity(kind))
	if err != nil {
		return nil, fmt.Errorf("error storing credential: %w", err)
	}
	return cred, nil
}

// IssueAccessToken mints a new access token for the user, revoking all prior
// access tokens in the same transaction.
func (s *TokenService) IssueAccessToken(ctx context.Context, userID string) (*models.Credential, error) {
	var cred *models.Credential
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var issueErr error
		cred, issueErr = s.issue(ctx, tx, models.KindAccess, userID)
		return issueErr
	})
	if err != nil {
		return nil, err
	}
	return cred, nil
}

// IssueRefreshToken mints a new refresh token for the user, revoking all
// prior refresh tokens in the same transaction.
func (s *TokenService) IssueRefreshToken(ctx context.Context, userID string) (*models.Credential, error) {
	var cred *models.Credential
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var issueErr error
		cred, issueErr = s.issue(ctx, tx, models.KindRefresh, userID)
		return issueErr
	})
	if err != nil {
		return nil, err
	}
	return cred, nil
}

// IssuePair mints a fresh access/refresh pair in one transaction.
func (s *TokenService) IssuePair(ctx context.Context, userID string) (*TokenPair, error) {
	var pair *TokenPair
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var issueErr error
		pair, issueErr = s.issuePair(ctx, tx, userID)
		return issueErr
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *TokenService) issuePair(ctx context.Context, tx dbx.DBTX, userID string) (*TokenPair, error) {
	access, err := s.issue(ctx, tx, models.KindAccess, userID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issue(ctx, tx, models.KindRefresh, userID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// Resolve is the authentication gate every protected operation passes
// through: it maps a presented secret to its owning user. Failures are
// specific so the caller can tell a dead session from a stale one:
// common.ErrCredentialNotFound, ErrCredentialRevoked, ErrCredentialExpired.
func (s *TokenService) Resolve(ctx context.Context, kind models.CredentialKind, secret string) (*models.User, error) {
	cred, err := s.repomanager.Credentials(s.db).Find(ctx, kind, secret)
	if err != nil {
		return nil, err
	}
	if cred.Revoked {
		return nil, common.ErrCredentialRevoked
	}
	if !cred.ExpiresAt.After(time.Now()) {
		return nil, common.ErrCredentialExpired
	}
	return s.repomanager.Users(s.db).GetByID(ctx, cred.UserID)
}

// Refresh exchanges a refresh secret for a fresh token pair.
//
// The presented token drives a three-way state machine:
//  1. unknown secret: fail with ErrCredentialNotFound; the caller has no
//     session and must authenticate from scratch.
//  2. known but revoked or expired: treat as possible replay of a stolen
//     token and revoke every credential of both kinds owned by that user
//     before failing. This must not be weakened to rejecting just the one
//     token; refresh secrets are long-lived and worth stealing.
//  3. valid: revoke it (single use) and mint a new pair in the same
//     transaction. The refresh secret always rotates. The revocation is
//     conditional on the token still being active, so two concurrent
//     presentations of the same secret cannot both mint pairs: the loser's
//     transaction aborts and falls into the replay branch.
func (s *TokenService) Refresh(ctx context.Context, secret string) (*TokenPair, error) {
	cred, err := s.repomanager.Credentials(s.db).Find(ctx, models.KindRefresh, secret)
	if err != nil {
		return nil, err
	}

	if !cred.Valid() {
		if err := s.RevokeAll(ctx, cred.UserID); err != nil {
			return nil, fmt.Errorf("error revoking credentials after refresh reuse: %w", err)
		}
		if cred.Revoked {
			return nil, common.ErrCredentialRevoked
		}
		return nil, common.ErrCredentialExpired
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Credentials(tx).Revoke(ctx, models.KindRefresh, secret); err != nil {
			return fmt.Errorf("error revoking refresh token: %w", err)
		}
		var issueErr error
		pair, issueErr = s.issuePair(ctx, tx, cred.UserID)
		return issueErr
	})
	if err != nil {
		// A concurrent Refresh consumed the secret between our Find and the
		// conditional revoke. The second presentation is indistinguishable
		// from replay, so contain it the same way.
		if errors.Is(err, common.ErrCredentialRevoked) {
			if revErr := s.RevokeAll(ctx, cred.UserID); revErr != nil {
				return nil, fmt.Errorf("error revoking credentials after refresh reuse: %w", revErr)
			}
			return nil, common.ErrCredentialRevoked
		}
		return nil, err
	}
	return pair, nil
}

// RevokeAll revokes every credential of both kinds owned by the user, in one
// transaction. Used on logout and as the refresh-reuse containment.
func (s *TokenService) RevokeAll(ctx context.Context, userID string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Credentials(tx)
		if err := repo.RevokeAllForUser(ctx, models.KindAccess, userID); err != nil {
			return err
		}
		return repo.RevokeAllForUser(ctx, models.KindRefresh, userID)
	})
}
