package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sonder-app/sonder-backend/internal/common"
	"github.com/sonder-app/sonder-backend/internal/dbx"
	"github.com/sonder-app/sonder-backend/internal/server/authz"
	"github.com/sonder-app/sonder-backend/internal/server/config"
	"github.com/sonder-app/sonder-backend/internal/server/models"
	"github.com/sonder-app/sonder-backend/internal/server/repositories/repomanager"
)

// invitationSecretBytes is the random size of an invitation code. Codes are
// shared out of band (chat, in person), so they are hex-encoded (no
// case-sensitive base64 alphabet to mistype) and stay shorter than refresh
// secrets while remaining unguessable.
const invitationSecretBytes = 16

// InvitationService issues and resolves circle invitation codes. A circle
// has at most one non-revoked code at a time: issuing a new code revokes the
// previous one in the same transaction.
type InvitationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	validity    time.Duration
}

// NewInvitationService constructs an InvitationService.
func NewInvitationService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *InvitationService {
	return &InvitationService{db: db, repomanager: m, validity: cfg.InvitationValidity}
}

// Create mints a fresh invitation code for the circle, members only. Any
// previously active code for the circle stops working immediately.
func (s *InvitationService) Create(ctx context.Context, user *models.User, circleID string) (*models.CircleInvitation, error) {
	if !authz.IsMemberOf(user, circleID) {
		return nil, common.ErrNotCircleMember
	}

	code, err := common.MakeRandHexString(invitationSecretBytes)
	if err != nil {
		return nil, fmt.Errorf("error generating invitation code: %w", err)
	}

	var inv *models.CircleInvitation
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Invitations(tx)
		if err := repo.RevokeAllForCircle(ctx, circleID); err != nil {
			return fmt.Errorf("error revoking prior invitations: %w", err)
		}
		var createErr error
		inv, createErr = repo.Create(ctx, circleID, code, s.validity)
		return createErr
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// ResolveCircle maps an invitation code to its circle. Revoked and expired
// codes do not resolve; the failures are distinct so clients can tell a
// superseded code from a stale one.
func (s *InvitationService) ResolveCircle(ctx context.Context, code string) (*models.Circle, error) {
	inv, err := s.repomanager.Invitations(s.db).FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if inv.Revoked {
		return nil, common.ErrInvitationRevoked
	}
	if !inv.ExpiresAt.After(time.Now()) {
		return nil, common.ErrInvitationExpired
	}
	return s.repomanager.Circles(s.db).GetByID(ctx, inv.CircleID)
}

// JoinViaCode adds the user to the circle behind a valid invitation code.
// Joining does not consume the code; it stays live for the next invitee
// until it expires or is superseded. A user already in a circle cannot join
// another.
func (s *InvitationService) JoinViaCode(ctx context.Context, user *models.User, code string) (*models.Circle, error) {
	if authz.IsInCircle(user) {
		return nil, common.ErrAlreadyInCircle
	}

	circle, err := s.ResolveCircle(ctx, code)
	if err != nil {
		return nil, err
	}

	user.CircleID = &circle.ID
	if err := s.repomanager.Users(s.db).Update(ctx, user); err != nil {
		return nil, fmt.Errorf("error adding user to circle: %w", err)
	}
	return circle, nil
}
