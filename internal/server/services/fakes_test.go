package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sonder-app/sonder-backend/internal/common"
	"github.com/sonder-app/sonder-backend/internal/dbx"
	"github.com/sonder-app/sonder-backend/internal/logging"
	"github.com/sonder-app/sonder-backend/internal/server/config"
	"github.com/sonder-app/sonder-backend/internal/server/identity"
	"github.com/sonder-app/sonder-backend/internal/server/models"
	circlesrepo "github.com/sonder-app/sonder-backend/internal/server/repositories/circles"
	credentialsrepo "github.com/sonder-app/sonder-backend/internal/server/repositories/credentials"
	invitationsrepo "github.com/sonder-app/sonder-backend/internal/server/repositories/invitations"
	usersrepo "github.com/sonder-app/sonder-backend/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		AccessTokenValidity:  time.Hour,
		RefreshTokenValidity: 2 * time.Hour,
		InvitationValidity:   24 * time.Hour,
	}
}

// In-memory fakes that keep real state, so invariant checks (how many
// non-revoked rows exist after an operation) stay meaningful.

type fakeUsersRepo struct {
	mu    sync.Mutex
	users map[string]*models.User

	createErr error
	updateErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{users: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	stored := *u
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now()
	stored.LastModified = stored.CreatedAt
	f.users[stored.ID] = &stored
	return &stored, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUsersRepo) Update(ctx context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.users[u.ID]; !ok {
		return common.ErrNotFound
	}
	stored := *u
	f.users[u.ID] = &stored
	return nil
}

func (f *fakeUsersRepo) ListByCircle(ctx context.Context, circleID string) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.User
	for _, u := range f.users {
		if u.CircleID != nil && *u.CircleID == circleID {
			copied := *u
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeCirclesRepo struct {
	mu      sync.Mutex
	circles map[string]*models.Circle
}

func newFakeCirclesRepo() *fakeCirclesRepo {
	return &fakeCirclesRepo{circles: map[string]*models.Circle{}}
}

func (f *fakeCirclesRepo) Create(ctx context.Context, c *models.Circle) (*models.Circle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *c
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now()
	stored.LastModified = stored.CreatedAt
	f.circles[stored.ID] = &stored
	return &stored, nil
}

func (f *fakeCirclesRepo) GetByID(ctx context.Context, id string) (*models.Circle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.circles[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCirclesRepo) Update(ctx context.Context, c *models.Circle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.circles[c.ID]; !ok {
		return common.ErrNotFound
	}
	stored := *c
	f.circles[c.ID] = &stored
	return nil
}

type fakeCredentialsRepo struct {
	mu    sync.Mutex
	creds []*models.Credential
	kinds []models.CredentialKind

	createErr error
	findErr   error
	revokeErr error
}

func newFakeCredentialsRepo() *fakeCredentialsRepo {
	return &fakeCredentialsRepo{}
}

func (f *fakeCredentialsRepo) Create(ctx context.Context, kind models.CredentialKind, userID string, token string, validity time.Duration) (*models.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	cred := &models.Credential{
		ID:        uuid.NewString(),
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().Add(validity),
	}
	f.creds = append(f.creds, cred)
	f.kinds = append(f.kinds, kind)
	return cred, nil
}

func (f *fakeCredentialsRepo) Find(ctx context.Context, kind models.CredentialKind, token string) (*models.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	for i, c := range f.creds {
		if f.kinds[i] == kind && c.Token == token {
			copied := *c
			return &copied, nil
		}
	}
	return nil, common.ErrCredentialNotFound
}

func (f *fakeCredentialsRepo) RevokeAllForUser(ctx context.Context, kind models.CredentialKind, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.creds {
		if f.kinds[i] == kind && c.UserID == userID {
			c.Revoked = true
		}
	}
	return nil
}

func (f *fakeCredentialsRepo) Revoke(ctx context.Context, kind models.CredentialKind, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.revokeErr != nil {
		return f.revokeErr
	}
	for i, c := range f.creds {
		if f.kinds[i] == kind && c.Token == token {
			if c.Revoked {
				return common.ErrCredentialRevoked
			}
			c.Revoked = true
			return nil
		}
	}
	return common.ErrCredentialNotFound
}

// active returns the non-revoked credentials of a kind for a user.
func (f *fakeCredentialsRepo) active(kind models.CredentialKind, userID string) []*models.Credential {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Credential
	for i, c := range f.creds {
		if f.kinds[i] == kind && c.UserID == userID && !c.Revoked {
			out = append(out, c)
		}
	}
	return out
}

// seed inserts a credential directly, bypassing Create.
func (f *fakeCredentialsRepo) seed(kind models.CredentialKind, cred *models.Credential) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creds = append(f.creds, cred)
	f.kinds = append(f.kinds, kind)
}

type fakeInvitationsRepo struct {
	mu   sync.Mutex
	invs []*models.CircleInvitation
}

func newFakeInvitationsRepo() *fakeInvitationsRepo {
	return &fakeInvitationsRepo{}
}

func (f *fakeInvitationsRepo) Create(ctx context.Context, circleID string, code string, validity time.Duration) (*models.CircleInvitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv := &models.CircleInvitation{
		ID:             uuid.NewString(),
		InvitationCode: code,
		CircleID:       circleID,
		ExpiresAt:      time.Now().Add(validity),
	}
	f.invs = append(f.invs, inv)
	return inv, nil
}

func (f *fakeInvitationsRepo) FindByCode(ctx context.Context, code string) (*models.CircleInvitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range f.invs {
		if inv.InvitationCode == code {
			copied := *inv
			return &copied, nil
		}
	}
	return nil, common.ErrInvitationNotFound
}

func (f *fakeInvitationsRepo) RevokeAllForCircle(ctx context.Context, circleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range f.invs {
		if inv.CircleID == circleID {
			inv.Revoked = true
		}
	}
	return nil
}

func (f *fakeInvitationsRepo) active(circleID string) []*models.CircleInvitation {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.CircleInvitation
	for _, inv := range f.invs {
		if inv.CircleID == circleID && !inv.Revoked {
			out = append(out, inv)
		}
	}
	return out
}

func (f *fakeInvitationsRepo) seed(inv *models.CircleInvitation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invs = append(f.invs, inv)
}

type fakeRepoManager struct {
	users       *fakeUsersRepo
	circles     *fakeCirclesRepo
	credentials *fakeCredentialsRepo
	invitations *fakeInvitationsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:       newFakeUsersRepo(),
		circles:     newFakeCirclesRepo(),
		credentials: newFakeCredentialsRepo(),
		invitations: newFakeInvitationsRepo(),
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error        { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository              { return m.users }
func (m *fakeRepoManager) Circles(db dbx.DBTX) circlesrepo.Repository          { return m.circles }
func (m *fakeRepoManager) Credentials(db dbx.DBTX) credentialsrepo.Repository  { return m.credentials }
func (m *fakeRepoManager) Invitations(db dbx.DBTX) invitationsrepo.Repository  { return m.invitations }

// fakeProvider returns a canned identity profile or error.
type fakeProvider struct {
	info *identity.UserInfo
	err  error
}

func (p *fakeProvider) FetchUserInfo(ctx context.Context, providerToken string) (*identity.UserInfo, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.info, nil
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// ensure the fakes satisfy their contracts
var (
	_ usersrepo.Repository       = (*fakeUsersRepo)(nil)
	_ circlesrepo.Repository     = (*fakeCirclesRepo)(nil)
	_ credentialsrepo.Repository = (*fakeCredentialsRepo)(nil)
	_ invitationsrepo.Repository = (*fakeInvitationsRepo)(nil)
)

func mustMember(t *testing.T, rm *fakeRepoManager, circleID string) *models.User {
	t.Helper()
	u, err := rm.users.Create(context.Background(), &models.User{
		Email:     fmt.Sprintf("member-%s@sonder.com", uuid.NewString()[:8]),
		FirstName: "Member",
		LastName:  "User",
		CircleID:  &circleID,
	})
	if err != nil {
		t.Fatalf("seeding member: %v", err)
	}
	return u
}
