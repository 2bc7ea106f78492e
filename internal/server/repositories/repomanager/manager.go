package repomanager

import (
	"context"
	"database/sql"

	"github.com/sonder-app/sonder-backend/internal/dbx"
	"github.com/sonder-app/sonder-backend/internal/server/repositories/circles"
	"github.com/sonder-app/sonder-backend/internal/server/repositories/credentials"
	"github.com/sonder-app/sonder-backend/internal/server/repositories/invitations"
	"github.com/sonder-app/sonder-backend/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX, so the
// same repository code runs against a plain connection or inside a
// transaction started by dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Circles(db dbx.DBTX) circles.Repository
	Credentials(db dbx.DBTX) credentials.Repository
	Invitations(db dbx.DBTX) invitations.Repository
}
