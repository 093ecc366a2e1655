package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/flashnest/internal/dbx"
	"github.com/dmitrijs2005/flashnest/internal/server/repositories/sets"
	"github.com/dmitrijs2005/flashnest/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/flashnest/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Tokens(db dbx.DBTX) tokens.Repository
	Sets(db dbx.DBTX) sets.Repository
}
