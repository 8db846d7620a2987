// Package repomanager hands out repositories bound to a database handle.
// Passing a dbx.DBTX at the call site lets services run the same repository
// code on the pool or inside a transaction opened with dbx.WithTx.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/avoronov/retrodesk/internal/dbx"
	"github.com/avoronov/retrodesk/internal/server/repositories/consoles"
	"github.com/avoronov/retrodesk/internal/server/repositories/games"
	"github.com/avoronov/retrodesk/internal/server/repositories/saves"
	"github.com/avoronov/retrodesk/internal/server/repositories/settings"
	"github.com/avoronov/retrodesk/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Settings(db dbx.DBTX) settings.Repository
	Saves(db dbx.DBTX) saves.Repository
	Games(db dbx.DBTX) games.Repository
	Consoles(db dbx.DBTX) consoles.Repository
}
