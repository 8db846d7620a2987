package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/avoronov/retrodesk/internal/dbx"
	"github.com/avoronov/retrodesk/internal/server/migrations"
	"github.com/avoronov/retrodesk/internal/server/repositories/consoles"
	"github.com/avoronov/retrodesk/internal/server/repositories/games"
	"github.com/avoronov/retrodesk/internal/server/repositories/saves"
	"github.com/avoronov/retrodesk/internal/server/repositories/settings"
	"github.com/avoronov/retrodesk/internal/server/repositories/users"
)

type PostgresManager struct{}

func NewPostgresManager() *PostgresManager {
	return &PostgresManager{}
}

// OpenDB opens the pgx pool and applies the embedded migrations. Connection
// acquisition is bounded so a saturated pool surfaces as an error instead of
// an indefinite hang.
func OpenDB(ctx context.Context, dsn string, m RepositoryManager) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	if err := m.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return db, nil
}

func (m *PostgresManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return err
	}

	return nil
}

func (m *PostgresManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresManager) Settings(db dbx.DBTX) settings.Repository {
	return settings.NewPostgresRepository(db)
}

func (m *PostgresManager) Saves(db dbx.DBTX) saves.Repository {
	return saves.NewPostgresRepository(db)
}

func (m *PostgresManager) Games(db dbx.DBTX) games.Repository {
	return games.NewPostgresRepository(db)
}

func (m *PostgresManager) Consoles(db dbx.DBTX) consoles.Repository {
	return consoles.NewPostgresRepository(db)
}
