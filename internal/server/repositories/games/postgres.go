package games

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/avoronov/retrodesk/internal/common"
	"github.com/avoronov/retrodesk/internal/dbx"
	"github.com/avoronov/retrodesk/internal/server/models"
)

const gameColumns = "id, console_id, title, rom_filename, rom_size_bytes, description, release_year, created_at"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanGame(row *sql.Row) (*models.Game, error) {
	game := &models.Game{}
	err := row.Scan(&game.ID, &game.ConsoleID, &game.Title, &game.ROMFilename,
		&game.ROMSizeBytes, &game.Description, &game.ReleaseYear, &game.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return game, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, consoleID, romFilename string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM games WHERE console_id = $1 AND rom_filename = $2)`
	if err := r.db.QueryRowContext(ctx, query, consoleID, romFilename).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, game *models.Game) (*models.Game, error) {

	query :=
		`INSERT INTO games (console_id, title, rom_filename, rom_size_bytes)
		 VALUES ($1, $2, $3, $4)
		 RETURNING ` + gameColumns

	row := r.db.QueryRowContext(ctx, query,
		game.ConsoleID, game.Title, game.ROMFilename, game.ROMSizeBytes)

	return scanGame(row)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`
	return scanGame(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) List(ctx context.Context, consoleID string, limit, offset int64) ([]*models.Game, error) {

	var rows *sql.Rows
	var err error

	if consoleID != "" {
		query := `SELECT ` + gameColumns + ` FROM games WHERE console_id = $1 ORDER BY title LIMIT $2 OFFSET $3`
		rows, err = r.db.QueryContext(ctx, query, consoleID, limit, offset)
	} else {
		query := `SELECT ` + gameColumns + ` FROM games ORDER BY title LIMIT $1 OFFSET $2`
		rows, err = r.db.QueryContext(ctx, query, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Game
	for rows.Next() {
		game := &models.Game{}
		err := rows.Scan(&game.ID, &game.ConsoleID, &game.Title, &game.ROMFilename,
			&game.ROMSizeBytes, &game.Description, &game.ReleaseYear, &game.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Count(ctx context.Context, consoleID string) (int64, error) {
	var total int64
	var err error

	if consoleID != "" {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games WHERE console_id = $1`, consoleID).Scan(&total)
	} else {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&total)
	}
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return total, nil
}
