package saves

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

const saveColumns = "id, user_id, game_id, slot, save_data_filename, screenshot_filename, description, created_at"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanSave(row *sql.Row) (*models.SaveState, error) {
	save := &models.SaveState{}
	err := row.Scan(&save.ID, &save.UserID, &save.GameID, &save.Slot,
		&save.SaveDataFilename, &save.ScreenshotFilename, &save.Description, &save.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return save, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SaveState, error) {
	query := `SELECT ` + saveColumns + ` FROM save_states WHERE id = $1`
	return scanSave(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) ListByUserAndGame(ctx context.Context, userID, gameID uuid.UUID) ([]*models.SaveState, error) {

	query :=
		`SELECT ` + saveColumns + ` FROM save_states
		 WHERE user_id = $1 AND game_id = $2
		 ORDER BY slot`

	rows, err := r.db.QueryContext(ctx, query, userID, gameID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.SaveState
	for rows.Next() {
		save := &models.SaveState{}
		err := rows.Scan(&save.ID, &save.UserID, &save.GameID, &save.Slot,
			&save.SaveDataFilename, &save.ScreenshotFilename, &save.Description, &save.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, save)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) DeleteSlot(ctx context.Context, userID, gameID uuid.UUID, slot int) error {
	query := `DELETE FROM save_states WHERE user_id = $1 AND game_id = $2 AND slot = $3`
	if _, err := r.db.ExecContext(ctx, query, userID, gameID, slot); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Insert(ctx context.Context, save *models.SaveState) (*models.SaveState, error) {

	query :=
		`INSERT INTO save_states (user_id, game_id, slot, save_data_filename, screenshot_filename, description)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING ` + saveColumns

	row := r.db.QueryRowContext(ctx, query,
		save.UserID, save.GameID, save.Slot,
		save.SaveDataFilename, save.ScreenshotFilename, save.Description)

	return scanSave(row)
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM save_states WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
