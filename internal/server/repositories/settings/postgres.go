package settings

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/avoronov/retrodesk/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateDefaults(ctx context.Context, userID uuid.UUID) error {

	query :=
		`INSERT INTO user_settings (user_id, theme, crt_effect, scanline_intensity, audio_volume)
		 VALUES ($1, 'classic-xp', true, 0.5, 0.8)`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
