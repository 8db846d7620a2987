// Package games persists catalog rows. The catalog is append-only: the
// scanner inserts, readers page through, nothing updates or deletes.
package games

import (
	"context"

	"github.com/google/uuid"

	"github.com/avoronov/retrodesk/internal/server/models"
)

type Repository interface {
	Exists(ctx context.Context, consoleID, romFilename string) (bool, error)
	Insert(ctx context.Context, game *models.Game) (*models.Game, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error)

	// List returns games ordered by title; consoleID == "" means all consoles.
	List(ctx context.Context, consoleID string, limit, offset int64) ([]*models.Game, error)
	Count(ctx context.Context, consoleID string) (int64, error)
}
