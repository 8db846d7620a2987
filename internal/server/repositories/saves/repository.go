// Package saves persists save-state rows. Slot uniqueness is enforced by a
// (user_id, game_id, slot) unique constraint; the service replaces a slot by
// running DeleteSlot and Insert inside one transaction.
package saves

import (
	"context"

	"github.com/google/uuid"

	"github.com/avoronov/retrodesk/internal/server/models"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.SaveState, error)
	ListByUserAndGame(ctx context.Context, userID, gameID uuid.UUID) ([]*models.SaveState, error)
	DeleteSlot(ctx context.Context, userID, gameID uuid.UUID, slot int) error
	Insert(ctx context.Context, save *models.SaveState) (*models.SaveState, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
