// Package settings persists the per-user presentation settings row.
package settings

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// CreateDefaults inserts the default settings row for a new user.
	CreateDefaults(ctx context.Context, userID uuid.UUID) error
}
