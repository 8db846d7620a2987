// Package consoles reads the static console reference table.
package consoles

import (
	"context"

	"github.com/avoronov/retrodesk/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]*models.Console, error)
}
