package consoles

import (
	"context"
	"fmt"
	"strings"

	"github.com/avoronov/retrodesk/internal/dbx"
	"github.com/avoronov/retrodesk/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Console, error) {

	query :=
		`SELECT id, name, manufacturer, release_year, emulator_core, supported_extensions
		 FROM consoles
		 ORDER BY release_year`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Console
	for rows.Next() {
		console := &models.Console{}
		var extensions string
		err := rows.Scan(&console.ID, &console.Name, &console.Manufacturer,
			&console.ReleaseYear, &console.EmulatorCore, &extensions)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		// stored as a comma-separated list, e.g. ".smc,.sfc"
		console.SupportedExtensions = strings.Split(extensions, ",")
		result = append(result, console)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
