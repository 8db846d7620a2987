package consoles

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestList_SplitsExtensions(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "name", "manufacturer", "release_year", "emulator_core", "supported_extensions"}).
		AddRow("nes", "Nintendo Entertainment System", "Nintendo", 1983, "fceumm", ".nes").
		AddRow("snes", "Super Nintendo", "Nintendo", 1990, "snes9x", ".smc,.sfc").
		AddRow("unknown", "Mystery Box", nil, nil, "stub", ".bin")

	mock.ExpectQuery(`(?s)SELECT\s+.*\s+FROM\s+consoles\s+ORDER\s+BY\s+release_year`).
		WillReturnRows(rows)

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 consoles, got %d", len(got))
	}

	snes := got[1]
	if len(snes.SupportedExtensions) != 2 || snes.SupportedExtensions[0] != ".smc" || snes.SupportedExtensions[1] != ".sfc" {
		t.Fatalf("unexpected extensions: %v", snes.SupportedExtensions)
	}

	if got[2].Manufacturer != nil || got[2].ReleaseYear != nil {
		t.Fatalf("expected nil optional fields: %+v", got[2])
	}
}

func TestList_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+consoles`).WillReturnError(errors.New("db down"))

	_, err := repo.List(context.Background())
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
