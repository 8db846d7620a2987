package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/avoronov/retrodesk/internal/blobstore"
	"github.com/avoronov/retrodesk/internal/common"
	"github.com/avoronov/retrodesk/internal/dbx"
	"github.com/avoronov/retrodesk/internal/logging"
	"github.com/avoronov/retrodesk/internal/server/models"
	consolesrepo "github.com/avoronov/retrodesk/internal/server/repositories/consoles"
	gamesrepo "github.com/avoronov/retrodesk/internal/server/repositories/games"
	savesrepo "github.com/avoronov/retrodesk/internal/server/repositories/saves"
	settingsrepo "github.com/avoronov/retrodesk/internal/server/repositories/settings"
	usersrepo "github.com/avoronov/retrodesk/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func newTestLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// --- repository fakes ---

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	byEmail    *models.User
	byEmailErr error

	byID    *models.User
	byIDErr error

	usernameTaken bool
	usernameErr   error
	emailTaken    bool
	emailErr      error

	lastLoginErr   error
	lastLoginCalls int
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.byEmailErr != nil {
		return nil, f.byEmailErr
	}
	return f.byEmail, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byID, nil
}

func (f *fakeUsersRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	return f.usernameTaken, f.usernameErr
}

func (f *fakeUsersRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	return f.emailTaken, f.emailErr
}

func (f *fakeUsersRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	f.lastLoginCalls++
	return f.lastLoginErr
}

type fakeSettingsRepo struct {
	createdFor []uuid.UUID
	createErr  error
}

func (f *fakeSettingsRepo) CreateDefaults(ctx context.Context, userID uuid.UUID) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.createdFor = append(f.createdFor, userID)
	return nil
}

type slotKey struct {
	userID uuid.UUID
	gameID uuid.UUID
	slot   int
}

type fakeSavesRepo struct {
	byID    *models.SaveState
	byIDErr error

	listOut []*models.SaveState
	listErr error

	deleteSlotErr   error
	deletedSlots    []slotKey
	insertErr       error
	inserted        []*models.SaveState
	deleteErr       error
	deletedIDs      []uuid.UUID
	deleteSlotFirst bool
}

func (f *fakeSavesRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.SaveState, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byID, nil
}

func (f *fakeSavesRepo) ListByUserAndGame(ctx context.Context, userID, gameID uuid.UUID) ([]*models.SaveState, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakeSavesRepo) DeleteSlot(ctx context.Context, userID, gameID uuid.UUID, slot int) error {
	if f.deleteSlotErr != nil {
		return f.deleteSlotErr
	}
	if len(f.inserted) == 0 {
		f.deleteSlotFirst = true
	}
	f.deletedSlots = append(f.deletedSlots, slotKey{userID: userID, gameID: gameID, slot: slot})
	return nil
}

func (f *fakeSavesRepo) Insert(ctx context.Context, save *models.SaveState) (*models.SaveState, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	out := *save
	out.ID = uuid.New()
	f.inserted = append(f.inserted, &out)
	return &out, nil
}

func (f *fakeSavesRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

type fakeGamesRepo struct {
	existing map[string]bool
	inserted []*models.Game

	existsErr error
	insertErr error

	byID    *models.Game
	byIDErr error

	listOut  []*models.Game
	listErr  error
	countOut int64
	countErr error
}

func (f *fakeGamesRepo) Exists(ctx context.Context, consoleID, romFilename string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.existing[consoleID+"/"+romFilename], nil
}

func (f *fakeGamesRepo) Insert(ctx context.Context, game *models.Game) (*models.Game, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	out := *game
	out.ID = uuid.New()
	f.inserted = append(f.inserted, &out)
	if f.existing == nil {
		f.existing = map[string]bool{}
	}
	f.existing[game.ConsoleID+"/"+game.ROMFilename] = true
	return &out, nil
}

func (f *fakeGamesRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byID, nil
}

func (f *fakeGamesRepo) List(ctx context.Context, consoleID string, limit, offset int64) ([]*models.Game, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakeGamesRepo) Count(ctx context.Context, consoleID string) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.countOut, nil
}

type fakeConsolesRepo struct {
	listOut []*models.Console
	listErr error
}

func (f *fakeConsolesRepo) List(ctx context.Context) ([]*models.Console, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

type fakeRepoManager struct {
	users    *fakeUsersRepo
	settings *fakeSettingsRepo
	saves    *fakeSavesRepo
	games    *fakeGamesRepo
	consoles *fakeConsolesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error      { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository           { return m.users }
func (m *fakeRepoManager) Settings(db dbx.DBTX) settingsrepo.Repository     { return m.settings }
func (m *fakeRepoManager) Saves(db dbx.DBTX) savesrepo.Repository           { return m.saves }
func (m *fakeRepoManager) Games(db dbx.DBTX) gamesrepo.Repository           { return m.games }
func (m *fakeRepoManager) Consoles(db dbx.DBTX) consolesrepo.Repository     { return m.consoles }

// --- blob store fake ---

type fakeBlobStore struct {
	files map[string][]byte

	writeErr  map[string]error
	readErr   map[string]error
	deleteErr map[string]error

	writes  []string
	deletes []string

	// per-directory listings, for the catalog scan
	lists map[string][]blobstore.FileInfo
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{files: map[string][]byte{}}
}

func (f *fakeBlobStore) Write(ctx context.Context, name string, data []byte) error {
	if err := f.writeErr[name]; err != nil {
		return err
	}
	f.files[name] = append([]byte(nil), data...)
	f.writes = append(f.writes, name)
	return nil
}

func (f *fakeBlobStore) Read(ctx context.Context, name string) ([]byte, error) {
	if err := f.readErr[name]; err != nil {
		return nil, err
	}
	data, ok := f.files[name]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return data, nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, name string) error {
	if err := f.deleteErr[name]; err != nil {
		return err
	}
	if _, ok := f.files[name]; !ok {
		return common.ErrorNotFound
	}
	delete(f.files, name)
	f.deletes = append(f.deletes, name)
	return nil
}

func (f *fakeBlobStore) List(ctx context.Context, dir string) ([]blobstore.FileInfo, error) {
	infos, ok := f.lists[dir]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return infos, nil
}
