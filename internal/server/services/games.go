package services

import (
	"context"
	"database/sql"
	"errors"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/avoronov/retrodesk/internal/blobstore"
	"github.com/avoronov/retrodesk/internal/common"
	"github.com/avoronov/retrodesk/internal/logging"
	"github.com/avoronov/retrodesk/internal/server/models"
	"github.com/avoronov/retrodesk/internal/server/repositories/repomanager"
)

type GameService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	roms        blobstore.Store
	logger      logging.Logger
}

func NewGameService(db *sql.DB, m repomanager.RepositoryManager, roms blobstore.Store, l logging.Logger) *GameService {
	return &GameService{
		db:          db,
		repomanager: m,
		roms:        roms,
		logger:      l.With("module", "game_service"),
	}
}

// titleFromFilename strips the extension and turns separator characters into
// spaces: "super_mario-world.smc" -> "super mario world".
func titleFromFilename(filename, extension string) string {
	title := strings.TrimSuffix(filename, extension)
	return strings.NewReplacer("_", " ", "-", " ").Replace(title)
}

// ScanROMs reconciles each console's ROM directory against the catalog and
// returns the number of newly inserted games. The pass is idempotent and
// append-only: existing rows are never updated, even if the file on disk
// changed size or disappeared.
func (s *GameService) ScanROMs(ctx context.Context) (int, error) {

	consoleList, err := s.repomanager.Consoles(s.db).List(ctx)
	if err != nil {
		s.logger.Error(ctx, "console list failed", "error", err.Error())
		return 0, common.ErrorInternal
	}

	gameRepo := s.repomanager.Games(s.db)
	totalAdded := 0

	for _, console := range consoleList {

		files, err := s.roms.List(ctx, console.ID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				// a missing directory is a deployment detail, not corruption
				s.logger.Warn(ctx, "console directory does not exist", "console_id", console.ID)
				continue
			}
			s.logger.Error(ctx, "rom listing failed", "console_id", console.ID, "error", err.Error())
			return 0, common.ErrorInternal
		}

		supported := make(map[string]struct{}, len(console.SupportedExtensions))
		for _, ext := range console.SupportedExtensions {
			supported[strings.ToLower(ext)] = struct{}{}
		}

		for _, file := range files {
			extension := path.Ext(file.Name)
			if _, ok := supported[strings.ToLower(extension)]; !ok {
				continue
			}

			exists, err := gameRepo.Exists(ctx, console.ID, file.Name)
			if err != nil {
				s.logger.Error(ctx, "game existence check failed", "error", err.Error())
				return 0, common.ErrorInternal
			}
			if exists {
				continue
			}

			title := titleFromFilename(file.Name, extension)

			game, err := gameRepo.Insert(ctx, &models.Game{
				ConsoleID:    console.ID,
				Title:        title,
				ROMFilename:  file.Name,
				ROMSizeBytes: file.Size,
			})
			if err != nil {
				s.logger.Error(ctx, "game insert failed", "error", err.Error())
				return 0, common.ErrorInternal
			}

			totalAdded++
			s.logger.Info(ctx, "added game", "title", game.Title, "console_id", console.ID)
		}
	}

	return totalAdded, nil
}

func (s *GameService) ListConsoles(ctx context.Context) ([]*models.Console, error) {
	return s.repomanager.Consoles(s.db).List(ctx)
}

// ListGames pages through the catalog; consoleID == "" means all consoles.
func (s *GameService) ListGames(ctx context.Context, consoleID string, limit, offset int64) ([]*models.Game, int64, error) {

	gameRepo := s.repomanager.Games(s.db)

	games, err := gameRepo.List(ctx, consoleID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := gameRepo.Count(ctx, consoleID)
	if err != nil {
		return nil, 0, err
	}

	return games, total, nil
}

func (s *GameService) GetGame(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	return s.repomanager.Games(s.db).GetByID(ctx, id)
}

// ROMData returns a game's ROM image bytes from the console's directory.
func (s *GameService) ROMData(ctx context.Context, id uuid.UUID) (*models.Game, []byte, error) {

	game, err := s.repomanager.Games(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	data, err := s.roms.Read(ctx, game.ConsoleID+"/"+game.ROMFilename)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "rom read failed", "error", err.Error())
		return nil, nil, common.ErrorInternal
	}

	return game, data, nil
}
