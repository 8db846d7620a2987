package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/avoronov/retrodesk/internal/blobstore"
	"github.com/avoronov/retrodesk/internal/common"
	"github.com/avoronov/retrodesk/internal/dbx"
	"github.com/avoronov/retrodesk/internal/logging"
	"github.com/avoronov/retrodesk/internal/server/models"
	"github.com/avoronov/retrodesk/internal/server/repositories/repomanager"
)

type SaveService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       blobstore.Store
	logger      logging.Logger
	maxSlots    int
}

func NewSaveService(db *sql.DB, m repomanager.RepositoryManager, store blobstore.Store, l logging.Logger, maxSlots int) *SaveService {
	return &SaveService{
		db:          db,
		repomanager: m,
		store:       store,
		logger:      l.With("module", "save_service"),
		maxSlots:    maxSlots,
	}
}

// SaveDataFilename is the deterministic blob name for a slot's save data.
// Re-uploading the same slot overwrites the same file; the name is fully
// derivable from the row, which keeps rows and blobs coupled.
func SaveDataFilename(userID, gameID uuid.UUID, slot int) string {
	return fmt.Sprintf("%s_%s_slot%d.sav", userID, gameID, slot)
}

// ScreenshotFilename is the deterministic blob name for a slot's screenshot.
func ScreenshotFilename(userID, gameID uuid.UUID, slot int) string {
	return fmt.Sprintf("%s_%s_slot%d.png", userID, gameID, slot)
}

// Upload stores the blobs first and only then touches the database, so a
// failed write never produces a row pointing at nothing. The slot replace
// (delete old row, insert new) runs in a single transaction: a concurrent
// reader sees either the previous row or the new one, never both or neither.
func (s *SaveService) Upload(ctx context.Context, userID, gameID uuid.UUID, slot int, saveData, screenshot []byte, description string) (*models.SaveState, error) {

	if slot < 1 || slot > s.maxSlots {
		return nil, common.NewValidationError([]string{"slot"})
	}
	if len(saveData) == 0 {
		return nil, common.NewValidationError([]string{"save_data"})
	}

	saveFilename := SaveDataFilename(userID, gameID, slot)
	if err := s.store.Write(ctx, saveFilename, saveData); err != nil {
		s.logger.Error(ctx, "save data write failed", "filename", saveFilename, "error", err.Error())
		return nil, common.ErrorInternal
	}

	var screenshotFilename *string
	if len(screenshot) > 0 {
		name := ScreenshotFilename(userID, gameID, slot)
		if err := s.store.Write(ctx, name, screenshot); err != nil {
			s.logger.Error(ctx, "screenshot write failed", "filename", name, "error", err.Error())
			return nil, common.ErrorInternal
		}
		screenshotFilename = &name
	}

	var desc *string
	if description != "" {
		desc = &description
	}

	var save *models.SaveState

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Saves(tx)

		if err := repo.DeleteSlot(ctx, userID, gameID, slot); err != nil {
			return err
		}

		var err error
		save, err = repo.Insert(ctx, &models.SaveState{
			UserID:             userID,
			GameID:             gameID,
			Slot:               slot,
			SaveDataFilename:   saveFilename,
			ScreenshotFilename: screenshotFilename,
			Description:        desc,
		})
		return err
	})
	if err != nil {
		s.logger.Error(ctx, "slot replace failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	return save, nil
}

// List returns the user's saves for one game, ordered by slot.
func (s *SaveService) List(ctx context.Context, userID, gameID uuid.UUID) ([]*models.SaveState, error) {
	return s.repomanager.Saves(s.db).ListByUserAndGame(ctx, userID, gameID)
}

// Download loads the row, checks ownership and streams the save data.
// A row whose backing file has vanished reports NotFound rather than failing.
func (s *SaveService) Download(ctx context.Context, saveID, requesterID uuid.UUID) (*models.SaveState, []byte, error) {

	save, err := s.repomanager.Saves(s.db).GetByID(ctx, saveID)
	if err != nil {
		return nil, nil, err
	}

	if save.UserID != requesterID {
		return nil, nil, common.ErrorForbidden
	}

	data, err := s.store.Read(ctx, save.SaveDataFilename)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "save row without backing file", "save_id", saveID.String(), "filename", save.SaveDataFilename)
			return nil, nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "save data read failed", "error", err.Error())
		return nil, nil, common.ErrorInternal
	}

	return save, data, nil
}

// Delete removes the files before the row: a crash in between leaves a
// dangling row that resolves to NotFound on the next read, instead of an
// orphan file nothing references. The save data file is load-bearing and
// aborts the operation on failure; the screenshot is best-effort.
func (s *SaveService) Delete(ctx context.Context, saveID, requesterID uuid.UUID) error {

	repo := s.repomanager.Saves(s.db)

	save, err := repo.GetByID(ctx, saveID)
	if err != nil {
		return err
	}

	if save.UserID != requesterID {
		return common.ErrorForbidden
	}

	if err := s.store.Delete(ctx, save.SaveDataFilename); err != nil && !errors.Is(err, common.ErrorNotFound) {
		s.logger.Error(ctx, "save data delete failed", "filename", save.SaveDataFilename, "error", err.Error())
		return common.ErrorInternal
	}

	if save.ScreenshotFilename != nil {
		if err := s.store.Delete(ctx, *save.ScreenshotFilename); err != nil && !errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "screenshot delete failed", "filename", *save.ScreenshotFilename, "error", err.Error())
		}
	}

	if err := repo.Delete(ctx, saveID); err != nil {
		s.logger.Error(ctx, "save row delete failed", "error", err.Error())
		return common.ErrorInternal
	}

	return nil
}
