package models

import (
	"time"

	"github.com/google/uuid"
)

// SaveState is one occupied save slot. At most one row exists per
// (user, game, slot); its filenames are derivable from those three values.
type SaveState struct {
	ID                 uuid.UUID `json:"id"`
	UserID             uuid.UUID `json:"user_id"`
	GameID             uuid.UUID `json:"game_id"`
	Slot               int       `json:"slot"`
	SaveDataFilename   string    `json:"save_data_filename"`
	ScreenshotFilename *string   `json:"screenshot_filename,omitempty"`
	Description        *string   `json:"description,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}
