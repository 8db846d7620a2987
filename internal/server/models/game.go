package models

import (
	"time"

	"github.com/google/uuid"
)

// Console is a static reference row describing one emulated platform and
// the ROM file extensions it accepts.
type Console struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Manufacturer        *string  `json:"manufacturer,omitempty"`
	ReleaseYear         *int     `json:"release_year,omitempty"`
	EmulatorCore        string   `json:"emulator_core"`
	SupportedExtensions []string `json:"supported_extensions"`
}

// Game is a catalog row, unique per (console_id, rom_filename). Rows are
// only ever inserted by the catalog scan, never updated or deleted.
type Game struct {
	ID           uuid.UUID `json:"id"`
	ConsoleID    string    `json:"console_id"`
	Title        string    `json:"title"`
	ROMFilename  string    `json:"rom_filename"`
	ROMSizeBytes int64     `json:"rom_size_bytes"`
	Description  *string   `json:"description,omitempty"`
	ReleaseYear  *int      `json:"release_year,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
