package repomanager

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPostgresManager_Factories(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	defer db.Close()

	m := NewPostgresManager()

	if m.Users(db) == nil {
		t.Fatalf("Users returned nil")
	}
	if m.Settings(db) == nil {
		t.Fatalf("Settings returned nil")
	}
	if m.Saves(db) == nil {
		t.Fatalf("Saves returned nil")
	}
	if m.Games(db) == nil {
		t.Fatalf("Games returned nil")
	}
	if m.Consoles(db) == nil {
		t.Fatalf("Consoles returned nil")
	}
}
