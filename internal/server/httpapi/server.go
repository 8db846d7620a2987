// Package httpapi exposes the service layer over HTTP: route dispatch, the
// bearer-token middleware and the JSON error boundary.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/avoronov/retrodesk/internal/logging"
	"github.com/avoronov/retrodesk/internal/server/models"
	"github.com/avoronov/retrodesk/internal/server/services"
)

// maxUploadBytes bounds a multipart save-state upload held in memory.
const maxUploadBytes = 64 << 20

// UserService is the account surface the HTTP layer consumes.
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// SaveService is the save-state surface the HTTP layer consumes.
type SaveService interface {
	Upload(ctx context.Context, userID, gameID uuid.UUID, slot int, saveData, screenshot []byte, description string) (*models.SaveState, error)
	List(ctx context.Context, userID, gameID uuid.UUID) ([]*models.SaveState, error)
	Download(ctx context.Context, saveID, requesterID uuid.UUID) (*models.SaveState, []byte, error)
	Delete(ctx context.Context, saveID, requesterID uuid.UUID) error
}

// GameService is the catalog surface the HTTP layer consumes.
type GameService interface {
	ScanROMs(ctx context.Context) (int, error)
	ListConsoles(ctx context.Context) ([]*models.Console, error)
	ListGames(ctx context.Context, consoleID string, limit, offset int64) ([]*models.Game, int64, error)
	GetGame(ctx context.Context, id uuid.UUID) (*models.Game, error)
	ROMData(ctx context.Context, id uuid.UUID) (*models.Game, []byte, error)
}

type Server struct {
	address   string
	logger    logging.Logger
	users     UserService
	saves     SaveService
	games     GameService
	jwtSecret []byte
}

func NewServer(address string, l logging.Logger, us UserService, ss SaveService, gs GameService, secretKey string) *Server {
	return &Server{
		address:   address,
		logger:    l.With("module", "http_server"),
		users:     us,
		saves:     ss,
		games:     gs,
		jwtSecret: []byte(secretKey),
	}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// public
	mux.HandleFunc("POST /api/v1/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/v1/auth/logout", s.handleLogout)
	mux.HandleFunc("GET /api/v1/consoles", s.handleListConsoles)

	// bearer-protected
	mux.HandleFunc("GET /api/v1/auth/me", s.requireAuth(s.handleMe))
	mux.HandleFunc("GET /api/v1/games", s.requireAuth(s.handleListGames))
	mux.HandleFunc("GET /api/v1/games/{id}", s.requireAuth(s.handleGetGame))
	mux.HandleFunc("GET /api/v1/games/{id}/rom", s.requireAuth(s.handleDownloadROM))
	mux.HandleFunc("POST /api/v1/games/scan", s.requireAuth(s.handleScanROMs))
	mux.HandleFunc("GET /api/v1/saves", s.requireAuth(s.handleListSaves))
	mux.HandleFunc("POST /api/v1/saves/upload", s.requireAuth(s.handleUploadSave))
	mux.HandleFunc("GET /api/v1/saves/{id}/download", s.requireAuth(s.handleDownloadSave))
	mux.HandleFunc("DELETE /api/v1/saves/{id}", s.requireAuth(s.handleDeleteSave))

	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
