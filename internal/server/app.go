// Package server initializes and runs the RetroDesk application server.
// It wires configuration, storage backends and services together, starts
// the HTTP endpoint and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/avoronov/retrodesk/internal/blobstore"
	"github.com/avoronov/retrodesk/internal/logging"
	"github.com/avoronov/retrodesk/internal/server/config"
	"github.com/avoronov/retrodesk/internal/server/httpapi"
	"github.com/avoronov/retrodesk/internal/server/repositories/repomanager"
	"github.com/avoronov/retrodesk/internal/server/services"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	httpServer *httpapi.Server
}

// newBlobStores returns the save-state store and the ROM store. With S3
// enabled both live in one bucket under distinct prefixes; otherwise each
// is a local directory tree.
func newBlobStores(ctx context.Context, c *config.Config) (blobstore.Store, blobstore.Store, error) {
	if !c.UseS3 {
		return blobstore.NewLocal(c.SaveStoragePath), blobstore.NewLocal(c.ROMStoragePath), nil
	}

	s3store, err := blobstore.NewS3(ctx, blobstore.S3Options{
		User:         c.S3RootUser,
		Password:     c.S3RootPassword,
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
	})
	if err != nil {
		return nil, nil, err
	}

	return blobstore.NewPrefixed(s3store, "saves"), blobstore.NewPrefixed(s3store, "roms"), nil
}

func NewApp(c *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	ctx := context.Background()

	m := repomanager.NewPostgresManager()
	db, err := repomanager.OpenDB(ctx, c.DatabaseDSN, m)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	saveStore, romStore, err := newBlobStores(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	us := services.NewUserService(db, m, logger, c)
	ss := services.NewSaveService(db, m, saveStore, logger, c.MaxSaveSlots)
	gs := services.NewGameService(db, m, romStore, logger)

	httpServer := httpapi.NewServer(c.EndpointAddrHTTP, logger, us, ss, gs, c.SecretKey)

	return &App{config: c, logger: logger, httpServer: httpServer}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()
}
