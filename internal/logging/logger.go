// Package logging is the structured-logging facade the server code logs
// through. Services take the interface; main decides the backend.
package logging

import "context"

// Logger writes structured entries. Arguments after the message are
// alternating key/value pairs:
//
//	log.Info(ctx, "added game", "title", game.Title)
type Logger interface {
	Info(ctx context.Context, msg string, args ...any)

	// Warn is for conditions the server tolerates, such as a save row
	// whose backing file is gone or a console directory that does not
	// exist yet.
	Warn(ctx context.Context, msg string, args ...any)

	Error(ctx context.Context, msg string, args ...any)

	// With returns a logger whose entries always carry the given pairs.
	// Each service tags itself once with its module name this way.
	With(args ...any) Logger
}
