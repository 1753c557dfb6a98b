// Package octilog carries a *log.Logger through a context.Context, per
// spec.md §7a's "logging is strictly observational" requirement: no
// control flow in the router or ILP driver depends on whether a logger is
// attached, so FromContext always returns a usable default instead of a
// nil logger callers would have to guard against.
//
// Grounded on matzehuels-stacktower/internal/cli/log.go's
// withLogger/loggerFromContext pair, exported here so octi/router,
// octi/ilp, and cmd/octilayout all share one context convention instead
// of each package defining its own private context key.
package octilog

import (
	"context"

	"github.com/charmbracelet/log"
)

type ctxKey int

const loggerKey ctxKey = 0

// WithLogger returns a new context carrying l, retrievable with FromContext.
func WithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext retrieves the logger attached to ctx, or log.Default() if
// none was attached.
func FromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok && l != nil {
		return l
	}
	return log.Default()
}

// New builds a logger writing to nothing fancier than the charmbracelet
// default sink, at level, matching cmd/octilayout's -v-raises-to-debug
// convention (spec.md §7a).
func New(level log.Level) *log.Logger {
	l := log.Default()
	l.SetLevel(level)
	return l
}
