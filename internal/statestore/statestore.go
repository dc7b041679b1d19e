package statestore

import (
	"context"
	"errors"
	"strings"
	"time"

	logx "relwatch/pkg/logx"
)

var ErrDisabled = errors.New("statestore disabled")

// Store persists the last-seen release tag across restarts.
//
// Load returns ("", false, nil) when no prior state exists; unreadable or
// corrupt state is treated the same way, never as an error.
type Store interface {
	LoadLastRelease(ctx context.Context) (tag string, ok bool, err error)
	SaveLastRelease(ctx context.Context, tag string) error
	Close() error
}

// Config configures persistence.
//
// Driver values:
//   - "file": single JSON state file (default)
//   - "sqlite": SQLite database file (optional build tag)
//
// If Driver is empty or "none", persistence is disabled and every restart
// counts as a first run.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// Open initializes the configured store.
// It returns (nil, nil) if persistence is disabled.
func Open(cfg Config, log logx.Logger) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" || driver == "none" {
		return nil, nil
	}
	if log.IsZero() {
		log = logx.Nop()
	}

	switch driver {
	case "file":
		return openFile(cfg, log)
	case "sqlite", "sqlite3":
		return openSQLite(cfg, log)
	default:
		return nil, errors.New("unknown statestore driver: " + driver)
	}
}
