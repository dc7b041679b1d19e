package monitor

import (
	"context"

	"relwatch/internal/release"
	"relwatch/internal/statestore"
	logx "relwatch/pkg/logx"
)

// Feed polls the upstream release feed.
type Feed interface {
	Latest(ctx context.Context) (*release.Release, error)
}

// Notifier delivers user-facing messages.
type Notifier interface {
	Send(ctx context.Context, text string) error
	Warn(ctx context.Context, text string)
}

// Checker detects new releases by comparing the feed's tag against the
// last-seen one. Comparison is exact string equality on the raw tag: any
// change counts as a new release, even a rollback to an older-looking tag.
//
// Not safe for concurrent use; the monitor loop is strictly sequential.
type Checker struct {
	feed     Feed
	store    statestore.Store // nil when persistence is disabled
	notifier Notifier
	log      logx.Logger
	project  string

	last string
	seen bool
}

func NewChecker(ctx context.Context, project string, feed Feed, store statestore.Store, notifier Notifier, log logx.Logger) *Checker {
	if log.IsZero() {
		log = logx.Nop()
	}
	c := &Checker{
		feed:     feed,
		store:    store,
		notifier: notifier,
		log:      log,
		project:  project,
	}
	if store != nil {
		if tag, ok, err := store.LoadLastRelease(ctx); err == nil && ok {
			c.last = tag
			c.seen = true
			c.log.Info("loaded persisted state", logx.String("last_release", tag))
		}
	}
	return c
}

// LastSeen returns the tag currently considered "seen" ("" before first poll).
func (c *Checker) LastSeen() string { return c.last }

// CheckForUpdate polls the feed once.
//
// It returns the release record only when the tag changed against the
// last-seen one. The very first observed tag is recorded but not returned:
// notifying on first run would spam every fresh deploy. All failures are
// contained here; nothing propagates to the caller.
func (c *Checker) CheckForUpdate(ctx context.Context) *release.Release {
	rel, err := c.feed.Latest(ctx)
	if err != nil {
		c.log.Warn("release feed poll failed", logx.Err(err))
		c.notifier.Warn(ctx, "Error checking "+c.project+" releases: "+err.Error())
		return nil
	}

	switch {
	case !c.seen:
		c.seen = true
		c.last = rel.TagName
		c.persist(ctx)
		c.log.Info("first run, recording current release", logx.String("tag", rel.TagName))
		return nil
	case rel.TagName != c.last:
		prev := c.last
		c.last = rel.TagName
		c.persist(ctx)
		c.log.Info("new release detected",
			logx.String("tag", rel.TagName),
			logx.String("previous", prev),
		)
		return rel
	default:
		c.log.Debug("no new release", logx.String("tag", rel.TagName))
		return nil
	}
}

// persist writes the in-memory tag through to the store. Write failures are
// logged only: the in-memory tag stays authoritative for this process, it is
// just lost on restart.
func (c *Checker) persist(ctx context.Context) {
	if c.store == nil {
		return
	}
	if err := c.store.SaveLastRelease(ctx, c.last); err != nil {
		c.log.Warn("persisting last release failed", logx.String("tag", c.last), logx.Err(err))
	}
}
