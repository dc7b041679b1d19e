package monitor

import (
	"context"
	"sync"
	"time"

	"relwatch/internal/release"
	logx "relwatch/pkg/logx"
)

// UpdateChecker is the single poll step the loop drives.
type UpdateChecker interface {
	CheckForUpdate(ctx context.Context) *release.Release
}

// Clock abstracts waiting so tests can drive the loop with a fake clock
// instead of sleeping.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time                         { return time.Now() }
func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Monitor drives the checker on a fixed schedule, forever.
//
// Checks run strictly one at a time: a check (including its state write)
// always completes before the next wait begins. The loop stops only when
// ctx is cancelled.
type Monitor struct {
	checker  UpdateChecker
	notifier Notifier
	log      logx.Logger
	project  string
	clock    Clock

	mu   sync.Mutex
	spec Spec
}

func New(project string, spec Spec, checker UpdateChecker, notifier Notifier, log logx.Logger) *Monitor {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Monitor{
		checker:  checker,
		notifier: notifier,
		log:      log,
		project:  project,
		spec:     spec,
		clock:    systemClock{},
	}
}

// Apply swaps the schedule at runtime. Takes effect after the current wait.
func (m *Monitor) Apply(spec Spec) {
	m.mu.Lock()
	m.spec = spec
	m.mu.Unlock()
}

func (m *Monitor) schedule() Spec {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.spec
}

// Run blocks until ctx is cancelled. It announces startup, checks once
// immediately, then alternates wait/check.
func (m *Monitor) Run(ctx context.Context) error {
	spec := m.schedule()
	m.log.Info("release monitor started",
		logx.String("project", m.project),
		logx.String("schedule", spec.Describe()),
	)
	// Startup notification is best-effort; a failure here is already logged
	// by the notifier.
	_ = m.notifier.Send(ctx, "🟢 "+m.project+" release monitor started\nChecking "+spec.Describe())

	for {
		m.checkOnce(ctx)

		wait := m.schedule().Next(m.clock.Now())
		m.log.Debug("next check scheduled",
			logx.Time("at", m.clock.Now().Add(wait)),
			logx.Duration("wait", wait),
		)
		select {
		case <-ctx.Done():
			m.log.Info("release monitor stopping")
			return ctx.Err()
		case <-m.clock.After(wait):
		}
	}
}

func (m *Monitor) checkOnce(ctx context.Context) {
	rel := m.checker.CheckForUpdate(ctx)
	if rel == nil {
		return
	}
	m.log.Info("notifying about new release",
		logx.String("tag", rel.TagName),
		logx.String("name", rel.Name),
		logx.String("url", rel.HTMLURL),
	)
	_ = m.notifier.Send(ctx, release.FormatMessage(m.project, rel))
}
