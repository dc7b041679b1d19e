package notify

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	logx "relwatch/pkg/logx"
)

// Sender posts a single text message to the messaging endpoint.
type Sender interface {
	SendText(ctx context.Context, text string) error
}

// Service wraps a Sender with rate limiting and logging.
//
// Send failures are logged and returned, never re-notified: a notifier that
// notifies about its own failures would recurse forever.
type Service struct {
	sender Sender
	log    logx.Logger

	mu      sync.Mutex
	limiter *rate.Limiter
}

type Config struct {
	// RatePerSec caps outbound messages; 0 means 1/s.
	RatePerSec int
}

func New(cfg Config, sender Sender, log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	s := &Service{sender: sender, log: log}
	s.Apply(cfg)
	return s
}

func (s *Service) Apply(cfg Config) {
	rps := cfg.RatePerSec
	if rps <= 0 {
		rps = 1
	}
	s.mu.Lock()
	s.limiter = rate.NewLimiter(rate.Limit(rps), rps)
	s.mu.Unlock()
}

// Send delivers one message. It blocks on the rate limiter, so bursts
// (release message right after the startup message) get paced instead of
// tripping Telegram's flood control.
func (s *Service) Send(ctx context.Context, text string) error {
	s.mu.Lock()
	lim := s.limiter
	s.mu.Unlock()

	if err := lim.Wait(ctx); err != nil {
		return err
	}
	if err := s.sender.SendText(ctx, text); err != nil {
		s.log.Warn("notification send failed", logx.Err(err))
		return err
	}
	s.log.Debug("notification sent", logx.Int("len", len(text)))
	return nil
}

// Warn sends an operational warning (feed poll failures). Failures here are
// logged only.
func (s *Service) Warn(ctx context.Context, text string) {
	_ = s.Send(ctx, "⚠️ "+text)
}
