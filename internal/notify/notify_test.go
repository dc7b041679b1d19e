package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	logx "relwatch/pkg/logx"
)

type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) SendText(ctx context.Context, text string) error {
	f.sent = append(f.sent, text)
	return f.err
}

func TestServiceSend(t *testing.T) {
	t.Parallel()
	fs := &fakeSender{}
	s := New(Config{RatePerSec: 100}, fs, logx.Nop())

	if err := s.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if len(fs.sent) != 1 || fs.sent[0] != "hello" {
		t.Fatalf("sent = %v", fs.sent)
	}
}

func TestServiceSendReturnsSenderError(t *testing.T) {
	t.Parallel()
	wantErr := errors.New("telegram: 502")
	fs := &fakeSender{err: wantErr}
	s := New(Config{RatePerSec: 100}, fs, logx.Nop())

	if err := s.Send(context.Background(), "x"); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	// The failed attempt was made exactly once; no retries.
	if len(fs.sent) != 1 {
		t.Fatalf("sender called %d times, want 1", len(fs.sent))
	}
}

func TestServiceWarnPrefixes(t *testing.T) {
	t.Parallel()
	fs := &fakeSender{}
	s := New(Config{RatePerSec: 100}, fs, logx.Nop())

	s.Warn(context.Background(), "Error checking releases: boom")
	if len(fs.sent) != 1 || !strings.HasPrefix(fs.sent[0], "⚠️ ") {
		t.Fatalf("sent = %v, want warning prefix", fs.sent)
	}
}

func TestServiceSendHonorsContext(t *testing.T) {
	t.Parallel()
	fs := &fakeSender{}
	// Rate 1/s with the first token spent: the second send has to wait,
	// and a cancelled context must abort that wait.
	s := New(Config{RatePerSec: 1}, fs, logx.Nop())
	if err := s.Send(context.Background(), "first"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Send(ctx, "second"); err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if len(fs.sent) != 1 {
		t.Fatalf("sender called %d times, want 1", len(fs.sent))
	}
}
