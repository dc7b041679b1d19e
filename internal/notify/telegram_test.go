package notify

import (
	"strings"
	"testing"

	logx "relwatch/pkg/logx"
)

func TestNewTelegramValidation(t *testing.T) {
	t.Parallel()
	if _, err := NewTelegram(TelegramConfig{ChatID: 42}, logx.Nop()); err == nil {
		t.Fatal("expected error for empty token")
	}
	if _, err := NewTelegram(TelegramConfig{Token: "123:abc"}, logx.Nop()); err == nil {
		t.Fatal("expected error for empty chat_id")
	}
}

func TestSplitTelegramTextShort(t *testing.T) {
	t.Parallel()
	got := splitTelegramText("hello", 100)
	if len(got) != 1 || got[0] != "hello" {
		t.Fatalf("got %v", got)
	}
}

func TestSplitTelegramTextPrefersNewlines(t *testing.T) {
	t.Parallel()
	text := strings.Repeat("line one\n", 20)
	got := splitTelegramText(text, 50)
	if len(got) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(got))
	}
	for i, c := range got {
		if len([]rune(c)) > 50 {
			t.Fatalf("chunk %d exceeds limit: %d runes", i, len([]rune(c)))
		}
		if strings.HasPrefix(c, "\n") || strings.HasSuffix(c, "\n") {
			t.Fatalf("chunk %d has dangling newline: %q", i, c)
		}
	}
	joined := strings.Join(got, "\n")
	if !strings.Contains(joined, "line one") {
		t.Fatal("content lost during split")
	}
}

func TestSplitTelegramTextAvoidsDanglingTags(t *testing.T) {
	t.Parallel()
	// A tag opening right before the cut point must not be split in half.
	text := strings.Repeat("a", 45) + "<b>bold</b>" + strings.Repeat("b", 40)
	for _, c := range splitTelegramText(text, 50) {
		open := strings.Count(c, "<")
		closed := strings.Count(c, ">")
		if open != closed {
			t.Fatalf("chunk splits an HTML tag: %q", c)
		}
	}
}

func TestSplitTelegramTextLongUnbrokenRun(t *testing.T) {
	t.Parallel()
	text := strings.Repeat("x", 130)
	got := splitTelegramText(text, 50)
	var total int
	for _, c := range got {
		if len([]rune(c)) > 50 {
			t.Fatalf("chunk exceeds limit: %d", len([]rune(c)))
		}
		total += len(c)
	}
	if total != 130 {
		t.Fatalf("content length changed: %d, want 130", total)
	}
}
