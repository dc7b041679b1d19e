package monitor

import (
	"testing"
	"time"
)

func TestParseScheduleVariants(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		raw      string
		kind     SpecKind
		source   string
		duration time.Duration
	}{
		{name: "cron", raw: "*/30 * * * *", kind: SpecCron, source: "cron"},
		{name: "cron descriptor", raw: "@hourly", kind: SpecCron, source: "cron"},
		{name: "prefixed cron", raw: "cron:0 0 * * *", kind: SpecCron, source: "cron"},
		{name: "duration", raw: "1h", kind: SpecInterval, source: "duration", duration: time.Hour},
		{name: "prefixed interval", raw: "interval:45s", kind: SpecInterval, source: "duration", duration: 45 * time.Second},
		{name: "every prefix", raw: "every:30m", kind: SpecInterval, source: "duration", duration: 30 * time.Minute},
		{name: "hhmm", raw: "01:30", kind: SpecInterval, source: "hhmm", duration: 90 * time.Minute},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSchedule(tt.raw)
			if err != nil {
				t.Fatalf("ParseSchedule(%q) error: %v", tt.raw, err)
			}
			if got.Kind != tt.kind {
				t.Fatalf("Kind = %v, want %v", got.Kind, tt.kind)
			}
			if got.Source != tt.source {
				t.Fatalf("Source = %s, want %s", got.Source, tt.source)
			}
			if tt.kind == SpecInterval && got.Every != tt.duration {
				t.Fatalf("Every = %v, want %v", got.Every, tt.duration)
			}
			if tt.kind == SpecCron && got.Schedule == nil {
				t.Fatal("cron spec missing parsed schedule")
			}
		})
	}
}

func TestParseScheduleInvalid(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{"", "not-a-schedule", "cron:", "cron:61 * * * *", "-5m", "interval:"} {
		if _, err := ParseSchedule(raw); err == nil {
			t.Fatalf("ParseSchedule(%q) expected error", raw)
		}
	}
}

func TestSpecNextInterval(t *testing.T) {
	t.Parallel()
	sp, err := ParseSchedule("45m")
	if err != nil {
		t.Fatal(err)
	}
	if d := sp.Next(time.Now()); d != 45*time.Minute {
		t.Fatalf("Next = %v, want 45m", d)
	}
}

func TestSpecNextCron(t *testing.T) {
	t.Parallel()
	sp, err := ParseSchedule("@hourly")
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2026, 1, 1, 12, 15, 0, 0, time.UTC)
	if d := sp.Next(now); d != 45*time.Minute {
		t.Fatalf("Next = %v, want 45m until the next full hour", d)
	}
}

func TestSpecDescribe(t *testing.T) {
	t.Parallel()
	sp, _ := ParseSchedule("1h")
	if got := sp.Describe(); got != "every 1h0m0s" {
		t.Fatalf("Describe = %q", got)
	}
	sp, _ = ParseSchedule("@hourly")
	if got := sp.Describe(); got != "on cron @hourly" {
		t.Fatalf("Describe = %q", got)
	}
}
