package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"relwatch/internal/release"
	"relwatch/internal/statestore"
	logx "relwatch/pkg/logx"
)

type fakeFeed struct {
	rel   *release.Release
	err   error
	calls int
}

func (f *fakeFeed) Latest(ctx context.Context) (*release.Release, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.rel, nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	sent  []string
	warns []string
}

func (n *fakeNotifier) Send(ctx context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, text)
	return nil
}

func (n *fakeNotifier) Warn(ctx context.Context, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.warns = append(n.warns, text)
}

func (n *fakeNotifier) sentCopy() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.sent...)
}

func (n *fakeNotifier) warnsCopy() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.warns...)
}

func testRelease(tag string) *release.Release {
	return &release.Release{
		TagName: tag,
		Name:    tag,
		HTMLURL: "https://example.com/releases/" + tag,
		Body:    "notes for " + tag,
	}
}

func newTestStore(t *testing.T) (statestore.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.json")
	st, err := statestore.Open(statestore.Config{Driver: "file", Path: path}, logx.Nop())
	if err != nil {
		t.Fatalf("statestore.Open error: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st, path
}

func readStateFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return ""
	}
	if err != nil {
		t.Fatal(err)
	}
	var st struct {
		LastRelease string `json:"last_release"`
	}
	if err := json.Unmarshal(b, &st); err != nil {
		t.Fatal(err)
	}
	return st.LastRelease
}

func TestCheckerFirstRunRecordsWithoutNotifying(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, path := newTestStore(t)
	feed := &fakeFeed{rel: testRelease("10.1.3")}
	noti := &fakeNotifier{}

	c := NewChecker(ctx, "proj", feed, store, noti, logx.Nop())
	if rel := c.CheckForUpdate(ctx); rel != nil {
		t.Fatalf("first run must not report a release, got %+v", rel)
	}
	if got := readStateFile(t, path); got != "10.1.3" {
		t.Fatalf("persisted state = %q, want 10.1.3", got)
	}
	if got := noti.sentCopy(); len(got) != 0 {
		t.Fatalf("first run must not notify, sent %v", got)
	}
}

func TestCheckerSameTagIsQuiet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, path := newTestStore(t)
	feed := &fakeFeed{rel: testRelease("10.1.3")}

	c := NewChecker(ctx, "proj", feed, store, &fakeNotifier{}, logx.Nop())
	c.CheckForUpdate(ctx) // first run seeds

	for i := 0; i < 3; i++ {
		if rel := c.CheckForUpdate(ctx); rel != nil {
			t.Fatalf("unchanged tag reported as release: %+v", rel)
		}
	}
	if got := readStateFile(t, path); got != "10.1.3" {
		t.Fatalf("persisted state = %q, want 10.1.3", got)
	}
}

func TestCheckerDetectsNewTag(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, path := newTestStore(t)
	feed := &fakeFeed{rel: testRelease("10.1.3")}

	c := NewChecker(ctx, "proj", feed, store, &fakeNotifier{}, logx.Nop())
	c.CheckForUpdate(ctx) // seed

	feed.rel = testRelease("10.2.0")
	rel := c.CheckForUpdate(ctx)
	if rel == nil || rel.TagName != "10.2.0" {
		t.Fatalf("CheckForUpdate = %+v, want release 10.2.0", rel)
	}
	if got := readStateFile(t, path); got != "10.2.0" {
		t.Fatalf("persisted state = %q, want 10.2.0", got)
	}
	if got := c.LastSeen(); got != "10.2.0" {
		t.Fatalf("LastSeen = %q, want 10.2.0", got)
	}
}

func TestCheckerAnyTagChangeCounts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, _ := newTestStore(t)
	feed := &fakeFeed{rel: testRelease("10.2.0")}

	c := NewChecker(ctx, "proj", feed, store, &fakeNotifier{}, logx.Nop())
	c.CheckForUpdate(ctx) // seed

	// A rollback to an older-looking tag is still a change.
	feed.rel = testRelease("10.1.9")
	if rel := c.CheckForUpdate(ctx); rel == nil || rel.TagName != "10.1.9" {
		t.Fatalf("rollback tag not reported: %+v", rel)
	}
}

func TestCheckerSeedsFromPersistedState(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, _ := newTestStore(t)
	if err := store.SaveLastRelease(ctx, "10.1.3"); err != nil {
		t.Fatal(err)
	}

	// Simulated restart: fresh checker over the same store.
	feed := &fakeFeed{rel: testRelease("10.2.0")}
	c := NewChecker(ctx, "proj", feed, store, &fakeNotifier{}, logx.Nop())
	if got := c.LastSeen(); got != "10.1.3" {
		t.Fatalf("LastSeen after seed = %q, want 10.1.3", got)
	}

	// Not a first run anymore, so the change is reported immediately.
	if rel := c.CheckForUpdate(ctx); rel == nil || rel.TagName != "10.2.0" {
		t.Fatalf("CheckForUpdate = %+v, want release 10.2.0", rel)
	}
}

func TestCheckerFeedFailureWarnsAndKeepsState(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, path := newTestStore(t)
	feed := &fakeFeed{rel: testRelease("10.1.3")}
	noti := &fakeNotifier{}

	c := NewChecker(ctx, "cardano-node", feed, store, noti, logx.Nop())
	c.CheckForUpdate(ctx) // seed

	feed.err = errors.New("connection refused")
	if rel := c.CheckForUpdate(ctx); rel != nil {
		t.Fatalf("poll failure reported as release: %+v", rel)
	}

	warns := noti.warnsCopy()
	if len(warns) != 1 {
		t.Fatalf("warns = %v, want exactly one warning", warns)
	}
	if !strings.Contains(warns[0], "cardano-node") || !strings.Contains(warns[0], "connection refused") {
		t.Fatalf("warning text = %q", warns[0])
	}
	if got := readStateFile(t, path); got != "10.1.3" {
		t.Fatalf("state changed on failed poll: %q", got)
	}

	// Recovery: next successful poll with the old tag stays quiet.
	feed.err = nil
	if rel := c.CheckForUpdate(ctx); rel != nil {
		t.Fatalf("unexpected release after recovery: %+v", rel)
	}
}

func TestCheckerWorksWithoutStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	feed := &fakeFeed{rel: testRelease("1.0.0")}

	c := NewChecker(ctx, "proj", feed, nil, &fakeNotifier{}, logx.Nop())
	if rel := c.CheckForUpdate(ctx); rel != nil {
		t.Fatalf("first run reported a release: %+v", rel)
	}
	feed.rel = testRelease("1.1.0")
	if rel := c.CheckForUpdate(ctx); rel == nil || rel.TagName != "1.1.0" {
		t.Fatalf("CheckForUpdate = %+v, want release 1.1.0", rel)
	}
}
