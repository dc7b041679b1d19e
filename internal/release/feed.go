package release

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	logx "relwatch/pkg/logx"
)

var (
	// ErrBadStatus marks a poll that reached the feed but got a non-2xx reply.
	ErrBadStatus = errors.New("feed returned non-2xx status")
	// ErrMalformed marks a 2xx reply missing required fields.
	ErrMalformed = errors.New("feed response malformed")
)

const acceptHeader = "application/vnd.github.v3+json"

// Client polls a single "latest release" endpoint.
type Client struct {
	url       string
	userAgent string
	http      *http.Client
	log       logx.Logger
}

type ClientConfig struct {
	URL string
	// Timeout bounds a single poll; 0 means 30s.
	Timeout   time.Duration
	UserAgent string
}

func NewClient(cfg ClientConfig, log logx.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("feed url is empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "relwatch"
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Client{
		url:       cfg.URL,
		userAgent: ua,
		http:      &http.Client{Timeout: timeout},
		log:       log,
	}, nil
}

// Latest fetches the latest release metadata.
//
// Failures are wrapped so callers can errors.Is against ErrBadStatus /
// ErrMalformed; transport errors come back as-is from net/http.
func (c *Client) Latest(ctx context.Context) (*Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	var rel Release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if strings.TrimSpace(rel.TagName) == "" {
		return nil, fmt.Errorf("%w: missing tag_name", ErrMalformed)
	}
	if strings.TrimSpace(rel.HTMLURL) == "" {
		return nil, fmt.Errorf("%w: missing html_url", ErrMalformed)
	}

	c.log.Debug("feed polled",
		logx.String("tag", rel.TagName),
		logx.Duration("took", time.Since(start)),
	)
	return &rel, nil
}
