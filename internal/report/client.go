package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the community aggregation server.
const DefaultBaseURL = "https://zodiac-buddy-db.fly.dev"

const requestTimeout = 10 * time.Second

// Client talks to the community server. Submission is fire-and-forget and
// never blocks the caller; every outcome is folded into the last-request
// flag instead of being raised. The next scheduled poll or submit is the
// implicit retry.
type Client struct {
	base     string
	hc       *http.Client
	lg       *slog.Logger
	id       Identity
	instance string

	// limiter throttles outbound submissions; a toast storm must not turn
	// into a request storm.
	limiter *rate.Limiter

	lastOK atomic.Bool
	wg     sync.WaitGroup
	now    func() time.Time
}

// NewClient returns a client for the given base URL ("" means the default).
// instanceID tags requests for server-side diagnostics.
func NewClient(base string, id Identity, instanceID string, lg *slog.Logger) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	if lg == nil {
		lg = slog.Default()
	}
	c := &Client{
		base:     base,
		hc:       &http.Client{Timeout: requestTimeout},
		lg:       lg,
		id:       id,
		instance: instanceID,
		limiter:  rate.NewLimiter(rate.Every(10*time.Second), 5),
		now:      time.Now,
	}
	c.lastOK.Store(true)
	return c
}

// LastRequestOK reports whether the most recent request succeeded.
func (c *Client) LastRequestOK() bool { return c.lastOK.Load() }

// Submit reports a new detection. It returns immediately; the request runs
// on a background goroutine and failures are only logged.
func (c *Client) Submit(territoryID uint16, detectedAt time.Time) {
	contentID, world, datacenter, ok := c.id.Character()
	if !ok {
		return
	}
	if !c.limiter.Allow() {
		c.lg.Warn("report submission throttled", "territory", territoryID)
		return
	}
	r := Report{
		Datacenter:    datacenter,
		World:         world,
		TerritoryID:   territoryID,
		DetectionTime: detectedAt.UTC(),
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		body, err := json.Marshal(r)
		if err != nil {
			c.lg.Error("report marshal failed", "error", err)
			return
		}
		if _, err := c.do(ctx, http.MethodPost, "/reports/", bytes.NewReader(body), contentID, true); err != nil {
			c.lg.Warn("report submission failed", "territory", territoryID, "error", err)
		}
	}()
}

// FetchActive retrieves the currently active peer-reported bonuses.
func (c *Client) FetchActive(ctx context.Context) ([]Report, error) {
	contentID, _, _, ok := c.id.Character()
	b, err := c.do(ctx, http.MethodGet, "/reports/active", nil, contentID, ok)
	if err != nil {
		return nil, err
	}
	var reports []Report
	if err := json.Unmarshal(b, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// Wait blocks until in-flight submissions have completed. Used on teardown
// and in tests; in-flight requests are allowed to finish, never cancelled.
func (c *Client) Wait() { c.wg.Wait() }

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentID uint64, withToken bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		c.lastOK.Store(false)
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if withToken {
		token, err := accessToken(contentID, c.now())
		if err != nil {
			c.lastOK.Store(false)
			return nil, err
		}
		req.Header.Set("x-access-token", token)
	}
	if c.instance != "" {
		req.Header.Set("x-client-instance", c.instance)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		c.lastOK.Store(false)
		c.lg.Error("request failed", "url", req.URL.String(), "error", err)
		return nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)

	success := resp.StatusCode >= 200 && resp.StatusCode < 300
	c.lastOK.Store(success)
	if !success {
		c.lg.Warn("request rejected", "url", req.URL.String(), "status", resp.StatusCode, "body", string(b))
		return nil, errors.New("unexpected status: " + resp.Status)
	}
	c.lg.Debug("request ok", "url", req.URL.String(), "status", resp.StatusCode)
	return b, nil
}
