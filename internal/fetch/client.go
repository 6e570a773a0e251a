package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/aluque/airemad/internal/metrics"
)

// DefaultURLTemplate points at the Madrid open-data portal's hourly
// air-quality catalogue. The {year} and {month} placeholders are replaced
// per requested month; the portal occasionally renames files, so the
// template is overridable.
const DefaultURLTemplate = "https://datos.madrid.es/egob/catalogo/201200-calidad-aire-horario/{year}{month}.csv"

// Client downloads raw monthly exports over HTTP with retries.
type Client struct {
	urlTemplate string
	client      *http.Client
}

func New(urlTemplate string) *Client {
	if urlTemplate == "" {
		urlTemplate = DefaultURLTemplate
	}
	return &Client{
		urlTemplate: urlTemplate,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

// MonthURL expands the URL template for one month.
func (c *Client) MonthURL(year, month int) string {
	url := strings.ReplaceAll(c.urlTemplate, "{year}", strconv.Itoa(year))
	return strings.ReplaceAll(url, "{month}", fmt.Sprintf("%02d", month))
}

// Fetch downloads one URL. Rate-limit style statuses are retried with
// exponential backoff for up to two minutes; other failures are permanent.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	operation := func() error {
		start := time.Now()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}

		resp, err := c.client.Do(req)
		if err != nil {
			metrics.FetchCallsTotal.WithLabelValues("error").Inc()
			return backoff.Permanent(fmt.Errorf("fetch %s: %w", url, err))
		}
		defer resp.Body.Close()
		metrics.FetchLatency.Observe(time.Since(start).Seconds())
		metrics.FetchCallsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
			return fmt.Errorf("rate limited: status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("fetch %s: status %d: %s", url, resp.StatusCode, strings.TrimSpace(string(b))))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("read body: %w", err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 2 * time.Minute
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return body, nil
}

// FetchMonth downloads one month's export and writes it into dir as
// aire-YYYYMM.csv, returning the path.
func (c *Client) FetchMonth(ctx context.Context, year, month int, dir string) (string, error) {
	body, err := c.Fetch(ctx, c.MonthURL(year, month))
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("aire-%d%02d.csv", year, month))
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
