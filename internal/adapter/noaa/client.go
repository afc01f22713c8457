package noaa

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultBaseURL is the NOAA STAR province time-series endpoint.
const DefaultBaseURL = "https://www.star.nesdis.noaa.gov/smcd/emb/vci/VH/get_TS_admin.php"

// maxBodyBytes bounds a single province export (a full 1981-2024 series is ~100KB).
const maxBodyBytes = 8 << 20

// ErrBodyTooLarge is returned when an export exceeds the body limit rather
// than truncating it.
var ErrBodyTooLarge = errors.New("noaa response exceeds body limit")

// Client downloads per-province VHI exports. It implements ingest.Fetcher.
type Client struct {
	httpClient *http.Client
	maxBody    int64
	baseURL    string
	country    string
	yearStart  int
	yearEnd    int
	logger     *slog.Logger
}

// Options configures the request template.
type Options struct {
	BaseURL   string
	Country   string
	YearStart int
	YearEnd   int
	Timeout   time.Duration
}

// NewClient creates a NOAA client.
func NewClient(opts Options, logger *slog.Logger) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		maxBody:   maxBodyBytes,
		baseURL:   baseURL,
		country:   opts.Country,
		yearStart: opts.YearStart,
		yearEnd:   opts.YearEnd,
		logger:    logger,
	}
}

// URL renders the request URL for one province.
func (c *Client) URL(provinceID int) string {
	params := url.Values{
		"country":    {c.country},
		"provinceID": {strconv.Itoa(provinceID)},
		"year1":      {strconv.Itoa(c.yearStart)},
		"year2":      {strconv.Itoa(c.yearEnd)},
		"type":       {"Mean"},
	}
	return c.baseURL + "?" + params.Encode()
}

// Fetch downloads the raw export for one province and returns the body verbatim.
func (c *Client) Fetch(ctx context.Context, provinceID int) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(provinceID), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("province %d request: %w", provinceID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("noaa error: status %d: %s", resp.StatusCode, body)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("province %d: %w (%d bytes)", provinceID, ErrBodyTooLarge, c.maxBody)
	}

	c.logger.Debug("province downloaded",
		"province_id", provinceID,
		"bytes", len(body),
		"duration", time.Since(start),
	)
	return body, nil
}
