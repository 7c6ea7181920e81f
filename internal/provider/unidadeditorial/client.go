// Package unidadeditorial implements the fixture provider against the
// Unidad Editorial sports events API (the feed behind marca.com).
package unidadeditorial

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"porrapp/internal/fixture"
)

const (
	defaultBaseURL    = "https://api.unidadeditorial.es"
	defaultSite       = "2"
	defaultTournament = "0101" // LaLiga EA Sports
	eventsPath        = "/sports/v1/events"
	requestedFields   = "sportEvent,score,tournament"
)

type Config struct {
	BaseURL        string
	Site           string
	Tournament     string
	TimezoneOffset int
	Timeout        time.Duration
	HTTPClient     *http.Client
}

type Client struct {
	baseURL    string
	site       string
	tournament string
	tzOffset   int
	httpClient *http.Client
}

func New(cfg Config) *Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	site := cfg.Site
	if site == "" {
		site = defaultSite
	}
	tournament := cfg.Tournament
	if tournament == "" {
		tournament = defaultTournament
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    base,
		site:       site,
		tournament: tournament,
		tzOffset:   cfg.TimezoneOffset,
		httpClient: hc,
	}
}

// FetchByDate returns the fixtures scheduled on the given calendar day.
func (c *Client) FetchByDate(ctx context.Context, date time.Time) ([]fixture.Fixture, error) {
	req, err := c.buildRequest(ctx, date)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unidadeditorial: fetch %s: %w", formatDate(date), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unidadeditorial: unexpected status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload eventsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("unidadeditorial: decode response: %w", err)
	}

	if len(payload.Data) == 0 {
		return nil, nil
	}
	fixtures := make([]fixture.Fixture, 0, len(payload.Data))
	for _, m := range payload.Data {
		fixtures = append(fixtures, mapMatch(m))
	}
	return fixtures, nil
}

func (c *Client) buildRequest(ctx context.Context, date time.Time) (*http.Request, error) {
	u, err := url.Parse(c.baseURL + eventsPath)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("site", c.site)
	q.Set("tournament", c.tournament)
	q.Set("fields", requestedFields)
	q.Set("timezoneOffset", strconv.Itoa(c.tzOffset))
	q.Set("date", formatDate(date))
	u.RawQuery = q.Encode()

	return http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
}

// formatDate renders YYYY-M-D without zero padding; the API rejects padded
// months on some routes.
func formatDate(t time.Time) string {
	return fmt.Sprintf("%d-%d-%d", t.Year(), int(t.Month()), t.Day())
}
