package dysapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/preston-bernstein/season-sync-service/internal/domain/season"
	"github.com/preston-bernstein/season-sync-service/internal/payload"
	"github.com/preston-bernstein/season-sync-service/internal/providers"
)

// Config controls how the client reaches the simulation backend.
type Config struct {
	BaseURL string
	// SessionCookie, when set, is sent verbatim as the Cookie header.
	SessionCookie string
	HTTPClient    *http.Client
	Timeout       time.Duration
}

// Client fetches season, world and stats payloads from the backend's /api endpoints.
type Client struct {
	baseURL       string
	sessionCookie string
	httpClient    httpDoer
	now           func() time.Time
}

// NewClient constructs a backend client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:       normalizeBaseURL(cfg.BaseURL),
		sessionCookie: strings.TrimSpace(cfg.SessionCookie),
		httpClient:    resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
		now:           time.Now,
	}
}

func (c *Client) Name() string {
	return providerName
}

// FetchSeason retrieves the season schedule.
func (c *Client) FetchSeason(ctx context.Context) (season.Season, error) {
	var resp seasonResponse
	if err := c.get(ctx, pathSeason, &resp); err != nil {
		return season.Season{}, err
	}
	out, err := mapSeason(resp)
	if err != nil {
		return season.Season{}, &payload.ParseError{Err: err}
	}
	return out, nil
}

// FetchWorldState retrieves the undecoded world state blob.
func (c *Client) FetchWorldState(ctx context.Context) ([]byte, error) {
	var resp worldStateResponse
	if err := c.get(ctx, pathWorldState, &resp); err != nil {
		return nil, err
	}
	return []byte(resp.WorldStateJSON), nil
}

// FetchSeasonStats retrieves the statline blobs for a season.
func (c *Client) FetchSeasonStats(ctx context.Context, seasonID uint32) (map[string][]byte, error) {
	var resp seasonStatsResponse
	if err := c.get(ctx, fmt.Sprintf("%s/%d", pathSeasonStats, seasonID), &resp); err != nil {
		return nil, err
	}
	return mapStatlines(resp), nil
}

// FetchGameSummaries retrieves completed game results and the next games.
func (c *Client) FetchGameSummaries(ctx context.Context) (season.Summaries, error) {
	var resp gameSummariesResponse
	if err := c.get(ctx, pathGameSummaries, &resp); err != nil {
		return season.Summaries{}, err
	}
	out, err := mapSummaries(resp)
	if err != nil {
		return season.Summaries{}, &payload.ParseError{Err: err}
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/"+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.sessionCookie != "" {
		req.Header.Set("Cookie", c.sessionCookie)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &providers.TransportError{Provider: providerName, Path: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return &providers.RateLimitError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), c.now()),
			Remaining:  resp.Header.Get("X-RateLimit-Remaining"),
			Message:    "dysapi: rate limited on " + path,
		}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &providers.StatusError{
			Provider:   providerName,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return &providers.TransportError{Provider: providerName, Path: path, Err: err}
	}
	if err := payload.DecodeJSON(body, out); err != nil {
		return fmt.Errorf("dysapi %s: %w", path, err)
	}
	return nil
}
