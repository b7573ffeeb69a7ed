package ranksource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	rankdomain "github.com/rankwatch/rankwatch/app/modules/rank/domain"
	"github.com/rankwatch/rankwatch/internal/observability/attr"
)

// ErrRankUnavailable signals that the source has no observation for the
// viewer right now. Callers must treat it as "observation unavailable",
// never substitute a default tier.
var ErrRankUnavailable = errors.New("rank observation unavailable")

// Client is the external current-rank source. CurrentRank returns the live
// observation; RankHistory returns zero or more historical candidates for
// peak reconciliation.
type Client interface {
	CurrentRank(ctx context.Context, viewerID string) (rankdomain.Observation, error)
	RankHistory(ctx context.Context, viewerID string) ([]rankdomain.Observation, error)
}

// rankEntry is the wire shape of one observation.
type rankEntry struct {
	Tier     string `json:"tier"`
	Division string `json:"division,omitempty"`
	Points   int    `json:"points"`
}

func (e rankEntry) toObservation() rankdomain.Observation {
	return rankdomain.Observation{
		Tier:     rankdomain.ParseTier(e.Tier),
		Division: rankdomain.ParseDivision(e.Division),
		Points:   e.Points,
	}
}

// HTTPClient talks to the rank provider's REST API. Provider APIs are
// heavily rate limited, so every request passes through a token-bucket
// limiter before it goes out.
type HTTPClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds a rate-limited rank source client.
func NewHTTPClient(baseURL, apiKey string, requestsPerSecond float64, burst int, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
		logger:  logger,
	}
}

func (c *HTTPClient) CurrentRank(ctx context.Context, viewerID string) (rankdomain.Observation, error) {
	var entry rankEntry
	if err := c.getJSON(ctx, fmt.Sprintf("%s/viewers/%s/rank", c.baseURL, viewerID), &entry); err != nil {
		return rankdomain.Observation{}, err
	}
	return entry.toObservation(), nil
}

func (c *HTTPClient) RankHistory(ctx context.Context, viewerID string) ([]rankdomain.Observation, error) {
	var entries []rankEntry
	if err := c.getJSON(ctx, fmt.Sprintf("%s/viewers/%s/rank/history", c.baseURL, viewerID), &entries); err != nil {
		return nil, err
	}

	observations := make([]rankdomain.Observation, 0, len(entries))
	for _, e := range entries {
		observations = append(observations, e.toObservation())
	}
	return observations, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, url string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build rank source request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("rank source request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrRankUnavailable
	case resp.StatusCode != http.StatusOK:
		c.logger.WarnContext(ctx, "Rank source returned non-OK status",
			attr.String("url", url),
			attr.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("rank source returned status %d: %w", resp.StatusCode, ErrRankUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode rank source response: %w", err)
	}
	return nil
}
