// Package riot implements the upstream Riot API client used by the
// resolvers: account identity, match history, ranked standings and champion
// mastery. Responses are parsed into the typed DTOs of internal/models at
// this boundary.
package riot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/summsync/stats-api/internal/models"
)

// ErrNotFound is returned when the upstream answers 404 for a lookup.
var ErrNotFound = errors.New("riot: not found")

// Prometheus metrics
var (
	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "summsync_riot_requests_total",
		Help: "Total number of Riot API requests by endpoint",
	}, []string{"endpoint"})

	upstreamErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "summsync_riot_errors_total",
		Help: "Total number of failed Riot API requests by endpoint",
	}, []string{"endpoint"})

	upstreamDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "summsync_riot_request_duration_seconds",
		Help:    "Duration of Riot API requests",
		Buckets: prometheus.DefBuckets,
	})
)

type Config struct {
	APIKey       string
	AccountBase  string // regional routing host, e.g. https://americas.api.riotgames.com
	PlatformBase string // platform routing host, e.g. https://na1.api.riotgames.com
	Logger       *zap.Logger
}

type Client struct {
	apiKey       string
	accountBase  string
	platformBase string
	httpClient   *http.Client
	logger       *zap.SugaredLogger
}

func NewClient(cfg Config) *Client {
	// Reuse connections across the match-detail fan-out
	transport := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		apiKey:       cfg.APIKey,
		accountBase:  cfg.AccountBase,
		platformBase: cfg.PlatformBase,
		httpClient: &http.Client{
			Timeout:   10 * time.Second,
			Transport: transport,
		},
		logger: cfg.Logger.Sugar(),
	}
}

// ResolveAccount maps a riot id (name + tag) to its account record.
// A missing account surfaces as ErrNotFound, as does a 200 response without
// a puuid field.
func (c *Client) ResolveAccount(ctx context.Context, gameName, tagLine string) (*models.AccountDTO, error) {
	u := fmt.Sprintf("%s/riot/account/v1/accounts/by-riot-id/%s/%s",
		c.accountBase, url.PathEscape(gameName), url.PathEscape(tagLine))

	var acc models.AccountDTO
	if err := c.get(ctx, "account", u, &acc); err != nil {
		return nil, err
	}
	if acc.PUUID == "" {
		return nil, fmt.Errorf("account %s#%s: %w", gameName, tagLine, ErrNotFound)
	}
	return &acc, nil
}

// ListMatchIDs returns the ids of a player's recent matches, most recent
// first.
func (c *Client) ListMatchIDs(ctx context.Context, puuid string, start, count int) ([]string, error) {
	u := fmt.Sprintf("%s/lol/match/v5/matches/by-puuid/%s/ids?start=%d&count=%d",
		c.accountBase, url.PathEscape(puuid), start, count)

	var ids []string
	if err := c.get(ctx, "match_ids", u, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// GetMatch fetches the full detail of one match.
func (c *Client) GetMatch(ctx context.Context, matchID string) (*models.MatchRecord, error) {
	u := fmt.Sprintf("%s/lol/match/v5/matches/%s", c.accountBase, url.PathEscape(matchID))

	var match models.MatchRecord
	if err := c.get(ctx, "match_detail", u, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

// GetLeagueEntries returns the player's per-queue ranked standings.
func (c *Client) GetLeagueEntries(ctx context.Context, puuid string) ([]models.LeagueEntryDTO, error) {
	u := fmt.Sprintf("%s/lol/league/v4/entries/by-puuid/%s", c.platformBase, url.PathEscape(puuid))

	var entries []models.LeagueEntryDTO
	if err := c.get(ctx, "league", u, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetTopMasteries returns the player's top-count mastery entries, ordered by
// descending mastery as returned upstream.
func (c *Client) GetTopMasteries(ctx context.Context, puuid string, count int) ([]models.MasteryDTO, error) {
	if count <= 0 {
		return nil, fmt.Errorf("mastery count must be positive, got %d", count)
	}
	u := fmt.Sprintf("%s/lol/champion-mastery/v4/champion-masteries/by-puuid/%s/top?count=%d",
		c.platformBase, url.PathEscape(puuid), count)

	var entries []models.MasteryDTO
	if err := c.get(ctx, "mastery", u, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) get(ctx context.Context, endpoint, reqURL string, out any) error {
	upstreamRequests.WithLabelValues(endpoint).Inc()
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Riot-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		upstreamErrors.WithLabelValues(endpoint).Inc()
		return fmt.Errorf("%s request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()
	upstreamDuration.Observe(time.Since(start).Seconds())

	if resp.StatusCode == http.StatusNotFound {
		upstreamErrors.WithLabelValues(endpoint).Inc()
		return fmt.Errorf("%s: %w", endpoint, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		upstreamErrors.WithLabelValues(endpoint).Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warnw("Riot API request failed",
			"endpoint", endpoint,
			"status", resp.StatusCode,
			"body", string(body),
		)
		return fmt.Errorf("%s request failed with status %d", endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		upstreamErrors.WithLabelValues(endpoint).Inc()
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}
