package logic

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/summsync/stats-api/internal/models"
)

// Ranked queue types as reported by league-v4.
const (
	queueSolo = "RANKED_SOLO_5x5"
	queueFlex = "RANKED_FLEX_SR"
)

type Config struct {
	Riot    RiotAPI
	Catalog ChampionCatalog
	Logger  *zap.Logger

	// HistoryDepth is how many recent match ids to request.
	HistoryDepth int
	// MatchConcurrency bounds the match-detail fan-out.
	MatchConcurrency int
}

type bundleService struct {
	riot    RiotAPI
	catalog ChampionCatalog
	logger  *zap.SugaredLogger

	historyDepth     int
	matchConcurrency int
}

func NewBundleService(cfg Config) BundleService {
	if cfg.HistoryDepth <= 0 {
		cfg.HistoryDepth = 20
	}
	if cfg.MatchConcurrency <= 0 {
		cfg.MatchConcurrency = 5
	}

	return &bundleService{
		riot:             cfg.Riot,
		catalog:          cfg.Catalog,
		logger:           cfg.Logger.Sugar(),
		historyDepth:     cfg.HistoryDepth,
		matchConcurrency: cfg.MatchConcurrency,
	}
}

// ComputeBundle runs the full per-player pipeline: identity, match history,
// aggregation, ranked standings and mastery. Match statistics are the
// bundle's essential content; ranked standings and mastery are best-effort
// enrichment and never fail the bundle.
func (s *bundleService) ComputeBundle(ctx context.Context, gameName, tagLine string, masteryCount int) (*PlayerBundle, error) {
	acct, err := s.riot.ResolveAccount(ctx, gameName, tagLine)
	if err != nil {
		s.logger.Warnw("Identity resolution failed",
			"player", gameName, "tag", tagLine, "error", err)
		return nil, fmt.Errorf("%w for %s#%s", ErrNoIdentifier, gameName, tagLine)
	}

	identity := models.PlayerIdentity{
		DisplayName: gameName,
		Tag:         tagLine,
		PUUID:       acct.PUUID,
	}

	matches, err := s.fetchMatchHistory(ctx, identity.PUUID)
	if err != nil {
		return nil, err
	}

	acc, err := Accumulate(matches, identity)
	if err != nil {
		return nil, err
	}

	stats, err := Normalize(acc)
	if err != nil {
		// ErrNoRecentMatches: mastery is not attempted.
		return &PlayerBundle{Identity: identity}, err
	}

	s.attachRanks(ctx, identity.PUUID, stats)

	return &PlayerBundle{
		Identity: identity,
		Stats:    stats,
		Mastery:  s.resolveMastery(ctx, identity.PUUID, masteryCount),
	}, nil
}

// fetchMatchHistory lists recent match ids and fetches their details with
// bounded concurrency. A failing id listing is fatal; a failing individual
// detail fetch skips that match.
func (s *bundleService) fetchMatchHistory(ctx context.Context, puuid string) ([]*models.MatchRecord, error) {
	ids, err := s.riot.ListMatchIDs(ctx, puuid, 0, s.historyDepth)
	if err != nil {
		return nil, fmt.Errorf("failed to list match ids: %w", err)
	}

	details := make([]*models.MatchRecord, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.matchConcurrency)

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			match, err := s.riot.GetMatch(gctx, id)
			if err != nil {
				s.logger.Warnw("Skipping match after failed detail fetch",
					"matchId", id, "error", err)
				return nil
			}
			details[i] = match
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	matches := make([]*models.MatchRecord, 0, len(details))
	skipped := 0
	for _, m := range details {
		if m == nil {
			skipped++
			continue
		}
		matches = append(matches, m)
	}
	if skipped > 0 {
		s.logger.Infow("Match history fetched with gaps",
			"puuid", puuid, "requested", len(ids), "matchesSkipped", skipped)
	}
	return matches, nil
}

// attachRanks fills solo/flex standings when the league lookup succeeds;
// otherwise the standings stay null.
func (s *bundleService) attachRanks(ctx context.Context, puuid string, stats *models.NormalizedStats) {
	entries, err := s.riot.GetLeagueEntries(ctx, puuid)
	if err != nil {
		s.logger.Warnw("Rank lookup failed", "puuid", puuid, "error", err)
		return
	}

	for _, e := range entries {
		standing := &models.RankedStanding{
			Tier:         e.Tier,
			Division:     e.Rank,
			LeaguePoints: e.LeaguePoints,
			Wins:         e.Wins,
			Losses:       e.Losses,
		}
		switch e.QueueType {
		case queueSolo:
			stats.SoloRank = standing
		case queueFlex:
			stats.FlexRank = standing
		}
	}
}
