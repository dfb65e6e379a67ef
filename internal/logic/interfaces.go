package logic

import (
	"context"
	"errors"

	"github.com/summsync/stats-api/internal/catalog"
	"github.com/summsync/stats-api/internal/models"
)

// Structured per-player failure conditions. Anything else that comes out of
// ComputeBundle is a processing error.
var (
	// ErrNoIdentifier means the riot id could not be resolved to a puuid.
	ErrNoIdentifier = errors.New("could not resolve puuid")
	// ErrNoRecentMatches means aggregation found zero qualifying games.
	ErrNoRecentMatches = errors.New("no recent matches returned")
)

// RiotAPI defines the upstream lookups the bundle computation depends on.
type RiotAPI interface {
	ResolveAccount(ctx context.Context, gameName, tagLine string) (*models.AccountDTO, error)
	ListMatchIDs(ctx context.Context, puuid string, start, count int) ([]string, error)
	GetMatch(ctx context.Context, matchID string) (*models.MatchRecord, error)
	GetLeagueEntries(ctx context.Context, puuid string) ([]models.LeagueEntryDTO, error)
	GetTopMasteries(ctx context.Context, puuid string, count int) ([]models.MasteryDTO, error)
}

// ChampionCatalog defines the champion metadata lookup.
type ChampionCatalog interface {
	ByID(id int) (catalog.Champion, bool)
}

// PlayerBundle is the composed per-player output: identity, normalized stats
// and mastery enrichment.
type PlayerBundle struct {
	Identity models.PlayerIdentity
	Stats    *models.NormalizedStats
	Mastery  []models.MasteryEntry
}

// BundleService computes a player's bundle from the upstream APIs.
type BundleService interface {
	ComputeBundle(ctx context.Context, gameName, tagLine string, masteryCount int) (*PlayerBundle, error)
}
