package logic

import (
	"context"

	"github.com/summsync/stats-api/internal/models"
)

// resolveMastery fetches the player's top-count mastery entries and enriches
// each with champion metadata from the catalog. Failure degrades to an empty
// list; a catalog miss leaves that entry's metadata empty rather than
// aborting the list. Upstream order (descending mastery) is preserved.
func (s *bundleService) resolveMastery(ctx context.Context, puuid string, count int) []models.MasteryEntry {
	dtos, err := s.riot.GetTopMasteries(ctx, puuid, count)
	if err != nil {
		s.logger.Warnw("Mastery lookup failed", "puuid", puuid, "count", count, "error", err)
		return []models.MasteryEntry{}
	}

	entries := make([]models.MasteryEntry, 0, len(dtos))
	for _, dto := range dtos {
		entry := models.MasteryEntry{
			ChampionLevel:  dto.ChampionLevel,
			ChampionPoints: dto.ChampionPoints,
		}
		if champ, ok := s.catalog.ByID(dto.ChampionID); ok {
			entry.ChampionName = champ.Name
			entry.Roles = champ.Tags
			entry.Title = champ.Title
		} else {
			s.logger.Warnw("Champion missing from catalog", "championId", dto.ChampionID)
		}
		entries = append(entries, entry)
	}
	return entries
}
