package logic

import (
	"fmt"
	"strings"

	"github.com/summsync/stats-api/internal/models"
)

const (
	// standardGameMode is the only mode that counts toward statistics.
	standardGameMode = "CLASSIC"
	// remakeThresholdSeconds excludes matches terminated abnormally early.
	remakeThresholdSeconds = 240

	placeholderLane  = "NONE"
	placeholderLabel = "UNKNOWN"
)

// Tally counts category labels and remembers first-seen order, so Max is
// deterministic under ties.
type Tally struct {
	order  []string
	counts map[string]int
}

func NewTally() *Tally {
	return &Tally{counts: make(map[string]int)}
}

func (t *Tally) Add(label string) {
	if _, ok := t.counts[label]; !ok {
		t.order = append(t.order, label)
	}
	t.counts[label]++
}

// Max returns the most frequent label; ties go to the first-inserted label.
// Returns "" for an empty tally.
func (t *Tally) Max() string {
	best := ""
	bestCount := 0
	for _, label := range t.order {
		if t.counts[label] > bestCount {
			best = label
			bestCount = t.counts[label]
		}
	}
	return best
}

func (t *Tally) Count(label string) int {
	return t.counts[label]
}

// AccumulatedStats is the running per-player total across the qualifying
// subset of a match history. All additive fields start at zero; tallies are
// created lazily as labels are first observed.
type AccumulatedStats struct {
	Kills   float64
	Deaths  float64
	Assists float64

	// Challenge rates, summed per match and averaged by game count later.
	KDA               float64
	KillParticipation float64
	GoldPerMin        float64
	VisionPerMin      float64
	BountyGold        float64

	DamageDealt float64
	ObjDamage   float64
	GoldEarned  float64

	CS       float64
	CSPerMin float64

	VisionScore     float64
	WardsPlaced     float64
	WardsKilled     float64
	PinkWardsPlaced float64

	LongestAliveTime float64

	FirstBloods float64
	FirstTowers float64

	Wins   float64
	Losses float64

	Lanes     *Tally
	Roles     *Tally
	Gamemodes *Tally
}

func NewAccumulatedStats() *AccumulatedStats {
	return &AccumulatedStats{
		Lanes:     NewTally(),
		Roles:     NewTally(),
		Gamemodes: NewTally(),
	}
}

// Accumulate folds a match history into per-player totals. Matches outside
// the standard mode or below the remake threshold contribute nothing. The
// target player being absent from a qualifying match's participant list is a
// data inconsistency and fails the aggregation.
func Accumulate(matches []*models.MatchRecord, identity models.PlayerIdentity) (*AccumulatedStats, error) {
	acc := NewAccumulatedStats()

	for _, match := range matches {
		if !qualifies(match) {
			continue
		}

		player := findParticipant(match.Info.Participants, identity)
		if player == nil {
			return nil, fmt.Errorf("player %s#%s not found in participants of match %s",
				identity.DisplayName, identity.Tag, match.Metadata.MatchID)
		}

		acc.addMatch(match, player)
	}

	return acc, nil
}

func qualifies(m *models.MatchRecord) bool {
	return m.Info.GameMode == standardGameMode && m.Info.GameDuration >= remakeThresholdSeconds
}

func findParticipant(participants []models.Participant, identity models.PlayerIdentity) *models.Participant {
	for i := range participants {
		p := &participants[i]
		if strings.EqualFold(p.RiotIDGameName, identity.DisplayName) &&
			strings.EqualFold(p.RiotIDTagline, identity.Tag) {
			return p
		}
	}
	return nil
}

func (a *AccumulatedStats) addMatch(match *models.MatchRecord, p *models.Participant) {
	chal := p.Challenges

	// The upstream duration field is seconds, but the reference divisor is
	// floor(duration/100). Preserved as-is for behavioral parity.
	minutes := match.Info.GameDuration / 100

	// CS / farming
	a.CS += float64(p.TotalMinionsKilled)
	a.CSPerMin += float64(int64(p.TotalMinionsKilled) / minutes)

	// Vision
	a.VisionScore += float64(p.VisionScore)
	a.VisionPerMin += chal.VisionScorePerMinute
	a.WardsPlaced += float64(p.WardsPlaced)
	a.WardsKilled += float64(p.WardsKilled)
	a.PinkWardsPlaced += float64(chal.ControlWardsPlaced)

	a.LongestAliveTime += float64(p.LongestTimeSpentLiving)

	// Gold
	a.GoldEarned += float64(p.GoldEarned)
	a.GoldPerMin += chal.GoldPerMinute
	a.BountyGold += chal.BountyGold

	// Firsts and damage
	if p.FirstBloodKill {
		a.FirstBloods++
	}
	if p.FirstTowerKill {
		a.FirstTowers++
	}
	a.ObjDamage += float64(p.DamageDealtToObjectives)
	a.DamageDealt += float64(p.TotalDamageDealt)

	// KDA
	a.Kills += float64(p.Kills)
	a.Assists += float64(p.Assists)
	a.Deaths += float64(p.Deaths)
	a.KDA += chal.KDA
	a.KillParticipation += chal.KillParticipation

	// A null outcome counts as neither a win nor a loss.
	if p.Win != nil {
		if *p.Win {
			a.Wins++
		} else {
			a.Losses++
		}
	}

	// Lanes, roles, game modes
	lane := p.Lane
	if lane == "" {
		lane = placeholderLane
	}
	role := p.Role
	if role == "" {
		role = placeholderLabel
	}
	gamemode := match.Info.GameMode
	if gamemode == "" {
		gamemode = placeholderLabel
	}
	a.Lanes.Add(lane)
	a.Roles.Add(role)
	a.Gamemodes.Add(gamemode)
}

// Normalize divides every accumulated sum by total games played and selects
// the most-frequent category per tally. A zero game count is the
// no-recent-matches condition and short-circuits before any division.
func Normalize(acc *AccumulatedStats) (*models.NormalizedStats, error) {
	totalGames := acc.Wins + acc.Losses
	if totalGames == 0 {
		return nil, ErrNoRecentMatches
	}

	return &models.NormalizedStats{
		KDA:               acc.KDA / totalGames,
		KillParticipation: acc.KillParticipation / totalGames,
		AvgKills:          acc.Kills / totalGames,
		AvgDeaths:         acc.Deaths / totalGames,
		AvgAssists:        acc.Assists / totalGames,

		DamageDealt: acc.DamageDealt / totalGames,
		ObjDamage:   acc.ObjDamage / totalGames,

		GoldEarned: acc.GoldEarned / totalGames,
		GoldPerMin: acc.GoldPerMin / totalGames,
		BountyGold: acc.BountyGold / totalGames,

		WinRate:  acc.Wins / totalGames,
		LoseRate: acc.Losses / totalGames,

		LongestAliveTime: acc.LongestAliveTime / totalGames,

		VisionScore:     acc.VisionScore / totalGames,
		VisionPerMin:    acc.VisionPerMin / totalGames,
		WardsPlaced:     acc.WardsPlaced / totalGames,
		WardsKilled:     acc.WardsKilled / totalGames,
		PinkWardsPlaced: acc.PinkWardsPlaced / totalGames,

		CS:       acc.CS / totalGames,
		CSPerMin: acc.CSPerMin / totalGames,

		FirstBloods: acc.FirstBloods / totalGames,
		FirstTowers: acc.FirstTowers / totalGames,

		MostPlayedRole:     acc.Roles.Max(),
		MostPlayedLane:     acc.Lanes.Max(),
		MostPlayedGamemode: acc.Gamemodes.Max(),
	}, nil
}
