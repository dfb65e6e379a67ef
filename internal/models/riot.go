package models

// Upstream DTOs for the Riot API. Parsing is strict and typed at this
// boundary; fields absent from a response decode to their zero value.

// AccountDTO is the account-v1 by-riot-id response.
type AccountDTO struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// MatchRecord is the match-v5 match detail. Only the fields the aggregator
// consumes are mapped.
type MatchRecord struct {
	Metadata MatchMetadata `json:"metadata"`
	Info     MatchInfo     `json:"info"`
}

type MatchMetadata struct {
	MatchID string `json:"matchId"`
}

type MatchInfo struct {
	GameMode     string        `json:"gameMode"`
	GameDuration int64         `json:"gameDuration"` // seconds
	Participants []Participant `json:"participants"`
}

// Participant is one player's outcome-and-event record within a match.
// Win is a pointer so that a null/absent outcome counts as neither a win
// nor a loss.
type Participant struct {
	RiotIDGameName string `json:"riotIdGameName"`
	RiotIDTagline  string `json:"riotIdTagline"`

	Kills   int `json:"kills"`
	Deaths  int `json:"deaths"`
	Assists int `json:"assists"`

	TotalMinionsKilled     int `json:"totalMinionsKilled"`
	VisionScore            int `json:"visionScore"`
	WardsPlaced            int `json:"wardsPlaced"`
	WardsKilled            int `json:"wardsKilled"`
	LongestTimeSpentLiving int `json:"longestTimeSpentLiving"`

	GoldEarned              int   `json:"goldEarned"`
	DamageDealtToObjectives int64 `json:"damageDealtToObjectives"`
	TotalDamageDealt        int64 `json:"totalDamageDealt"`

	FirstBloodKill bool  `json:"firstBloodKill"`
	FirstTowerKill bool  `json:"firstTowerKill"`
	Win            *bool `json:"win"`

	Lane string `json:"lane"`
	Role string `json:"role"`

	Challenges ParticipantChallenges `json:"challenges"`
}

// ParticipantChallenges holds the per-match rates Riot derives server-side.
// These are summed across matches and averaged by game count, not recomputed
// from totals.
type ParticipantChallenges struct {
	GoldPerMinute        float64 `json:"goldPerMinute"`
	KDA                  float64 `json:"kda"`
	KillParticipation    float64 `json:"killParticipation"`
	VisionScorePerMinute float64 `json:"visionScorePerMinute"`
	ControlWardsPlaced   int     `json:"controlWardsPlaced"`
	BountyGold           float64 `json:"bountyGold"`
}

// LeagueEntryDTO is one per-queue standing from league-v4.
type LeagueEntryDTO struct {
	QueueType    string `json:"queueType"`
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

// MasteryDTO is one champion-mastery-v4 entry, ordered by descending mastery
// as returned upstream.
type MasteryDTO struct {
	ChampionID     int `json:"championId"`
	ChampionLevel  int `json:"championLevel"`
	ChampionPoints int `json:"championPoints"`
}
