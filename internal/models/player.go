package models

import "time"

// PlayerIdentity maps a display name + tag to the stable player identifier.
// Immutable once resolved; DisplayName#Tag is only used for disambiguation
// inside a match's participant list (case-insensitively).
type PlayerIdentity struct {
	DisplayName string `json:"playerName"`
	Tag         string `json:"gameTag"`
	PUUID       string `json:"puuid"`
}

// RankedStanding is a single ranked-queue standing.
type RankedStanding struct {
	Tier         string `json:"tier"`
	Division     string `json:"division"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

// NormalizedStats is the externally visible aggregate: every accumulated sum
// divided by total games played, plus the most-frequent lane/role/gamemode
// and optional ranked standings.
type NormalizedStats struct {
	KDA               float64 `json:"kda"`
	KillParticipation float64 `json:"kp"`
	AvgKills          float64 `json:"avgKills"`
	AvgDeaths         float64 `json:"avgDeaths"`
	AvgAssists        float64 `json:"avgAssists"`

	DamageDealt float64 `json:"damageDealt"`
	ObjDamage   float64 `json:"objDamage"`

	GoldEarned float64 `json:"goldEarned"`
	GoldPerMin float64 `json:"goldPerMin"`
	BountyGold float64 `json:"bountyGold"`

	WinRate  float64 `json:"winRate"`
	LoseRate float64 `json:"loseRate"`

	LongestAliveTime float64 `json:"longestAliveTime"`

	VisionScore     float64 `json:"visionScore"`
	VisionPerMin    float64 `json:"visionPerMin"`
	WardsPlaced     float64 `json:"wardsPlaced"`
	WardsKilled     float64 `json:"wardsKilled"`
	PinkWardsPlaced float64 `json:"pinkWardsPlaced"`

	CS       float64 `json:"cs"`
	CSPerMin float64 `json:"csPerMin"`

	FirstBloods float64 `json:"firstBloods"`
	FirstTowers float64 `json:"firstTowers"`

	MostPlayedRole     string `json:"mostPlayedRole"`
	MostPlayedLane     string `json:"mostPlayedLane"`
	MostPlayedGamemode string `json:"mostPlayedGamemode"`

	SoloRank *RankedStanding `json:"soloRank"`
	FlexRank *RankedStanding `json:"flexRank"`
}

// MasteryEntry is one top-mastery champion enriched with catalog metadata.
type MasteryEntry struct {
	ChampionLevel  int      `json:"championLevel"`
	ChampionPoints int      `json:"championPoints"`
	ChampionName   string   `json:"championName"`
	Roles          []string `json:"roles"`
	Title          string   `json:"title"`
}

// SessionRecord is a player's cached bundle within a session. Keyed by
// (sessionId, puuid); expires with the session.
type SessionRecord struct {
	SessionID  string           `json:"sessionId"`
	PUUID      string           `json:"puuid"`
	PlayerName string           `json:"playerName"`
	GameTag    string           `json:"gameTag"`
	Stats      *NormalizedStats `json:"stats"`
	Mastery    []MasteryEntry   `json:"mastery"`
	UpdatedAt  time.Time        `json:"updatedAt"`
	ExpiresAt  time.Time        `json:"expiresAt"`
}
