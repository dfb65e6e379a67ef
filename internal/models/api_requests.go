package models

import "time"

type PlayerRef struct {
	PlayerName string `json:"playerName" validate:"required"`
	GameTag    string `json:"gameTag" validate:"required"`
}

type CreatePlayersRequest struct {
	Players      []PlayerRef `json:"players" validate:"required,min=1,dive"`
	SessionID    string      `json:"sessionId"`
	MasteryCount int         `json:"masteryCount" validate:"omitempty,min=1"`
	ForceRefresh bool        `json:"forceRefresh"`
}

// Error codes surfaced in per-player result entries.
const (
	ErrCodeNoPUUID         = "NO_PUUID"
	ErrCodeNoRecentMatches = "NO_RECENT_MATCHES"
	ErrCodeProcessing      = "PROCESSING_ERROR"
)

type PlayerError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PlayerResult is one entry of the batch response, keeping its association
// with the input index. Exactly one of (Stats, Error) is populated.
type PlayerResult struct {
	Index      int              `json:"index"`
	PlayerName string           `json:"playerName"`
	GameTag    string           `json:"gameTag"`
	PUUID      string           `json:"puuid,omitempty"`
	Stats      *NormalizedStats `json:"stats"`
	Mastery    []MasteryEntry   `json:"mastery"`
	Error      *PlayerError     `json:"error,omitempty"`
	Stored     bool             `json:"stored"`
	FromCache  bool             `json:"fromCache"`
}

type CreatePlayersResponse struct {
	SessionID string         `json:"sessionId"`
	Results   []PlayerResult `json:"results"`
}

type SessionLookupRequest struct {
	SessionID  string `json:"sessionId" validate:"required"`
	PlayerName string `json:"playerName" validate:"required"`
	GameTag    string `json:"gameTag" validate:"required"`
}

type SessionStatsResponse struct {
	PlayerName string           `json:"playerName"`
	GameTag    string           `json:"gameTag"`
	Stats      *NormalizedStats `json:"stats"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

type SessionMasteryResponse struct {
	PlayerName string         `json:"playerName"`
	GameTag    string         `json:"gameTag"`
	Mastery    []MasteryEntry `json:"mastery"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

type InsightRequest struct {
	Prompt    string `json:"prompt" validate:"required"`
	SessionID string `json:"sessionId"`
}

type InsightResponse struct {
	Answer      string `json:"answer"`
	ModelID     string `json:"modelId"`
	PlayersUsed int    `json:"playersUsed"`
}
