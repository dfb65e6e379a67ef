// Package store implements the session cache: per-player bundles grouped
// under a session key with a shared TTL. Writes are idempotent overwrites
// keyed by (session, puuid); concurrent writers are last-write-wins.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/summsync/stats-api/internal/models"
)

// ErrNotFound signals a cache miss. It is a signal, not a failure.
var ErrNotFound = errors.New("session record not found")

// RedisClient defines the redis commands the store uses.
type RedisClient interface {
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	HGet(ctx context.Context, key, field string) *redis.StringCmd
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// Store is the session cache contract the handlers depend on.
type Store interface {
	PutPlayer(ctx context.Context, rec *models.SessionRecord) error
	GetPlayer(ctx context.Context, sessionID, puuid string) (*models.SessionRecord, error)
	GetPlayerByName(ctx context.Context, sessionID, name, tag string) (*models.SessionRecord, error)
	QuerySession(ctx context.Context, sessionID string) ([]*models.SessionRecord, error)
}

type sessionStore struct {
	redis  RedisClient
	ttl    time.Duration
	logger *zap.SugaredLogger
}

func NewSessionStore(rdb RedisClient, ttl time.Duration, logger *zap.Logger) Store {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &sessionStore{
		redis:  rdb,
		ttl:    ttl,
		logger: logger.Sugar(),
	}
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

// playerKey is the case-insensitive alternate key used for name+tag lookups.
func playerKey(name, tag string) string {
	return strings.ToUpper(strings.TrimSpace(name)) + "#" + strings.ToUpper(strings.TrimSpace(tag))
}

// PutPlayer stores or overwrites a player's record in its session hash and
// refreshes the session TTL. UpdatedAt/ExpiresAt are stamped here.
func (s *sessionStore) PutPlayer(ctx context.Context, rec *models.SessionRecord) error {
	now := time.Now().UTC()
	rec.UpdatedAt = now
	rec.ExpiresAt = now.Add(s.ttl)

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal session record: %w", err)
	}

	key := sessionKey(rec.SessionID)
	if err := s.redis.HSet(ctx, key, rec.PUUID, data).Err(); err != nil {
		return fmt.Errorf("failed to store session record: %w", err)
	}
	if err := s.redis.Expire(ctx, key, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session expiry: %w", err)
	}
	return nil
}

func (s *sessionStore) GetPlayer(ctx context.Context, sessionID, puuid string) (*models.SessionRecord, error) {
	data, err := s.redis.HGet(ctx, sessionKey(sessionID), puuid).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session record: %w", err)
	}

	var rec models.SessionRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session record: %w", err)
	}
	return &rec, nil
}

func (s *sessionStore) GetPlayerByName(ctx context.Context, sessionID, name, tag string) (*models.SessionRecord, error) {
	records, err := s.QuerySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	want := playerKey(name, tag)
	for _, rec := range records {
		if playerKey(rec.PlayerName, rec.GameTag) == want {
			return rec, nil
		}
	}
	return nil, ErrNotFound
}

// QuerySession returns every stored record of a session. An expired or
// unknown session yields an empty slice.
func (s *sessionStore) QuerySession(ctx context.Context, sessionID string) ([]*models.SessionRecord, error) {
	fields, err := s.redis.HGetAll(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	records := make([]*models.SessionRecord, 0, len(fields))
	for puuid, data := range fields {
		var rec models.SessionRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			s.logger.Warnw("Dropping undecodable session record",
				"sessionId", sessionID, "puuid", puuid, "error", err)
			continue
		}
		records = append(records, &rec)
	}
	return records, nil
}
