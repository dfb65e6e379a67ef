package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/summsync/stats-api/internal/models"
)

// mockRedis implements RedisClient over an in-memory hash map.
type mockRedis struct {
	hashes  map[string]map[string]string
	expires map[string]time.Duration
	failAll bool
}

func newMockRedis() *mockRedis {
	return &mockRedis{
		hashes:  make(map[string]map[string]string),
		expires: make(map[string]time.Duration),
	}
}

func (m *mockRedis) HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	if m.failAll {
		return redis.NewIntResult(0, errors.New("redis down"))
	}
	if m.hashes[key] == nil {
		m.hashes[key] = make(map[string]string)
	}
	field := values[0].(string)
	switch v := values[1].(type) {
	case string:
		m.hashes[key][field] = v
	case []byte:
		m.hashes[key][field] = string(v)
	}
	return redis.NewIntResult(1, nil)
}

func (m *mockRedis) HGet(ctx context.Context, key, field string) *redis.StringCmd {
	if m.failAll {
		return redis.NewStringResult("", errors.New("redis down"))
	}
	if val, ok := m.hashes[key][field]; ok {
		return redis.NewStringResult(val, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (m *mockRedis) HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd {
	if m.failAll {
		return redis.NewMapStringStringResult(nil, errors.New("redis down"))
	}
	return redis.NewMapStringStringResult(m.hashes[key], nil)
}

func (m *mockRedis) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	if m.failAll {
		return redis.NewBoolResult(false, errors.New("redis down"))
	}
	m.expires[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func testRecord() *models.SessionRecord {
	return &models.SessionRecord{
		SessionID:  "sess-1",
		PUUID:      "puuid-1",
		PlayerName: "Crolwick",
		GameTag:    "LION",
		Stats:      &models.NormalizedStats{WinRate: 0.5, MostPlayedLane: "TOP"},
		Mastery:    []models.MasteryEntry{{ChampionName: "Riven", ChampionLevel: 47}},
	}
}

func TestPutAndGetPlayer(t *testing.T) {
	rdb := newMockRedis()
	s := NewSessionStore(rdb, time.Hour, zap.NewNop())
	ctx := context.Background()

	if err := s.PutPlayer(ctx, testRecord()); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, err := s.GetPlayer(ctx, "sess-1", "puuid-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.PlayerName != "Crolwick" || got.Stats.MostPlayedLane != "TOP" {
		t.Errorf("record did not round-trip: %+v", got)
	}
	if got.UpdatedAt.IsZero() || !got.ExpiresAt.After(got.UpdatedAt) {
		t.Errorf("timestamps not stamped: updated=%v expires=%v", got.UpdatedAt, got.ExpiresAt)
	}
	if rdb.expires["session:sess-1"] != time.Hour {
		t.Errorf("session TTL not set, got %v", rdb.expires["session:sess-1"])
	}
}

func TestGetPlayerMissIsNotFound(t *testing.T) {
	s := NewSessionStore(newMockRedis(), time.Hour, zap.NewNop())

	_, err := s.GetPlayer(context.Background(), "sess-1", "nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetPlayerByNameCaseInsensitive(t *testing.T) {
	rdb := newMockRedis()
	s := NewSessionStore(rdb, time.Hour, zap.NewNop())
	ctx := context.Background()

	if err := s.PutPlayer(ctx, testRecord()); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, err := s.GetPlayerByName(ctx, "sess-1", "crolwick", "lion")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if got.PUUID != "puuid-1" {
		t.Errorf("wrong record: %+v", got)
	}

	if _, err := s.GetPlayerByName(ctx, "sess-1", "Someone", "Else"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown player, got %v", err)
	}
}

func TestPutOverwritesExisting(t *testing.T) {
	rdb := newMockRedis()
	s := NewSessionStore(rdb, time.Hour, zap.NewNop())
	ctx := context.Background()

	if err := s.PutPlayer(ctx, testRecord()); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	updated := testRecord()
	updated.Stats.WinRate = 0.9
	if err := s.PutPlayer(ctx, updated); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	got, err := s.GetPlayer(ctx, "sess-1", "puuid-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Stats.WinRate != 0.9 {
		t.Errorf("overwrite not last-write-wins: %v", got.Stats.WinRate)
	}
}

func TestQuerySessionSkipsCorruptRecords(t *testing.T) {
	rdb := newMockRedis()
	s := NewSessionStore(rdb, time.Hour, zap.NewNop())
	ctx := context.Background()

	if err := s.PutPlayer(ctx, testRecord()); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	rdb.hashes["session:sess-1"]["puuid-bad"] = "{not json"

	records, err := s.QuerySession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected the one valid record, got %d", len(records))
	}
}

func TestQuerySessionEmptyForUnknownSession(t *testing.T) {
	s := NewSessionStore(newMockRedis(), time.Hour, zap.NewNop())

	records, err := s.QuerySession(context.Background(), "ghost-session")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty result, got %d records", len(records))
	}
}

func TestPutPlayerRedisFailure(t *testing.T) {
	rdb := newMockRedis()
	rdb.failAll = true
	s := NewSessionStore(rdb, time.Hour, zap.NewNop())

	if err := s.PutPlayer(context.Background(), testRecord()); err == nil {
		t.Fatal("expected an error when redis is down")
	}
}
