package handlers

import (
	"context"
	"sync"

	"github.com/summsync/stats-api/internal/logic"
	"github.com/summsync/stats-api/internal/models"
	"github.com/summsync/stats-api/internal/store"
)

// MockBundleService implements logic.BundleService for testing
type MockBundleService struct {
	ComputeBundleFunc func(ctx context.Context, gameName, tagLine string, masteryCount int) (*logic.PlayerBundle, error)

	mu    sync.Mutex
	calls []string
}

func (m *MockBundleService) ComputeBundle(ctx context.Context, gameName, tagLine string, masteryCount int) (*logic.PlayerBundle, error) {
	m.mu.Lock()
	m.calls = append(m.calls, gameName+"#"+tagLine)
	m.mu.Unlock()

	if m.ComputeBundleFunc != nil {
		return m.ComputeBundleFunc(ctx, gameName, tagLine, masteryCount)
	}
	return &logic.PlayerBundle{
		Identity: models.PlayerIdentity{DisplayName: gameName, Tag: tagLine, PUUID: "puuid-" + gameName},
		Stats:    &models.NormalizedStats{WinRate: 0.5},
		Mastery:  []models.MasteryEntry{},
	}, nil
}

func (m *MockBundleService) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// MockStore implements store.Store for testing
type MockStore struct {
	GetPlayerByNameFunc func(ctx context.Context, sessionID, name, tag string) (*models.SessionRecord, error)
	QuerySessionFunc    func(ctx context.Context, sessionID string) ([]*models.SessionRecord, error)
	PutPlayerFunc       func(ctx context.Context, rec *models.SessionRecord) error

	mu   sync.Mutex
	puts []*models.SessionRecord
}

func (m *MockStore) PutPlayer(ctx context.Context, rec *models.SessionRecord) error {
	m.mu.Lock()
	m.puts = append(m.puts, rec)
	m.mu.Unlock()

	if m.PutPlayerFunc != nil {
		return m.PutPlayerFunc(ctx, rec)
	}
	return nil
}

func (m *MockStore) GetPlayer(ctx context.Context, sessionID, puuid string) (*models.SessionRecord, error) {
	return nil, store.ErrNotFound
}

func (m *MockStore) GetPlayerByName(ctx context.Context, sessionID, name, tag string) (*models.SessionRecord, error) {
	if m.GetPlayerByNameFunc != nil {
		return m.GetPlayerByNameFunc(ctx, sessionID, name, tag)
	}
	return nil, store.ErrNotFound
}

func (m *MockStore) QuerySession(ctx context.Context, sessionID string) ([]*models.SessionRecord, error) {
	if m.QuerySessionFunc != nil {
		return m.QuerySessionFunc(ctx, sessionID)
	}
	return nil, nil
}

func (m *MockStore) Puts() []*models.SessionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*models.SessionRecord(nil), m.puts...)
}

// MockInsight implements InsightService for testing
type MockInsight struct {
	GenerateFunc func(ctx context.Context, prompt string, players []*models.SessionRecord) (string, error)
	Unconfigured bool
}

func (m *MockInsight) Generate(ctx context.Context, prompt string, players []*models.SessionRecord) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, players)
	}
	return "mock answer", nil
}

func (m *MockInsight) ModelID() string { return "mock-model" }

func (m *MockInsight) Configured() bool { return !m.Unconfigured }
