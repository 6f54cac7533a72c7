package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pm-ajay/adarsh-gram-api/internal/models"
	"github.com/pm-ajay/adarsh-gram-api/internal/repository"
	appErrors "github.com/pm-ajay/adarsh-gram-api/pkg/errors"
)

type memoryCacheRepo struct {
	values map[string][]byte
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{values: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.values[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.values = make(map[string][]byte)
	return nil
}

type mockCounters struct {
	villageCalls   int
	villageCounts  repository.VillageCounts
	projectCounts  repository.ProjectCounts
	statusCounts   map[models.ProjectStatus]int
	grievanceCount repository.GrievanceCounts
}

func (m *mockCounters) Counts(ctx context.Context) (repository.VillageCounts, error) {
	m.villageCalls++
	return m.villageCounts, nil
}

type mockProjectCounter struct{ counts *mockCounters }

func (m *mockProjectCounter) Counts(ctx context.Context) (repository.ProjectCounts, error) {
	return m.counts.projectCounts, nil
}

func (m *mockProjectCounter) CountByStatus(ctx context.Context) (map[models.ProjectStatus]int, error) {
	return m.counts.statusCounts, nil
}

type mockGrievanceCounter struct{ counts *mockCounters }

func (m *mockGrievanceCounter) Counts(ctx context.Context) (repository.GrievanceCounts, error) {
	return m.counts.grievanceCount, nil
}

func newDashboardService(counts *mockCounters, cacheEnabled bool) *DashboardService {
	cache := NewCacheService(newMemoryCacheRepo(), nil, time.Minute, zap.NewNop(), cacheEnabled)
	return NewDashboardService(counts, &mockProjectCounter{counts: counts}, &mockGrievanceCounter{counts: counts}, cache, zap.NewNop(), DashboardServiceConfig{})
}

func portalCounters() *mockCounters {
	return &mockCounters{
		villageCounts:  repository.VillageCounts{Total: 125, Onboarded: 98, AverageSatisfaction: 7.4},
		projectCounts:  repository.ProjectCounts{Active: 45, Completed: 128, TotalBudget: 1000, TotalSpent: 846},
		statusCounts:   map[models.ProjectStatus]int{models.ProjectInProgress: 30, models.ProjectApproved: 15, models.ProjectCompleted: 128, models.ProjectProposed: 14},
		grievanceCount: repository.GrievanceCounts{Pending: 23, Resolved: 187},
	}
}

func TestRate(t *testing.T) {
	assert.Equal(t, 0, models.Rate(0, 0))
	assert.Equal(t, 74, models.Rate(128, 45))
	assert.Equal(t, 89, models.Rate(187, 23))
	assert.Equal(t, 100, models.Rate(5, 0))
	assert.Equal(t, 0, models.Rate(0, 5))
	assert.Equal(t, 50, models.Rate(1, 1))
}

func TestDashboardStats(t *testing.T) {
	svc := newDashboardService(portalCounters(), false)

	res, cached, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 125, res.Stats.TotalVillages)
	assert.Equal(t, 98, res.Stats.OnboardedVillages)
	assert.Equal(t, 74, res.CompletionRate)
	assert.Equal(t, 89, res.ResolutionRate)
	assert.Equal(t, 7.4, res.Stats.AverageSatisfaction)
	assert.Equal(t, 84.6, res.BudgetUtilization)
}

func TestDashboardStatsCached(t *testing.T) {
	counts := portalCounters()
	svc := newDashboardService(counts, true)

	_, cached, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)

	res, cached, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 125, res.Stats.TotalVillages)
	// Repositories queried only once; the second call was served from cache.
	assert.Equal(t, 1, counts.villageCalls)
}

func TestDashboardInvalidate(t *testing.T) {
	counts := portalCounters()
	svc := newDashboardService(counts, true)

	_, _, err := svc.Stats(context.Background())
	require.NoError(t, err)
	svc.Invalidate(context.Background())

	_, cached, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, counts.villageCalls)
}

func TestPublicSummary(t *testing.T) {
	svc := newDashboardService(portalCounters(), false)

	res, cached, err := svc.PublicSummary(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 125, res.TotalVillages)
	assert.Equal(t, 98, res.OnboardedVillages)
	assert.Equal(t, 74, res.CompletionRate)
	assert.Equal(t, 89, res.ResolutionRate)
	assert.Equal(t, 128, res.ProjectsByStatus[models.ProjectCompleted])
}
