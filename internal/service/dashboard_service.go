package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/pm-ajay/adarsh-gram-api/internal/dto"
	"github.com/pm-ajay/adarsh-gram-api/internal/models"
	"github.com/pm-ajay/adarsh-gram-api/internal/repository"
	appErrors "github.com/pm-ajay/adarsh-gram-api/pkg/errors"
)

const (
	dashboardStatsCacheKey = "dashboard:stats"
	publicPortalCacheKey   = "portal:summary"
)

type villageCounter interface {
	Counts(ctx context.Context) (repository.VillageCounts, error)
}

type projectCounter interface {
	Counts(ctx context.Context) (repository.ProjectCounts, error)
	CountByStatus(ctx context.Context) (map[models.ProjectStatus]int, error)
}

type grievanceCounter interface {
	Counts(ctx context.Context) (repository.GrievanceCounts, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL time.Duration
}

// DashboardService composes programme-wide aggregates for the dashboard and
// the public transparency snapshot.
type DashboardService struct {
	villages   villageCounter
	projects   projectCounter
	grievances grievanceCounter
	cache      *CacheService
	logger     *zap.Logger
	cfg        DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(villages villageCounter, projects projectCounter, grievances grievanceCounter, cache *CacheService, logger *zap.Logger, cfg DashboardServiceConfig) *DashboardService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		villages:   villages,
		projects:   projects,
		grievances: grievances,
		cache:      cache,
		logger:     logger,
		cfg:        cfg,
	}
}

// Stats returns the aggregate dashboard payload and whether it was served
// from cache.
func (s *DashboardService) Stats(ctx context.Context) (*dto.DashboardResponse, bool, error) {
	var cached dto.DashboardResponse
	if hit, err := s.cache.Get(ctx, dashboardStatsCacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	response, err := s.computeStats(ctx)
	if err != nil {
		return nil, false, err
	}

	if err := s.cache.Set(ctx, dashboardStatsCacheKey, response, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("failed to cache dashboard stats", zap.Error(err))
	}
	return response, false, nil
}

// PublicSummary returns the aggregate-only transparency snapshot.
func (s *DashboardService) PublicSummary(ctx context.Context) (*dto.PublicPortalResponse, bool, error) {
	var cached dto.PublicPortalResponse
	if hit, err := s.cache.Get(ctx, publicPortalCacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	villageCounts, err := s.villages.Counts(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count villages")
	}
	byStatus, err := s.projects.CountByStatus(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count projects")
	}
	grievanceCounts, err := s.grievances.Counts(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count grievances")
	}

	active := byStatus[models.ProjectApproved] + byStatus[models.ProjectInProgress]
	response := &dto.PublicPortalResponse{
		TotalVillages:     villageCounts.Total,
		OnboardedVillages: villageCounts.Onboarded,
		ProjectsByStatus:  byStatus,
		CompletionRate:    models.Rate(byStatus[models.ProjectCompleted], active),
		ResolutionRate:    models.Rate(grievanceCounts.Resolved, grievanceCounts.Pending),
	}

	if err := s.cache.Set(ctx, publicPortalCacheKey, response, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("failed to cache public summary", zap.Error(err))
	}
	return response, false, nil
}

// Invalidate drops cached aggregates after a mutation.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, "dashboard:*"); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
	if err := s.cache.Invalidate(ctx, "portal:*"); err != nil {
		s.logger.Warn("failed to invalidate portal cache", zap.Error(err))
	}
}

func (s *DashboardService) computeStats(ctx context.Context) (*dto.DashboardResponse, error) {
	villageCounts, err := s.villages.Counts(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count villages")
	}
	projectCounts, err := s.projects.Counts(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count projects")
	}
	grievanceCounts, err := s.grievances.Counts(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count grievances")
	}

	stats := models.DashboardStats{
		TotalVillages:       villageCounts.Total,
		OnboardedVillages:   villageCounts.Onboarded,
		ActiveProjects:      projectCounts.Active,
		CompletedProjects:   projectCounts.Completed,
		PendingGrievances:   grievanceCounts.Pending,
		ResolvedGrievances:  grievanceCounts.Resolved,
		AverageSatisfaction: roundToOneDecimal(villageCounts.AverageSatisfaction),
		BudgetUtilization:   budgetUtilization(projectCounts.TotalSpent, projectCounts.TotalBudget),
	}

	return &dto.DashboardResponse{
		Stats:             stats,
		CompletionRate:    stats.CompletionRate(),
		ResolutionRate:    stats.ResolutionRate(),
		OnboardingRate:    models.Rate(stats.OnboardedVillages, stats.TotalVillages-stats.OnboardedVillages),
		BudgetUtilization: stats.BudgetUtilization,
	}, nil
}

func budgetUtilization(spent, budget int64) float64 {
	if budget == 0 {
		return 0
	}
	return roundToOneDecimal(float64(spent) / float64(budget) * 100)
}

func roundToOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
