package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/pm-ajay/adarsh-gram-api/internal/dto"
	"github.com/pm-ajay/adarsh-gram-api/internal/models"
	appErrors "github.com/pm-ajay/adarsh-gram-api/pkg/errors"
)

type villageRepository interface {
	List(ctx context.Context) ([]models.Village, error)
	FindByID(ctx context.Context, id string) (*models.Village, error)
}

// VillageService serves village listings, detail views, and infrastructure
// classification.
type VillageService struct {
	repo   villageRepository
	logger *zap.Logger
}

// NewVillageService constructs a VillageService.
func NewVillageService(repo villageRepository, logger *zap.Logger) *VillageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VillageService{repo: repo, logger: logger}
}

// List returns villages matching the filter. Filtering happens in memory so
// the result is always an order-preserving subsequence of the stored order.
func (s *VillageService) List(ctx context.Context, filter models.VillageFilter) ([]dto.VillageSummary, error) {
	villages, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list villages")
	}
	filtered := FilterVillages(villages, filter)
	summaries := make([]dto.VillageSummary, 0, len(filtered))
	for _, v := range filtered {
		summaries = append(summaries, dto.VillageSummary{
			ID:                v.ID,
			Name:              v.Name,
			State:             v.State,
			District:          v.District,
			Block:             v.Block,
			Population:        v.Population,
			SCPercentage:      v.SCPercentage,
			SatisfactionScore: v.SatisfactionScore,
			PriorityIndex:     v.PriorityIndex,
			Band:              models.BandForPriorityIndex(v.PriorityIndex),
			Onboarded:         v.Onboarded,
		})
	}
	return summaries, nil
}

// Get returns a single village with classified infrastructure.
func (s *VillageService) Get(ctx context.Context, id string) (*dto.VillageDetail, error) {
	village, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "village not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load village")
	}
	return &dto.VillageDetail{
		Village:    *village,
		Band:       models.BandForPriorityIndex(village.PriorityIndex),
		Facilities: ClassifyInfrastructure(village.Infrastructure),
	}, nil
}

// ClassifyInfrastructure renders each facility of the record through the
// label precedence, in the fixed facility order.
func ClassifyInfrastructure(infra models.Infrastructure) []dto.FacilityView {
	facilities := infra.Facilities()
	views := make([]dto.FacilityView, 0, len(facilities))
	for _, f := range facilities {
		views = append(views, dto.FacilityView{
			Name:    f.Name,
			Label:   f.Status.Classify(),
			Quality: f.Status.Quality,
		})
	}
	return views
}

// FilterVillages applies the search and priority-band predicates, keeping
// the input order.
func FilterVillages(villages []models.Village, filter models.VillageFilter) []models.Village {
	result := make([]models.Village, 0, len(villages))
	for _, v := range villages {
		if !villageMatchesQuery(v, filter.Query) {
			continue
		}
		if !villageMatchesPriority(v, filter.Priority) {
			continue
		}
		result = append(result, v)
	}
	return result
}

func villageMatchesQuery(v models.Village, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(v.Name), q) ||
		strings.Contains(strings.ToLower(v.District), q)
}

func villageMatchesPriority(v models.Village, band models.PriorityBand) bool {
	if band == "" || band == models.PriorityBandAll {
		return true
	}
	return models.BandForPriorityIndex(v.PriorityIndex) == band
}
