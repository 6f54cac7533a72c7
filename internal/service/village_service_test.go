package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pm-ajay/adarsh-gram-api/internal/models"
	appErrors "github.com/pm-ajay/adarsh-gram-api/pkg/errors"
)

type mockVillageRepo struct {
	villages []models.Village
	listErr  error
}

func (m *mockVillageRepo) List(ctx context.Context) ([]models.Village, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.villages, nil
}

func (m *mockVillageRepo) FindByID(ctx context.Context, id string) (*models.Village, error) {
	for i := range m.villages {
		if m.villages[i].ID == id {
			return &m.villages[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func sampleVillages() []models.Village {
	return []models.Village{
		{ID: "1", Name: "Rampur", District: "Lucknow", Block: "Sarojininagar", PriorityIndex: 8.5},
		{ID: "2", Name: "Shivpur", District: "Varanasi", Block: "Sarojininagar", PriorityIndex: 9.2},
		{ID: "3", Name: "Govindpur", District: "Allahabad", Block: "Koraon", PriorityIndex: 3.2},
	}
}

func TestFilterVillagesByQuery(t *testing.T) {
	filtered := FilterVillages(sampleVillages(), models.VillageFilter{Query: "shiv"})
	require.Len(t, filtered, 1)
	assert.Equal(t, "Shivpur", filtered[0].Name)
}

func TestFilterVillagesByDistrict(t *testing.T) {
	filtered := FilterVillages(sampleVillages(), models.VillageFilter{Query: "LUCKNOW"})
	require.Len(t, filtered, 1)
	assert.Equal(t, "Rampur", filtered[0].Name)
}

func TestFilterVillagesByPriorityBand(t *testing.T) {
	villages := sampleVillages()

	high := FilterVillages(villages, models.VillageFilter{Priority: models.PriorityBandHigh})
	require.Len(t, high, 2)
	assert.Equal(t, "Rampur", high[0].Name)
	assert.Equal(t, "Shivpur", high[1].Name)

	low := FilterVillages(villages, models.VillageFilter{Priority: models.PriorityBandLow})
	require.Len(t, low, 1)
	assert.Equal(t, "Govindpur", low[0].Name)

	all := FilterVillages(villages, models.VillageFilter{Priority: models.PriorityBandAll})
	assert.Len(t, all, 3)
}

func TestFilterVillagesPreservesOrder(t *testing.T) {
	filtered := FilterVillages(sampleVillages(), models.VillageFilter{Query: "pur"})
	require.Len(t, filtered, 3)
	assert.Equal(t, "Rampur", filtered[0].Name)
	assert.Equal(t, "Shivpur", filtered[1].Name)
	assert.Equal(t, "Govindpur", filtered[2].Name)
}

func TestBandForPriorityIndexBoundaries(t *testing.T) {
	assert.Equal(t, models.PriorityBandHigh, models.BandForPriorityIndex(8.0))
	assert.Equal(t, models.PriorityBandMedium, models.BandForPriorityIndex(7.999))
	assert.Equal(t, models.PriorityBandMedium, models.BandForPriorityIndex(5.0))
	assert.Equal(t, models.PriorityBandLow, models.BandForPriorityIndex(4.999))
	assert.Equal(t, models.PriorityBandLow, models.BandForPriorityIndex(0))
}

func TestClassifyFacilityPrecedence(t *testing.T) {
	// Under construction wins over every other flag.
	assert.Equal(t, models.FacilityUnderConstruction, models.FacilityStatus{
		Available: true, Functional: true, UnderConstruction: true,
	}.Classify())
	assert.Equal(t, models.FacilityFunctional, models.FacilityStatus{
		Available: true, Functional: true,
	}.Classify())
	assert.Equal(t, models.FacilityNonFunctional, models.FacilityStatus{
		Available: true,
	}.Classify())
	// Functional without available still reads as not available.
	assert.Equal(t, models.FacilityNotAvailable, models.FacilityStatus{
		Functional: true,
	}.Classify())
	assert.Equal(t, models.FacilityNotAvailable, models.FacilityStatus{}.Classify())
}

func TestClassifyInfrastructureOrder(t *testing.T) {
	views := ClassifyInfrastructure(models.Infrastructure{
		Education: models.FacilityStatus{Available: true, Functional: true},
		Water:     models.FacilityStatus{UnderConstruction: true},
	})
	require.Len(t, views, 6)
	assert.Equal(t, "education", views[0].Name)
	assert.Equal(t, models.FacilityFunctional, views[0].Label)
	assert.Equal(t, "water", views[2].Name)
	assert.Equal(t, models.FacilityUnderConstruction, views[2].Label)
	assert.Equal(t, "roads", views[5].Name)
	assert.Equal(t, models.FacilityNotAvailable, views[5].Label)
}

func TestVillageServiceList(t *testing.T) {
	svc := NewVillageService(&mockVillageRepo{villages: sampleVillages()}, zap.NewNop())

	summaries, err := svc.List(context.Background(), models.VillageFilter{Priority: models.PriorityBandHigh})
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, models.PriorityBandHigh, summaries[0].Band)
}

func TestVillageServiceGetNotFound(t *testing.T) {
	svc := NewVillageService(&mockVillageRepo{villages: sampleVillages()}, zap.NewNop())

	_, err := svc.Get(context.Background(), "999")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
