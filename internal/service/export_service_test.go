package service

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pm-ajay/adarsh-gram-api/internal/models"
	"github.com/pm-ajay/adarsh-gram-api/pkg/export"
	"github.com/pm-ajay/adarsh-gram-api/pkg/storage"
)

func newExportServiceForTest(t *testing.T) (*ExportService, *storage.LocalStorage) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	counts := portalCounters()
	svc := NewExportService(ExportServiceParams{
		Villages:        &mockVillageRepo{villages: sampleVillages()},
		Projects:        &mockProjectRepo{projects: sampleProjects()},
		Grievances:      &mockGrievanceRepo{grievances: sampleGrievances()},
		VillageCounts:   counts,
		ProjectCounts:   &mockProjectCounter{counts: counts},
		GrievanceCounts: &mockGrievanceCounter{counts: counts},
		Storage:         store,
		Signer:          signer,
		Config:          ExportConfig{APIPrefix: "/api/v1", ResultTTL: time.Hour},
		Logger:          zap.NewNop(),
		CSV:             export.NewCSVExporter(),
		PDF:             export.NewPDFExporter(),
	})
	return svc, store
}

func TestExportServiceGenerateVillageCSV(t *testing.T) {
	svc, store := newExportServiceForTest(t)
	job := &models.ReportJob{
		ID:        "job-1",
		Type:      models.ReportTypeVillages,
		Params:    models.ReportJobParams{Format: models.ReportFormatCSV},
		CreatedBy: "admin",
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	require.NotEmpty(t, result.RelativePath)
	require.Contains(t, result.URL, "/reports/download/")

	raw, err := os.ReadFile(store.Path(result.RelativePath))
	require.NoError(t, err)
	content := string(raw)
	assert.Contains(t, content, "Rampur")
	assert.Contains(t, content, "Shivpur")
	assert.Contains(t, content, "high")
	assert.Contains(t, content, "low")
}

func TestExportServiceGenerateGrievanceCSVUnknownVillage(t *testing.T) {
	svc, store := newExportServiceForTest(t)
	job := &models.ReportJob{
		ID:        "job-2",
		Type:      models.ReportTypeGrievances,
		Params:    models.ReportJobParams{Format: models.ReportFormatCSV},
		CreatedBy: "admin",
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)

	raw, err := os.ReadFile(store.Path(result.RelativePath))
	require.NoError(t, err)
	// g3 references village 99 which does not exist.
	assert.Contains(t, string(raw), UnknownVillageName)
}

func TestExportServiceGenerateSummaryPDF(t *testing.T) {
	svc, store := newExportServiceForTest(t)
	job := &models.ReportJob{
		ID:        "job-3",
		Type:      models.ReportTypeSummary,
		Params:    models.ReportJobParams{Format: models.ReportFormatPDF},
		CreatedBy: "admin",
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, models.ReportFormatPDF, result.Format)

	info, err := os.Stat(store.Path(result.RelativePath))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestExportServiceDistrictFilter(t *testing.T) {
	svc, store := newExportServiceForTest(t)
	district := "Lucknow"
	job := &models.ReportJob{
		ID:        "job-4",
		Type:      models.ReportTypeVillages,
		Params:    models.ReportJobParams{Format: models.ReportFormatCSV, District: &district},
		CreatedBy: "admin",
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)

	raw, err := os.ReadFile(store.Path(result.RelativePath))
	require.NoError(t, err)
	content := string(raw)
	assert.Contains(t, content, "Rampur")
	assert.NotContains(t, content, "Govindpur")
	assert.True(t, strings.HasPrefix(result.RelativePath, "villages_lucknow_") || strings.Contains(result.RelativePath, "villages_lucknow_"))
}

func TestExportServiceUnsupportedFormat(t *testing.T) {
	svc, _ := newExportServiceForTest(t)
	job := &models.ReportJob{
		ID:     "job-5",
		Type:   models.ReportTypeVillages,
		Params: models.ReportJobParams{Format: models.ReportFormat("xlsx")},
	}
	_, err := svc.Generate(context.Background(), job)
	require.Error(t, err)
}
