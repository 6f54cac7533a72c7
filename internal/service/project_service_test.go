package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pm-ajay/adarsh-gram-api/internal/models"
	appErrors "github.com/pm-ajay/adarsh-gram-api/pkg/errors"
)

type mockProjectRepo struct {
	projects      []models.Project
	updatedID     string
	updatedStatus models.ProjectStatus
	updatedDate   *time.Time
}

func (m *mockProjectRepo) List(ctx context.Context) ([]models.Project, error) {
	return m.projects, nil
}

func (m *mockProjectRepo) FindByID(ctx context.Context, id string) (*models.Project, error) {
	for i := range m.projects {
		if m.projects[i].ID == id {
			p := m.projects[i]
			return &p, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockProjectRepo) UpdateProgress(ctx context.Context, id string, progress int, status models.ProjectStatus, completionDate *time.Time) error {
	m.updatedID = id
	m.updatedStatus = status
	m.updatedDate = completionDate
	return nil
}

type mockAuditRecorder struct {
	logs []*models.AuditLog
}

func (m *mockAuditRecorder) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.logs = append(m.logs, log)
	return nil
}

func sampleProjects() []models.Project {
	return []models.Project{
		{ID: "p1", Title: "Community Water Tank", Category: "Water", Status: models.ProjectInProgress, Progress: 60},
		{ID: "p2", Title: "Primary School Renovation", Category: "Education", Status: models.ProjectApproved, Progress: 0},
		{ID: "p3", Title: "Road Resurfacing", Category: "Roads", Status: models.ProjectCompleted, Progress: 100},
	}
}

func TestFilterProjectsByQueryAndStatus(t *testing.T) {
	projects := sampleProjects()

	byTitle := FilterProjects(projects, models.ProjectFilter{Query: "water"})
	require.Len(t, byTitle, 1)
	assert.Equal(t, "p1", byTitle[0].ID)

	byCategory := FilterProjects(projects, models.ProjectFilter{Query: "education"})
	require.Len(t, byCategory, 1)
	assert.Equal(t, "p2", byCategory[0].ID)

	byStatus := FilterProjects(projects, models.ProjectFilter{Status: models.ProjectCompleted})
	require.Len(t, byStatus, 1)
	assert.Equal(t, "p3", byStatus[0].ID)

	all := FilterProjects(projects, models.ProjectFilter{Status: "all"})
	assert.Len(t, all, 3)
}

func TestFilterProjectsPreservesOrder(t *testing.T) {
	filtered := FilterProjects(sampleProjects(), models.ProjectFilter{})
	require.Len(t, filtered, 3)
	assert.Equal(t, "p1", filtered[0].ID)
	assert.Equal(t, "p3", filtered[2].ID)
}

func TestUpdateProgressRejectsInconsistentStates(t *testing.T) {
	repo := &mockProjectRepo{projects: sampleProjects()}
	svc := NewProjectService(repo, &mockAuditRecorder{}, validator.New(), zap.NewNop())

	_, err := svc.UpdateProgress(context.Background(), "p1", models.UpdateProjectProgressRequest{
		Progress: 80,
		Status:   models.ProjectCompleted,
	}, "u1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.UpdateProgress(context.Background(), "p1", models.UpdateProjectProgressRequest{
		Progress: 100,
		Status:   models.ProjectInProgress,
	}, "u1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUpdateProgressCompletesProject(t *testing.T) {
	repo := &mockProjectRepo{projects: sampleProjects()}
	audit := &mockAuditRecorder{}
	svc := NewProjectService(repo, audit, validator.New(), zap.NewNop())

	updated, err := svc.UpdateProgress(context.Background(), "p1", models.UpdateProjectProgressRequest{
		Progress: 100,
		Status:   models.ProjectCompleted,
	}, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.ProjectCompleted, updated.Status)
	assert.Equal(t, 100, updated.Progress)
	require.NotNil(t, updated.CompletionDate)
	assert.Equal(t, "p1", repo.updatedID)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionProjectProgress, audit.logs[0].Action)
}

func TestUpdateProgressNotFound(t *testing.T) {
	repo := &mockProjectRepo{projects: sampleProjects()}
	svc := NewProjectService(repo, &mockAuditRecorder{}, validator.New(), zap.NewNop())

	_, err := svc.UpdateProgress(context.Background(), "absent", models.UpdateProjectProgressRequest{
		Progress: 50,
		Status:   models.ProjectInProgress,
	}, "u1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
