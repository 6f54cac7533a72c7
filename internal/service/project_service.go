package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/pm-ajay/adarsh-gram-api/internal/models"
	appErrors "github.com/pm-ajay/adarsh-gram-api/pkg/errors"
)

type projectRepository interface {
	List(ctx context.Context) ([]models.Project, error)
	FindByID(ctx context.Context, id string) (*models.Project, error)
	UpdateProgress(ctx context.Context, id string, progress int, status models.ProjectStatus, completionDate *time.Time) error
}

type auditRecorder interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// ProjectService serves project listings and progress updates.
type ProjectService struct {
	repo      projectRepository
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProjectService constructs a ProjectService.
func NewProjectService(repo projectRepository, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *ProjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ProjectService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// List returns projects matching the filter, preserving stored order.
func (s *ProjectService) List(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error) {
	projects, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list projects")
	}
	return FilterProjects(projects, filter), nil
}

// Get returns a single project.
func (s *ProjectService) Get(ctx context.Context, id string) (*models.Project, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "project not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load project")
	}
	return project, nil
}

// UpdateProgress advances a project's progress and status. Progress and
// status must agree: completed requires progress 100, and progress 100
// requires completed.
func (s *ProjectService) UpdateProgress(ctx context.Context, id string, req models.UpdateProjectProgressRequest, actorID string) (*models.Project, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid progress payload")
	}
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown project status")
	}
	if req.Status == models.ProjectCompleted && req.Progress != 100 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "a completed project must have progress 100")
	}
	if req.Progress == 100 && req.Status != models.ProjectCompleted {
		return nil, appErrors.Clone(appErrors.ErrValidation, "progress 100 requires completed status")
	}

	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "project not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load project")
	}

	var completionDate *time.Time
	if req.Status == models.ProjectCompleted {
		if project.CompletionDate != nil {
			completionDate = project.CompletionDate
		} else {
			now := time.Now().UTC()
			completionDate = &now
		}
	}

	if err := s.repo.UpdateProgress(ctx, id, req.Progress, req.Status, completionDate); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update project progress")
	}

	s.recordProgressAudit(ctx, project, req, actorID)

	project.Progress = req.Progress
	project.Status = req.Status
	project.CompletionDate = completionDate
	return project, nil
}

func (s *ProjectService) recordProgressAudit(ctx context.Context, project *models.Project, req models.UpdateProjectProgressRequest, actorID string) {
	if s.audit == nil {
		return
	}
	oldValues, _ := json.Marshal(map[string]interface{}{"progress": project.Progress, "status": project.Status})
	newValues, _ := json.Marshal(map[string]interface{}{"progress": req.Progress, "status": req.Status})
	log := &models.AuditLog{
		Action:     models.AuditActionProjectProgress,
		Resource:   "projects",
		ResourceID: &project.ID,
		OldValues:  oldValues,
		NewValues:  newValues,
	}
	if actorID != "" {
		log.UserID = &actorID
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record project progress audit log", zap.Error(err))
	}
}

// FilterProjects applies the search and status predicates, keeping the
// input order.
func FilterProjects(projects []models.Project, filter models.ProjectFilter) []models.Project {
	result := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if !projectMatchesQuery(p, filter.Query) {
			continue
		}
		if filter.Status != "" && filter.Status != "all" && p.Status != filter.Status {
			continue
		}
		result = append(result, p)
	}
	return result
}

func projectMatchesQuery(p models.Project, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.Category), q)
}
