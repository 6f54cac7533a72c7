package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/pm-ajay/adarsh-gram-api/internal/dto"
	"github.com/pm-ajay/adarsh-gram-api/internal/models"
	appErrors "github.com/pm-ajay/adarsh-gram-api/pkg/errors"
)

// UnknownVillageName is shown when a grievance references a village that no
// longer exists.
const UnknownVillageName = "Unknown Village"

type grievanceRepository interface {
	List(ctx context.Context) ([]models.Grievance, error)
	FindByID(ctx context.Context, id string) (*models.Grievance, error)
	Create(ctx context.Context, grievance *models.Grievance) error
	UpdateStatus(ctx context.Context, id string, status models.GrievanceStatus, resolvedDate *time.Time) error
	RecordResponse(ctx context.Context, id string, responseText, officer string, status models.GrievanceStatus) error
}

type villageNameResolver interface {
	NameByID(ctx context.Context, id string) (string, error)
	NamesByIDs(ctx context.Context, ids []string) (map[string]string, error)
}

// GrievanceService serves grievance listings, intake, and resolution flows.
type GrievanceService struct {
	repo      grievanceRepository
	villages  villageNameResolver
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGrievanceService constructs a GrievanceService.
func NewGrievanceService(repo grievanceRepository, villages villageNameResolver, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *GrievanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &GrievanceService{repo: repo, villages: villages, audit: audit, validator: validate, logger: logger}
}

// List returns grievances matching the filter, preserving stored order,
// with village names resolved.
func (s *GrievanceService) List(ctx context.Context, filter models.GrievanceFilter) ([]dto.GrievanceView, error) {
	grievances, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grievances")
	}
	filtered := FilterGrievances(grievances, filter)
	names := s.villageNames(ctx, filtered)
	views := make([]dto.GrievanceView, 0, len(filtered))
	for _, g := range filtered {
		name, ok := names[g.VillageID]
		if !ok {
			name = UnknownVillageName
		}
		views = append(views, dto.GrievanceView{
			Grievance:   g,
			VillageName: name,
		})
	}
	return views, nil
}

// Get returns a single grievance with its village name.
func (s *GrievanceService) Get(ctx context.Context, id string) (*dto.GrievanceView, error) {
	grievance, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "grievance not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grievance")
	}
	return &dto.GrievanceView{
		Grievance:   *grievance,
		VillageName: s.villageName(ctx, grievance.VillageID),
	}, nil
}

// Create registers a new citizen grievance. New grievances always start
// pending.
func (s *GrievanceService) Create(ctx context.Context, req models.CreateGrievanceRequest) (*models.Grievance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grievance payload")
	}
	if !req.Priority.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown priority")
	}

	grievance := &models.Grievance{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		VillageID:    req.VillageID,
		CitizenID:    req.CitizenID,
		CitizenName:  req.CitizenName,
		CitizenPhone: req.CitizenPhone,
		Status:       models.GrievancePending,
		Priority:     req.Priority,
		Photos:       pq.StringArray(req.Photos),
		AudioFiles:   pq.StringArray(req.AudioFiles),
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
	}

	if err := s.repo.Create(ctx, grievance); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create grievance")
	}
	return grievance, nil
}

// UpdateStatus moves a grievance between states. Entering resolved or closed
// stamps the resolution date; moving back to an open state clears it.
func (s *GrievanceService) UpdateStatus(ctx context.Context, id string, req models.UpdateGrievanceStatusRequest, actorID string) (*models.Grievance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown grievance status")
	}

	grievance, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "grievance not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grievance")
	}

	resolvedDate := resolvedDateFor(req.Status, grievance.ResolvedDate)
	if err := s.repo.UpdateStatus(ctx, id, req.Status, resolvedDate); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update grievance status")
	}

	s.recordStatusAudit(ctx, grievance, req.Status, actorID)

	grievance.Status = req.Status
	grievance.ResolvedDate = resolvedDate
	return grievance, nil
}

// RecordResponse files the official response to a grievance and moves it to
// in_review when it is still pending.
func (s *GrievanceService) RecordResponse(ctx context.Context, id string, req models.GrievanceResponseRequest, actorID string) (*models.Grievance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid response payload")
	}

	grievance, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "grievance not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grievance")
	}

	status := grievance.Status
	if status == models.GrievancePending {
		status = models.GrievanceInReview
	}

	if err := s.repo.RecordResponse(ctx, id, req.Response, req.AssignedOfficer, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record grievance response")
	}

	if s.audit != nil {
		newValues, _ := json.Marshal(map[string]string{"response": req.Response, "assigned_officer": req.AssignedOfficer})
		log := &models.AuditLog{
			Action:     models.AuditActionGrievanceReply,
			Resource:   "grievances",
			ResourceID: &grievance.ID,
			NewValues:  newValues,
		}
		if actorID != "" {
			log.UserID = &actorID
		}
		if err := s.audit.CreateAuditLog(ctx, log); err != nil {
			s.logger.Warn("failed to record grievance response audit log", zap.Error(err))
		}
	}

	grievance.Status = status
	grievance.Response = &req.Response
	grievance.AssignedOfficer = &req.AssignedOfficer
	return grievance, nil
}

// villageNames batches name resolution for a listing so the register renders
// with one lookup instead of one per grievance.
func (s *GrievanceService) villageNames(ctx context.Context, grievances []models.Grievance) map[string]string {
	if s.villages == nil || len(grievances) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(grievances))
	ids := make([]string, 0, len(grievances))
	for _, g := range grievances {
		if _, ok := seen[g.VillageID]; ok {
			continue
		}
		seen[g.VillageID] = struct{}{}
		ids = append(ids, g.VillageID)
	}
	names, err := s.villages.NamesByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("failed to resolve village names", zap.Error(err))
		return nil
	}
	return names
}

func (s *GrievanceService) villageName(ctx context.Context, villageID string) string {
	if s.villages == nil {
		return UnknownVillageName
	}
	name, err := s.villages.NameByID(ctx, villageID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("failed to resolve village name", zap.String("village_id", villageID), zap.Error(err))
		}
		return UnknownVillageName
	}
	return name
}

func (s *GrievanceService) recordStatusAudit(ctx context.Context, grievance *models.Grievance, status models.GrievanceStatus, actorID string) {
	if s.audit == nil {
		return
	}
	oldValues, _ := json.Marshal(map[string]string{"status": string(grievance.Status)})
	newValues, _ := json.Marshal(map[string]string{"status": string(status)})
	log := &models.AuditLog{
		Action:     models.AuditActionGrievanceStatus,
		Resource:   "grievances",
		ResourceID: &grievance.ID,
		OldValues:  oldValues,
		NewValues:  newValues,
	}
	if actorID != "" {
		log.UserID = &actorID
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record grievance status audit log", zap.Error(err))
	}
}

func resolvedDateFor(status models.GrievanceStatus, current *time.Time) *time.Time {
	switch status {
	case models.GrievanceResolved, models.GrievanceClosed:
		if current != nil {
			return current
		}
		now := time.Now().UTC()
		return &now
	default:
		return nil
	}
}

// FilterGrievances applies the search, status, and priority predicates,
// keeping the input order.
func FilterGrievances(grievances []models.Grievance, filter models.GrievanceFilter) []models.Grievance {
	result := make([]models.Grievance, 0, len(grievances))
	for _, g := range grievances {
		if !grievanceMatchesQuery(g, filter.Query) {
			continue
		}
		if filter.Status != "" && filter.Status != "all" && g.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && filter.Priority != "all" && g.Priority != filter.Priority {
			continue
		}
		result = append(result, g)
	}
	return result
}

func grievanceMatchesQuery(g models.Grievance, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(g.Title), q) ||
		strings.Contains(strings.ToLower(g.CitizenName), q) ||
		strings.Contains(strings.ToLower(g.Category), q)
}
