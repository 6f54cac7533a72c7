package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pm-ajay/adarsh-gram-api/internal/models"
)

const grievanceColumns = `id, title, description, category, village_id, citizen_id, citizen_name, citizen_phone, status, priority, submitted_date, resolved_date, assigned_officer, photos, audio_files, response, latitude, longitude, created_at, updated_at`

// GrievanceRepository provides database access to citizen grievances.
type GrievanceRepository struct {
	db *sqlx.DB
}

// NewGrievanceRepository creates a new instance of GrievanceRepository.
func NewGrievanceRepository(db *sqlx.DB) *GrievanceRepository {
	return &GrievanceRepository{db: db}
}

// List returns every grievance in register order.
func (r *GrievanceRepository) List(ctx context.Context) ([]models.Grievance, error) {
	query := fmt.Sprintf(`SELECT %s FROM grievances ORDER BY created_at, id`, grievanceColumns)
	var grievances []models.Grievance
	if err := r.db.SelectContext(ctx, &grievances, query); err != nil {
		return nil, fmt.Errorf("list grievances: %w", err)
	}
	return grievances, nil
}

// FindByID returns a single grievance.
func (r *GrievanceRepository) FindByID(ctx context.Context, id string) (*models.Grievance, error) {
	query := fmt.Sprintf(`SELECT %s FROM grievances WHERE id = $1 LIMIT 1`, grievanceColumns)
	var grievance models.Grievance
	if err := r.db.GetContext(ctx, &grievance, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find grievance by id: %w", err)
	}
	return &grievance, nil
}

// Create inserts a new grievance with generated defaults.
func (r *GrievanceRepository) Create(ctx context.Context, grievance *models.Grievance) error {
	if grievance.ID == "" {
		grievance.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if grievance.SubmittedDate.IsZero() {
		grievance.SubmittedDate = now
	}
	grievance.CreatedAt = now
	grievance.UpdatedAt = now
	const query = `INSERT INTO grievances (id, title, description, category, village_id, citizen_id, citizen_name, citizen_phone, status, priority, submitted_date, resolved_date, assigned_officer, photos, audio_files, response, latitude, longitude, created_at, updated_at)
VALUES (:id, :title, :description, :category, :village_id, :citizen_id, :citizen_name, :citizen_phone, :status, :priority, :submitted_date, :resolved_date, :assigned_officer, :photos, :audio_files, :response, :latitude, :longitude, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, grievance); err != nil {
		return fmt.Errorf("create grievance: %w", err)
	}
	return nil
}

// UpdateStatus persists a status transition together with the resolution date.
func (r *GrievanceRepository) UpdateStatus(ctx context.Context, id string, status models.GrievanceStatus, resolvedDate *time.Time) error {
	const query = `UPDATE grievances SET status = $2, resolved_date = $3, updated_at = $4 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status, resolvedDate, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update grievance status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// RecordResponse stores the official response and assigned officer.
func (r *GrievanceRepository) RecordResponse(ctx context.Context, id string, responseText, officer string, status models.GrievanceStatus) error {
	const query = `UPDATE grievances SET response = $2, assigned_officer = $3, status = $4, updated_at = $5 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, responseText, officer, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("record grievance response: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GrievanceCounts aggregates grievance counters for the dashboard.
type GrievanceCounts struct {
	Pending  int `db:"pending"`
	Resolved int `db:"resolved"`
}

// Counts computes dashboard counters in one query. Pending covers pending and
// in-review grievances, the states still awaiting resolution.
func (r *GrievanceRepository) Counts(ctx context.Context) (GrievanceCounts, error) {
	const query = `SELECT
COUNT(*) FILTER (WHERE status IN ('pending', 'in_review')) AS pending,
COUNT(*) FILTER (WHERE status = 'resolved') AS resolved
FROM grievances`
	var counts GrievanceCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return GrievanceCounts{}, fmt.Errorf("count grievances: %w", err)
	}
	return counts, nil
}
