package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pm-ajay/adarsh-gram-api/internal/models"
)

const projectColumns = `id, title, description, category, village_id, status, budget, spent_amount, start_date, expected_end_date, completion_date, assigned_officer, documents, photos, progress, created_at, updated_at`

// ProjectRepository provides database access to development projects.
type ProjectRepository struct {
	db *sqlx.DB
}

// NewProjectRepository creates a new instance of ProjectRepository.
func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// List returns every project in register order.
func (r *ProjectRepository) List(ctx context.Context) ([]models.Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM projects ORDER BY created_at, id`, projectColumns)
	var projects []models.Project
	if err := r.db.SelectContext(ctx, &projects, query); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// FindByID returns a single project.
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*models.Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM projects WHERE id = $1 LIMIT 1`, projectColumns)
	var project models.Project
	if err := r.db.GetContext(ctx, &project, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find project by id: %w", err)
	}
	return &project, nil
}

// UpdateProgress persists a progress/status transition.
func (r *ProjectRepository) UpdateProgress(ctx context.Context, id string, progress int, status models.ProjectStatus, completionDate *time.Time) error {
	const query = `UPDATE projects SET progress = $2, status = $3, completion_date = $4, updated_at = $5 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, progress, status, completionDate, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update project progress: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ProjectCounts aggregates project counters for the dashboard.
type ProjectCounts struct {
	Active      int   `db:"active"`
	Completed   int   `db:"completed"`
	TotalBudget int64 `db:"total_budget"`
	TotalSpent  int64 `db:"total_spent"`
}

// Counts computes dashboard counters in one query. Active covers approved and
// in-progress projects; proposed projects are excluded from the rate base.
func (r *ProjectRepository) Counts(ctx context.Context) (ProjectCounts, error) {
	const query = `SELECT
COUNT(*) FILTER (WHERE status IN ('approved', 'in_progress')) AS active,
COUNT(*) FILTER (WHERE status = 'completed') AS completed,
COALESCE(SUM(budget), 0) AS total_budget,
COALESCE(SUM(spent_amount), 0) AS total_spent
FROM projects`
	var counts ProjectCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return ProjectCounts{}, fmt.Errorf("count projects: %w", err)
	}
	return counts, nil
}

// CountByStatus groups projects by lifecycle state for the public portal.
func (r *ProjectRepository) CountByStatus(ctx context.Context) (map[models.ProjectStatus]int, error) {
	const query = `SELECT status, COUNT(*) AS count FROM projects GROUP BY status`
	rows := []struct {
		Status models.ProjectStatus `db:"status"`
		Count  int                  `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count projects by status: %w", err)
	}
	result := make(map[models.ProjectStatus]int, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Count
	}
	return result, nil
}
