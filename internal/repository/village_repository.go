package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/pm-ajay/adarsh-gram-api/internal/models"
)

const villageColumns = `id, name, state, district, block, population, sc_percentage, latitude, longitude, infrastructure, satisfaction_score, priority_index, onboarded, created_at`

// VillageRepository provides read access to the village register.
type VillageRepository struct {
	db *sqlx.DB
}

// NewVillageRepository creates a new instance of VillageRepository.
func NewVillageRepository(db *sqlx.DB) *VillageRepository {
	return &VillageRepository{db: db}
}

// List returns every village in register order. Filtering happens in the
// service layer so list views stay an order-preserving subsequence of the
// register.
func (r *VillageRepository) List(ctx context.Context) ([]models.Village, error) {
	query := fmt.Sprintf(`SELECT %s FROM villages ORDER BY created_at, id`, villageColumns)
	var villages []models.Village
	if err := r.db.SelectContext(ctx, &villages, query); err != nil {
		return nil, fmt.Errorf("list villages: %w", err)
	}
	return villages, nil
}

// FindByID returns a single village.
func (r *VillageRepository) FindByID(ctx context.Context, id string) (*models.Village, error) {
	query := fmt.Sprintf(`SELECT %s FROM villages WHERE id = $1 LIMIT 1`, villageColumns)
	var village models.Village
	if err := r.db.GetContext(ctx, &village, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find village by id: %w", err)
	}
	return &village, nil
}

// NameByID resolves a village id to its display name.
func (r *VillageRepository) NameByID(ctx context.Context, id string) (string, error) {
	const query = `SELECT name FROM villages WHERE id = $1 LIMIT 1`
	var name string
	if err := r.db.GetContext(ctx, &name, query, id); err != nil {
		if err == sql.ErrNoRows {
			return "", err
		}
		return "", fmt.Errorf("resolve village name: %w", err)
	}
	return name, nil
}

// NamesByIDs resolves a batch of village ids to display names in a single
// query. Ids without a matching village are simply absent from the result.
func (r *VillageRepository) NamesByIDs(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	const query = `SELECT id, name FROM villages WHERE id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("resolve village names: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("resolve village names: %w", err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("resolve village names: %w", err)
	}
	return names, nil
}

// VillageCounts aggregates register-wide counters for the dashboard.
type VillageCounts struct {
	Total               int     `db:"total"`
	Onboarded           int     `db:"onboarded"`
	AverageSatisfaction float64 `db:"average_satisfaction"`
}

// Counts computes total, onboarded, and mean satisfaction in one query.
func (r *VillageRepository) Counts(ctx context.Context) (VillageCounts, error) {
	const query = `SELECT COUNT(*) AS total,
COUNT(*) FILTER (WHERE onboarded) AS onboarded,
COALESCE(AVG(satisfaction_score), 0) AS average_satisfaction
FROM villages`
	var counts VillageCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return VillageCounts{}, fmt.Errorf("count villages: %w", err)
	}
	return counts, nil
}
