package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pm-ajay/adarsh-gram-api/internal/models"
)

func newProjectRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestProjectRepositoryList(t *testing.T) {
	db, mock, cleanup := newProjectRepoMock(t)
	defer cleanup()
	repo := NewProjectRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "title", "description", "category", "village_id", "status", "budget",
		"spent_amount", "start_date", "expected_end_date", "completion_date",
		"assigned_officer", "documents", "photos", "progress", "created_at", "updated_at",
	}).AddRow("1", "Primary Health Center Construction", "desc", "Health", "1",
		"in_progress", int64(5000000), int64(3200000), time.Now(), time.Now(), nil,
		"Dr. Ramesh Gupta", pq.StringArray{}, pq.StringArray{}, 65, time.Now(), time.Now())

	mock.ExpectQuery(regexp.QuoteMeta("FROM projects ORDER BY created_at, id")).
		WillReturnRows(rows)

	projects, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, models.ProjectInProgress, projects[0].Status)
	assert.Equal(t, 65, projects[0].Progress)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepositoryUpdateProgress(t *testing.T) {
	db, mock, cleanup := newProjectRepoMock(t)
	defer cleanup()
	repo := NewProjectRepository(db)

	completion := time.Date(2024, 2, 25, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec("UPDATE projects SET progress").
		WithArgs("3", 100, models.ProjectCompleted, &completion, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateProgress(context.Background(), "3", 100, models.ProjectCompleted, &completion)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepositoryUpdateProgressMissingRow(t *testing.T) {
	db, mock, cleanup := newProjectRepoMock(t)
	defer cleanup()
	repo := NewProjectRepository(db)

	mock.ExpectExec("UPDATE projects SET progress").
		WithArgs("missing", 10, models.ProjectInProgress, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateProgress(context.Background(), "missing", 10, models.ProjectInProgress, nil)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepositoryCounts(t *testing.T) {
	db, mock, cleanup := newProjectRepoMock(t)
	defer cleanup()
	repo := NewProjectRepository(db)

	mock.ExpectQuery("SELECT").
		WillReturnRows(sqlmock.NewRows([]string{"active", "completed", "total_budget", "total_spent"}).
			AddRow(45, 128, int64(1000), int64(846)))

	counts, err := repo.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 45, counts.Active)
	assert.Equal(t, 128, counts.Completed)
	assert.Equal(t, int64(846), counts.TotalSpent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepositoryCountByStatus(t *testing.T) {
	db, mock, cleanup := newProjectRepoMock(t)
	defer cleanup()
	repo := NewProjectRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT status, COUNT(*) AS count FROM projects GROUP BY status")).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("in_progress", 30).
			AddRow("completed", 128))

	byStatus, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30, byStatus[models.ProjectInProgress])
	assert.Equal(t, 128, byStatus[models.ProjectCompleted])
	assert.NoError(t, mock.ExpectationsWereMet())
}
