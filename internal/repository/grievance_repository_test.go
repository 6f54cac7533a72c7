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

func newGrievanceRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestGrievanceRepositoryList(t *testing.T) {
	db, mock, cleanup := newGrievanceRepoMock(t)
	defer cleanup()
	repo := NewGrievanceRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "title", "description", "category", "village_id", "citizen_id",
		"citizen_name", "citizen_phone", "status", "priority", "submitted_date",
		"resolved_date", "assigned_officer", "photos", "audio_files", "response",
		"latitude", "longitude", "created_at", "updated_at",
	}).AddRow("1", "Water Supply Disruption", "desc", "Water", "1", "c1",
		"Ramesh Chandra", "+91-9876501234", "pending", "high", time.Now(),
		nil, nil, pq.StringArray{}, pq.StringArray{}, nil,
		26.8470, 80.9465, time.Now(), time.Now())

	mock.ExpectQuery(regexp.QuoteMeta("FROM grievances ORDER BY created_at, id")).
		WillReturnRows(rows)

	grievances, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, grievances, 1)
	assert.Equal(t, models.GrievancePending, grievances[0].Status)
	assert.Nil(t, grievances[0].ResolvedDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGrievanceRepositoryCreateGeneratesID(t *testing.T) {
	db, mock, cleanup := newGrievanceRepoMock(t)
	defer cleanup()
	repo := NewGrievanceRepository(db)

	mock.ExpectExec("INSERT INTO grievances").
		WillReturnResult(sqlmock.NewResult(1, 1))

	grievance := &models.Grievance{
		Title:       "Street Light Not Working",
		Category:    "Electricity",
		VillageID:   "2",
		CitizenName: "Kavita Singh",
		Status:      models.GrievancePending,
		Priority:    models.PriorityMedium,
	}
	require.NoError(t, repo.Create(context.Background(), grievance))
	assert.NotEmpty(t, grievance.ID)
	assert.False(t, grievance.SubmittedDate.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGrievanceRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newGrievanceRepoMock(t)
	defer cleanup()
	repo := NewGrievanceRepository(db)

	resolved := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec("UPDATE grievances SET status").
		WithArgs("3", models.GrievanceResolved, &resolved, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), "3", models.GrievanceResolved, &resolved))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGrievanceRepositoryRecordResponseMissingRow(t *testing.T) {
	db, mock, cleanup := newGrievanceRepoMock(t)
	defer cleanup()
	repo := NewGrievanceRepository(db)

	mock.ExpectExec("UPDATE grievances SET response").
		WithArgs("missing", "text", "Officer", models.GrievanceInReview, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.RecordResponse(context.Background(), "missing", "text", "Officer", models.GrievanceInReview)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGrievanceRepositoryCounts(t *testing.T) {
	db, mock, cleanup := newGrievanceRepoMock(t)
	defer cleanup()
	repo := NewGrievanceRepository(db)

	mock.ExpectQuery("SELECT").
		WillReturnRows(sqlmock.NewRows([]string{"pending", "resolved"}).AddRow(23, 187))

	counts, err := repo.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 23, counts.Pending)
	assert.Equal(t, 187, counts.Resolved)
	assert.NoError(t, mock.ExpectationsWereMet())
}
