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
)

func newVillageRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func villageRow() *sqlmock.Rows {
	infra := []byte(`{"education":{"available":true,"functional":true,"under_construction":false,"quality":"good"}}`)
	return sqlmock.NewRows([]string{
		"id", "name", "state", "district", "block", "population", "sc_percentage",
		"latitude", "longitude", "infrastructure", "satisfaction_score",
		"priority_index", "onboarded", "created_at",
	}).AddRow("1", "Rampur", "Uttar Pradesh", "Lucknow", "Sarojininagar", 2500, 65.5,
		26.8467, 80.9462, infra, 7.2, 8.5, true, time.Now())
}

func TestVillageRepositoryList(t *testing.T) {
	db, mock, cleanup := newVillageRepoMock(t)
	defer cleanup()
	repo := NewVillageRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM villages ORDER BY created_at, id")).
		WillReturnRows(villageRow())

	villages, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, villages, 1)
	assert.Equal(t, "Rampur", villages[0].Name)
	assert.True(t, villages[0].Infrastructure.Education.Functional)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVillageRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newVillageRepoMock(t)
	defer cleanup()
	repo := NewVillageRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM villages WHERE id = $1 LIMIT 1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVillageRepositoryCounts(t *testing.T) {
	db, mock, cleanup := newVillageRepoMock(t)
	defer cleanup()
	repo := NewVillageRepository(db)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"total", "onboarded", "average_satisfaction"}).
			AddRow(125, 98, 7.4))

	counts, err := repo.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 125, counts.Total)
	assert.Equal(t, 98, counts.Onboarded)
	assert.InDelta(t, 7.4, counts.AverageSatisfaction, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVillageRepositoryNameByID(t *testing.T) {
	db, mock, cleanup := newVillageRepoMock(t)
	defer cleanup()
	repo := NewVillageRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT name FROM villages WHERE id = $1 LIMIT 1")).
		WithArgs("1").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Rampur"))

	name, err := repo.NameByID(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Rampur", name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVillageRepositoryNamesByIDs(t *testing.T) {
	db, mock, cleanup := newVillageRepoMock(t)
	defer cleanup()
	repo := NewVillageRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM villages WHERE id = ANY($1)")).
		WithArgs(pq.Array([]string{"1", "2", "99"})).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow("1", "Rampur").
			AddRow("2", "Shivpur"))

	names, err := repo.NamesByIDs(context.Background(), []string{"1", "2", "99"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"1": "Rampur", "2": "Shivpur"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVillageRepositoryNamesByIDsEmpty(t *testing.T) {
	db, mock, cleanup := newVillageRepoMock(t)
	defer cleanup()
	repo := NewVillageRepository(db)

	names, err := repo.NamesByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}
