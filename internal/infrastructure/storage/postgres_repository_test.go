package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ShopifySEO/internal/domain"
)

func TestSaveRun(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec(`INSERT INTO seo_runs`).
		WithArgs("in.csv", "out.csv", 10, 7, 5, int64(1500), true, "", created).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewPostgresRepository(db)
	err = repo.SaveRun(context.Background(), domain.RunRecord{
		InputFile:      "in.csv",
		OutputFile:     "out.csv",
		TotalProducts:  10,
		ActiveProducts: 7,
		EditedTitles:   5,
		Duration:       1500 * time.Millisecond,
		Success:        true,
		CreatedAt:      created,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentRuns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"input_file", "output_file", "total_products", "active_products",
		"edited_titles", "duration_ms", "success", "error_message", "created_at",
	}).AddRow("in.csv", "out.csv", 10, 7, 5, int64(1500), true, "", created)

	mock.ExpectQuery(`SELECT .+ FROM seo_runs ORDER BY created_at DESC LIMIT 5`).
		WillReturnRows(rows)

	repo := NewPostgresRepository(db)
	runs, err := repo.RecentRuns(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	assert.Equal(t, "in.csv", runs[0].InputFile)
	assert.Equal(t, 5, runs[0].EditedTitles)
	assert.Equal(t, 1500*time.Millisecond, runs[0].Duration)
	assert.NoError(t, mock.ExpectationsWereMet())
}
