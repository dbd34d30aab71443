package repository_test

import (
	"log/slog"
	"regexp"
	"testing"

	"github.com/UnknownOlympus/clinicgeo/internal/models"
	"github.com/UnknownOlympus/clinicgeo/internal/repository"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func upsertMatcher() string {
	return regexp.QuoteMeta("INSERT INTO clinic_geocodes (name, address, latitude, longitude, place_id, updated_at)")
}

func TestEnsureSchema(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()

	t.Run("error - create table", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS clinic_geocodes")).
			WillReturnError(assert.AnError)

		err = repo.EnsureSchema(ctx)

		require.Error(t, err)
		require.ErrorContains(t, err, "failed to create clinic_geocodes table")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - create table", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS clinic_geocodes")).
			WillReturnResult(pgxmock.NewResult("CREATE", 0))

		require.NoError(t, repo.EnsureSchema(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSaveGeocodes(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()

	rows := []*models.Row{
		{Line: 1, Name: "Klinik A", Address: "Jalan 1", Lat: ptr(3.1), Lng: ptr(101.6), PlaceID: "ChIJa"},
		{Line: 2, Name: "Klinik B", Address: ""},
		{Line: 3, Name: "Klinik C", Address: "Jalan 3", Lat: ptr(5.4), Lng: ptr(100.3)},
	}

	t.Run("success - rows without coordinates are skipped", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectExec(upsertMatcher()).
			WithArgs("Klinik A", "Jalan 1", 3.1, 101.6, ptr("ChIJa")).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(upsertMatcher()).
			WithArgs("Klinik C", "Jalan 3", 5.4, 100.3, pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		saved, err := repo.SaveGeocodes(ctx, rows)

		require.NoError(t, err)
		assert.Equal(t, 2, saved)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - upsert stops at first failure", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectExec(upsertMatcher()).
			WithArgs("Klinik A", "Jalan 1", 3.1, 101.6, ptr("ChIJa")).
			WillReturnError(assert.AnError)

		saved, err := repo.SaveGeocodes(ctx, rows)

		require.Error(t, err)
		require.ErrorContains(t, err, "failed to upsert geocode for row 1")
		require.ErrorIs(t, err, assert.AnError)
		assert.Zero(t, saved)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - nothing to save", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		saved, err := repo.SaveGeocodes(ctx, []*models.Row{{Line: 1, Name: "x"}})

		require.NoError(t, err)
		assert.Zero(t, saved)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewRepository(mock, slog.Default())

	mock.ExpectPing().WillReturnError(assert.AnError)

	require.ErrorIs(t, repo.Ping(t.Context()), assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}
