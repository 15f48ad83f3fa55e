package location

import (
	"context"
	"os"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pntechnology/Helianthus/pkg/database"
	"github.com/pntechnology/Helianthus/pkg/models"
)

func getTestLogger() ectologger.Logger {
	zapLogger, _ := zap.NewDevelopment()
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

func getTestDB(t *testing.T) database.DB {
	t.Helper()
	sqlxDB, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	sqlxDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlxDB.Close() })

	schema, err := os.ReadFile("../../../db/sqlite3/0001_init.up.sql")
	require.NoError(t, err)
	_, err = sqlxDB.Exec(string(schema))
	require.NoError(t, err)

	return database.NewDatabaseInstance(sqlxDB, getTestLogger())
}

func strPtr(v string) *string {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}

func TestUpsertCreates(t *testing.T) {
	repo := NewRepository(getTestDB(t), getTestLogger())

	result, err := repo.Upsert(context.Background(), models.LocationUpsert{
		WikidataID: strPtr("Q19675"),
		Name:       strPtr("Louvre"),
		Latitude:   floatPtr(48.86),
		Longitude:  floatPtr(2.34),
	})
	require.NoError(t, err)
	assert.True(t, result.IsNew)
	require.NotNil(t, result.Location)
	assert.NotZero(t, result.Location.ID)
	assert.Equal(t, "Louvre", *result.Location.Name)
	assert.Equal(t, 48.86, *result.Location.Latitude)
	assert.Equal(t, 2.34, *result.Location.Longitude)
}

func TestUpsertCoordinatesFillOnce(t *testing.T) {
	repo := NewRepository(getTestDB(t), getTestLogger())
	ctx := context.Background()

	created, err := repo.Upsert(ctx, models.LocationUpsert{WikidataID: strPtr("Q190804")})
	require.NoError(t, err)
	assert.True(t, created.IsNew)
	assert.Nil(t, created.Location.Latitude)

	// first observed position fills the empty slot
	filled, err := repo.Upsert(ctx, models.LocationUpsert{
		WikidataID: strPtr("Q190804"),
		Latitude:   floatPtr(59.94),
		Longitude:  floatPtr(30.31),
	})
	require.NoError(t, err)
	assert.False(t, filled.IsNew)
	assert.Equal(t, 59.94, *filled.Location.Latitude)
	assert.Equal(t, 30.31, *filled.Location.Longitude)

	// a later position never overwrites it
	unchanged, err := repo.Upsert(ctx, models.LocationUpsert{
		WikidataID: strPtr("Q190804"),
		Latitude:   floatPtr(0),
		Longitude:  floatPtr(0),
	})
	require.NoError(t, err)

	stored, err := repo.GetByWikidataID(ctx, "Q190804")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 59.94, *stored.Latitude)
	assert.Equal(t, 30.31, *stored.Longitude)
	assert.Equal(t, 59.94, *unchanged.Location.Latitude)
}

func TestUpsertLatestNonNullNameWins(t *testing.T) {
	repo := NewRepository(getTestDB(t), getTestLogger())
	ctx := context.Background()

	_, err := repo.Upsert(ctx, models.LocationUpsert{WikidataID: strPtr("Q19675"), Name: strPtr("Louvre Museum")})
	require.NoError(t, err)

	updated, err := repo.Upsert(ctx, models.LocationUpsert{WikidataID: strPtr("Q19675"), Name: strPtr("Louvre")})
	require.NoError(t, err)
	assert.Equal(t, "Louvre", *updated.Location.Name)

	retained, err := repo.Upsert(ctx, models.LocationUpsert{WikidataID: strPtr("Q19675")})
	require.NoError(t, err)
	require.NotNil(t, retained.Location.Name)
	assert.Equal(t, "Louvre", *retained.Location.Name)
}

func TestGetByWikidataIDMissing(t *testing.T) {
	repo := NewRepository(getTestDB(t), getTestLogger())

	location, err := repo.GetByWikidataID(context.Background(), "Q19675")
	require.NoError(t, err)
	assert.Nil(t, location)
}
