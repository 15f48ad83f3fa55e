package painting

import (
	"context"
	"net/http"
	"os"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pntechnology/Helianthus/internal/repositories/artist"
	"github.com/pntechnology/Helianthus/internal/repositories/location"
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

func intPtr(v int) *int {
	return &v
}

func createTestArtist(t *testing.T, db database.DB) *models.Artist {
	t.Helper()
	result, err := artist.NewRepository(db, getTestLogger()).Upsert(context.Background(), models.ArtistUpsert{
		WikidataID: "Q5582",
		Name:       strPtr("Vincent van Gogh"),
	})
	require.NoError(t, err)
	return result.Artist
}

func TestUpsertCreates(t *testing.T) {
	db := getTestDB(t)
	a := createTestArtist(t, db)
	repo := NewRepository(db, getTestLogger())

	result, err := repo.Upsert(context.Background(), models.PaintingUpsert{
		WikidataID: "Q474300",
		Title:      strPtr("The Starry Night"),
		Year:       intPtr(1889),
		ArtistID:   a.ID,
	})
	require.NoError(t, err)
	assert.True(t, result.IsNew)
	assert.Equal(t, a.ID, result.Painting.ArtistID)
	assert.Nil(t, result.Painting.LocationID)
}

func TestUpsertLatestNonNullWins(t *testing.T) {
	db := getTestDB(t)
	a := createTestArtist(t, db)
	repo := NewRepository(db, getTestLogger())
	ctx := context.Background()

	created, err := repo.Upsert(ctx, models.PaintingUpsert{WikidataID: "Q474300", ArtistID: a.ID})
	require.NoError(t, err)
	assert.True(t, created.IsNew)
	assert.Nil(t, created.Painting.Title)

	filled, err := repo.Upsert(ctx, models.PaintingUpsert{
		WikidataID: "Q474300",
		Title:      strPtr("The Starry Night"),
		Year:       intPtr(1889),
		ArtistID:   a.ID,
	})
	require.NoError(t, err)
	assert.False(t, filled.IsNew)
	assert.Equal(t, "The Starry Night", *filled.Painting.Title)
	assert.Equal(t, 1889, *filled.Painting.Year)

	// nil values never clear stored ones
	retained, err := repo.Upsert(ctx, models.PaintingUpsert{WikidataID: "Q474300", ArtistID: a.ID})
	require.NoError(t, err)
	require.NotNil(t, retained.Painting.Title)
	assert.Equal(t, "The Starry Night", *retained.Painting.Title)
	assert.Equal(t, 1889, *retained.Painting.Year)
}

func TestListWithoutLocationAndAttach(t *testing.T) {
	db := getTestDB(t)
	a := createTestArtist(t, db)
	repo := NewRepository(db, getTestLogger())
	ctx := context.Background()

	first, err := repo.Upsert(ctx, models.PaintingUpsert{WikidataID: "Q474300", ArtistID: a.ID})
	require.NoError(t, err)
	second, err := repo.Upsert(ctx, models.PaintingUpsert{WikidataID: "Q45585", ArtistID: a.ID})
	require.NoError(t, err)

	unlocated, err := repo.ListWithoutLocation(ctx)
	require.NoError(t, err)
	require.Len(t, unlocated, 2)
	assert.Equal(t, first.Painting.ID, unlocated[0].ID)
	assert.Equal(t, second.Painting.ID, unlocated[1].ID)

	locationResult, err := location.NewRepository(db, getTestLogger()).Upsert(ctx, models.LocationUpsert{
		WikidataID: strPtr("Q19675"),
		Name:       strPtr("Louvre"),
	})
	require.NoError(t, err)

	require.NoError(t, repo.AttachLocation(ctx, first.Painting.ID, locationResult.Location.ID))

	unlocated, err = repo.ListWithoutLocation(ctx)
	require.NoError(t, err)
	require.Len(t, unlocated, 1)
	assert.Equal(t, second.Painting.ID, unlocated[0].ID)

	located, err := repo.GetByWikidataID(ctx, "Q474300")
	require.NoError(t, err)
	require.NotNil(t, located.LocationID)
	assert.Equal(t, locationResult.Location.ID, *located.LocationID)
}

func TestAttachLocationMissingPainting(t *testing.T) {
	db := getTestDB(t)
	repo := NewRepository(db, getTestLogger())

	err := repo.AttachLocation(context.Background(), 9999, 1)
	require.Error(t, err)
	assert.True(t, httperror.IsHTTPError(err))
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
}
