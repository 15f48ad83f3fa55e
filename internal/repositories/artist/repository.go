package artist

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/pntechnology/Helianthus/pkg/database"
	"github.com/pntechnology/Helianthus/pkg/models"
	"github.com/pntechnology/Helianthus/pkg/tracing"
)

var columns = []string{"id", "wikidata_id", "name", "created_at", "updated_at"}

// Repository handles artist persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new artist repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// UpsertResult contains the result of an upsert operation
type UpsertResult struct {
	Artist *models.Artist
	IsNew  bool
}

// GetByWikidataID retrieves an artist by its source QID. Returns nil when no
// row exists.
func (r *Repository) GetByWikidataID(ctx context.Context, wikidataID string) (*models.Artist, error) {
	ctx, span := tracing.StartSpan(ctx, "artist.Repository.GetByWikidataID")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("artists")
	sb.Where(sb.Equal("wikidata_id", wikidataID))
	sb.Limit(1)

	query, args := sb.Build()
	var artist models.Artist
	if err := database.Runner(ctx, r.db).GetContext(ctx, &artist, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"wikidata_id": wikidataID}).Error("Failed to get artist by wikidata_id")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get artist")
	}
	return &artist, nil
}

// Upsert creates or updates an artist keyed by wikidata_id. On update the
// latest observed non-null name wins; a nil incoming name never clears a
// stored one.
func (r *Repository) Upsert(ctx context.Context, req models.ArtistUpsert) (*UpsertResult, error) {
	ctx, span := tracing.StartSpan(ctx, "artist.Repository.Upsert")
	defer span.End()

	existing, err := r.GetByWikidataID(ctx, req.WikidataID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	runner := database.Runner(ctx, r.db)

	if existing == nil {
		ib := database.NewInsertBuilder()
		ib.InsertInto("artists")
		ib.Cols("wikidata_id", "name", "created_at", "updated_at")
		ib.Values(req.WikidataID, req.Name, now, now)

		query, args := ib.Build()
		if _, err := runner.ExecContext(ctx, query, args...); err != nil {
			r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"wikidata_id": req.WikidataID}).Error("Failed to insert artist")
			return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to insert artist")
		}

		created, err := r.GetByWikidataID(ctx, req.WikidataID)
		if err != nil {
			return nil, err
		}
		r.logger.WithContext(ctx).WithFields(map[string]any{"wikidata_id": req.WikidataID}).Info("Created artist")
		return &UpsertResult{Artist: created, IsNew: true}, nil
	}

	if req.Name == nil || (existing.Name != nil && *existing.Name == *req.Name) {
		return &UpsertResult{Artist: existing, IsNew: false}, nil
	}

	ub := database.NewUpdateBuilder()
	ub.Update("artists")
	ub.Set(ub.Assign("name", req.Name), ub.Assign("updated_at", now))
	ub.Where(ub.Equal("id", existing.ID))

	query, args := ub.Build()
	if _, err := runner.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"wikidata_id": req.WikidataID}).Error("Failed to update artist")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update artist")
	}

	existing.Name = req.Name
	existing.UpdatedAt = now
	return &UpsertResult{Artist: existing, IsNew: false}, nil
}
