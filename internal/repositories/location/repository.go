package location

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

var columns = []string{"id", "wikidata_id", "name", "latitude", "longitude", "created_at", "updated_at"}

// Repository handles location persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new location repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// UpsertResult contains the result of an upsert operation
type UpsertResult struct {
	Location *models.Location
	IsNew    bool
}

// GetByWikidataID retrieves a location by its source QID. Returns nil when no
// row exists.
func (r *Repository) GetByWikidataID(ctx context.Context, wikidataID string) (*models.Location, error) {
	ctx, span := tracing.StartSpan(ctx, "location.Repository.GetByWikidataID")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("locations")
	sb.Where(sb.Equal("wikidata_id", wikidataID))
	sb.Limit(1)

	query, args := sb.Build()
	var location models.Location
	if err := database.Runner(ctx, r.db).GetContext(ctx, &location, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"wikidata_id": wikidataID}).Error("Failed to get location by wikidata_id")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get location")
	}
	return &location, nil
}

// Upsert creates or updates a location keyed by wikidata_id. The latest
// observed non-null name wins. Coordinates fill once: they are written only
// when the stored row has none, so a resolved position is never overwritten
// by a later read.
func (r *Repository) Upsert(ctx context.Context, req models.LocationUpsert) (*UpsertResult, error) {
	ctx, span := tracing.StartSpan(ctx, "location.Repository.Upsert")
	defer span.End()

	var existing *models.Location
	if req.WikidataID != nil {
		var err error
		existing, err = r.GetByWikidataID(ctx, *req.WikidataID)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	runner := database.Runner(ctx, r.db)

	if existing == nil {
		return r.insert(ctx, runner, req, now)
	}

	assignments := []string{}
	ub := database.NewUpdateBuilder()
	if req.Name != nil && (existing.Name == nil || *existing.Name != *req.Name) {
		assignments = append(assignments, ub.Assign("name", req.Name))
		existing.Name = req.Name
	}
	if existing.Latitude == nil && existing.Longitude == nil && req.Latitude != nil && req.Longitude != nil {
		assignments = append(assignments, ub.Assign("latitude", req.Latitude), ub.Assign("longitude", req.Longitude))
		existing.Latitude = req.Latitude
		existing.Longitude = req.Longitude
	}

	if len(assignments) == 0 {
		return &UpsertResult{Location: existing, IsNew: false}, nil
	}

	assignments = append(assignments, ub.Assign("updated_at", now))
	ub.Update("locations")
	ub.Set(assignments...)
	ub.Where(ub.Equal("id", existing.ID))

	query, args := ub.Build()
	if _, err := runner.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id": existing.ID}).Error("Failed to update location")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update location")
	}

	existing.UpdatedAt = now
	return &UpsertResult{Location: existing, IsNew: false}, nil
}

func (r *Repository) insert(ctx context.Context, runner database.Queryer, req models.LocationUpsert, now time.Time) (*UpsertResult, error) {
	ib := database.NewInsertBuilder()
	ib.InsertInto("locations")
	ib.Cols("wikidata_id", "name", "latitude", "longitude", "created_at", "updated_at")
	ib.Values(req.WikidataID, req.Name, req.Latitude, req.Longitude, now, now)

	query, args := ib.Build()
	if _, err := runner.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"wikidata_id": req.WikidataID}).Error("Failed to insert location")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to insert location")
	}

	if req.WikidataID == nil {
		// Without a source identifier there is nothing to re-select by.
		return &UpsertResult{
			Location: &models.Location{
				Name:      req.Name,
				Latitude:  req.Latitude,
				Longitude: req.Longitude,
				CreatedAt: now,
				UpdatedAt: now,
			},
			IsNew: true,
		}, nil
	}

	created, err := r.GetByWikidataID(ctx, *req.WikidataID)
	if err != nil {
		return nil, err
	}
	r.logger.WithContext(ctx).WithFields(map[string]any{"wikidata_id": *req.WikidataID}).Info("Created location")
	return &UpsertResult{Location: created, IsNew: true}, nil
}
