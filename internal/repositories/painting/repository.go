package painting

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

var columns = []string{"id", "wikidata_id", "title", "year", "artist_id", "location_id", "created_at", "updated_at"}

// Repository handles painting persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new painting repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// UpsertResult contains the result of an upsert operation
type UpsertResult struct {
	Painting *models.Painting
	IsNew    bool
}

// GetByWikidataID retrieves a painting by its source QID. Returns nil when no
// row exists.
func (r *Repository) GetByWikidataID(ctx context.Context, wikidataID string) (*models.Painting, error) {
	ctx, span := tracing.StartSpan(ctx, "painting.Repository.GetByWikidataID")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("paintings")
	sb.Where(sb.Equal("wikidata_id", wikidataID))
	sb.Limit(1)

	query, args := sb.Build()
	var painting models.Painting
	if err := database.Runner(ctx, r.db).GetContext(ctx, &painting, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"wikidata_id": wikidataID}).Error("Failed to get painting by wikidata_id")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get painting")
	}
	return &painting, nil
}

// Upsert creates or updates a painting keyed by wikidata_id. On update the
// latest observed non-null title and year win; nil incoming values never
// clear stored ones. The artist link is set on insert and never reassigned.
func (r *Repository) Upsert(ctx context.Context, req models.PaintingUpsert) (*UpsertResult, error) {
	ctx, span := tracing.StartSpan(ctx, "painting.Repository.Upsert")
	defer span.End()

	existing, err := r.GetByWikidataID(ctx, req.WikidataID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	runner := database.Runner(ctx, r.db)

	if existing == nil {
		ib := database.NewInsertBuilder()
		ib.InsertInto("paintings")
		ib.Cols("wikidata_id", "title", "year", "artist_id", "created_at", "updated_at")
		ib.Values(req.WikidataID, req.Title, req.Year, req.ArtistID, now, now)

		query, args := ib.Build()
		if _, err := runner.ExecContext(ctx, query, args...); err != nil {
			r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"wikidata_id": req.WikidataID}).Error("Failed to insert painting")
			return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to insert painting")
		}

		created, err := r.GetByWikidataID(ctx, req.WikidataID)
		if err != nil {
			return nil, err
		}
		r.logger.WithContext(ctx).WithFields(map[string]any{"wikidata_id": req.WikidataID}).Info("Created painting")
		return &UpsertResult{Painting: created, IsNew: true}, nil
	}

	assignments := []string{}
	ub := database.NewUpdateBuilder()
	if req.Title != nil && (existing.Title == nil || *existing.Title != *req.Title) {
		assignments = append(assignments, ub.Assign("title", req.Title))
		existing.Title = req.Title
	}
	if req.Year != nil && (existing.Year == nil || *existing.Year != *req.Year) {
		assignments = append(assignments, ub.Assign("year", req.Year))
		existing.Year = req.Year
	}

	if len(assignments) == 0 {
		return &UpsertResult{Painting: existing, IsNew: false}, nil
	}

	assignments = append(assignments, ub.Assign("updated_at", now))
	ub.Update("paintings")
	ub.Set(assignments...)
	ub.Where(ub.Equal("id", existing.ID))

	query, args := ub.Build()
	if _, err := runner.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"wikidata_id": req.WikidataID}).Error("Failed to update painting")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update painting")
	}

	existing.UpdatedAt = now
	return &UpsertResult{Painting: existing, IsNew: false}, nil
}

// ListWithoutLocation returns paintings that have no location link yet, in
// insertion order.
func (r *Repository) ListWithoutLocation(ctx context.Context) ([]models.Painting, error) {
	ctx, span := tracing.StartSpan(ctx, "painting.Repository.ListWithoutLocation")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("paintings")
	sb.Where(sb.IsNull("location_id"))
	sb.OrderBy("id")

	query, args := sb.Build()
	var paintings []models.Painting
	if err := database.Runner(ctx, r.db).SelectContext(ctx, &paintings, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list paintings without location")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list paintings")
	}
	return paintings, nil
}

// AttachLocation links a painting to a location.
func (r *Repository) AttachLocation(ctx context.Context, paintingID, locationID int64) error {
	ctx, span := tracing.StartSpan(ctx, "painting.Repository.AttachLocation")
	defer span.End()

	now := time.Now().UTC()
	ub := database.NewUpdateBuilder()
	ub.Update("paintings")
	ub.Set(ub.Assign("location_id", locationID), ub.Assign("updated_at", now))
	ub.Where(ub.Equal("id", paintingID))

	query, args := ub.Build()
	result, err := database.Runner(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"painting_id": paintingID, "location_id": locationID}).Error("Failed to attach location to painting")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to attach location")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "painting %d not found", paintingID)
	}
	return nil
}
