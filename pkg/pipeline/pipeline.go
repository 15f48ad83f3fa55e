package pipeline

import (
	"context"
	"regexp"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"github.com/pntechnology/Helianthus/internal/repositories/artist"
	"github.com/pntechnology/Helianthus/internal/repositories/location"
	"github.com/pntechnology/Helianthus/internal/repositories/painting"
	"github.com/pntechnology/Helianthus/pkg/database"
	apperrors "github.com/pntechnology/Helianthus/pkg/errors"
	"github.com/pntechnology/Helianthus/pkg/models"
	"github.com/pntechnology/Helianthus/pkg/tracing"
	"github.com/pntechnology/Helianthus/pkg/wikidata"
)

var qidPattern = regexp.MustCompile(`^Q[1-9][0-9]*$`)

// RunRequest is a single ingest run: one artist, one row cap.
type RunRequest struct {
	ArtistQID string `json:"artist_qid" validate:"required"`
	Limit     int    `json:"limit" validate:"required,gt=0"`
}

// Result holds the counters reported at the end of a run.
type Result struct {
	ArtistQID         string  `json:"artist_qid"`
	ArtistName        *string `json:"artist_name,omitempty"`
	PaintingsSeen     int     `json:"paintings_seen"`
	PaintingsInserted int     `json:"paintings_inserted"`
	PaintingsUpdated  int     `json:"paintings_updated"`
	LocationsResolved int     `json:"locations_resolved"`
	LocationsMissing  int     `json:"locations_missing"`
}

// Config holds pipeline behavior settings.
type Config struct {
	EnrichmentPacing time.Duration
	ValidatePainter  bool
}

// Service runs the two-phase ingest: collect paintings for an artist, then
// resolve a holding location for each painting that has none.
type Service struct {
	config    Config
	db        database.DB
	source    *wikidata.Client
	artists   *artist.Repository
	locations *location.Repository
	paintings *painting.Repository
	validate  *validator.Validate
	logger    ectologger.Logger
}

func NewService(
	config Config,
	db database.DB,
	source *wikidata.Client,
	artists *artist.Repository,
	locations *location.Repository,
	paintings *painting.Repository,
	logger ectologger.Logger,
) *Service {
	return &Service{
		config:    config,
		db:        db,
		source:    source,
		artists:   artists,
		locations: locations,
		paintings: paintings,
		validate:  validator.New(),
		logger:    logger,
	}
}

// Run executes a full ingest run for one artist and returns its counters.
// Counters accumulated before a failure are returned alongside the error.
func (s *Service) Run(ctx context.Context, req RunRequest) (*Result, error) {
	ctx, span := tracing.StartSpan(ctx, "pipeline.Service.Run")
	defer span.End()

	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.NewValidationErrorf("invalid run request: %v", err)
	}
	if !qidPattern.MatchString(req.ArtistQID) {
		return nil, apperrors.NewValidationErrorf("%q is not a valid entity identifier", req.ArtistQID).AddField("artist")
	}

	result := &Result{ArtistQID: req.ArtistQID}
	log := s.logger.WithContext(ctx).WithFields(map[string]any{"artist_qid": req.ArtistQID})

	if s.config.ValidatePainter {
		isPainter, err := s.source.IsPainter(ctx, req.ArtistQID)
		if err != nil {
			return result, err
		}
		if !isPainter {
			return result, apperrors.NewValidationErrorf("entity %s does not have the painter occupation", req.ArtistQID).AddField("artist")
		}
	}

	if err := s.ingest(ctx, req, result); err != nil {
		return result, err
	}
	log.WithFields(map[string]any{
		"seen":     result.PaintingsSeen,
		"inserted": result.PaintingsInserted,
		"updated":  result.PaintingsUpdated,
	}).Info("Painting ingest complete")

	if err := s.enrich(ctx, result); err != nil {
		return result, err
	}
	log.WithFields(map[string]any{
		"resolved": result.LocationsResolved,
		"missing":  result.LocationsMissing,
	}).Info("Location enrichment complete")

	return result, nil
}

// ingest reads the artist and their paintings from the source and writes them
// in one transaction, so a mid-run failure leaves no partial batch behind.
func (s *Service) ingest(ctx context.Context, req RunRequest, result *Result) error {
	ctx, span := tracing.StartSpan(ctx, "pipeline.Service.ingest")
	defer span.End()

	// the label side query only runs for artists we have never stored
	existing, err := s.artists.GetByWikidataID(ctx, req.ArtistQID)
	if err != nil {
		return err
	}
	var name *string
	if existing != nil {
		name = existing.Name
	} else {
		name, err = s.source.ArtistLabel(ctx, req.ArtistQID)
		if err != nil {
			return err
		}
	}
	result.ArtistName = name

	rows, err := s.source.PaintingsByCreator(ctx, req.ArtistQID, req.Limit)
	if err != nil {
		return err
	}
	result.PaintingsSeen = len(rows)

	txCtx, tx, err := s.db.GetTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback(txCtx)

	artistResult, err := s.artists.Upsert(txCtx, models.ArtistUpsert{
		WikidataID: req.ArtistQID,
		Name:       name,
	})
	if err != nil {
		return err
	}

	for _, row := range rows {
		upsert, err := s.paintings.Upsert(txCtx, models.PaintingUpsert{
			WikidataID: row.QID,
			Title:      row.Title,
			Year:       row.Year,
			ArtistID:   artistResult.Artist.ID,
		})
		if err != nil {
			return err
		}
		if upsert.IsNew {
			result.PaintingsInserted++
		} else {
			result.PaintingsUpdated++
		}
	}

	return tx.Commit(txCtx)
}

// enrich resolves a holding location for every unlocated painting, committing
// each painting separately so completed work survives a later failure. A fixed
// delay separates consecutive source queries.
func (s *Service) enrich(ctx context.Context, result *Result) error {
	ctx, span := tracing.StartSpan(ctx, "pipeline.Service.enrich")
	defer span.End()

	unlocated, err := s.paintings.ListWithoutLocation(ctx)
	if err != nil {
		return err
	}

	limiter := rate.NewLimiter(rate.Every(s.config.EnrichmentPacing), 1)
	for _, p := range unlocated {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}

		row, err := s.source.HoldingLocation(ctx, p.WikidataID)
		if err != nil {
			return err
		}
		if row == nil {
			result.LocationsMissing++
			continue
		}

		if err := s.attach(ctx, p, row); err != nil {
			return err
		}
		result.LocationsResolved++
	}

	return nil
}

func (s *Service) attach(ctx context.Context, p models.Painting, row *wikidata.LocationRow) error {
	txCtx, tx, err := s.db.GetTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback(txCtx)

	upsert := models.LocationUpsert{
		WikidataID: &row.QID,
		Name:       row.Name,
	}
	if row.Coordinates != nil {
		upsert.Latitude = &row.Coordinates.Latitude
		upsert.Longitude = &row.Coordinates.Longitude
	}

	locationResult, err := s.locations.Upsert(txCtx, upsert)
	if err != nil {
		return err
	}

	if err := s.paintings.AttachLocation(txCtx, p.ID, locationResult.Location.ID); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}
