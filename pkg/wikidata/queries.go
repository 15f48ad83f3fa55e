package wikidata

import (
	"context"
	"fmt"

	"github.com/pntechnology/Helianthus/pkg/extract"
)

// Query templates. Each takes a QID already validated by the caller; values
// are interpolated, never user-assembled SPARQL.
const (
	painterAskTemplate = `ASK { wd:%s wdt:P106 wd:Q1028181 . }`

	artistLabelTemplate = `SELECT ?label WHERE {
  wd:%s rdfs:label ?label .
  FILTER(LANG(?label) = "en")
} LIMIT 1`

	paintingsByCreatorTemplate = `SELECT ?painting ?paintingLabel ?inception WHERE {
  ?painting wdt:P31 wd:Q3305213 ;
            wdt:P170 wd:%s .
  OPTIONAL { ?painting wdt:P571 ?inception . }
  SERVICE wikibase:label { bd:serviceParam wikibase:language "en". }
} LIMIT %d`

	holdingLocationTemplate = `SELECT ?location ?locationLabel ?coord WHERE {
  wd:%s wdt:P276 ?location .
  OPTIONAL { ?location wdt:P625 ?coord . }
  SERVICE wikibase:label { bd:serviceParam wikibase:language "en". }
} LIMIT 1`
)

// PaintingRow is one painting observation from the source.
type PaintingRow struct {
	QID   string
	Title *string
	Year  *int
}

// LocationRow is one holding-location observation from the source.
type LocationRow struct {
	QID         string
	Name        *string
	Coordinates *extract.Coordinates
}

// IsPainter reports whether the entity has the painter occupation.
func (c *Client) IsPainter(ctx context.Context, qid string) (bool, error) {
	return c.Ask(ctx, fmt.Sprintf(painterAskTemplate, qid))
}

// ArtistLabel fetches the english label of the entity. Returns nil when the
// entity has no english label.
func (c *Client) ArtistLabel(ctx context.Context, qid string) (*string, error) {
	rows, err := c.Select(ctx, fmt.Sprintf(artistLabelTemplate, qid))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].Get("label"), nil
}

// PaintingsByCreator fetches paintings created by the artist, up to limit.
// Rows whose painting URI yields no QID are dropped. The label service echoes
// the QID back as the label when an entity has no english label; those titles
// are treated as absent.
func (c *Client) PaintingsByCreator(ctx context.Context, qid string, limit int) ([]PaintingRow, error) {
	rows, err := c.Select(ctx, fmt.Sprintf(paintingsByCreatorTemplate, qid, limit))
	if err != nil {
		return nil, err
	}

	paintings := make([]PaintingRow, 0, len(rows))
	for _, row := range rows {
		uri := row.Get("painting")
		if uri == nil {
			continue
		}
		paintingQID := extract.QIDFromURI(*uri)
		if paintingQID == "" {
			continue
		}

		painting := PaintingRow{QID: paintingQID}
		if title := row.Get("paintingLabel"); title != nil && *title != "" && *title != paintingQID {
			painting.Title = title
		}
		if inception := row.Get("inception"); inception != nil {
			painting.Year = extract.YearFromDateLiteral(*inception)
		}
		paintings = append(paintings, painting)
	}
	return paintings, nil
}

// HoldingLocation fetches the holding location of a painting. Returns nil when
// the source records none.
func (c *Client) HoldingLocation(ctx context.Context, paintingQID string) (*LocationRow, error) {
	rows, err := c.Select(ctx, fmt.Sprintf(holdingLocationTemplate, paintingQID))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	row := rows[0]
	uri := row.Get("location")
	if uri == nil {
		return nil, nil
	}
	locationQID := extract.QIDFromURI(*uri)
	if locationQID == "" {
		return nil, nil
	}

	location := &LocationRow{QID: locationQID}
	if name := row.Get("locationLabel"); name != nil && *name != "" && *name != locationQID {
		location.Name = name
	}
	if coord := row.Get("coord"); coord != nil {
		location.Coordinates = extract.CoordinatesFromPointLiteral(*coord)
	}
	return location, nil
}
