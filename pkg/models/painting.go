package models

import "time"

// Painting is a work row keyed by its Wikidata QID. Title and Year stay nil
// until the source provides usable values. LocationID stays nil until the
// enrichment phase resolves a holding location.
type Painting struct {
	ID         int64   `db:"id" json:"id"`
	WikidataID string  `db:"wikidata_id" json:"wikidata_id"`
	Title      *string `db:"title" json:"title,omitempty"`
	Year       *int    `db:"year" json:"year,omitempty"`
	ArtistID   int64   `db:"artist_id" json:"artist_id"`
	LocationID *int64  `db:"location_id" json:"location_id,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// PaintingUpsert is the observed state of a painting from a single source read.
type PaintingUpsert struct {
	WikidataID string  `json:"wikidata_id" validate:"required"`
	Title      *string `json:"title,omitempty"`
	Year       *int    `json:"year,omitempty"`
	ArtistID   int64   `json:"artist_id" validate:"required"`
}
