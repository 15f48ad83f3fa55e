package models

import "time"

// Artist is a creator row keyed by its Wikidata QID.
type Artist struct {
	ID         int64     `db:"id" json:"id"`
	WikidataID string    `db:"wikidata_id" json:"wikidata_id"`
	Name       *string   `db:"name" json:"name,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// ArtistUpsert is the observed state of an artist from a single source read.
type ArtistUpsert struct {
	WikidataID string  `json:"wikidata_id" validate:"required"`
	Name       *string `json:"name,omitempty"`
}
