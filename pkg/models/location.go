package models

import "time"

// Location is a place a painting is held. WikidataID is nullable because a
// location can in principle be recorded without a source identifier, though
// the ingest pipeline always supplies one.
type Location struct {
	ID         int64    `db:"id" json:"id"`
	WikidataID *string  `db:"wikidata_id" json:"wikidata_id,omitempty"`
	Name       *string  `db:"name" json:"name,omitempty"`
	Latitude   *float64 `db:"latitude" json:"latitude,omitempty"`
	Longitude  *float64 `db:"longitude" json:"longitude,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// LocationUpsert is the observed state of a location from a single source read.
type LocationUpsert struct {
	WikidataID *string  `json:"wikidata_id,omitempty"`
	Name       *string  `json:"name,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}
