// Package extract holds the lossy conversions from raw source literals to
// typed fields. Every function here degrades to its zero result on malformed
// input instead of returning an error.
package extract

import (
	"strconv"
	"strings"
	"time"
)

// QIDFromURI returns the final path segment of an entity URI, which for
// Wikidata entity URIs is the QID. A value without a slash is returned as-is.
func QIDFromURI(uri string) string {
	if idx := strings.LastIndex(uri, "/"); idx >= 0 {
		return uri[idx+1:]
	}
	return uri
}

var dateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// YearFromDateLiteral parses an ISO-8601 date literal and returns its year.
// A trailing Z is stripped first. Returns nil when the literal does not parse.
func YearFromDateLiteral(literal string) *int {
	trimmed := strings.TrimSuffix(strings.TrimSpace(literal), "Z")
	if trimmed == "" {
		return nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			year := t.Year()
			return &year
		}
	}
	return nil
}

// Coordinates is a parsed WKT point.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// CoordinatesFromPointLiteral parses a WKT "Point(lon lat)" literal. Longitude
// comes first in the literal. Returns nil when the literal does not parse.
func CoordinatesFromPointLiteral(literal string) *Coordinates {
	trimmed := strings.TrimSpace(literal)

	lower := strings.ToLower(trimmed)
	if !strings.HasPrefix(lower, "point(") || !strings.HasSuffix(trimmed, ")") {
		return nil
	}

	inner := trimmed[len("point(") : len(trimmed)-1]
	parts := strings.Fields(inner)
	if len(parts) != 2 {
		return nil
	}

	lon, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return nil
	}
	lat, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return nil
	}

	return &Coordinates{Latitude: lat, Longitude: lon}
}
