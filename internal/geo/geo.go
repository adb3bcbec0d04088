// Package geo resolves the best-effort submitter location.
//
// Location is evidence, not a requirement: any parse failure or absent
// coordinates yields a nil location and the submission proceeds without it.
package geo

import (
	"fmt"
	"log/slog"
	"strconv"
)

type Location struct {
	Latitude  float64
	Longitude float64
}

// String renders the location the way the backing store expects it.
func (l *Location) String() string {
	if l == nil {
		return "Not available"
	}
	return fmt.Sprintf("%v,%v", l.Latitude, l.Longitude)
}

// Resolve parses optional latitude/longitude form values. Errors are
// absorbed: a malformed or missing pair resolves to nil, never an error.
func Resolve(latitude string, longitude string) *Location {
	if latitude == "" || longitude == "" {
		slog.Debug("No location provided")
		return nil
	}

	lat, err := strconv.ParseFloat(latitude, 64)
	if err != nil {
		slog.Error("Error parsing latitude", "value", latitude, "error", err)
		return nil
	}
	lng, err := strconv.ParseFloat(longitude, 64)
	if err != nil {
		slog.Error("Error parsing longitude", "value", longitude, "error", err)
		return nil
	}

	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		slog.Error("Coordinates out of range", "latitude", lat, "longitude", lng)
		return nil
	}

	return &Location{Latitude: lat, Longitude: lng}
}
