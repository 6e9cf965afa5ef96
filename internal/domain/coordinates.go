package domain

import (
	"fmt"
	"math"
)

// Immutable geographic coordinates (latitude, longitude) in decimal degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Key returns a stable cache key for the point, rounded to ~1 m.
func (c Coordinates) Key() string { return fmt.Sprintf("%.5f,%.5f", c.Lat, c.Lon) }

// IsZero reports whether the point is the (0, 0) placeholder that price
// feeds use for markets with unknown locations.
func (c Coordinates) IsZero() bool { return c.Lat == 0 && c.Lon == 0 }

// Validate checks latitude and longitude ranges.
func (c Coordinates) Validate() error {
	var errs ValidationErrors
	if math.IsNaN(c.Lat) || c.Lat < -90 || c.Lat > 90 {
		errs = append(errs, FieldError{Field: "source.lat", Message: "latitude must be between -90 and 90"})
	}
	if math.IsNaN(c.Lon) || c.Lon < -180 || c.Lon > 180 {
		errs = append(errs, FieldError{Field: "source.lng", Message: "longitude must be between -180 and 180"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
