// Package geo provides great-circle distance and bounding-box primitives
// for the matching pipeline.
package geo

import (
	"fmt"
	"math"
)

// Geometry constants.
const (
	earthRadiusKM  = 6371.0
	kmPerDegreeLat = 111.0
	// boxBuffer widens candidate bounding boxes so the pre-filter never
	// drops a company the exact distance check would keep.
	boxBuffer = 1.2
)

// Coordinate is a WGS-84 point in decimal degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Validate checks that the coordinate is a real point on the globe.
// Failures wrap ErrInvalidCoordinate.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) ||
		math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) {
		return fmt.Errorf("non-finite coordinate (%v, %v): %w", c.Lat, c.Lon, ErrInvalidCoordinate)
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90,90]: %w", c.Lat, ErrInvalidCoordinate)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("longitude %v out of range [-180,180]: %w", c.Lon, ErrInvalidCoordinate)
	}
	return nil
}

// Distance returns the great-circle distance between a and b in kilometers
// using the haversine formula. Pure and deterministic; invalid input is the
// only error condition.
func Distance(a, b Coordinate) (float64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	if err := b.Validate(); err != nil {
		return 0, err
	}

	phi1 := radians(a.Lat)
	phi2 := radians(b.Lat)
	dPhi := radians(b.Lat - a.Lat)
	dLam := radians(b.Lon - a.Lon)

	sinPhi := math.Sin(dPhi / 2)
	sinLam := math.Sin(dLam / 2)
	h := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLam*sinLam

	return 2 * earthRadiusKM * math.Asin(math.Sqrt(h)), nil
}

// BoundingBox is a latitude/longitude rectangle used to pre-filter
// candidates before exact distance computation.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// Contains reports whether c falls inside the box.
func (b BoundingBox) Contains(c Coordinate) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat &&
		c.Lon >= b.MinLon && c.Lon <= b.MaxLon
}

// BoxAround returns a permissive bounding box covering every point within
// radiusKM of center. The box may contain points farther away (resolved by
// Distance afterwards) but never excludes a point within the radius.
func BoxAround(center Coordinate, radiusKM float64) (BoundingBox, error) {
	if err := center.Validate(); err != nil {
		return BoundingBox{}, err
	}
	if radiusKM < 0 || math.IsNaN(radiusKM) || math.IsInf(radiusKM, 0) {
		return BoundingBox{}, fmt.Errorf("radius %v must be a finite non-negative number: %w", radiusKM, ErrInvalidCoordinate)
	}

	buffered := radiusKM * boxBuffer
	latDelta := buffered / kmPerDegreeLat

	box := BoundingBox{
		MinLat: math.Max(center.Lat-latDelta, -90),
		MaxLat: math.Min(center.Lat+latDelta, 90),
	}

	// Longitude degrees shrink towards the poles. Near a pole (or when the
	// box wraps past the antimeridian) fall back to the full longitude range
	// rather than producing false negatives.
	kmPerDegreeLon := kmPerDegreeLat * math.Cos(radians(center.Lat))
	if kmPerDegreeLon <= 0 {
		box.MinLon, box.MaxLon = -180, 180
		return box, nil
	}
	lonDelta := buffered / kmPerDegreeLon
	if lonDelta >= 180 || center.Lon-lonDelta < -180 || center.Lon+lonDelta > 180 {
		box.MinLon, box.MaxLon = -180, 180
		return box, nil
	}
	box.MinLon = center.Lon - lonDelta
	box.MaxLon = center.Lon + lonDelta
	return box, nil
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
