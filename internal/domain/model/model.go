// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"

	"github.com/goldengoal/sponsormatch/internal/domain/geo"
)

// SizeBucket is the categorical size class of a club or company.
type SizeBucket string

// Size buckets, ordered small < medium < large.
const (
	SizeSmall  SizeBucket = "small"
	SizeMedium SizeBucket = "medium"
	SizeLarge  SizeBucket = "large"
)

// ParseSizeBucket validates and normalizes a size bucket string.
func ParseSizeBucket(s string) (SizeBucket, error) {
	switch SizeBucket(strings.ToLower(strings.TrimSpace(s))) {
	case SizeSmall:
		return SizeSmall, nil
	case SizeMedium:
		return SizeMedium, nil
	case SizeLarge:
		return SizeLarge, nil
	default:
		return "", fmt.Errorf("size bucket %q: %w", s, ErrInvalidSizeBucket)
	}
}

// Ordinal returns the bucket position on the small<medium<large scale.
func (b SizeBucket) Ordinal() int {
	switch b {
	case SizeSmall:
		return 0
	case SizeMedium:
		return 1
	case SizeLarge:
		return 2
	default:
		return 1 // unknown buckets read as medium, matching ingestion defaults
	}
}

// Club represents a sports club/association. Read-only during matching.
type Club struct {
	ID          int64
	Name        string
	Lat         float64
	Lon         float64
	SizeBucket  SizeBucket
	MemberCount int
	Address     string
}

// Coordinate returns the club location as a geo point.
func (c Club) Coordinate() geo.Coordinate {
	return geo.Coordinate{Lat: c.Lat, Lon: c.Lon}
}

// Validate checks the fields matching requires. Used at the store boundary.
func (c Club) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("club %d has no name: %w", c.ID, ErrMissingField)
	}
	if _, err := ParseSizeBucket(string(c.SizeBucket)); err != nil {
		return err
	}
	return c.Coordinate().Validate()
}

// Company represents a potential sponsor.
type Company struct {
	ID          int64
	OrgNr       string
	Name        string
	Lat         float64
	Lon         float64
	SizeBucket  SizeBucket
	Industry    string
	RevenueKSEK float64
	Employees   int
	// PreferredCluster is the cluster label precomputed at ingest time.
	// Nil when no clustering model was available for the company.
	PreferredCluster *int
}

// Coordinate returns the company location as a geo point.
func (c Company) Coordinate() geo.Coordinate {
	return geo.Coordinate{Lat: c.Lat, Lon: c.Lon}
}

// Validate checks the fields matching requires. Used at the store boundary.
func (c Company) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("company %d has no name: %w", c.ID, ErrMissingField)
	}
	if _, err := ParseSizeBucket(string(c.SizeBucket)); err != nil {
		return err
	}
	return c.Coordinate().Validate()
}

// Recommendation is one ranked sponsor suggestion. Ephemeral; recomputed
// per request and never persisted.
type Recommendation struct {
	CompanyID  int64   `json:"company_id"`
	Name       string  `json:"name"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	DistanceKM float64 `json:"distance_km"`
	Score      float64 `json:"score"`
	Rank       int     `json:"rank"`
	Quality    string  `json:"quality"`
}
