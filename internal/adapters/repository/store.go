// Package repository defines the club/company store interface and errors.
package repository

import (
	"context"

	"github.com/goldengoal/sponsormatch/internal/domain/geo"
	"github.com/goldengoal/sponsormatch/internal/domain/model"
)

// Store provides access to the club and company registries. Reads serve
// the matching pipeline; writes serve the ingest pipeline.
type Store interface {
	// GetClub returns a club by ID.
	// Returns ErrNotFound if the club is unknown.
	GetClub(ctx context.Context, id int64) (model.Club, error)

	// SearchClubs returns up to limit clubs whose name contains the query,
	// case-insensitively. An empty query matches nothing.
	SearchClubs(ctx context.Context, query string, limit int) ([]model.Club, error)

	// FindCompanies returns every company located inside the bounding box.
	FindCompanies(ctx context.Context, box geo.BoundingBox) ([]model.Company, error)

	// UpsertClub inserts a club or updates it by ID.
	UpsertClub(ctx context.Context, club model.Club) error

	// UpsertCompany inserts a company or updates it, keyed by OrgNr.
	UpsertCompany(ctx context.Context, company model.Company) error

	// CountClubs returns the number of registered clubs.
	CountClubs(ctx context.Context) int

	// CountCompanies returns the number of registered companies.
	CountCompanies(ctx context.Context) int
}
