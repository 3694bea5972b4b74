package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goldengoal/sponsormatch/internal/domain/geo"
	"github.com/goldengoal/sponsormatch/internal/domain/model"
	"github.com/goldengoal/sponsormatch/pkg/metrics"
)

// MemoryStore implements Store with in-process maps. Used for tests and
// for running the service against fixture data without a database.
type MemoryStore struct {
	mu        sync.RWMutex
	clubs     map[int64]model.Club
	companies map[int64]model.Company
	byOrgNr   map[string]int64
	nextID    int64
}

// MemoryOption applies a configuration option to the MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClubs seeds the store with clubs.
func WithClubs(clubs ...model.Club) MemoryOption {
	return func(s *MemoryStore) {
		for _, c := range clubs {
			s.clubs[c.ID] = c
		}
	}
}

// WithCompanies seeds the store with companies.
func WithCompanies(companies ...model.Company) MemoryOption {
	return func(s *MemoryStore) {
		for _, c := range companies {
			s.companies[c.ID] = c
			if c.OrgNr != "" {
				s.byOrgNr[c.OrgNr] = c.ID
			}
			if c.ID >= s.nextID {
				s.nextID = c.ID + 1
			}
		}
	}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		clubs:     make(map[int64]model.Club),
		companies: make(map[int64]model.Company),
		byOrgNr:   make(map[string]int64),
		nextID:    1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetClub returns a club by ID.
func (s *MemoryStore) GetClub(_ context.Context, id int64) (model.Club, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	club, ok := s.clubs[id]
	if !ok {
		return model.Club{}, fmt.Errorf("club %d: %w", id, ErrNotFound)
	}
	return club, nil
}

// SearchClubs returns clubs whose name contains the query, ordered by name.
func (s *MemoryStore) SearchClubs(_ context.Context, query string, limit int) ([]model.Club, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || limit <= 0 {
		return []model.Club{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]model.Club, 0, limit)
	for _, c := range s.clubs {
		if strings.Contains(strings.ToLower(c.Name), query) {
			matches = append(matches, c)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// FindCompanies returns companies inside the bounding box.
func (s *MemoryStore) FindCompanies(_ context.Context, box geo.BoundingBox) ([]model.Company, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]model.Company, 0)
	for _, c := range s.companies {
		if box.Contains(c.Coordinate()) {
			matches = append(matches, c)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return matches, nil
}

// UpsertClub inserts or replaces a club by ID.
func (s *MemoryStore) UpsertClub(_ context.Context, club model.Club) error {
	if err := club.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if club.ID == 0 {
		club.ID = s.nextID
		s.nextID++
	}
	s.clubs[club.ID] = club
	return nil
}

// UpsertCompany inserts or replaces a company, keyed by OrgNr.
func (s *MemoryStore) UpsertCompany(_ context.Context, company model.Company) error {
	if err := company.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(company.OrgNr) == "" {
		return fmt.Errorf("company %q: %w", company.Name, ErrMissingOrgNr)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byOrgNr[company.OrgNr]; ok {
		company.ID = id
	} else {
		if company.ID == 0 {
			company.ID = s.nextID
			s.nextID++
		}
		s.byOrgNr[company.OrgNr] = company.ID
	}
	s.companies[company.ID] = company
	return nil
}

// CountClubs returns the number of registered clubs.
func (s *MemoryStore) CountClubs(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clubs)
}

// CountCompanies returns the number of registered companies.
func (s *MemoryStore) CountCompanies(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.companies)
}
