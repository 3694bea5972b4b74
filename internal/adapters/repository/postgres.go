package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	// Registers the postgres driver with database/sql.
	_ "github.com/lib/pq"

	"github.com/goldengoal/sponsormatch/internal/domain/geo"
	"github.com/goldengoal/sponsormatch/internal/domain/model"
	"github.com/goldengoal/sponsormatch/pkg/logger"
	"github.com/goldengoal/sponsormatch/pkg/metrics"
)

// Connection pool defaults.
const (
	defaultMaxOpenConns    = 16
	defaultConnMaxLifetime = 30 * time.Minute
)

// PostgresStore implements Store on PostgreSQL. The bounding-box
// pre-filter runs server-side so only plausible candidates cross the wire.
type PostgresStore struct {
	db     *sql.DB
	logger logger.Logger

	maxOpenConns    int
	connMaxLifetime time.Duration
}

// PostgresOption applies a configuration option to the PostgresStore.
type PostgresOption func(*PostgresStore)

// WithMaxOpenConns caps the connection pool size.
func WithMaxOpenConns(n int) PostgresOption {
	return func(s *PostgresStore) {
		if n > 0 {
			s.maxOpenConns = n
		}
	}
}

// WithConnMaxLifetime bounds how long a pooled connection is reused.
func WithConnMaxLifetime(d time.Duration) PostgresOption {
	return func(s *PostgresStore) {
		if d > 0 {
			s.connMaxLifetime = d
		}
	}
}

// WithPostgresLogger sets a custom logger for the store.
func WithPostgresLogger(log logger.Logger) PostgresOption {
	return func(s *PostgresStore) {
		if log != nil {
			s.logger = log
		}
	}
}

// NewPostgresStore opens a connection pool against dsn and verifies it.
func NewPostgresStore(ctx context.Context, dsn string, opts ...PostgresOption) (*PostgresStore, error) {
	s := &PostgresStore{
		logger:          logger.Get().Named("postgres"),
		maxOpenConns:    defaultMaxOpenConns,
		connMaxLifetime: defaultConnMaxLifetime,
	}
	for _, opt := range opts {
		opt(s)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(s.maxOpenConns)
	db.SetConnMaxLifetime(s.connMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s.db = db
	s.logger.Info(ctx, "connected to postgres",
		logger.Int("max_open_conns", s.maxOpenConns))
	return s, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// GetClub returns a club by ID.
func (s *PostgresStore) GetClub(ctx context.Context, id int64) (model.Club, error) {
	defer s.observe()()

	const q = `
		SELECT id, name, lat, lon, size_bucket, member_count, COALESCE(address, '')
		FROM clubs WHERE id = $1`

	var c model.Club
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&c.ID, &c.Name, &c.Lat, &c.Lon, &c.SizeBucket, &c.MemberCount, &c.Address)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Club{}, fmt.Errorf("club %d: %w", id, ErrNotFound)
	}
	if err != nil {
		metrics.RecordStoreError()
		return model.Club{}, fmt.Errorf("get club %d: %w", id, err)
	}
	return c, nil
}

// SearchClubs returns clubs whose name contains the query, ordered by name.
func (s *PostgresStore) SearchClubs(ctx context.Context, query string, limit int) ([]model.Club, error) {
	query = strings.TrimSpace(query)
	if query == "" || limit <= 0 {
		return []model.Club{}, nil
	}

	defer s.observe()()

	const q = `
		SELECT id, name, lat, lon, size_bucket, member_count, COALESCE(address, '')
		FROM clubs WHERE name ILIKE '%' || $1 || '%'
		ORDER BY name LIMIT $2`

	rows, err := s.db.QueryContext(ctx, q, query, limit)
	if err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("search clubs %q: %w", query, err)
	}
	defer rows.Close()

	clubs := make([]model.Club, 0, limit)
	for rows.Next() {
		var c model.Club
		if err := rows.Scan(&c.ID, &c.Name, &c.Lat, &c.Lon, &c.SizeBucket, &c.MemberCount, &c.Address); err != nil {
			metrics.RecordStoreError()
			return nil, fmt.Errorf("scan club row: %w", err)
		}
		clubs = append(clubs, c)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("search clubs %q: %w", query, err)
	}
	return clubs, nil
}

// FindCompanies returns companies inside the bounding box.
func (s *PostgresStore) FindCompanies(ctx context.Context, box geo.BoundingBox) ([]model.Company, error) {
	defer s.observe()()

	const q = `
		SELECT id, org_nr, name, lat, lon, size_bucket,
		       COALESCE(industry, ''), revenue_ksek, employees, preferred_cluster
		FROM companies
		WHERE lat BETWEEN $1 AND $2 AND lon BETWEEN $3 AND $4`

	rows, err := s.db.QueryContext(ctx, q, box.MinLat, box.MaxLat, box.MinLon, box.MaxLon)
	if err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("find companies: %w", err)
	}
	defer rows.Close()

	companies := make([]model.Company, 0)
	for rows.Next() {
		var (
			c       model.Company
			cluster sql.NullInt64
		)
		if err := rows.Scan(&c.ID, &c.OrgNr, &c.Name, &c.Lat, &c.Lon, &c.SizeBucket,
			&c.Industry, &c.RevenueKSEK, &c.Employees, &cluster); err != nil {
			metrics.RecordStoreError()
			return nil, fmt.Errorf("scan company row: %w", err)
		}
		if cluster.Valid {
			label := int(cluster.Int64)
			c.PreferredCluster = &label
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("find companies: %w", err)
	}
	return companies, nil
}

// UpsertClub inserts a club or updates it by ID.
func (s *PostgresStore) UpsertClub(ctx context.Context, club model.Club) error {
	if err := club.Validate(); err != nil {
		return err
	}

	defer s.observe()()

	const q = `
		INSERT INTO clubs (id, name, lat, lon, size_bucket, member_count, address)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, lat = EXCLUDED.lat, lon = EXCLUDED.lon,
			size_bucket = EXCLUDED.size_bucket, member_count = EXCLUDED.member_count,
			address = EXCLUDED.address`

	if _, err := s.db.ExecContext(ctx, q,
		club.ID, club.Name, club.Lat, club.Lon, club.SizeBucket, club.MemberCount, club.Address); err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("upsert club %d: %w", club.ID, err)
	}
	return nil
}

// UpsertCompany inserts a company or updates it, keyed by OrgNr.
func (s *PostgresStore) UpsertCompany(ctx context.Context, company model.Company) error {
	if err := company.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(company.OrgNr) == "" {
		return fmt.Errorf("company %q: %w", company.Name, ErrMissingOrgNr)
	}

	defer s.observe()()

	var cluster sql.NullInt64
	if company.PreferredCluster != nil {
		cluster = sql.NullInt64{Int64: int64(*company.PreferredCluster), Valid: true}
	}

	const q = `
		INSERT INTO companies (org_nr, name, lat, lon, size_bucket, industry,
		                       revenue_ksek, employees, preferred_cluster)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (org_nr) DO UPDATE SET
			name = EXCLUDED.name, lat = EXCLUDED.lat, lon = EXCLUDED.lon,
			size_bucket = EXCLUDED.size_bucket, industry = EXCLUDED.industry,
			revenue_ksek = EXCLUDED.revenue_ksek, employees = EXCLUDED.employees,
			preferred_cluster = EXCLUDED.preferred_cluster`

	if _, err := s.db.ExecContext(ctx, q,
		company.OrgNr, company.Name, company.Lat, company.Lon, company.SizeBucket,
		company.Industry, company.RevenueKSEK, company.Employees, cluster); err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("upsert company %s: %w", company.OrgNr, err)
	}
	return nil
}

// CountClubs returns the number of registered clubs, or 0 on query failure.
func (s *PostgresStore) CountClubs(ctx context.Context) int {
	return s.count(ctx, "clubs")
}

// CountCompanies returns the number of registered companies, or 0 on query failure.
func (s *PostgresStore) CountCompanies(ctx context.Context) int {
	return s.count(ctx, "companies")
}

func (s *PostgresStore) count(ctx context.Context, table string) int {
	defer s.observe()()

	var n int
	// table is one of two compile-time constants, never user input.
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		metrics.RecordStoreError()
		s.logger.Warn(ctx, "count query failed",
			logger.String("table", table),
			logger.Error(err))
		return 0
	}
	return n
}

func (s *PostgresStore) observe() func() {
	start := time.Now()
	return func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}
}
