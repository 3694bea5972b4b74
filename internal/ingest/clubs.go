package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goldengoal/sponsormatch/internal/domain/model"
	"github.com/goldengoal/sponsormatch/pkg/logger"
)

// ClubWriter persists ingested clubs. Satisfied by the repository stores.
type ClubWriter interface {
	UpsertClub(ctx context.Context, club model.Club) error
}

var requiredClubColumns = []string{"id", "name", "lat", "lon", "size_bucket"}

// LoadClubs reads club rows from a CSV and writes them straight to the
// store. Club files are small enough that the queue/worker machinery
// would be overhead; malformed rows are skipped like company rows.
func LoadClubs(ctx context.Context, r io.Reader, writer ClubWriter) (loaded, skipped int, err error) {
	log := logger.Get().Named("ingest-clubs")

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredClubColumns {
		if _, ok := cols[name]; !ok {
			return 0, 0, fmt.Errorf("column %q: %w", name, ErrMissingColumn)
		}
	}

	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			return loaded, skipped, nil
		}
		if err != nil {
			return loaded, skipped, fmt.Errorf("read csv line %d: %w", line, err)
		}

		club, err := parseClub(row, cols)
		if err == nil {
			err = writer.UpsertClub(ctx, club)
		}
		if err != nil {
			skipped++
			log.Warn(ctx, "skipping club row",
				logger.Int("line", line),
				logger.Error(err))
			continue
		}
		loaded++
	}
}

func parseClub(row []string, cols map[string]int) (model.Club, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	club := model.Club{
		Name:    field("name"),
		Address: field("address"),
	}

	var err error
	if club.ID, err = strconv.ParseInt(field("id"), 10, 64); err != nil || club.ID < 1 {
		return model.Club{}, fmt.Errorf("id %q: %w", field("id"), ErrBadRow)
	}
	if club.Lat, err = strconv.ParseFloat(field("lat"), 64); err != nil {
		return model.Club{}, fmt.Errorf("lat %q: %w", field("lat"), ErrBadRow)
	}
	if club.Lon, err = strconv.ParseFloat(field("lon"), 64); err != nil {
		return model.Club{}, fmt.Errorf("lon %q: %w", field("lon"), ErrBadRow)
	}
	if club.SizeBucket, err = model.ParseSizeBucket(field("size_bucket")); err != nil {
		return model.Club{}, fmt.Errorf("size_bucket: %w", ErrBadRow)
	}
	if v := field("member_count"); v != "" {
		if club.MemberCount, err = strconv.Atoi(v); err != nil {
			return model.Club{}, fmt.Errorf("member_count %q: %w", v, ErrBadRow)
		}
	}
	return club, nil
}
