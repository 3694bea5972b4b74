// Command train fits the per-family k-means models from a CSV of
// locations and writes the gob artifacts the service loads at startup.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goldengoal/sponsormatch/internal/cluster"
	"github.com/goldengoal/sponsormatch/internal/domain/model"
	"github.com/goldengoal/sponsormatch/pkg/logger"
)

const (
	defaultClusters   = 8
	defaultIterations = 100
	defaultSeed       = 1
)

func main() {
	inputPath := flag.String("input", "", "CSV with lat, lon and size_bucket columns")
	outDir := flag.String("out", "models", "directory for the trained artifacts")
	k := flag.Int("k", defaultClusters, "number of clusters per family")
	iterations := flag.Int("iterations", defaultIterations, "maximum training iterations")
	seed := flag.Int64("seed", defaultSeed, "random seed for centroid initialization")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()
	log := logger.Get().Named("train")
	ctx := context.Background()

	if *inputPath == "" {
		log.Error(ctx, "missing -input")
		os.Exit(2)
	}

	f, err := os.Open(*inputPath)
	if err != nil {
		log.Error(ctx, "failed to open input", logger.Error(err))
		os.Exit(1)
	}
	defer f.Close()

	points, err := readPoints(f)
	if err != nil {
		log.Error(ctx, "failed to read training data", logger.Error(err))
		os.Exit(1)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Error(ctx, "failed to create output directory", logger.Error(err))
		os.Exit(1)
	}

	for family, samples := range points {
		if len(samples) == 0 {
			log.Warn(ctx, "no samples for family; skipping",
				logger.String("family", family))
			continue
		}
		m, err := cluster.Fit(samples, *k, *iterations, *seed)
		if err != nil {
			log.Error(ctx, "training failed",
				logger.String("family", family),
				logger.Error(err))
			os.Exit(1)
		}

		path := filepath.Join(*outDir, "kmeans_"+family+".gob")
		if err := m.Save(path); err != nil {
			log.Error(ctx, "failed to save artifact",
				logger.String("path", path),
				logger.Error(err))
			os.Exit(1)
		}
		log.Info(ctx, "trained cluster model",
			logger.String("family", family),
			logger.Int("samples", len(samples)),
			logger.String("path", path))
	}
}

// readPoints groups [lat, lon, ordinal] feature vectors by model family.
func readPoints(r io.Reader) (map[string][][]float64, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range []string{"lat", "lon", "size_bucket"} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	points := map[string][][]float64{
		cluster.FamilyDefault: {},
		cluster.FamilyLarge:   {},
	}
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			return points, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		lat, errLat := strconv.ParseFloat(strings.TrimSpace(row[cols["lat"]]), 64)
		lon, errLon := strconv.ParseFloat(strings.TrimSpace(row[cols["lon"]]), 64)
		bucket, errBucket := model.ParseSizeBucket(row[cols["size_bucket"]])
		if errLat != nil || errLon != nil || errBucket != nil {
			continue // malformed training rows are just dropped
		}

		family := cluster.Family(bucket)
		points[family] = append(points[family],
			[]float64{lat, lon, float64(bucket.Ordinal())})
	}
}
