// Bulk place loader for geoquery.
// Reads place parquet files and upserts them into a geo index over Redis.
// Supports parallel batch upserts.
//
// Usage:
//
//	geoload -data-dir /data -index places -max-rows 1000000 -workers 8
//
// Env vars:
//
//	REDIS_ADDR     - Redis address (default: localhost:6379)
//	REDIS_PASSWORD - Redis password
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	dbRedis "github.com/kailas-cloud/geoquery/internal/db/redis"
	"github.com/kailas-cloud/geoquery/internal/domain"
	"github.com/kailas-cloud/geoquery/internal/domain/geo"
	dompt "github.com/kailas-cloud/geoquery/internal/domain/point"
	"github.com/kailas-cloud/geoquery/internal/domain/schema"
	indexrepo "github.com/kailas-cloud/geoquery/internal/repository/index"
	pointrepo "github.com/kailas-cloud/geoquery/internal/repository/point"
)

type config struct {
	dataDir   string
	indexName string
	geoField  string
	maxRows   int
	workers   int
	batchSize int
}

func parseFlags() config {
	cfg := config{}
	flag.StringVar(&cfg.dataDir, "data-dir", "/data", "directory with place parquet files")
	flag.StringVar(&cfg.indexName, "index", "places", "target index name")
	flag.StringVar(&cfg.geoField, "geo-field", "pin", "geo_point field name for coordinates")
	flag.IntVar(&cfg.maxRows, "max-rows", 0, "max places to load (0=unlimited)")
	flag.IntVar(&cfg.workers, "workers", 8, "number of parallel upsert workers")
	flag.IntVar(&cfg.batchSize, "batch-size", 100, "points per batch upsert")
	flag.Parse()
	return cfg
}

func main() {
	cfg := parseFlags()

	ctx, cancel := signal.NotifyContext(
		context.Background(), syscall.SIGTERM, syscall.SIGINT,
	)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		cancel()
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg config) error {
	start := time.Now()

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    []string{env("REDIS_ADDR", "localhost:6379")},
		Password: env("REDIS_PASSWORD", ""),
	})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, 30*time.Second); err != nil {
		return fmt.Errorf("redis not ready: %w", err)
	}

	indexRepo := indexrepo.New(store)
	pointRepo := pointrepo.New(store)

	if err := ensureIndex(ctx, indexRepo, cfg); err != nil {
		return err
	}

	reader, err := newParquetReader(cfg.dataDir)
	if err != nil {
		return fmt.Errorf("init parquet reader: %w", err)
	}

	ing := &ingester{
		points:    pointRepo,
		indexName: cfg.indexName,
		geoField:  cfg.geoField,
		workers:   cfg.workers,
		batchSize: cfg.batchSize,
	}

	processed, failed, err := ing.Run(ctx, reader, cfg.maxRows)
	if err != nil {
		return fmt.Errorf("ingest places: %w", err)
	}

	total, _ := pointRepo.Count(ctx, cfg.indexName)
	elapsed := time.Since(start)
	rate := float64(processed) / elapsed.Seconds()

	log.Printf("DONE in %s", elapsed.Round(time.Second))
	log.Printf("  points: %d in index (%d processed, %d failed)", total, processed, failed)
	log.Printf("  rate: %.0f rows/sec", rate)
	return nil
}

func ensureIndex(ctx context.Context, repo *indexrepo.Repo, cfg config) error {
	fields := []schema.Field{
		{Name: cfg.geoField, Type: schema.TypeGeoPoint},
		{Name: "name", Type: schema.TypeKeyword},
		{Name: "locality", Type: schema.TypeKeyword},
		{Name: "country", Type: schema.TypeKeyword},
	}
	mapping, err := schema.NewMapping(fields)
	if err != nil {
		return fmt.Errorf("build mapping: %w", err)
	}

	err = repo.Create(ctx, cfg.indexName, mapping)
	if errors.Is(err, domain.ErrAlreadyExists) {
		log.Printf("index %s already exists, resuming", cfg.indexName)
		return nil
	}
	if err != nil {
		return fmt.Errorf("create index %s: %w", cfg.indexName, err)
	}
	log.Printf("index %s created", cfg.indexName)
	return nil
}

// ingester upserts place batches through a fixed worker pool.
type ingester struct {
	points    *pointrepo.Repo
	indexName string
	geoField  string
	workers   int
	batchSize int
}

// Run streams rows from the reader into batch upsert workers. Returns
// processed and failed row counts.
func (ing *ingester) Run(ctx context.Context, reader *parquetReader, maxRows int) (int64, int64, error) {
	jobs := make(chan []dompt.Document, ing.workers*2)
	var processed, failed int64

	var wg sync.WaitGroup
	for w := 0; w < ing.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for batch := range jobs {
				if err := ing.points.UpsertBatch(ctx, ing.indexName, batch); err != nil {
					atomic.AddInt64(&failed, int64(len(batch)))
					log.Printf("batch upsert failed: %v", err)
					continue
				}
				n := atomic.AddInt64(&processed, int64(len(batch)))
				if n%10000 < int64(len(batch)) {
					log.Printf("progress: %d points", n)
				}
			}
		}()
	}

	var skipped int64
	batch := make([]dompt.Document, 0, ing.batchSize)
	readErr := reader.ReadPlaces(maxRows, func(row *placeRow) bool {
		doc, ok := ing.documentFromRow(row)
		if !ok {
			skipped++
			return true
		}

		batch = append(batch, doc)
		if len(batch) >= ing.batchSize {
			select {
			case jobs <- batch:
			case <-ctx.Done():
				return false
			}
			batch = make([]dompt.Document, 0, ing.batchSize)
		}
		return true
	})

	if len(batch) > 0 && ctx.Err() == nil {
		jobs <- batch
	}
	close(jobs)
	wg.Wait()

	if skipped > 0 {
		log.Printf("skipped %d rows without valid coordinates", skipped)
	}
	if readErr != nil {
		return atomic.LoadInt64(&processed), atomic.LoadInt64(&failed), readErr
	}
	return atomic.LoadInt64(&processed), atomic.LoadInt64(&failed), ctx.Err()
}

// documentFromRow converts a parquet row to a point document. Rows without
// an ID or valid coordinates are skipped.
func (ing *ingester) documentFromRow(row *placeRow) (dompt.Document, bool) {
	if row.ID == "" || row.Latitude == nil || row.Longitude == nil {
		return dompt.Document{}, false
	}

	tags := make(map[string]string, 3)
	if row.Name != "" {
		tags["name"] = row.Name
	}
	if row.Locality != "" {
		tags["locality"] = row.Locality
	}
	if row.Country != "" {
		tags["country"] = row.Country
	}

	doc, err := dompt.New(row.ID,
		map[string]geo.Point{ing.geoField: {Lat: *row.Latitude, Lon: *row.Longitude}},
		tags, nil,
	)
	if err != nil {
		return dompt.Document{}, false
	}
	return doc, true
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
