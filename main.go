package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/footprintlab/scanner/analysis"
	"github.com/footprintlab/scanner/cache"
	"github.com/footprintlab/scanner/config"
	"github.com/footprintlab/scanner/database"
	"github.com/footprintlab/scanner/scanner"
	"github.com/footprintlab/scanner/transform"
)

func main() {
	datasetPath := flag.String("dataset", "", "path to the raw dataset JSON")
	subjectID := flag.Uint("subject", 0, "subject ID to scan; 0 provisions the demo subject")
	flag.Parse()

	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	if *datasetPath == "" {
		log.Fatalf("FATAL: -dataset is required")
	}
	dataset, err := readDataset(*datasetPath)
	if err != nil {
		log.Fatalf("FATAL: Failed to read dataset: %v", err)
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database: %v", err)
	}

	var backing cache.Cache
	redisCache, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Printf("Warning: Redis unavailable at %s (%v), using in-memory cache", cfg.RedisAddr, err)
		backing = cache.NewMemoryCache()
	} else {
		defer redisCache.Close()
		backing = redisCache
	}
	entities := cache.NewEntityCache(backing, cache.TTLSet{
		Subject:   cfg.SubjectCacheTTL,
		Source:    cfg.SourceCacheTTL,
		Footprint: cfg.FootprintCacheTTL,
	})

	images := analysis.NewImageSimilarityMatcher(cfg.ImageMatchThreshold)
	videos := analysis.NewVideoFrameMatcher(
		cfg.ImageMatchThreshold, cfg.VideoFrameStride, cfg.VideoMaxFrames, cfg.VideoTimeBudget)
	transcriber := analysis.NewSidecarTranscriber()

	s := scanner.New(db, entities, images, videos, transcriber, cfg)

	id := *subjectID
	if id == 0 {
		subject, err := scanner.ProvisionSubject(db, scanner.SubjectSpec{
			FirstName: "Rocky",
			LastName:  "Balboa",
			Email:     "rocky.balboa@example.com",
			Password:  "examplepassword123",
			Phone:     "+12125559903",
			BirthDate: "1992-12-03",
		})
		if err != nil {
			log.Fatalf("FATAL: Failed to provision subject: %v", err)
		}
		id = subject.ID
	}

	summary, err := s.Scan(context.Background(), id, dataset)
	if err != nil {
		if summary != nil {
			printSummary(summary)
		}
		log.Fatalf("FATAL: Scan failed: %v", err)
	}
	printSummary(summary)
}

func readDataset(path string) (transform.Dataset, error) {
	var dataset transform.Dataset
	data, err := os.ReadFile(path)
	if err != nil {
		return dataset, err
	}
	if err := json.Unmarshal(data, &dataset); err != nil {
		return dataset, fmt.Errorf("decode dataset %s: %w", path, err)
	}
	return dataset, nil
}

func printSummary(summary *scanner.Summary) {
	fmt.Println("=== SCAN PIPELINE SUMMARY ===")
	fmt.Printf("Run: %s\n", summary.RunID)
	fmt.Printf("Subject: %s (%s)\n", summary.SubjectName, summary.SubjectEmail)
	fmt.Printf("Pipeline Success: %v\n", summary.PipelineSuccess)
	fmt.Printf("\nTransformation Status: %s (%s)\n", summary.Transformation.Status, summary.Transformation.Duration)
	fmt.Printf("Load Status: %s (%s)\n", summary.Load.Status, summary.Load.Duration)
	fmt.Println("\nRecords Loaded:")
	fmt.Printf("  - Digital Footprints: %d\n", summary.Load.Breakdown.FootprintsInserted)
	fmt.Printf("  - Personal Identities: %d\n", summary.Load.Breakdown.IdentitiesInserted)
	fmt.Printf("  - Activity Logs: %d\n", summary.Load.Breakdown.ActivityLogsInserted)
	fmt.Printf("  - Subject-Footprint Links: %d\n", summary.Load.Breakdown.LinksInserted)
	fmt.Printf("\nTotal Records Inserted: %d\n", summary.Load.TotalInserted)
	fmt.Printf("Total Records Skipped: %d\n", summary.Load.TotalSkipped)
	if summary.Load.ErrorCount > 0 {
		fmt.Printf("Errors: %d\n", summary.Load.ErrorCount)
	}
	fmt.Printf("\nSources With Data: %d\n", summary.Transform.SourcesWithData)
	fmt.Printf("Footprints Found: %d\n", summary.Transform.TotalFootprints)
}
