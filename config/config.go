package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

const (
	defaultMinChunkSize        = 10
	defaultMaxChunkSize        = 50
	defaultMaxConcurrentChunks = 8

	defaultVideoFrameStride = 30
	defaultVideoMaxFrames   = 60
)

type Config struct {
	// database path (SQLite)
	DatabasePath string

	// redis connection settings
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// directory that stored media paths (media/images/..., media/videos/...)
	// resolve against
	MediaRootDir string

	// cache expirations
	SubjectCacheTTL   time.Duration
	SourceCacheTTL    time.Duration
	FootprintCacheTTL time.Duration

	// batch pipeline sizing
	MinChunkSize        int
	MaxChunkSize        int
	MaxConcurrentChunks int

	// video analysis budgets
	VideoFrameStride int
	VideoMaxFrames   int
	VideoTimeBudget  time.Duration

	// image similarity acceptance threshold in (0,1]
	ImageMatchThreshold float64
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

// getEnvNonNegativeIntOrDefault is for settings where zero is a valid value,
// such as Redis database numbers.
func getEnvNonNegativeIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val < 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func getEnvSecondsOrDefault(envVar string, defaultVal time.Duration) time.Duration {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %s. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return time.Duration(val) * time.Second
}

func LoadConfig() (Config, error) {
	cfg := Config{
		DatabasePath: getEnvOrDefault("DATABASE_PATH", "footprints.db"),

		RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvNonNegativeIntOrDefault("REDIS_DB", 0),

		MediaRootDir: getEnvOrDefault("MEDIA_ROOT_DIR", "."),

		SubjectCacheTTL:   getEnvSecondsOrDefault("SUBJECT_CACHE_TTL", time.Hour),
		SourceCacheTTL:    getEnvSecondsOrDefault("SOURCE_CACHE_TTL", 2*time.Hour),
		FootprintCacheTTL: getEnvSecondsOrDefault("FOOTPRINT_CACHE_TTL", 2*time.Hour),

		MinChunkSize:        getEnvIntOrDefault("MIN_CHUNK_SIZE", defaultMinChunkSize),
		MaxChunkSize:        getEnvIntOrDefault("MAX_CHUNK_SIZE", defaultMaxChunkSize),
		MaxConcurrentChunks: getEnvIntOrDefault("MAX_CONCURRENT_CHUNKS", defaultMaxConcurrentChunks),

		VideoFrameStride: getEnvIntOrDefault("VIDEO_FRAME_STRIDE", defaultVideoFrameStride),
		VideoMaxFrames:   getEnvIntOrDefault("VIDEO_MAX_FRAMES", defaultVideoMaxFrames),
		VideoTimeBudget:  getEnvSecondsOrDefault("VIDEO_TIME_BUDGET", 30*time.Second),

		ImageMatchThreshold: 0.85,
	}

	if thresholdStr := os.Getenv("IMAGE_MATCH_THRESHOLD"); thresholdStr != "" {
		threshold, err := strconv.ParseFloat(thresholdStr, 64)
		if err != nil || threshold <= 0 || threshold > 1 {
			log.Printf("Warning: Invalid IMAGE_MATCH_THRESHOLD '%s'. Using default %.2f.", thresholdStr, cfg.ImageMatchThreshold)
		} else {
			cfg.ImageMatchThreshold = threshold
		}
	}

	return cfg, nil
}
