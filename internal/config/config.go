package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	AllowOrigins     []string
	VendorBaseURL    string
	ScraperTimeout   time.Duration
	ScraperUserAgent string
	MaxUploadBytes   int64
	MaxRows          int
	BatchCacheTTL    time.Duration
	LogstashTCPAddr  string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	maxUpload := int64(8 * 1024 * 1024)
	if v, err := strconv.ParseInt(getenv("MAX_UPLOAD_BYTES", "8388608"), 10, 64); err == nil && v > 0 {
		maxUpload = v
	}

	maxRows := 2000
	if v, err := strconv.Atoi(getenv("MAX_ROWS", "2000")); err == nil && v > 0 {
		maxRows = v
	}

	return Config{
		Port:             getenv("PORT", "8080"),
		AllowOrigins:     splitAndTrim(getenv("ALLOW_ORIGINS", "*")),
		VendorBaseURL:    getenv("VENDOR_BASE_URL", "https://backup.gabrielny.com"),
		ScraperTimeout:   getDuration("SCRAPER_TIMEOUT", 10*time.Second),
		ScraperUserAgent: getenv("SCRAPER_USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"),
		MaxUploadBytes:   maxUpload,
		MaxRows:          maxRows,
		BatchCacheTTL:    getDuration("BATCH_CACHE_TTL", 15*time.Minute),
		LogstashTCPAddr:  getenv("LOGSTASH_TCP_ADDR", ""),
	}
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func getDuration(k string, d time.Duration) time.Duration {
	raw := getenv(k, "")
	if raw == "" {
		return d
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		log.Printf("Warning: invalid %s=%q, using %s", k, raw, d)
		return d
	}
	return v
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
