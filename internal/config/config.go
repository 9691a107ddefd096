package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	SourcePath      string
	SourceSheet     string
	SourceHeaderRow int

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Map camera and empty-view fallback.
	FallbackLat float64
	FallbackLng float64
	MapZoom     float64
	MapPitch    float64

	SessionCapacity    int
	SessionIdleTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	headerRow, err := parseInt("SOURCE_HEADER_ROW", 9)
	if err != nil {
		return nil, err
	}
	if headerRow < 0 {
		return nil, errors.New("invalid SOURCE_HEADER_ROW: must not be negative")
	}

	fallbackLat, err := parseFloat("FALLBACK_LAT", -33.4489)
	if err != nil {
		return nil, err
	}
	fallbackLng, err := parseFloat("FALLBACK_LNG", -70.6693)
	if err != nil {
		return nil, err
	}
	if fallbackLat < -90 || fallbackLat > 90 {
		return nil, errors.New("invalid FALLBACK_LAT: must be within [-90, 90]")
	}
	if fallbackLng < -180 || fallbackLng > 180 {
		return nil, errors.New("invalid FALLBACK_LNG: must be within [-180, 180]")
	}

	zoom, err := parseFloat("MAP_ZOOM", 10)
	if err != nil {
		return nil, err
	}
	pitch, err := parseFloat("MAP_PITCH", 10)
	if err != nil {
		return nil, err
	}

	sessionCapacity, err := parseInt("SESSION_CAPACITY", 1000)
	if err != nil {
		return nil, err
	}
	if sessionCapacity <= 0 {
		return nil, errors.New("invalid SESSION_CAPACITY: must be positive")
	}

	idleTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("SESSION_IDLE_TIMEOUT", "30m"))
	if err != nil || idleTimeout <= 0 {
		return nil, errors.New("invalid SESSION_IDLE_TIMEOUT")
	}

	cfg := &Config{
		SourcePath:         sharedcfg.EnvOrDefault("SOURCE_PATH", "carga-bip.xlsx"),
		SourceSheet:        sharedcfg.EnvOrDefault("SOURCE_SHEET", ""),
		SourceHeaderRow:    headerRow,
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		FallbackLat:        fallbackLat,
		FallbackLng:        fallbackLng,
		MapZoom:            zoom,
		MapPitch:           pitch,
		SessionCapacity:    sessionCapacity,
		SessionIdleTimeout: idleTimeout,
	}

	if cfg.SourcePath == "" {
		return nil, errors.New("SOURCE_PATH is required")
	}

	return cfg, nil
}

func parseInt(key string, def int) (int, error) {
	s := sharedcfg.EnvOrDefault(key, strconv.Itoa(def))
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := sharedcfg.EnvOrDefault(key, strconv.FormatFloat(def, 'f', -1, 64))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s: %q is not a finite number", key, s)
	}
	return v, nil
}
