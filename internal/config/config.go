package config

import (
	"log/slog"
	"os"
	"strconv"
)

const (
	DefaultLogLevel       = "info"
	DefaultMetricsInput   = "metrics_paradoxe_8_9.json"
	DefaultCSVOutputDir   = "csv_output"
	DefaultPowercapPrefix = "metrics_powercap_"
	DefaultTargetDevice   = "chirop-5"
	DefaultRollingWindow  = 30
	DefaultHistogramBins  = 30
)

// Config holds the settings shared by every subcommand. Flags override the
// values loaded from the environment.
type Config struct {
	LogLevel        string
	MetricsInput    string
	CSVOutputDir    string
	PowercapPrefix  string
	TargetDevice    string
	MetricsTextfile string
	RollingWindow   int
	HistogramBins   int
}

// Load reads the configuration from the environment.
func Load() Config {
	return Config{
		LogLevel:        getEnv("LOG_LEVEL", DefaultLogLevel),
		MetricsInput:    getEnv("METRICS_INPUT", DefaultMetricsInput),
		CSVOutputDir:    getEnv("CSV_OUTPUT_DIR", DefaultCSVOutputDir),
		PowercapPrefix:  getEnv("POWERCAP_PREFIX", DefaultPowercapPrefix),
		TargetDevice:    getEnv("TARGET_DEVICE", DefaultTargetDevice),
		MetricsTextfile: os.Getenv("METRICS_TEXTFILE"),
		RollingWindow:   getEnvInt("ROLLING_WINDOW", DefaultRollingWindow),
		HistogramBins:   getEnvInt("HISTOGRAM_BINS", DefaultHistogramBins),
	}
}

// Logger is the subset of the application logger used to print the
// effective configuration.
type Logger interface {
	Info(msg string, args ...any)
}

// LogConfig prints the effective configuration.
func LogConfig(logger Logger, cfg Config) {
	if logger == nil {
		return
	}
	logger.Info("configuration",
		"LOG_LEVEL", cfg.LogLevel,
		"METRICS_INPUT", cfg.MetricsInput,
		"CSV_OUTPUT_DIR", cfg.CSVOutputDir,
		"POWERCAP_PREFIX", cfg.PowercapPrefix,
		"TARGET_DEVICE", cfg.TargetDevice,
		"METRICS_TEXTFILE", emptyFallback(cfg.MetricsTextfile, "(disabled)"),
		"ROLLING_WINDOW", cfg.RollingWindow,
		"HISTOGRAM_BINS", cfg.HistogramBins,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
		slog.Warn("invalid integer setting, using default", "key", key, "value", value, "default", fallback)
	}
	return fallback
}

func emptyFallback(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
