// Package config loads process-level configuration from environment
// variables, following the same getEnv/getEnvInt/getEnvBool idiom used
// across the example corpus for env-backed config.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all process-level knobs for the ingest and query
// processes: the sqlite DSN, reference config file paths, the accepted
// language set, and the score threshold of §4.4's acceptance gate.
type Config struct {
	// Storage
	SQLiteDSN string

	// Reference config file paths (§6)
	LanguagesConfigPath         string
	LexicalCategoriesConfigPath string
	EntityTypeLabelsConfigPath  string
	DatasetsConfigPath          string

	// Acceptance gate (§4.4)
	AcceptedLanguages  []string
	ScoreThreshold     float64
	MaxChunkChars      int
	SuitabilityMinimum int

	// HTTP server (query service, §4.8)
	ServerAddress string
	LogLevel      string
	EnableCORS    bool

	// CLI caps (§6, §4.7)
	MaxDocumentsPerDataset int
	MaxDatasets            int
}

// Load reads configuration from the environment, applying the defaults
// named throughout spec.md where an env var is unset.
func Load() *Config {
	return &Config{
		SQLiteDSN:                   getEnv("RIKSDAGEN_SQLITE_DSN", "riksdagen.db"),
		LanguagesConfigPath:         getEnv("RIKSDAGEN_LANGUAGES_CONFIG", "config/languages.yaml"),
		LexicalCategoriesConfigPath: getEnv("RIKSDAGEN_LEXICAL_CATEGORIES_CONFIG", "config/lexical_categories.yaml"),
		EntityTypeLabelsConfigPath:  getEnv("RIKSDAGEN_ENTITY_TYPE_LABELS_CONFIG", "config/entity_type_labels.yaml"),
		DatasetsConfigPath:          getEnv("RIKSDAGEN_DATASETS_CONFIG", "config/datasets.yaml"),

		AcceptedLanguages:  getEnvStringSlice("RIKSDAGEN_ACCEPTED_LANGUAGES", []string{"sv", "en", "nb", "de", "fr"}),
		ScoreThreshold:     getEnvFloat("RIKSDAGEN_SCORE_THRESHOLD", 0.4),
		MaxChunkChars:      getEnvInt("RIKSDAGEN_MAX_CHUNK_CHARS", 100_000),
		SuitabilityMinimum: getEnvInt("RIKSDAGEN_SUITABILITY_MINIMUM_WORDS", 5),

		ServerAddress: getEnv("RIKSDAGEN_SERVER_ADDRESS", ":8080"),
		LogLevel:      getEnv("RIKSDAGEN_LOG_LEVEL", "info"),
		EnableCORS:    getEnvBool("RIKSDAGEN_ENABLE_CORS", true),

		MaxDocumentsPerDataset: getEnvInt("RIKSDAGEN_MAX_DOCUMENTS", 0),
		MaxDatasets:            getEnvInt("RIKSDAGEN_MAX_DATASETS", 0),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
