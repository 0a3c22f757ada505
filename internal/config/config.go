// Package config loads floatchat configuration from .env files,
// environment variables, and an optional YAML override file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values.
type Config struct {
	// LLM providers
	MistralAPIKey string `yaml:"mistral_api_key"`
	GroqAPIKey    string `yaml:"groq_api_key"`

	// Profile data
	DataDir   string `yaml:"data_dir"`
	ExportDir string `yaml:"export_dir"`

	// Logging
	LogFile  string     `yaml:"log_file"`
	LogLevel slog.Level `yaml:"-"`

	rawLogLevel string
}

// Load reads configuration: .env discovery first, then environment
// variables with defaults, then floatchat.yaml overrides when present.
func Load() Config {
	LoadDotenv()

	cfg := Config{
		MistralAPIKey: os.Getenv("MISTRAL_API_KEY"),
		GroqAPIKey:    os.Getenv("GROQ_API_KEY"),
		DataDir:       getEnv("FLOATCHAT_DATA_DIR", "Datasetjson"),
		ExportDir:     getEnv("FLOATCHAT_EXPORT_DIR", "exports"),
		LogFile:       getEnv("FLOATCHAT_LOG_FILE", "/tmp/floatchat.log"),
		rawLogLevel:   getEnv("FLOATCHAT_LOG_LEVEL", "INFO"),
	}

	cfg.applyFile("floatchat.yaml")
	cfg.LogLevel = parseLogLevel(cfg.rawLogLevel)
	return cfg
}

// HasMistral reports whether a usable Mistral key is configured. Keys
// shorter than a plausible minimum are treated as absent.
func (c Config) HasMistral() bool {
	return len(strings.TrimSpace(c.MistralAPIKey)) > 10
}

// HasGroq reports whether a Groq key is configured.
func (c Config) HasGroq() bool {
	return strings.TrimSpace(c.GroqAPIKey) != ""
}

// LoadDotenv tries the .env discovery chain: current directory, then
// parent, then the executable's directory. The first hit wins; a
// missing .env is not an error.
func LoadDotenv() bool {
	candidates := []string{".env", filepath.Join("..", ".env")}
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), ".env"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			slog.Warn("failed to load .env", "path", path, "error", err)
			continue
		}
		return true
	}
	return false
}

// applyFile overlays non-empty values from a YAML config file. A
// missing file is ignored; a malformed one is reported and skipped.
func (c *Config) applyFile(path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var file Config
	if err := yaml.Unmarshal(raw, &file); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: ignoring malformed %s: %v\n", path, err)
		return
	}

	if file.MistralAPIKey != "" {
		c.MistralAPIKey = file.MistralAPIKey
	}
	if file.GroqAPIKey != "" {
		c.GroqAPIKey = file.GroqAPIKey
	}
	if file.DataDir != "" {
		c.DataDir = file.DataDir
	}
	if file.ExportDir != "" {
		c.ExportDir = file.ExportDir
	}
	if file.LogFile != "" {
		c.LogFile = file.LogFile
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
