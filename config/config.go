package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	APIKeyPathEnvVar = "OPENAI_API_KEY_FILE"
	AltEnvPathVar    = "MULTIMODAL_GAMER"
	DefaultModel     = "gpt-4-vision-preview"
	DefaultGame      = "poker"
	DefaultDir       = "screenshots"
	ScreenshotName   = "screenshot.png"
)

type LoadOptions struct {
	APIKeyPathOverride string
	GameOverride       string
	ModelOverride      string
	StrategyOverride   string
	VerboseOverride    *bool
}

type Config struct {
	APIKey            string
	APIKeyPath        string
	BaseURL           string
	Model             string
	Game              string
	Strategy          string // empty keeps the game's own strategy
	ScreenshotDir     string
	MatchThreshold    float64
	OCRLanguages      []string
	MaxUploadWidth    int
	CycleIntervalSec  int
	Verbose           bool
	EnableFileLogging bool
	PingOnStart       bool
}

// ScreenshotPath is the file every cycle overwrites.
func (c *Config) ScreenshotPath() string {
	return filepath.Join(c.ScreenshotDir, ScreenshotName)
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Load configuration from sources in priority order:
	// 1) .env in the working directory, then the executable directory
	// 2) If not found, use MULTIMODAL_GAMER env var as a path to a config file
	envPath := resolveEnvPath()
	dotenvValues := readDotenvValues(envPath)
	if envPath != "" {
		_ = godotenv.Load(envPath)
	}

	apiKeyPath := resolveAPIKeyPath(opts, dotenvValues)

	cfg := &Config{
		APIKey:            resolveAPIKey(apiKeyPath),
		APIKeyPath:        apiKeyPath,
		BaseURL:           os.Getenv("OPENAI_BASE_URL"),
		Model:             getEnvWithDefault("MODEL", DefaultModel),
		Game:              strings.ToLower(getEnvWithDefault("GAME", DefaultGame)),
		Strategy:          strings.TrimSpace(os.Getenv("STRATEGY")),
		ScreenshotDir:     getEnvWithDefault("SCREENSHOT_DIR", DefaultDir),
		MatchThreshold:    getEnvFloat("MATCH_THRESHOLD", 0.6),
		OCRLanguages:      splitList(getEnvWithDefault("OCR_LANGUAGE", "eng")),
		MaxUploadWidth:    getEnvInt("MAX_UPLOAD_WIDTH", 1920),
		CycleIntervalSec:  getEnvInt("CYCLE_INTERVAL_SEC", 3),
		Verbose:           getEnvBool("VERBOSE"),
		EnableFileLogging: getEnvBool("ENABLE_FILE_LOGGING"),
		PingOnStart:       getEnvBool("PING_ON_START"),
	}

	if v := strings.TrimSpace(opts.GameOverride); v != "" {
		cfg.Game = strings.ToLower(v)
	}
	if v := strings.TrimSpace(opts.ModelOverride); v != "" {
		cfg.Model = v
	}
	if v := strings.TrimSpace(opts.StrategyOverride); v != "" {
		cfg.Strategy = v
	}
	if opts.VerboseOverride != nil {
		cfg.Verbose = *opts.VerboseOverride
	}

	return cfg, nil
}

func resolveEnvPath() string {
	candidates := []string{".env"}
	if execPath, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(execPath), ".env"))
	}
	if alt := os.Getenv(AltEnvPathVar); alt != "" {
		candidates = append(candidates, alt)
	}

	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func readDotenvValues(envPath string) map[string]string {
	if envPath == "" {
		return map[string]string{}
	}

	values, err := godotenv.Read(envPath)
	if err != nil {
		return map[string]string{}
	}

	return values
}

func resolveAPIKeyPath(opts LoadOptions, dotenvValues map[string]string) string {
	keyPath := ""

	if envPath := strings.TrimSpace(os.Getenv(APIKeyPathEnvVar)); envPath != "" {
		keyPath = envPath
	}

	if dotenvPath := strings.TrimSpace(dotenvValues[APIKeyPathEnvVar]); dotenvPath != "" {
		keyPath = dotenvPath
	}

	if overridePath := strings.TrimSpace(opts.APIKeyPathOverride); overridePath != "" {
		keyPath = overridePath
	}

	return keyPath
}

func resolveAPIKey(keyPath string) string {
	if keyPath != "" {
		if data, err := os.ReadFile(keyPath); err == nil {
			if fileKey := strings.TrimSpace(string(data)); fileKey != "" {
				return fileKey
			}
		}
	}

	return os.Getenv("OPENAI_API_KEY")
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 && f <= 1 {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '+' }) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
