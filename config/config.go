package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
)

// AppConfig holds configuration for the DeepLink client and the bundled
// development server. Values come from config/config.json with environment
// variable overrides; nothing here is required, every field has a default.
type AppConfig struct {
	// API endpoints
	BaseURL   string `json:"base_url"`
	WSBaseURL string `json:"ws_base_url"`

	// HTTP client behaviour
	RequestTimeoutSec  int `json:"request_timeout_sec"`
	RateLimitPerMinute int `json:"rate_limit_per_minute"`

	// Local preference storage
	PrefsPath string `json:"prefs_path"`

	// Logging configuration
	LogLevel      string `json:"log_level"`
	LogPath       string `json:"log_path"`
	LogMaxSizeMB  int    `json:"log_max_size_mb"`
	LogMaxBackups int    `json:"log_max_backups"`
	LogMaxAgeDays int    `json:"log_max_age_days"`
	LogCompress   bool   `json:"log_compress"`

	// Development server
	DevServerPort string `json:"dev_server_port"`
	DevJWTSecret  string `json:"dev_jwt_secret"`
	GinMode       string `json:"gin_mode"`
}

var cfg AppConfig
var loaded bool

// Load reads configuration once during boot.
// Precedence: config/config.json -> defaults -> environment variable overrides.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	_ = loadJSONConfig(filepath.Join("config", "config.json"), &cfg)
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// Reset clears the cached configuration. Intended for tests.
func Reset() {
	cfg = AppConfig{}
	loaded = false
}

// Default returns a config with all defaults applied and no file or
// environment input. Useful for embedding the SDK in another program.
func Default() AppConfig {
	var c AppConfig
	applyDefaults(&c)
	return c
}

func applyDefaults(c *AppConfig) {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:8000"
	}
	if c.WSBaseURL == "" {
		c.WSBaseURL = "ws://localhost:8000"
	}
	if c.RequestTimeoutSec == 0 {
		c.RequestTimeoutSec = 15
	}
	if c.PrefsPath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.PrefsPath = filepath.Join(home, ".deeplink", "prefs.yaml")
		} else {
			c.PrefsPath = "prefs.yaml"
		}
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.DevServerPort == "" {
		c.DevServerPort = "8000"
	}
	if c.DevJWTSecret == "" {
		c.DevJWTSecret = "deeplink-dev-secret"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
}

func applyEnvOverrides(c *AppConfig) {
	c.BaseURL = getEnv("DEEPLINK_BASE_URL", c.BaseURL)
	c.WSBaseURL = getEnv("DEEPLINK_WS_BASE_URL", c.WSBaseURL)
	c.PrefsPath = getEnv("DEEPLINK_PREFS_PATH", c.PrefsPath)
	c.LogLevel = getEnv("DEEPLINK_LOG_LEVEL", c.LogLevel)
	c.LogPath = getEnv("DEEPLINK_LOG_PATH", c.LogPath)
	c.DevServerPort = getEnv("DEEPLINK_DEV_PORT", c.DevServerPort)
	c.DevJWTSecret = getEnv("DEEPLINK_DEV_JWT_SECRET", c.DevJWTSecret)
	c.GinMode = getEnv("DEEPLINK_GIN_MODE", c.GinMode)
	c.RequestTimeoutSec = getEnvInt("DEEPLINK_REQUEST_TIMEOUT_SEC", c.RequestTimeoutSec)
	c.RateLimitPerMinute = getEnvInt("DEEPLINK_RATE_LIMIT_PER_MINUTE", c.RateLimitPerMinute)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

// loadJSONConfig reads a JSON file into cfg if present. Returns error only for invalid JSON.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil // silently ignore missing file
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	return dec.Decode(out)
}
