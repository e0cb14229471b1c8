package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

type Config struct {
	APIBaseURL string `json:"api_base_url"`
	DataDir    string `json:"data_dir"`

	// Session identity expiry horizon
	SessionTTL time.Duration `json:"session_ttl"`

	// Bank linking callback
	CallbackAddr string        `json:"callback_addr"`
	LinkTimeout  time.Duration `json:"link_timeout"`

	// Zero means the transport decides when a call has failed.
	RequestTimeout time.Duration `json:"request_timeout"`

	Locale          string `json:"locale"`
	DefaultCurrency string `json:"default_currency"`

	CacheEnabled bool          `json:"cache_enabled"`
	CacheTTL     time.Duration `json:"cache_ttl"`

	LogLevel string `json:"log_level"`
	Debug    bool   `json:"debug"`
}

func DefaultConfig() *Config {
	cfg := &Config{
		APIBaseURL: "http://localhost:5000",
		DataDir:    defaultDataDir(),

		SessionTTL: 30 * 24 * time.Hour,

		CallbackAddr: "127.0.0.1:8765",
		LinkTimeout:  5 * time.Minute,

		Locale:          "ar-SA",
		DefaultCurrency: "SAR",

		CacheEnabled: true,
		CacheTTL:     30 * time.Second,

		LogLevel: "info",
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg.loadFromEnv()

	return cfg
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir, _ = os.Getwd()
	}
	return filepath.Join(dir, "NamaaGo")
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("NAMAA_API_BASE_URL"); val != "" {
		c.APIBaseURL = strings.TrimRight(val, "/")
	}
	if val := os.Getenv("NAMAA_DATA_DIR"); val != "" {
		c.DataDir = val
	}

	if val := os.Getenv("NAMAA_SESSION_TTL_DAYS"); val != "" {
		if days, err := strconv.Atoi(val); err == nil {
			c.SessionTTL = time.Duration(days) * 24 * time.Hour
		}
	}

	if val := os.Getenv("NAMAA_CALLBACK_ADDR"); val != "" {
		c.CallbackAddr = val
	}
	if val := os.Getenv("NAMAA_LINK_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.LinkTimeout = d
		}
	}
	if val := os.Getenv("NAMAA_REQUEST_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.RequestTimeout = d
		}
	}

	if val := os.Getenv("NAMAA_LOCALE"); val != "" {
		c.Locale = val
	}
	if val := os.Getenv("NAMAA_DEFAULT_CURRENCY"); val != "" {
		c.DefaultCurrency = strings.ToUpper(val)
	}

	if val := os.Getenv("NAMAA_CACHE_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.CacheEnabled = enabled
		}
	}
	if val := os.Getenv("NAMAA_CACHE_TTL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.CacheTTL = d
		}
	}

	if val := os.Getenv("NAMAA_LOG_LEVEL"); val != "" {
		c.LogLevel = strings.ToLower(val)
	}
	if val := os.Getenv("NAMAA_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
}

// Validate checks the values a session cannot run without.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api base url %q", c.APIBaseURL)
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data dir is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	if _, _, err := net.SplitHostPort(c.CallbackAddr); err != nil {
		return fmt.Errorf("invalid callback addr %q: %w", c.CallbackAddr, err)
	}
	if c.LinkTimeout <= 0 {
		return fmt.Errorf("link timeout must be positive")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout cannot be negative")
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	if _, err := currency.ParseISO(c.DefaultCurrency); err != nil {
		return fmt.Errorf("invalid default currency %q: %w", c.DefaultCurrency, err)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache ttl cannot be negative")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return nil
}

func (c *Config) SessionPath() string {
	return filepath.Join(c.DataDir, "session.json")
}

func (c *Config) PreferencesPath() string {
	return filepath.Join(c.DataDir, "preferences.json")
}

func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "namaa.log")
}

func (c *Config) EnsureDirectories() error {
	path := strings.TrimSpace(c.DataDir)
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(path, 0o700); err != nil {
		return fmt.Errorf("create directory %s: %w", path, err)
	}
	return nil
}
