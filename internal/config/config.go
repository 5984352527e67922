package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP
	Port            int
	APIKey          string
	CORSAllowOrigin string

	// Database (optional; server runs in-memory without it)
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string

	// Price feed
	PriceAPIBaseURL string
	VsCurrency      string
	Instruments     []string
	CacheTTLSeconds int

	// Crypto page defaults
	HistoryWindowMinutes int
	PollIntervalSeconds  int

	// Sessions
	SessionIdleMinutes int

	// Network page
	EdgeFile     string
	MaxEdgeLimit int

	// Pie page
	PieFile string

	// Bio page
	BioName    string
	BioProgram string
	BioIntro   string
	BioPhoto   string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:            envInt("PORT", 3001),
		APIKey:          envStr("API_KEY", ""),
		CORSAllowOrigin: envStr("CORS_ALLOW_ORIGIN", "*"),

		DBHost:     envStr("DB_HOST", ""),
		DBPort:     envInt("DB_PORT", 5432),
		DBName:     envStr("DB_NAME", "cs39ae_dashboard"),
		DBUser:     envStr("DB_USER", ""),
		DBPassword: envStr("DB_PASSWORD", ""),

		PriceAPIBaseURL: envStr("PRICE_API_BASE_URL", "https://api.coingecko.com/api/v3"),
		VsCurrency:      envStr("VS_CURRENCY", "usd"),
		Instruments:     envList("INSTRUMENTS", []string{"bitcoin", "ethereum"}),
		CacheTTLSeconds: envInt("CACHE_TTL_SECONDS", 30),

		HistoryWindowMinutes: envInt("HISTORY_WINDOW_MINUTES", 10),
		PollIntervalSeconds:  envInt("POLL_INTERVAL_SECONDS", 30),

		SessionIdleMinutes: envInt("SESSION_IDLE_MINUTES", 30),

		EdgeFile:     envStr("EDGE_FILE", "data/edges.csv"),
		MaxEdgeLimit: envInt("MAX_EDGE_LIMIT", 20000),

		PieFile: envStr("PIE_FILE", "data/pie_demo.csv"),

		BioName:    envStr("BIO_NAME", "Vaishaghy"),
		BioProgram: envStr("BIO_PROGRAM", "Computer Science"),
		BioIntro:   envStr("BIO_INTRO", "Studying data visualization and network analysis."),
		BioPhoto:   envStr("BIO_PHOTO", "your_photo.jpg"),
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Sprintf("PORT %d out of range", c.Port))
	}
	if len(c.Instruments) == 0 {
		errs = append(errs, "INSTRUMENTS must name at least one instrument")
	}
	if c.HistoryWindowMinutes <= 0 {
		errs = append(errs, "HISTORY_WINDOW_MINUTES must be positive")
	}
	if c.PollIntervalSeconds <= 0 {
		errs = append(errs, "POLL_INTERVAL_SECONDS must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// DBConfigured reports whether enough is set to attempt a Postgres connection.
func (c *Config) DBConfigured() bool {
	return c.DBHost != "" && c.DBUser != ""
}

func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func (c *Config) HistoryWindow() time.Duration {
	return time.Duration(c.HistoryWindowMinutes) * time.Minute
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c *Config) SessionIdleTTL() time.Duration {
	return time.Duration(c.SessionIdleMinutes) * time.Minute
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
