package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// GetDSN usa DB_DSN si está definido; si no lo arma con las partes.
func (c DBConfig) GetDSN() string {
	if strings.TrimSpace(c.DSN) != "" {
		return c.DSN
	}
	return "host=" + c.Host + " user=" + c.User + " password=" + c.Password + " dbname=" + c.Name + " port=" + c.Port + " sslmode=" + c.SSLMode
}

type GeoConfig struct {
	GeocoderURL string
	RouterURL   string
	UserAgent   string
	Timeout     time.Duration
	// SuggestionLimit y SuggestionDelay acotan las llamadas externas de rutas alternativas.
	SuggestionLimit int
	SuggestionDelay time.Duration
}

type TradeConfig struct {
	DefaultMarginPct     float64
	DefaultCurrency      string
	OpportunityValidDays int
}

type Config struct {
	Env      string
	Port     string
	LogLevel string

	// RateLimit es pedidos por minuto por IP en la API.
	RateLimit int
	DB        DBConfig
	Geo       GeoConfig
	Trade     TradeConfig
}

// Load lee el .env (si existe) y las variables de entorno.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:       strings.ToLower(getEnv("APP_ENV", "development")),
		Port:      getEnv("PORT", "8080"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		RateLimit: getEnvAsInt("API_RATE_LIMIT", 120),
		DB: DBConfig{
			DSN:             os.Getenv("DB_DSN"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", getEnv("POSTGRES_USER", "postgres")),
			Password:        getEnv("DB_PASSWORD", getEnv("POSTGRES_PASSWORD", "postgres")),
			Name:            getEnv("DB_NAME", getEnv("POSTGRES_DB", "freshtrade")),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 50),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		Geo: GeoConfig{
			GeocoderURL:     getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
			RouterURL:       getEnv("ROUTER_URL", "https://router.project-osrm.org"),
			UserAgent:       getEnv("GEO_USER_AGENT", "freshtrade/1.0"),
			Timeout:         getEnvAsDuration("GEO_TIMEOUT", 10*time.Second),
			SuggestionLimit: getEnvAsInt("ROUTE_SUGGESTION_LIMIT", 10),
			SuggestionDelay: getEnvAsDuration("ROUTE_SUGGESTION_DELAY", time.Second),
		},
		Trade: TradeConfig{
			DefaultMarginPct:     getEnvAsFloat("DEFAULT_MARGIN_PCT", 15),
			DefaultCurrency:      strings.ToUpper(getEnv("DEFAULT_CURRENCY", "EUR")),
			OpportunityValidDays: getEnvAsInt("OPPORTUNITY_VALID_DAYS", 7),
		},
	}
}

func (c *Config) IsDev() bool {
	return c.Env == "" || c.Env == "development" || c.Env == "dev"
}

// ZerologLevel traduce LOG_LEVEL; un valor inválido queda en info.
func (c *Config) ZerologLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(c.LogLevel)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvAsInt(key string, def int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return def
}

func getEnvAsFloat(key string, def float64) float64 {
	if v, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return v
	}
	return def
}

// getEnvAsDuration acepta "1s", "500ms" o un número de segundos.
func getEnvAsDuration(key string, def time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}
