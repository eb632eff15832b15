package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"DB_DSN", "PORT", "ROUTE_SUGGESTION_LIMIT", "ROUTE_SUGGESTION_DELAY", "DEFAULT_MARGIN_PCT", "DEFAULT_CURRENCY"} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", c.Port)
	}
	if c.Geo.SuggestionLimit != 10 || c.Geo.SuggestionDelay != time.Second {
		t.Errorf("Expected 10 candidates every 1s, got %d / %s", c.Geo.SuggestionLimit, c.Geo.SuggestionDelay)
	}
	if c.Trade.DefaultMarginPct != 15 || c.Trade.DefaultCurrency != "EUR" {
		t.Errorf("Expected 15%% EUR, got %v %s", c.Trade.DefaultMarginPct, c.Trade.DefaultCurrency)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ROUTE_SUGGESTION_DELAY", "250ms")
	t.Setenv("GEO_TIMEOUT", "3")
	t.Setenv("DEFAULT_MARGIN_PCT", "12.5")
	t.Setenv("DB_DSN", "postgres://x")
	t.Setenv("LOG_LEVEL", "nope")
	c := Load()
	if c.Geo.SuggestionDelay != 250*time.Millisecond {
		t.Errorf("Expected 250ms, got %s", c.Geo.SuggestionDelay)
	}
	if c.Geo.Timeout != 3*time.Second {
		t.Errorf("Expected 3s, got %s", c.Geo.Timeout)
	}
	if c.Trade.DefaultMarginPct != 12.5 {
		t.Errorf("Expected 12.5, got %v", c.Trade.DefaultMarginPct)
	}
	if c.DB.GetDSN() != "postgres://x" {
		t.Errorf("Expected DSN override, got %s", c.DB.GetDSN())
	}
	if c.ZerologLevel() != zerolog.InfoLevel {
		t.Errorf("Expected info level fallback, got %s", c.ZerologLevel())
	}
}
