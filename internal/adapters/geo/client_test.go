package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/phenrril/freshtrade/internal/domain"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "freshtrade-test" {
			t.Errorf("Expected user agent, got %q", r.Header.Get("User-Agent"))
		}
		switch r.URL.Query().Get("q") {
		case "Almería, ES":
			w.Write([]byte(`[{"lat":"36.834047","lon":"-2.463713"}]`))
		case "Roto":
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("ocupado"))
		default:
			w.Write([]byte(`[]`))
		}
	})
	mux.HandleFunc("/route/v1/driving/", func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "0.000000,0.000000") {
			w.Write([]byte(`{"code":"NoRoute","routes":[]}`))
			return
		}
		w.Write([]byte(`{"code":"Ok","routes":[{"distance":1850000,"duration":72000}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGeocode(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL+"/", srv.URL, "freshtrade-test", time.Second)

	got, err := c.Geocode(context.Background(), " Almería, ES ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Lat != 36.834047 || got.Lng != -2.463713 {
		t.Errorf("Unexpected coordinates %+v", got)
	}

	if _, err := c.Geocode(context.Background(), "Atlántida"); !errors.Is(err, ErrNoResults) {
		t.Errorf("Expected ErrNoResults, got %v", err)
	}
	if _, err := c.Geocode(context.Background(), "Roto"); err == nil || !strings.Contains(err.Error(), "503") {
		t.Errorf("Expected status error, got %v", err)
	}
	if _, err := c.Geocode(context.Background(), "  "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestRoadDistance(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, srv.URL, "freshtrade-test", time.Second)

	d, err := c.RoadDistance(context.Background(), domain.Coordinates{Lat: 36.8, Lng: -2.4}, domain.Coordinates{Lat: 51.9, Lng: 4.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Success || d.DistanceKm != 1850 || d.DurationMinutes != 1200 {
		t.Errorf("Unexpected distance %+v", d)
	}

	d, err = c.RoadDistance(context.Background(), domain.Coordinates{}, domain.Coordinates{Lat: 51.9, Lng: 4.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Success {
		t.Errorf("Expected no route, got %+v", d)
	}
}

func TestRoadDistanceCancelled(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, srv.URL, "", time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.RoadDistance(ctx, domain.Coordinates{Lat: 1}, domain.Coordinates{Lat: 2}); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
