package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/phenrril/freshtrade/internal/domain"
)

// fakeGeo mide la distancia como |Δlat| * 100 km; lat 99 no tiene ruta.
type fakeGeo struct {
	geocoded []string
	calls    int
}

func (g *fakeGeo) Geocode(ctx context.Context, location string) (domain.Coordinates, error) {
	g.geocoded = append(g.geocoded, location)
	if location == "Nowhere" {
		return domain.Coordinates{}, errors.New("sin resultados")
	}
	return domain.Coordinates{Lat: 10, Lng: 0}, nil
}

func (g *fakeGeo) RoadDistance(ctx context.Context, from, to domain.Coordinates) (domain.RoadDistance, error) {
	g.calls++
	if from.Lat == 99 || to.Lat == 99 {
		return domain.RoadDistance{}, nil
	}
	d := from.Lat - to.Lat
	if d < 0 {
		d = -d
	}
	return domain.RoadDistance{DistanceKm: d * 100, DurationMinutes: d * 60, Success: true}, nil
}

func hubAt(name string, lat float64, transship bool) domain.Hub {
	return domain.Hub{ID: uuid.New(), Name: name, Latitude: f64(lat), Longitude: f64(0), CanTransship: transship, IsActive: true}
}

func TestSuggestAlternatives(t *testing.T) {
	m := newMemStore()
	origin, dest := hubAt("Origen", 0, true), hubAt("Destino", 10, true)
	far, near, broken := hubAt("Lejos", 30, true), hubAt("Cerca", 5, true), hubAt("Roto", 99, true)
	geocoded := domain.Hub{ID: uuid.New(), Name: "Sin coords", City: "Lyon", Country: "FR", CanTransship: true}
	plain := hubAt("Sin transbordo", 5, false)
	m.hubs = []domain.Hub{origin, dest, far, near, broken, geocoded, plain}
	m.routes = []domain.TransporterRoute{
		{ID: uuid.New(), OriginHubID: origin.ID, DestinationHubID: near.ID, IsActive: true},
		{ID: uuid.New(), OriginHubID: near.ID, DestinationHubID: dest.ID, IsActive: true},
	}
	geo := &fakeGeo{}
	uc := NewRouteUC(m.store(), geo, 0, 0)

	out, err := uc.SuggestAlternatives(context.Background(), origin.ID, dest.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("Expected 3 alternatives (broken skipped), got %d", len(out))
	}
	if out[0].Hub.ID != near.ID || out[0].TotalDistanceKm != 1000 {
		t.Errorf("Expected Cerca first at 1000 km, got %s %v", out[0].Hub.Name, out[0].TotalDistanceKm)
	}
	if !out[0].HasTransporterRoutes {
		t.Error("Expected Cerca to have transporter routes")
	}
	for i := 1; i < len(out); i++ {
		if out[i].TotalDistanceKm < out[i-1].TotalDistanceKm {
			t.Errorf("Expected ascending distance, got %v", out)
		}
		if out[i].HasTransporterRoutes {
			t.Errorf("Expected %s without transporter routes", out[i].Hub.Name)
		}
	}
	if len(geo.geocoded) != 1 || geo.geocoded[0] != "Lyon, FR" {
		t.Errorf("Expected only the hub without coordinates geocoded, got %v", geo.geocoded)
	}
}

func TestSuggestAlternativesLimit(t *testing.T) {
	m := newMemStore()
	origin, dest := hubAt("Origen", 0, false), hubAt("Destino", 10, false)
	m.hubs = []domain.Hub{origin, dest}
	for i := 0; i < 15; i++ {
		m.hubs = append(m.hubs, hubAt(fmt.Sprintf("Hub %02d", i), float64(i), true))
	}
	geo := &fakeGeo{}
	uc := NewRouteUC(m.store(), geo, 4, 0)

	out, err := uc.SuggestAlternatives(context.Background(), origin.ID, dest.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 4 {
		t.Errorf("Expected 4 alternatives, got %d", len(out))
	}
	if geo.calls != 8 {
		t.Errorf("Expected 2 road calls per candidate, got %d", geo.calls)
	}
}

func TestSuggestAlternativesErrors(t *testing.T) {
	m := newMemStore()
	origin, dest := hubAt("Origen", 0, false), hubAt("Destino", 10, false)
	nowhere := domain.Hub{ID: uuid.New(), Name: "Nowhere"}
	m.hubs = []domain.Hub{origin, dest, nowhere}
	uc := NewRouteUC(m.store(), &fakeGeo{}, 0, 0)

	if _, err := uc.SuggestAlternatives(context.Background(), origin.ID, origin.ID); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
	if _, err := uc.SuggestAlternatives(context.Background(), origin.ID, uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if _, err := uc.SuggestAlternatives(context.Background(), nowhere.ID, dest.ID); err == nil {
		t.Error("Expected geocoding error for origin")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m.hubs = append(m.hubs, domain.Hub{ID: uuid.New(), Name: "Transbordo", City: "Lyon", CanTransship: true})
	if _, err := uc.SuggestAlternatives(ctx, origin.ID, dest.ID); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestResolveRoute(t *testing.T) {
	s := newScenario()
	uc := NewRouteUC(s.m.store(), &fakeGeo{}, 0, 0)

	res, err := uc.Resolve(context.Background(), s.origin.ID, s.dest.ID, 40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Route == nil || res.Route.Kind != domain.RouteDirect || res.Route.PricePerUnit != 5 {
		t.Errorf("Unexpected route %+v", res.Route)
	}
	if len(res.Candidates) != 1 {
		t.Errorf("Expected 1 candidate, got %d", len(res.Candidates))
	}

	res, err = uc.Resolve(context.Background(), s.dest.ID, s.origin.ID, 40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Route != nil || len(res.Candidates) != 0 {
		t.Errorf("Expected no route back, got %+v", res.Route)
	}
	if _, err := uc.Resolve(context.Background(), s.origin.ID, uuid.New(), 40); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
