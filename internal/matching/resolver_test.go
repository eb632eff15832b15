package matching

import (
	"testing"

	"github.com/google/uuid"

	"github.com/phenrril/freshtrade/internal/domain"
)

func TestResolveSameLocation(t *testing.T) {
	h := newHub("Madrid", false)
	rr := ResolveTransport(h.ID, h.ID, 40, nil, []domain.Hub{h})
	if rr == nil || rr.Kind != domain.RouteSameLocation {
		t.Fatalf("Expected SAME_LOCATION, got %+v", rr)
	}
	if rr.PricePerPallet != 0 || rr.DurationDays != 0 {
		t.Errorf("Expected zero cost and duration, got %v / %v", rr.PricePerPallet, rr.DurationDays)
	}
}

func TestResolveDirectPicksCheapestBand(t *testing.T) {
	o, h := newHub("Almeria", false), newHub("Rotterdam", false)
	r := newRoute("TransA", o.ID, h.ID, 2, 250, 0, 200, -10)
	rr := ResolveTransport(o.ID, h.ID, 40, []domain.TransporterRoute{r}, []domain.Hub{o, h})
	if rr == nil {
		t.Fatal("Expected a route, got nil")
	}
	if rr.Kind != domain.RouteDirect {
		t.Errorf("Expected DIRECT, got %s", rr.Kind)
	}
	if rr.PricePerPallet != 200 {
		t.Errorf("Expected 200 per pallet, got %v", rr.PricePerPallet)
	}
	if rr.PricePerUnit != 5 {
		t.Errorf("Expected 5.00 per unit, got %v", rr.PricePerUnit)
	}
	if rr.Legs[0].PriceBandID == nil || *rr.Legs[0].PriceBandID != r.PriceBands[2].ID {
		t.Errorf("Expected band %s, got %v", r.PriceBands[2].ID, rr.Legs[0].PriceBandID)
	}
}

func TestResolveDirectZeroUnits(t *testing.T) {
	o, h := newHub("Almeria", false), newHub("Rotterdam", false)
	r := newRoute("TransA", o.ID, h.ID, 2, 200)
	rr := ResolveTransport(o.ID, h.ID, 0, []domain.TransporterRoute{r}, []domain.Hub{o, h})
	if rr == nil || rr.PricePerUnit != 0 {
		t.Fatalf("Expected per unit 0 with zero units, got %+v", rr)
	}
}

func TestResolvePrefersDirectOverTransshipment(t *testing.T) {
	o, tr, h := newHub("Almeria", false), newHub("Perpignan", true), newHub("Rotterdam", false)
	routes := []domain.TransporterRoute{
		newRoute("Cara", o.ID, h.ID, 4, 500),
		newRoute("Barata1", o.ID, tr.ID, 1, 50),
		newRoute("Barata2", tr.ID, h.ID, 1, 50),
	}
	rr := ResolveTransport(o.ID, h.ID, 40, routes, []domain.Hub{o, tr, h})
	if rr == nil || rr.Kind != domain.RouteDirect {
		t.Fatalf("Expected DIRECT even if two legs are cheaper, got %+v", rr)
	}
	if rr.PricePerPallet != 500 {
		t.Errorf("Expected 500, got %v", rr.PricePerPallet)
	}
}

func TestResolveTransshipment(t *testing.T) {
	o, tr, h := newHub("Almeria", false), newHub("Perpignan", true), newHub("Rotterdam", false)
	tr.TransshipHandlingDays = 1
	tr.TransshipCostPerPallet = 15
	routes := []domain.TransporterRoute{
		newRoute("Leg1", o.ID, tr.ID, 1, 100),
		newRoute("Leg2", tr.ID, h.ID, 2, 80),
	}
	rr := ResolveTransport(o.ID, h.ID, 40, routes, []domain.Hub{o, tr, h})
	if rr == nil {
		t.Fatal("Expected a two-leg route, got nil")
	}
	if rr.Kind != domain.RouteTransshipment {
		t.Errorf("Expected TRANSSHIPMENT, got %s", rr.Kind)
	}
	if rr.PricePerPallet != 180 {
		t.Errorf("Expected 180, got %v", rr.PricePerPallet)
	}
	if rr.DurationDays != 3 {
		t.Errorf("Expected 3 days, got %d", rr.DurationDays)
	}
	if rr.PricePerUnit != 4.5 {
		t.Errorf("Expected 4.50 per unit, got %v", rr.PricePerUnit)
	}
	if rr.TransshipHubID == nil || *rr.TransshipHubID != tr.ID {
		t.Errorf("Expected transship hub %s, got %v", tr.ID, rr.TransshipHubID)
	}
	if rr.HandlingCostPerPallet != 15 || rr.TotalWithHandlingPerPallet() != 195 {
		t.Errorf("Expected handling 15 kept apart, got %v / %v", rr.HandlingCostPerPallet, rr.TotalWithHandlingPerPallet())
	}
	if len(rr.Legs) != 2 || rr.Legs[0].TransporterName != "Leg1" || rr.Legs[1].DestinationHubName != "Rotterdam" {
		t.Errorf("Unexpected legs: %+v", rr.Legs)
	}
}

func TestResolveNeverTransshipsThroughDisabledHub(t *testing.T) {
	o, mid, h := newHub("Almeria", false), newHub("Lyon", false), newHub("Rotterdam", false)
	routes := []domain.TransporterRoute{
		newRoute("Leg1", o.ID, mid.ID, 1, 100),
		newRoute("Leg2", mid.ID, h.ID, 2, 80),
	}
	if rr := ResolveTransport(o.ID, h.ID, 40, routes, []domain.Hub{o, mid, h}); rr != nil {
		t.Errorf("Expected nil through non-transship hub, got %+v", rr)
	}
	for _, c := range NewNetwork(routes, []domain.Hub{o, mid, h}).Candidates(o.ID, h.ID, 40) {
		if c.TransshipHubID != nil && *c.TransshipHubID == mid.ID {
			t.Errorf("Expected %s never as intermediate", mid.Name)
		}
	}
}

func TestResolveIgnoresInactiveAndUnpricedRoutes(t *testing.T) {
	o, h := newHub("Almeria", false), newHub("Rotterdam", false)
	inactive := newRoute("Off", o.ID, h.ID, 1, 10)
	inactive.IsActive = false
	unpriced := newRoute("Free", o.ID, h.ID, 1, 0)
	if rr := ResolveTransport(o.ID, h.ID, 40, []domain.TransporterRoute{inactive, unpriced}, []domain.Hub{o, h}); rr != nil {
		t.Errorf("Expected nil, got %+v", rr)
	}
}

func TestCandidatesTieBreak(t *testing.T) {
	o, h := newHub("Almeria", false), newHub("Rotterdam", false)
	routes := []domain.TransporterRoute{
		newRoute("Zeta", o.ID, h.ID, 2, 200),
		newRoute("Beta", o.ID, h.ID, 3, 200),
		newRoute("Alfa", o.ID, h.ID, 2, 200),
	}
	c := NewNetwork(routes, []domain.Hub{o, h}).Candidates(o.ID, h.ID, 40)
	got := []string{c[0].Legs[0].TransporterName, c[1].Legs[0].TransporterName, c[2].Legs[0].TransporterName}
	want := []string{"Alfa", "Zeta", "Beta"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected order %v, got %v", want, got)
			break
		}
	}
}

func TestResolveForPrice(t *testing.T) {
	o, h := newHub("Almeria", false), newHub("Rotterdam", false)
	s := newSupplier("Agro")
	spec := boxSpec(40)
	n := NewNetwork([]domain.TransporterRoute{newRoute("T", o.ID, h.ID, 2, 200)}, []domain.Hub{o, h})

	delivery := price(s, spec, o.ID, domain.DeliveryModeDelivery, 2)
	if rr := n.ResolveForPrice(&delivery, h.ID, 40); rr == nil || rr.Kind != domain.RouteSupplierDelivery || rr.PricePerUnit != 0 {
		t.Errorf("Expected SUPPLIER_DELIVERY at zero cost, got %+v", rr)
	}
	atHub := price(s, spec, h.ID, domain.DeliveryModeExWorks, 2)
	if rr := n.ResolveForPrice(&atHub, h.ID, 40); rr == nil || rr.Kind != domain.RouteSameLocation {
		t.Errorf("Expected SAME_LOCATION, got %+v", rr)
	}
	exw := price(s, spec, o.ID, domain.DeliveryModeExWorks, 2)
	if rr := n.ResolveForPrice(&exw, h.ID, 40); rr == nil || rr.Kind != domain.RouteDirect {
		t.Errorf("Expected DIRECT, got %+v", rr)
	}
	if rr := n.ResolveForPrice(nil, h.ID, 40); rr != nil {
		t.Errorf("Expected nil without price, got %+v", rr)
	}
}

func TestReprice(t *testing.T) {
	o, h := newHub("Almeria", false), newHub("Rotterdam", false)
	r := newRoute("T", o.ID, h.ID, 2, 200, 240)
	n := NewNetwork([]domain.TransporterRoute{r}, []domain.Hub{o, h})
	rr := n.Resolve(o.ID, h.ID, 40)

	got, ok := n.Reprice(rr, r.PriceBands[1].ID, 40)
	if !ok {
		t.Fatal("Expected band on route")
	}
	if got.PricePerPallet != 240 || got.PricePerUnit != 6 {
		t.Errorf("Expected 240 / 6, got %v / %v", got.PricePerPallet, got.PricePerUnit)
	}
	if rr.PricePerPallet != 200 {
		t.Errorf("Expected original untouched, got %v", rr.PricePerPallet)
	}
	if _, ok := n.Reprice(rr, uuid.New(), 40); ok {
		t.Error("Expected unknown band to be rejected")
	}
}

// gappedRoute: 1-4 pallets a 250, 10 o más a 180; de 5 a 9 no hay tramo.
func gappedRoute(origin, destination uuid.UUID) domain.TransporterRoute {
	r := newRoute("T", origin, destination, 2)
	four := 4
	r.PriceBands = []domain.PriceBand{
		{ID: uuid.New(), RouteID: r.ID, MinPallets: 1, MaxPallets: &four, PricePerPallet: 250},
		{ID: uuid.New(), RouteID: r.ID, MinPallets: 10, PricePerPallet: 180},
		{ID: uuid.New(), RouteID: r.ID, MinPallets: 1, PricePerPallet: 0},
	}
	return r
}

func TestBandForPallets(t *testing.T) {
	r := gappedRoute(uuid.New(), uuid.New())
	tests := []struct {
		name    string
		pallets int
		want    float64
		ok      bool
	}{
		{"primer tramo", 3, 250, true},
		{"tope del primer tramo", 4, 250, true},
		{"hueco", 7, 0, false},
		{"tramo sin tope", 33, 180, true},
		{"cero pallets", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ok := BandForPallets(r.PriceBands, tt.pallets)
			if ok != tt.ok {
				t.Fatalf("Expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && b.PricePerPallet != tt.want {
				t.Errorf("Expected %v per pallet, got %v", tt.want, b.PricePerPallet)
			}
		})
	}
}

func TestRepriceForPallets(t *testing.T) {
	o, tr, h := newHub("Almeria", false), newHub("Perpignan", true), newHub("Rotterdam", false)
	first := gappedRoute(o.ID, tr.ID)
	second := newRoute("T2", tr.ID, h.ID, 1, 100)
	n := NewNetwork([]domain.TransporterRoute{first, second}, []domain.Hub{o, tr, h})
	rr := n.Resolve(o.ID, h.ID, 40)
	if rr == nil || rr.Kind != domain.RouteTransshipment {
		t.Fatalf("Expected transshipment, got %+v", rr)
	}

	got, ok := n.RepriceForPallets(rr, 12, 40)
	if !ok {
		t.Fatal("Expected bands covering 12 pallets")
	}
	if got.PricePerPallet != 280 || got.PricePerUnit != 7 {
		t.Errorf("Expected 280 / 7, got %v / %v", got.PricePerPallet, got.PricePerUnit)
	}
	if got.Legs[0].PriceBandID == nil || *got.Legs[0].PriceBandID != first.PriceBands[1].ID {
		t.Errorf("Expected band %s on first leg, got %v", first.PriceBands[1].ID, got.Legs[0].PriceBandID)
	}
	if rr.PricePerPallet != 280 {
		t.Errorf("Expected resolver to pick the cheapest band, got %v", rr.PricePerPallet)
	}

	got, ok = n.RepriceForPallets(rr, 2, 40)
	if !ok || got.PricePerPallet != 350 {
		t.Errorf("Expected 350 for 2 pallets, got %+v", got)
	}
	if _, ok := n.RepriceForPallets(rr, 7, 40); ok {
		t.Error("Expected the gap between bands to be rejected")
	}
}
