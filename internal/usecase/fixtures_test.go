package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/phenrril/freshtrade/internal/domain"
)

func f64(v float64) *float64 { return &v }

// scenario: el hub Destino quiere el empaque (box, 40 cajas); el proveedor Agro
// cotiza 2.00 Ex Works en Origen y hay ruta directa Origen→Destino a 200/pallet.
type scenario struct {
	m        *memStore
	origin   domain.Hub
	dest     domain.Hub
	transit  domain.Hub
	product  domain.Product
	spec     domain.PackagingSpec
	supplier domain.Supplier
	price    domain.SupplierPrice
	route    domain.TransporterRoute
}

func newScenario() *scenario {
	s := &scenario{m: newMemStore()}
	s.origin = domain.Hub{ID: uuid.New(), Name: "Almería", Code: "ALM", City: "Almería", Country: "ES", IsActive: true}
	s.dest = domain.Hub{ID: uuid.New(), Name: "Rotterdam", Code: "RTM", City: "Rotterdam", Country: "NL", IsActive: true}
	s.transit = domain.Hub{ID: uuid.New(), Name: "Perpignan", Code: "PGF", City: "Perpignan", Country: "FR", CanTransship: true, IsActive: true}
	s.product = domain.Product{ID: uuid.New(), Name: "Pimiento", SoldBy: domain.SoldByBox, IsActive: true}
	s.spec = domain.PackagingSpec{ID: uuid.New(), ProductID: s.product.ID, Product: &s.product, Label: "5kg x 40", BoxesPerPallet: f64(40)}
	s.supplier = domain.Supplier{ID: uuid.New(), Code: "AGRO", Name: "Agro", IsActive: true}
	s.price = domain.SupplierPrice{
		ID:           uuid.New(),
		SupplierID:   s.supplier.ID,
		SpecID:       s.spec.ID,
		HubID:        s.origin.ID,
		DeliveryMode: domain.DeliveryModeExWorks,
		PricePerUnit: 2,
		Currency:     "EUR",
		ValidFrom:    time.Now().Add(-24 * time.Hour),
		IsActive:     true,
		CreatedAt:    time.Now().Add(-time.Hour),
	}
	t := &domain.Transporter{ID: uuid.New(), Name: "TransIberia", IsActive: true}
	s.route = domain.TransporterRoute{ID: uuid.New(), TransporterID: t.ID, Transporter: t, OriginHubID: s.origin.ID, DestinationHubID: s.dest.ID, DurationDays: 2, IsActive: true}
	s.route.PriceBands = []domain.PriceBand{
		{ID: uuid.New(), RouteID: s.route.ID, MinPallets: 1, PricePerPallet: 200},
		{ID: uuid.New(), RouteID: s.route.ID, MinPallets: 1, MaxPallets: intPtr(5), PricePerPallet: 240},
	}

	s.m.hubs = []domain.Hub{s.origin, s.dest, s.transit}
	s.m.specs = []domain.PackagingSpec{s.spec}
	s.m.suppliers = []domain.Supplier{s.supplier}
	s.m.caps = []domain.SupplierCapability{{ID: uuid.New(), SupplierID: s.supplier.ID, Supplier: &s.supplier, SpecID: s.spec.ID, IsActive: true}}
	s.m.prices = []domain.SupplierPrice{s.price}
	s.m.routes = []domain.TransporterRoute{s.route}
	return s
}

func intPtr(v int) *int { return &v }

func (s *scenario) potentialKey() string {
	hub := s.price.HubID
	return domain.PotentialKey(s.dest.ID, s.supplier.ID, s.spec.ID, &hub)
}
