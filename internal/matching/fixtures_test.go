package matching

import (
	"github.com/google/uuid"

	"github.com/phenrril/freshtrade/internal/domain"
)

func f64(v float64) *float64 { return &v }

func newHub(name string, transship bool) domain.Hub {
	return domain.Hub{ID: uuid.New(), Name: name, Code: name, CanTransship: transship, IsActive: true}
}

func newRoute(transporter string, origin, destination uuid.UUID, days int, prices ...float64) domain.TransporterRoute {
	t := &domain.Transporter{ID: uuid.New(), Name: transporter, IsActive: true}
	r := domain.TransporterRoute{
		ID:               uuid.New(),
		TransporterID:    t.ID,
		Transporter:      t,
		OriginHubID:      origin,
		DestinationHubID: destination,
		DurationDays:     days,
		IsActive:         true,
	}
	for i, p := range prices {
		r.PriceBands = append(r.PriceBands, domain.PriceBand{
			ID:             uuid.New(),
			RouteID:        r.ID,
			MinPallets:     i + 1,
			PricePerPallet: p,
		})
	}
	return r
}

func boxSpec(boxes float64) domain.PackagingSpec {
	p := &domain.Product{ID: uuid.New(), Name: "Tomate", SoldBy: domain.SoldByBox, IsActive: true}
	return domain.PackagingSpec{ID: uuid.New(), ProductID: p.ID, Product: p, BoxesPerPallet: f64(boxes)}
}

func newSupplier(name string) *domain.Supplier {
	return &domain.Supplier{ID: uuid.New(), Name: name, Code: name, IsActive: true}
}

func capability(s *domain.Supplier, spec domain.PackagingSpec) domain.SupplierCapability {
	return domain.SupplierCapability{ID: uuid.New(), SupplierID: s.ID, Supplier: s, SpecID: spec.ID, IsActive: true}
}

func price(s *domain.Supplier, spec domain.PackagingSpec, hub uuid.UUID, mode domain.DeliveryMode, perUnit float64) domain.SupplierPrice {
	return domain.SupplierPrice{
		ID:           uuid.New(),
		SupplierID:   s.ID,
		SpecID:       spec.ID,
		HubID:        hub,
		DeliveryMode: mode,
		PricePerUnit: perUnit,
		Currency:     "EUR",
		IsActive:     true,
	}
}
