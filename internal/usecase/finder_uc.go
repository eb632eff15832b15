package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/freshtrade/internal/domain"
	"github.com/phenrril/freshtrade/internal/matching"
	"github.com/phenrril/freshtrade/internal/metrics"
)

type FinderCriteria struct {
	ProductID     uuid.UUID           `json:"product_id"`
	DeliveryMode  domain.DeliveryMode `json:"delivery_mode,omitempty"`
	DeliveryHubID *uuid.UUID          `json:"delivery_hub_id,omitempty"`
	SizeOptionID  *uuid.UUID          `json:"size_option_id,omitempty"`
	CustomerID    *uuid.UUID          `json:"customer_id,omitempty"`
}

// SupplierResult es una oferta de proveedor puesta en un hub de destino.
// HandlingCostPerUnit se muestra aparte y no entra en LandedCostPerUnit.
type SupplierResult struct {
	Supplier             *domain.Supplier      `json:"supplier"`
	Spec                 *domain.PackagingSpec `json:"spec"`
	Price                domain.SupplierPrice  `json:"price"`
	PriceHubName         string                `json:"price_hub_name"`
	DestinationHubID     *uuid.UUID            `json:"destination_hub_id,omitempty"`
	DestinationHubName   string                `json:"destination_hub_name,omitempty"`
	UnitsPerPallet       float64               `json:"units_per_pallet"`
	Transport            *domain.ResolvedRoute `json:"transport,omitempty"`
	HasTransport         bool                  `json:"has_transport"`
	TransportCostPerUnit float64               `json:"transport_cost_per_unit"`
	HandlingCostPerUnit  float64               `json:"handling_cost_per_unit"`
	LandedCostPerUnit    float64               `json:"landed_cost_per_unit"`
	LeadTimeDays         int                   `json:"lead_time_days"`
}

type FinderUC struct {
	Store
	Now func() time.Time
}

func (uc *FinderUC) now() time.Time {
	if uc.Now != nil {
		return uc.Now()
	}
	return time.Now()
}

// FindProductSuppliers lista las ofertas vigentes de un producto puestas en destino.
func (uc *FinderUC) FindProductSuppliers(ctx context.Context, c FinderCriteria) ([]SupplierResult, error) {
	if c.ProductID == uuid.Nil || (c.DeliveryMode != "" && !c.DeliveryMode.Valid()) {
		return nil, domain.ErrInvalidInput
	}
	specs, err := uc.Catalog.ListSpecsByProduct(ctx, c.ProductID, c.SizeOptionID)
	if err != nil {
		return nil, domain.FetchErr("empaques", err)
	}
	if len(specs) == 0 {
		return []SupplierResult{}, nil
	}
	specByID := map[uuid.UUID]*domain.PackagingSpec{}
	specIDs := make([]uuid.UUID, 0, len(specs))
	for i := range specs {
		specByID[specs[i].ID] = &specs[i]
		specIDs = append(specIDs, specs[i].ID)
	}

	rows, err := uc.Suppliers.ListPricesForSpecs(ctx, specIDs)
	if err != nil {
		return nil, domain.FetchErr("precios", err)
	}
	now := uc.now()
	prices := []domain.SupplierPrice{}
	supplierIDs := []uuid.UUID{}
	seen := map[uuid.UUID]bool{}
	for _, p := range rows {
		if !p.ValidAt(now) || (c.DeliveryMode != "" && p.DeliveryMode != c.DeliveryMode) {
			continue
		}
		prices = append(prices, p)
		if !seen[p.SupplierID] {
			seen[p.SupplierID] = true
			supplierIDs = append(supplierIDs, p.SupplierID)
		}
	}
	if len(prices) == 0 {
		return []SupplierResult{}, nil
	}

	suppliers, err := uc.activeSuppliers(ctx)
	if err != nil {
		return nil, err
	}
	supplierLogistics, err := uc.Suppliers.ListLogistics(ctx, supplierIDs)
	if err != nil {
		return nil, domain.FetchErr("logística de proveedores", err)
	}
	destinations, pickupHubs, err := uc.destinations(ctx, c)
	if err != nil {
		return nil, err
	}
	net, err := uc.network(ctx)
	if err != nil {
		return nil, err
	}

	out := []SupplierResult{}
	for i := range prices {
		p := prices[i]
		supplier := suppliers[p.SupplierID]
		if supplier == nil {
			continue
		}
		spec := specByID[p.SpecID]
		units := matching.UnitsPerPallet(spec.SoldBy(), spec)
		base := SupplierResult{
			Supplier:       supplier,
			Spec:           spec,
			Price:          p,
			PriceHubName:   hubName(net, p.HubID),
			UnitsPerPallet: units,
			LeadTimeDays:   supplierLeadTime(supplierLogistics, p.SupplierID, p.HubID),
		}
		if len(destinations) == 0 && !pickupHubs[p.HubID] {
			base.LandedCostPerUnit = p.PricePerUnit
			out = append(out, base)
			continue
		}
		dests := destinations
		if pickupHubs[p.HubID] {
			// el cliente retira en el hub del precio
			dests = []uuid.UUID{p.HubID}
		}
		for _, dest := range dests {
			r := base
			d := dest
			r.DestinationHubID = &d
			r.DestinationHubName = hubName(net, dest)
			if pickupHubs[p.HubID] {
				r.Transport = &domain.ResolvedRoute{Kind: domain.RouteCustomerPickup, OriginHubID: p.HubID, DestinationHubID: p.HubID}
			} else {
				r.Transport = net.ResolveForPrice(&p, dest, units)
			}
			metrics.RecordRoute(r.Transport)
			if r.Transport != nil {
				r.HasTransport = true
				r.TransportCostPerUnit = r.Transport.PricePerUnit
				r.HandlingCostPerUnit = matching.PerUnit(r.Transport.HandlingCostPerPallet, units)
				r.LeadTimeDays += r.Transport.DurationDays
			}
			r.LandedCostPerUnit = p.PricePerUnit + r.TransportCostPerUnit
			out = append(out, r)
		}
	}
	sortResults(out)

	log.Info().Str("product_id", c.ProductID.String()).Int("results", len(out)).Msg("búsqueda de proveedores")
	return out, nil
}

func (uc *FinderUC) activeSuppliers(ctx context.Context) (map[uuid.UUID]*domain.Supplier, error) {
	caps, err := uc.Suppliers.ListActiveCapabilities(ctx)
	if err != nil {
		return nil, domain.FetchErr("capacidades de proveedores", err)
	}
	out := map[uuid.UUID]*domain.Supplier{}
	for _, c := range caps {
		if c.Supplier != nil && c.Supplier.IsActive {
			out[c.SupplierID] = c.Supplier
		}
	}
	return out, nil
}

// destinations devuelve los hubs de destino y los hubs donde el cliente retira Ex Works.
func (uc *FinderUC) destinations(ctx context.Context, c FinderCriteria) ([]uuid.UUID, map[uuid.UUID]bool, error) {
	pickup := map[uuid.UUID]bool{}
	var logistics []domain.CustomerLogistics
	if c.CustomerID != nil {
		var err error
		logistics, err = uc.Customers.ListLogistics(ctx, []uuid.UUID{*c.CustomerID})
		if err != nil {
			return nil, nil, domain.FetchErr("logística de clientes", err)
		}
	}
	out := []uuid.UUID{}
	seen := map[uuid.UUID]bool{}
	for _, l := range logistics {
		if !l.IsActive {
			continue
		}
		if l.Mode == domain.DeliveryModeExWorks {
			pickup[l.OriginHubID] = true
		}
		if h := l.ReceivingHubID(); c.DeliveryHubID == nil && !seen[h] {
			seen[h] = true
			out = append(out, h)
		}
	}
	if c.DeliveryHubID != nil {
		out = []uuid.UUID{*c.DeliveryHubID}
	}
	return out, pickup, nil
}

func supplierLeadTime(logistics []domain.SupplierLogistics, supplierID, hubID uuid.UUID) int {
	best := -1
	for _, l := range logistics {
		if !l.IsActive || l.SupplierID != supplierID || l.OriginHubID != hubID {
			continue
		}
		if best < 0 || l.LeadTimeDays < best {
			best = l.LeadTimeDays
		}
	}
	if best < 0 {
		return 0
	}
	return best
}

func hubName(net *matching.Network, id uuid.UUID) string {
	if h := net.Hub(id); h != nil {
		return h.Name
	}
	return ""
}

// sortResults: con transporte primero, después costo puesto en destino y nombre de proveedor.
func sortResults(out []SupplierResult) {
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.HasTransport != b.HasTransport {
			return a.HasTransport
		}
		if a.LandedCostPerUnit != b.LandedCostPerUnit {
			return a.LandedCostPerUnit < b.LandedCostPerUnit
		}
		return strings.ToLower(a.Supplier.Name) < strings.ToLower(b.Supplier.Name)
	})
}
