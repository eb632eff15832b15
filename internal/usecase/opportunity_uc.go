package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/freshtrade/internal/domain"
	"github.com/phenrril/freshtrade/internal/events"
	"github.com/phenrril/freshtrade/internal/matching"
)

// PriceRequest es la vista previa pura: sin Store.
// Si OfferPrice viene informado el margen se recalcula sobre el precio de venta.
type PriceRequest struct {
	SupplierPricePerUnit    float64  `json:"supplier_price_per_unit"`
	TransportPricePerPallet float64  `json:"transport_price_per_pallet"`
	UnitsPerPallet          float64  `json:"units_per_pallet"`
	MarginPct               *float64 `json:"margin_pct,omitempty"`
	OfferPrice              *float64 `json:"offer_price,omitempty"`
}

// CommitRequest: PriceBandID fija el tramo a mano; si no viene y Pallets > 0 se usa
// en cada tramo de ruta el tramo de precio que cubre esa cantidad.
type CommitRequest struct {
	PotentialKey string          `json:"potential_key"`
	PriceBandID  *uuid.UUID      `json:"price_band_id,omitempty"`
	Pallets      int             `json:"pallets,omitempty"`
	MarginPct    *float64        `json:"margin_pct,omitempty"`
	OfferPrice   *float64        `json:"offer_price,omitempty"`
	CustomerID   *uuid.UUID      `json:"customer_id,omitempty"`
	Priority     domain.Priority `json:"priority,omitempty"`
	AssignedTo   string          `json:"assigned_to,omitempty"`
}

// Preview es lo que quedaría guardado al confirmar un Potential.
type Preview struct {
	Hub            *domain.Hub           `json:"hub"`
	Customer       *domain.Customer      `json:"customer,omitempty"`
	Spec           *domain.PackagingSpec `json:"spec"`
	SupplierPrice  domain.SupplierPrice  `json:"supplier_price"`
	Transport      *domain.ResolvedRoute `json:"transport"`
	UnitsPerPallet float64               `json:"units_per_pallet"`
	Quote          matching.Quote        `json:"quote"`
}

type OpportunityUC struct {
	Store
	Bus              *events.Bus
	DefaultMarginPct float64
	DefaultCurrency  string
	ValidDays        int
	Now              func() time.Time
}

func (uc *OpportunityUC) now() time.Time {
	if uc.Now != nil {
		return uc.Now()
	}
	return time.Now()
}

// Price calcula costo, margen y precio de oferta sin tocar el Store.
func (uc *OpportunityUC) Price(r PriceRequest) matching.Quote {
	if r.OfferPrice != nil {
		return matching.QuoteWithOfferPrice(r.SupplierPricePerUnit, r.TransportPricePerPallet, r.UnitsPerPallet, *r.OfferPrice)
	}
	return matching.PriceOpportunity(r.SupplierPricePerUnit, r.TransportPricePerPallet, r.UnitsPerPallet, uc.margin(r.MarginPct))
}

func (uc *OpportunityUC) margin(m *float64) float64 {
	if m != nil {
		return *m
	}
	return uc.DefaultMarginPct
}

// PreviewCommit resuelve precio vigente, transporte y tramo elegido para una clave de Potential.
func (uc *OpportunityUC) PreviewCommit(ctx context.Context, r CommitRequest) (*Preview, error) {
	parts, err := domain.ParsePotentialKey(r.PotentialKey)
	if err != nil {
		return nil, err
	}
	if parts.PriceHubID == nil {
		return nil, domain.ErrNoActivePrice
	}
	if r.Pallets < 0 {
		return nil, fmt.Errorf("%w: pallets negativos", domain.ErrInvalidInput)
	}
	hubID := parts.OwnerID
	var customer *domain.Customer
	if parts.DeliveryHubID != nil {
		if customer, err = uc.Customers.FindByID(ctx, parts.OwnerID); err != nil {
			return nil, domain.FetchErr("cliente", err)
		}
		if r.CustomerID != nil && *r.CustomerID != customer.ID {
			return nil, fmt.Errorf("%w: el cliente no coincide con la clave", domain.ErrInvalidInput)
		}
		hubID = *parts.DeliveryHubID
	}
	hub, err := uc.hub(ctx, hubID)
	if err != nil {
		return nil, err
	}
	spec, err := uc.Catalog.FindSpec(ctx, parts.SpecID)
	if err != nil {
		return nil, domain.FetchErr("empaque", err)
	}
	price, err := uc.currentPrice(ctx, parts)
	if err != nil {
		return nil, err
	}
	net, err := uc.network(ctx)
	if err != nil {
		return nil, err
	}

	units := matching.UnitsPerPallet(spec.SoldBy(), spec)
	transport := net.ResolveForPrice(price, hub.ID, units)
	if transport == nil {
		return nil, fmt.Errorf("%w: sin transporte hacia %s", domain.ErrInvalidInput, hub.Name)
	}
	switch {
	case r.PriceBandID != nil:
		repriced, ok := net.Reprice(transport, *r.PriceBandID, units)
		if !ok {
			return nil, domain.ErrBandNotOnRoute
		}
		transport = repriced
	case r.Pallets > 0:
		repriced, ok := net.RepriceForPallets(transport, r.Pallets, units)
		if !ok {
			return nil, fmt.Errorf("%w: ningún tramo cubre %d pallets", domain.ErrBandNotOnRoute, r.Pallets)
		}
		transport = repriced
	}

	q := uc.Price(PriceRequest{
		SupplierPricePerUnit:    price.PricePerUnit,
		TransportPricePerPallet: transport.PricePerPallet,
		UnitsPerPallet:          units,
		MarginPct:               r.MarginPct,
		OfferPrice:              r.OfferPrice,
	})
	return &Preview{Hub: hub, Customer: customer, Spec: spec, SupplierPrice: *price, Transport: transport, UnitsPerPallet: units, Quote: q}, nil
}

// currentPrice busca el precio activo de la tupla. La clave no lleva el modo de entrega:
// si en el mismo hub hay un Ex Works y un Delivery activos gana el más reciente.
func (uc *OpportunityUC) currentPrice(ctx context.Context, parts domain.PotentialKeyParts) (*domain.SupplierPrice, error) {
	rows, err := uc.Suppliers.ListPricesForSpecs(ctx, []uuid.UUID{parts.SpecID})
	if err != nil {
		return nil, domain.FetchErr("precios", err)
	}
	var best *domain.SupplierPrice
	for i := range rows {
		p := &rows[i]
		if !p.IsActive || p.SupplierID != parts.SupplierID || p.HubID != *parts.PriceHubID {
			continue
		}
		if best == nil || p.CreatedAt.After(best.CreatedAt) {
			best = p
		}
	}
	if best == nil {
		return nil, domain.ErrNoActivePrice
	}
	return best, nil
}

// Commit guarda la oportunidad en borrador. Si otras oportunidades activas del
// mismo proveedor y empaque quedaron con otro precio, publica el cambio de precio.
// Si esa publicación falla devuelve la oportunidad ya guardada junto con el error.
func (uc *OpportunityUC) Commit(ctx context.Context, r CommitRequest) (*domain.Opportunity, error) {
	if r.Priority != "" && !r.Priority.Valid() {
		return nil, domain.ErrInvalidInput
	}
	pv, err := uc.PreviewCommit(ctx, r)
	if err != nil {
		return nil, err
	}
	priority := r.Priority
	if priority == "" {
		if priority, err = uc.hubPriority(ctx, pv.Hub.ID, pv.Spec); err != nil {
			return nil, err
		}
	}

	customerID := r.CustomerID
	if pv.Customer != nil {
		id := pv.Customer.ID
		customerID = &id
	}
	now := uc.now()
	o := &domain.Opportunity{
		ID:                   uuid.New(),
		HubID:                pv.Hub.ID,
		CustomerID:           customerID,
		SupplierID:           pv.SupplierPrice.SupplierID,
		SpecID:               pv.Spec.ID,
		SupplierPriceID:      pv.SupplierPrice.ID,
		SupplierPricePerUnit: pv.SupplierPrice.PricePerUnit,
		RouteKind:            pv.Transport.Kind,
		TransportCostPerUnit: pv.Quote.TransportCostPerUnit,
		TotalCost:            pv.Quote.TotalCost,
		MarginPct:            pv.Quote.MarginPct,
		OfferPrice:           pv.Quote.OfferPrice,
		Currency:             pv.SupplierPrice.Currency,
		ValidUntil:           now.AddDate(0, 0, uc.validDays()),
		Status:               domain.OpportunityStatusDraft,
		Priority:             priority,
		AssignedTo:           r.AssignedTo,
		IsActive:             true,
	}
	if o.Currency == "" {
		o.Currency = uc.DefaultCurrency
	}
	if len(pv.Transport.Legs) > 0 {
		leg := pv.Transport.Legs[0]
		if r.PriceBandID != nil {
			if i := pv.Transport.LegIndexForBand(*r.PriceBandID); i >= 0 {
				leg = pv.Transport.Legs[i]
			}
		}
		routeID := leg.RouteID
		o.TransportRouteID = &routeID
		o.PriceBandID = leg.PriceBandID
	}
	if err := uc.Opportunities.Create(ctx, o); err != nil {
		return nil, domain.FetchErr("crear oportunidad", err)
	}
	log.Info().Str("opportunity_id", o.ID.String()).Str("hub_id", o.HubID.String()).Float64("offer_price", o.OfferPrice).Msg("oportunidad creada")

	if err := uc.detectPriceChange(ctx, pv.SupplierPrice, now); err != nil {
		return o, fmt.Errorf("oportunidad guardada, falló la invalidación: %w", err)
	}
	return o, nil
}

func (uc *OpportunityUC) detectPriceChange(ctx context.Context, price domain.SupplierPrice, at time.Time) error {
	if uc.Bus == nil {
		return nil
	}
	active, err := uc.Opportunities.ListActive(ctx)
	if err != nil {
		return domain.FetchErr("oportunidades", err)
	}
	for _, o := range active {
		if o.SupplierID == price.SupplierID && o.SpecID == price.SpecID && o.SupplierPricePerUnit != price.PricePerUnit {
			return uc.Bus.Publish(ctx, events.NewEvent(events.TypeSupplierPriceChanged, domain.PriceChangedFrom(&price, at)))
		}
	}
	return nil
}

func (uc *OpportunityUC) hubPriority(ctx context.Context, hubID uuid.UUID, spec *domain.PackagingSpec) (domain.Priority, error) {
	prefs, err := uc.Preferences.List(ctx, &hubID)
	if err != nil {
		return "", domain.FetchErr("preferencias", err)
	}
	for _, p := range prefs {
		if p.ProductID != spec.ProductID || (p.SpecID != nil && *p.SpecID != spec.ID) {
			continue
		}
		if p.Priority.Valid() {
			return p.Priority, nil
		}
	}
	return domain.PriorityMedium, nil
}

func (uc *OpportunityUC) validDays() int {
	if uc.ValidDays > 0 {
		return uc.ValidDays
	}
	return 7
}

// UpdateStatus aplica una transición de estado permitida.
func (uc *OpportunityUC) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OpportunityStatus) (*domain.Opportunity, error) {
	o, err := uc.Opportunities.FindByID(ctx, id)
	if err != nil {
		return nil, domain.FetchErr("oportunidad", err)
	}
	if !o.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: transición %s → %s", domain.ErrInvalidInput, o.Status, status)
	}
	if err := uc.Opportunities.UpdateStatus(ctx, id, status); err != nil {
		return nil, domain.FetchErr("actualizar oportunidad", err)
	}
	o.Status = status
	if status == domain.OpportunityStatusExpired {
		o.IsActive = false
	}
	log.Info().Str("opportunity_id", id.String()).Str("status", string(status)).Msg("estado de oportunidad actualizado")
	return o, nil
}
