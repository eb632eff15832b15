package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/freshtrade/internal/domain"
	"github.com/phenrril/freshtrade/internal/matching"
	"github.com/phenrril/freshtrade/internal/metrics"
)

type TradeUC struct {
	Store
}

// BuildTradeOpportunities cruza los requerimientos de clientes con proveedores,
// precios y rutas. customerID nil = todos los clientes.
func (uc *TradeUC) BuildTradeOpportunities(ctx context.Context, customerID *uuid.UUID, status domain.PotentialStatus) (*MatrixResult, error) {
	if status != "" && status != "all" && !status.Valid() {
		return nil, domain.ErrInvalidInput
	}
	defer metrics.TrackMatrixBuild("trade")(time.Now())

	reqs, err := uc.Customers.ListRequirements(ctx, customerID)
	if err != nil {
		return nil, domain.FetchErr("requerimientos", err)
	}
	if len(reqs) == 0 {
		return newMatrixResult(nil, status), nil
	}

	customerIDs := []uuid.UUID{}
	productIDs := []uuid.UUID{}
	seenC, seenP := map[uuid.UUID]bool{}, map[uuid.UUID]bool{}
	for _, r := range reqs {
		if !seenC[r.CustomerID] {
			seenC[r.CustomerID] = true
			customerIDs = append(customerIDs, r.CustomerID)
		}
		if !seenP[r.ProductID] {
			seenP[r.ProductID] = true
			productIDs = append(productIDs, r.ProductID)
		}
	}

	logistics, err := uc.Customers.ListLogistics(ctx, customerIDs)
	if err != nil {
		return nil, domain.FetchErr("logística de clientes", err)
	}
	specs, err := uc.Catalog.ListSpecs(ctx, productIDs)
	if err != nil {
		return nil, domain.FetchErr("empaques", err)
	}
	snap, err := uc.loadSnapshot(ctx, specs)
	if err != nil {
		return nil, err
	}

	demands, skipped := buildDemands(reqs, logistics, snap)
	all := matching.BuildTrade(snap, demands)
	res := newMatrixResult(all, status)
	metrics.RecordSummary("trade", res.Summary)

	log.Info().Int("requirements", len(reqs)).Int("skipped", skipped).Int("potentials", res.Summary.Total).Msg("oportunidades de clientes calculadas")
	return res, nil
}

// buildDemands resuelve el hub de entrega de cada requerimiento: el indicado en
// el requerimiento, si no la primera logística activa del cliente.
func buildDemands(reqs []domain.CustomerProductRequirement, logistics []domain.CustomerLogistics, snap matching.Snapshot) ([]matching.Demand, int) {
	hubs := map[uuid.UUID]*domain.Hub{}
	for i := range snap.Hubs {
		hubs[snap.Hubs[i].ID] = &snap.Hubs[i]
	}
	receiving := map[uuid.UUID]uuid.UUID{}
	for _, l := range logistics {
		if _, ok := receiving[l.CustomerID]; ok || !l.IsActive {
			continue
		}
		receiving[l.CustomerID] = l.ReceivingHubID()
	}
	specsByProduct := map[uuid.UUID][]*domain.PackagingSpec{}
	specByID := map[uuid.UUID]*domain.PackagingSpec{}
	for i := range snap.Specs {
		s := &snap.Specs[i]
		specsByProduct[s.ProductID] = append(specsByProduct[s.ProductID], s)
		specByID[s.ID] = s
	}

	out := []matching.Demand{}
	seen := map[[3]uuid.UUID]bool{}
	skipped := 0
	for i := range reqs {
		r := &reqs[i]
		hubID, ok := receiving[r.CustomerID]
		if r.DeliveryHubID != nil {
			hubID, ok = *r.DeliveryHubID, true
		}
		hub := hubs[hubID]
		if !ok || hub == nil {
			skipped++
			log.Warn().Str("customer_id", r.CustomerID.String()).Str("product_id", r.ProductID.String()).Msg("requerimiento sin hub de entrega")
			continue
		}
		customer := r.Customer
		if customer == nil {
			customer = &domain.Customer{ID: r.CustomerID}
		}
		specs := specsByProduct[r.ProductID]
		if r.SpecID != nil {
			specs = nil
			if s := specByID[*r.SpecID]; s != nil {
				specs = []*domain.PackagingSpec{s}
			}
		}
		for _, s := range specs {
			k := [3]uuid.UUID{customer.ID, hub.ID, s.ID}
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, matching.Demand{Customer: customer, Hub: hub, Spec: s})
		}
	}
	return out, skipped
}
