package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/phenrril/freshtrade/internal/domain"
	"github.com/phenrril/freshtrade/internal/matching"
)

// Store agrupa los repositorios que leen y escriben los casos de uso.
type Store struct {
	Hubs          domain.HubRepo
	Catalog       domain.CatalogRepo
	Preferences   domain.PreferenceRepo
	Suppliers     domain.SupplierRepo
	Routes        domain.RouteRepo
	Customers     domain.CustomerRepo
	Opportunities domain.OpportunityRepo
}

// loadSnapshot hace las consultas masivas de un cálculo: una por colección, nunca por fila.
// Cualquier falla aborta el cálculo completo.
func (s Store) loadSnapshot(ctx context.Context, specs []domain.PackagingSpec) (matching.Snapshot, error) {
	snap := matching.Snapshot{Specs: specs}
	var err error
	if snap.Capabilities, err = s.Suppliers.ListActiveCapabilities(ctx); err != nil {
		return snap, domain.FetchErr("capacidades de proveedores", err)
	}
	if snap.Prices, err = s.Suppliers.ListActivePrices(ctx); err != nil {
		return snap, domain.FetchErr("precios de proveedores", err)
	}
	if snap.Routes, err = s.Routes.ListActive(ctx); err != nil {
		return snap, domain.FetchErr("rutas", err)
	}
	if snap.Hubs, err = s.Hubs.List(ctx); err != nil {
		return snap, domain.FetchErr("hubs", err)
	}
	if snap.Opportunities, err = s.Opportunities.ListActive(ctx); err != nil {
		return snap, domain.FetchErr("oportunidades", err)
	}
	return snap, ctx.Err()
}

func (s Store) network(ctx context.Context) (*matching.Network, error) {
	routes, err := s.Routes.ListActive(ctx)
	if err != nil {
		return nil, domain.FetchErr("rutas", err)
	}
	hubs, err := s.Hubs.List(ctx)
	if err != nil {
		return nil, domain.FetchErr("hubs", err)
	}
	return matching.NewNetwork(routes, hubs), nil
}

func (s Store) hub(ctx context.Context, id uuid.UUID) (*domain.Hub, error) {
	h, err := s.Hubs.FindByID(ctx, id)
	if err != nil {
		return nil, domain.FetchErr("hub", err)
	}
	return h, nil
}

// MatrixResult es la respuesta de la matriz: la lista filtrada y el resumen sin filtrar.
type MatrixResult struct {
	Potentials []domain.Potential `json:"potentials"`
	Summary    domain.Summary     `json:"summary"`
}

func newMatrixResult(all []domain.Potential, status domain.PotentialStatus) *MatrixResult {
	return &MatrixResult{
		Potentials: matching.FilterByStatus(all, status),
		Summary:    matching.Summarize(all),
	}
}
