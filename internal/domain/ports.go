package domain

import (
	"context"

	"github.com/google/uuid"
)

type HubRepo interface {
	List(ctx context.Context) ([]Hub, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Hub, error)
	FindByCode(ctx context.Context, code string) (*Hub, error)
}

type CatalogRepo interface {
	// ListSpecs devuelve los empaques con su producto precargado; productIDs nil = todos.
	ListSpecs(ctx context.Context, productIDs []uuid.UUID) ([]PackagingSpec, error)
	ListSpecsByProduct(ctx context.Context, productID uuid.UUID, sizeOptionID *uuid.UUID) ([]PackagingSpec, error)
	FindSpec(ctx context.Context, id uuid.UUID) (*PackagingSpec, error)
}

type PreferenceRepo interface {
	// List devuelve las preferencias activas; hubID nil = todos los hubs.
	List(ctx context.Context, hubID *uuid.UUID) ([]HubProductPreference, error)
}

type SupplierRepo interface {
	// ListActiveCapabilities sólo incluye proveedores activos, con el proveedor precargado.
	ListActiveCapabilities(ctx context.Context) ([]SupplierCapability, error)
	ListActivePrices(ctx context.Context) ([]SupplierPrice, error)
	ListPricesForSpecs(ctx context.Context, specIDs []uuid.UUID) ([]SupplierPrice, error)
	ListLogistics(ctx context.Context, supplierIDs []uuid.UUID) ([]SupplierLogistics, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	FindByCode(ctx context.Context, code string) (*Supplier, error)
	// ReplacePrice desactiva el precio activo de la tupla e inserta el nuevo en una transacción.
	ReplacePrice(ctx context.Context, p *SupplierPrice) (*SupplierPrice, error)
}

type RouteRepo interface {
	// ListActive devuelve las rutas activas con transportista y tramos precargados.
	ListActive(ctx context.Context) ([]TransporterRoute, error)
}

type CustomerRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	ListRequirements(ctx context.Context, customerID *uuid.UUID) ([]CustomerProductRequirement, error)
	ListLogistics(ctx context.Context, customerIDs []uuid.UUID) ([]CustomerLogistics, error)
}

type OpportunityRepo interface {
	ListActive(ctx context.Context) ([]Opportunity, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Opportunity, error)
	Create(ctx context.Context, o *Opportunity) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status OpportunityStatus) error
	// DeactivateStale expira las oportunidades activas de la tupla de precio del evento
	// cuyo precio de compra difiere del nuevo. Devuelve cuántas se tocaron.
	DeactivateStale(ctx context.Context, ev SupplierPriceChanged, reason string) (int64, error)
}

// GeoService es el servicio externo de geocodificación y distancia por carretera.
type GeoService interface {
	Geocode(ctx context.Context, location string) (Coordinates, error)
	RoadDistance(ctx context.Context, from, to Coordinates) (RoadDistance, error)
}
