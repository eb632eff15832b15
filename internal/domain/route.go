package domain

import (
	"time"

	"github.com/google/uuid"
)

type Transporter struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:140" json:"name"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type TransporterRoute struct {
	ID               uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	TransporterID    uuid.UUID    `gorm:"type:uuid;index;not null" json:"transporter_id"`
	Transporter      *Transporter `json:"transporter,omitempty"`
	OriginHubID      uuid.UUID    `gorm:"type:uuid;index;not null" json:"origin_hub_id"`
	DestinationHubID uuid.UUID    `gorm:"type:uuid;index;not null" json:"destination_hub_id"`
	DurationDays     int          `gorm:"default:0" json:"duration_days"`
	IsActive         bool         `gorm:"default:true;index" json:"is_active"`
	PriceBands       []PriceBand  `gorm:"foreignKey:RouteID" json:"price_bands,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
}

// TransporterName devuelve el nombre del transportista si se precargó.
func (r *TransporterRoute) TransporterName() string {
	if r == nil || r.Transporter == nil {
		return ""
	}
	return r.Transporter.Name
}

// PriceBand es un tramo de precio por pallet según volumen. MaxPallets nil = sin tope.
// Los tramos de una ruta pueden tener huecos.
type PriceBand struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RouteID              uuid.UUID `gorm:"type:uuid;index;not null" json:"route_id"`
	MinPallets           int       `gorm:"default:1" json:"min_pallets"`
	MaxPallets           *int      `json:"max_pallets,omitempty"`
	PalletDimensionClass string    `gorm:"size:30" json:"pallet_dimension_class,omitempty"`
	PricePerPallet       float64   `gorm:"type:decimal(12,4);not null" json:"price_per_pallet"`
}

// Covers indica si el tramo aplica a esa cantidad de pallets.
func (b PriceBand) Covers(pallets int) bool {
	if pallets < b.MinPallets {
		return false
	}
	return b.MaxPallets == nil || pallets <= *b.MaxPallets
}

// RouteKind clasifica cómo se resolvió el transporte de una combinación.
type RouteKind string

const (
	RouteSameLocation     RouteKind = "SAME_LOCATION"
	RouteSupplierDelivery RouteKind = "SUPPLIER_DELIVERY"
	RouteCustomerPickup   RouteKind = "CUSTOMER_PICKUP"
	RouteDirect           RouteKind = "DIRECT"
	RouteTransshipment    RouteKind = "TRANSSHIPMENT"
)

type RouteLeg struct {
	RouteID            uuid.UUID  `json:"route_id"`
	TransporterID      uuid.UUID  `json:"transporter_id"`
	TransporterName    string     `json:"transporter_name"`
	OriginHubID        uuid.UUID  `json:"origin_hub_id"`
	OriginHubName      string     `json:"origin_hub_name"`
	DestinationHubID   uuid.UUID  `json:"destination_hub_id"`
	DestinationHubName string     `json:"destination_hub_name"`
	PriceBandID        *uuid.UUID `json:"price_band_id,omitempty"`
	PricePerPallet     float64    `json:"price_per_pallet"`
	DurationDays       int        `json:"duration_days"`
}

// ResolvedRoute es el transporte elegido entre un hub origen y uno destino.
// El costo de manipuleo del hub de transbordo es informativo: no forma parte de PricePerPallet.
type ResolvedRoute struct {
	Kind                  RouteKind  `json:"kind"`
	OriginHubID           uuid.UUID  `json:"origin_hub_id"`
	DestinationHubID      uuid.UUID  `json:"destination_hub_id"`
	Legs                  []RouteLeg `json:"legs,omitempty"`
	PricePerPallet        float64    `json:"price_per_pallet"`
	PricePerUnit          float64    `json:"price_per_unit"`
	DurationDays          int        `json:"duration_days"`
	TransshipHubID        *uuid.UUID `json:"transship_hub_id,omitempty"`
	TransshipHubName      string     `json:"transship_hub_name,omitempty"`
	HandlingDays          int        `json:"handling_days,omitempty"`
	HandlingCostPerPallet float64    `json:"handling_cost_per_pallet,omitempty"`
}

// TotalWithHandlingPerPallet suma el manipuleo del transbordo para mostrarlo.
func (r *ResolvedRoute) TotalWithHandlingPerPallet() float64 {
	if r == nil {
		return 0
	}
	return r.PricePerPallet + r.HandlingCostPerPallet
}

// LegIndexForBand devuelve el índice del tramo de ruta que usa ese tramo de precio, o -1.
func (r *ResolvedRoute) LegIndexForBand(bandID uuid.UUID) int {
	if r == nil {
		return -1
	}
	for i, l := range r.Legs {
		if l.PriceBandID != nil && *l.PriceBandID == bandID {
			return i
		}
	}
	return -1
}
