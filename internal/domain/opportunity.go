package domain

import (
	"time"

	"github.com/google/uuid"
)

type OpportunityStatus string

const (
	OpportunityStatusDraft    OpportunityStatus = "draft"
	OpportunityStatusOffered  OpportunityStatus = "offered"
	OpportunityStatusAccepted OpportunityStatus = "accepted"
	OpportunityStatusRejected OpportunityStatus = "rejected"
	OpportunityStatusExpired  OpportunityStatus = "expired"
)

// CanTransitionTo: draft→offered→accepted|rejected; cualquier estado puede expirar.
func (s OpportunityStatus) CanTransitionTo(next OpportunityStatus) bool {
	if next == OpportunityStatusExpired {
		return s != OpportunityStatusExpired
	}
	switch s {
	case OpportunityStatusDraft:
		return next == OpportunityStatusOffered
	case OpportunityStatusOffered:
		return next == OpportunityStatusAccepted || next == OpportunityStatusRejected
	}
	return false
}

// Opportunity es un negocio confirmado a partir de un Potential.
type Opportunity struct {
	ID                   uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	HubID                uuid.UUID         `gorm:"type:uuid;index;not null" json:"hub_id"`
	CustomerID           *uuid.UUID        `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	SupplierID           uuid.UUID         `gorm:"type:uuid;index;not null" json:"supplier_id"`
	SpecID               uuid.UUID         `gorm:"type:uuid;index;not null" json:"spec_id"`
	SupplierPriceID      uuid.UUID         `gorm:"type:uuid;index" json:"supplier_price_id"`
	SupplierPricePerUnit float64           `gorm:"type:decimal(12,4)" json:"supplier_price_per_unit"`
	TransportRouteID     *uuid.UUID        `gorm:"type:uuid" json:"transport_route_id,omitempty"`
	PriceBandID          *uuid.UUID        `gorm:"type:uuid" json:"price_band_id,omitempty"`
	RouteKind            RouteKind         `gorm:"type:varchar(20)" json:"route_kind,omitempty"`
	TransportCostPerUnit float64           `gorm:"type:decimal(12,4);default:0" json:"transport_cost_per_unit"`
	TotalCost            float64           `gorm:"type:decimal(12,4)" json:"total_cost"`
	MarginPct            float64           `gorm:"type:decimal(6,2)" json:"margin_pct"`
	OfferPrice           float64           `gorm:"type:decimal(12,4)" json:"offer_price"`
	Currency             string            `gorm:"size:3;default:'EUR'" json:"currency"`
	ValidUntil           time.Time         `json:"valid_until"`
	Status               OpportunityStatus `gorm:"type:varchar(20);index" json:"status"`
	Priority             Priority          `gorm:"type:varchar(10);default:'medium'" json:"priority"`
	AssignedTo           string            `gorm:"size:140" json:"assigned_to,omitempty"`
	IsActive             bool              `gorm:"not null;default:true;index" json:"is_active"`
	DeactivatedReason    string            `gorm:"size:60" json:"deactivated_reason,omitempty"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
}

// MatrixKey es la clave (hub, proveedor, empaque) con la que la matriz encuentra oportunidades previas.
func (o *Opportunity) MatrixKey() string {
	return o.HubID.String() + "|" + o.SupplierID.String() + "|" + o.SpecID.String()
}

// TradeKey es la clave (cliente, proveedor, empaque); vacía si no hay cliente.
func (o *Opportunity) TradeKey() string {
	if o.CustomerID == nil {
		return ""
	}
	return o.CustomerID.String() + "|" + o.SupplierID.String() + "|" + o.SpecID.String()
}

// SupplierPriceChanged se publica cada vez que cambia un precio de proveedor.
// HubID y DeliveryMode acotan la tupla de precio afectada cuando se conocen.
type SupplierPriceChanged struct {
	SupplierID   uuid.UUID    `json:"supplier_id"`
	SpecID       *uuid.UUID   `json:"spec_id,omitempty"`
	HubID        *uuid.UUID   `json:"hub_id,omitempty"`
	DeliveryMode DeliveryMode `json:"delivery_mode,omitempty"`
	PriceID      uuid.UUID    `json:"price_id"`
	PricePerUnit float64      `json:"price_per_unit"`
	ChangedAt    time.Time    `json:"changed_at"`
}

// PriceChangedFrom arma el evento a partir del precio vigente.
func PriceChangedFrom(p *SupplierPrice, at time.Time) SupplierPriceChanged {
	spec, hub := p.SpecID, p.HubID
	return SupplierPriceChanged{
		SupplierID:   p.SupplierID,
		SpecID:       &spec,
		HubID:        &hub,
		DeliveryMode: p.DeliveryMode,
		PriceID:      p.ID,
		PricePerUnit: p.PricePerUnit,
		ChangedAt:    at,
	}
}
