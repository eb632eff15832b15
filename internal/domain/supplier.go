package domain

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryMode indica quién organiza el transporte de un precio o capacidad logística.
type DeliveryMode string

const (
	DeliveryModeExWorks  DeliveryMode = "Ex Works"
	DeliveryModeDelivery DeliveryMode = "DELIVERY"
	DeliveryModeTransit  DeliveryMode = "TRANSIT"
)

func (m DeliveryMode) Valid() bool {
	switch m {
	case DeliveryModeExWorks, DeliveryModeDelivery, DeliveryModeTransit:
		return true
	}
	return false
}

type Supplier struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code      string    `gorm:"size:40;uniqueIndex" json:"code"`
	Name      string    `gorm:"size:140;index" json:"name"`
	Country   string    `gorm:"size:80" json:"country"`
	Email     string    `gorm:"size:140" json:"email,omitempty"`
	IsActive  bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SupplierCapability existe cuando el proveedor ofrece exactamente ese empaque.
type SupplierCapability struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SupplierID uuid.UUID `gorm:"type:uuid;index;not null" json:"supplier_id"`
	Supplier   *Supplier `json:"supplier,omitempty"`
	SpecID     uuid.UUID `gorm:"type:uuid;index;not null" json:"spec_id"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// SupplierPrice tiene a lo sumo un registro activo por (proveedor, empaque, hub, modo).
type SupplierPrice struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	SupplierID   uuid.UUID    `gorm:"type:uuid;index;not null" json:"supplier_id"`
	SpecID       uuid.UUID    `gorm:"type:uuid;index;not null" json:"spec_id"`
	HubID        uuid.UUID    `gorm:"type:uuid;index;not null" json:"hub_id"`
	DeliveryMode DeliveryMode `gorm:"type:varchar(20);not null" json:"delivery_mode"`
	PricePerUnit float64      `gorm:"type:decimal(12,4);not null" json:"price_per_unit"`
	Currency     string       `gorm:"size:3;default:'EUR'" json:"currency"`
	ValidFrom    time.Time    `json:"valid_from"`
	ValidUntil   *time.Time   `json:"valid_until,omitempty"`
	IsActive     bool         `gorm:"not null;default:true;index" json:"is_active"`
	CreatedBy    string       `gorm:"size:140" json:"created_by,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// ValidAt indica si el precio está vigente en t.
func (p *SupplierPrice) ValidAt(t time.Time) bool {
	if p == nil || !p.IsActive {
		return false
	}
	if !p.ValidFrom.IsZero() && t.Before(p.ValidFrom) {
		return false
	}
	if p.ValidUntil != nil && t.After(*p.ValidUntil) {
		return false
	}
	return true
}

// SupplierLogistics define desde dónde despacha un proveedor y hacia dónde entrega.
type SupplierLogistics struct {
	ID               uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	SupplierID       uuid.UUID    `gorm:"type:uuid;index;not null" json:"supplier_id"`
	Mode             DeliveryMode `gorm:"type:varchar(20);not null" json:"mode"`
	OriginHubID      uuid.UUID    `gorm:"type:uuid;index;not null" json:"origin_hub_id"`
	DestinationHubID *uuid.UUID   `gorm:"type:uuid;index" json:"destination_hub_id,omitempty"`
	LeadTimeDays     int          `gorm:"default:0" json:"lead_time_days"`
	IsActive         bool         `gorm:"default:true" json:"is_active"`
}
