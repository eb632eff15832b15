package domain

import (
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code      string    `gorm:"size:40;uniqueIndex" json:"code"`
	Email     string    `gorm:"size:140;index" json:"email,omitempty"`
	Name      string    `gorm:"size:140" json:"name"`
	Phone     string    `gorm:"size:60" json:"phone,omitempty"`
	Country   string    `gorm:"size:80" json:"country"`
	TaxID     string    `gorm:"size:30" json:"tax_id,omitempty"`
	IsActive  bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// CustomerLogistics define dónde recibe (o retira) mercadería un cliente.
type CustomerLogistics struct {
	ID               uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID       uuid.UUID    `gorm:"type:uuid;index;not null" json:"customer_id"`
	Mode             DeliveryMode `gorm:"type:varchar(20);not null" json:"mode"`
	OriginHubID      uuid.UUID    `gorm:"type:uuid;index;not null" json:"origin_hub_id"`
	DestinationHubID *uuid.UUID   `gorm:"type:uuid;index" json:"destination_hub_id,omitempty"`
	LeadTimeDays     int          `gorm:"default:0" json:"lead_time_days"`
	IsActive         bool         `gorm:"default:true" json:"is_active"`
}

// ReceivingHubID es el hub donde termina la mercadería para este cliente:
// el destino si lo hay, si no el origen (retiro Ex Works).
func (l CustomerLogistics) ReceivingHubID() uuid.UUID {
	if l.DestinationHubID != nil && *l.DestinationHubID != uuid.Nil {
		return *l.DestinationHubID
	}
	return l.OriginHubID
}

// CustomerProductRequirement es lo que un cliente quiere comprar.
type CustomerProductRequirement struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"customer_id"`
	Customer       *Customer  `json:"customer,omitempty"`
	ProductID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"product_id"`
	SpecID         *uuid.UUID `gorm:"type:uuid;index" json:"spec_id,omitempty"`
	DeliveryHubID  *uuid.UUID `gorm:"type:uuid;index" json:"delivery_hub_id,omitempty"`
	PalletsPerWeek float64    `gorm:"type:decimal(8,2);default:0" json:"pallets_per_week"`
	IsActive       bool       `gorm:"default:true;index" json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
}
