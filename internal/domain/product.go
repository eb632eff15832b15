package domain

import (
	"time"

	"github.com/google/uuid"
)

// SoldBy es la unidad comercial en la que se vende un producto.
type SoldBy string

const (
	SoldByKg     SoldBy = "kg"
	SoldByPiece  SoldBy = "piece"
	SoldByBox    SoldBy = "box"
	SoldByPunnet SoldBy = "punnet"
	SoldByBag    SoldBy = "bag"
)

type Product struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string          `gorm:"size:180" json:"name"`
	Category  string          `gorm:"size:100;index" json:"category"`
	SoldBy    SoldBy          `gorm:"type:varchar(10);not null;default:'box'" json:"sold_by"`
	IsActive  bool            `gorm:"default:true;index" json:"is_active"`
	Specs     []PackagingSpec `json:"specs,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// PackagingSpec es una configuración concreta de caja/pallet de un producto.
// Los campos numéricos opcionales quedan en nil cuando no se cargaron.
type PackagingSpec struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID            uuid.UUID  `gorm:"type:uuid;index;not null" json:"product_id"`
	Product              *Product   `json:"product,omitempty"`
	SizeOptionID         *uuid.UUID `gorm:"type:uuid;index" json:"size_option_id,omitempty"`
	Label                string     `gorm:"size:140" json:"label"`
	BoxesPerPallet       *float64   `gorm:"type:decimal(10,2)" json:"boxes_per_pallet,omitempty"`
	PiecesPerBox         *float64   `gorm:"type:decimal(10,2)" json:"pieces_per_box,omitempty"`
	WeightPerBox         *float64   `gorm:"type:decimal(10,3)" json:"weight_per_box,omitempty"`
	WeightPerPallet      *float64   `gorm:"type:decimal(10,3)" json:"weight_per_pallet,omitempty"`
	PalletLengthCM       float64    `gorm:"type:decimal(8,2);default:0" json:"pallet_length_cm"`
	PalletWidthCM        float64    `gorm:"type:decimal(8,2);default:0" json:"pallet_width_cm"`
	PalletHeightCM       float64    `gorm:"type:decimal(8,2);default:0" json:"pallet_height_cm"`
	PalletDimensionClass string     `gorm:"size:30" json:"pallet_dimension_class,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

// SoldBy devuelve la unidad del producto asociado, o "" si no se precargó.
func (s *PackagingSpec) SoldBy() SoldBy {
	if s == nil || s.Product == nil {
		return ""
	}
	return s.Product.SoldBy
}

// HubProductPreference restringe el universo de productos de un hub
// cuando se pide el modo "sólo preferidos".
type HubProductPreference struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	HubID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"hub_id"`
	ProductID uuid.UUID  `gorm:"type:uuid;index;not null" json:"product_id"`
	SpecID    *uuid.UUID `gorm:"type:uuid;index" json:"spec_id,omitempty"`
	Priority  Priority   `gorm:"type:varchar(10);default:'medium'" json:"priority"`
	IsActive  bool       `gorm:"default:true;index" json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
}

// Priority es la prioridad comercial de una preferencia o de una oportunidad.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}
