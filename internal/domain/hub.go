package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Hub struct {
	ID                     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name                   string    `gorm:"size:140" json:"name"`
	Code                   string    `gorm:"size:20;uniqueIndex" json:"code"`
	City                   string    `gorm:"size:100" json:"city"`
	Country                string    `gorm:"size:80" json:"country"`
	Latitude               *float64  `gorm:"type:decimal(9,6)" json:"latitude,omitempty"`
	Longitude              *float64  `gorm:"type:decimal(9,6)" json:"longitude,omitempty"`
	CanTransship           bool      `gorm:"not null;default:false;index" json:"can_transship"`
	TransshipHandlingDays  int       `gorm:"default:0" json:"transship_handling_days"`
	TransshipCostPerPallet float64   `gorm:"type:decimal(12,4);default:0" json:"transship_cost_per_pallet"`
	IsActive               bool      `gorm:"default:true" json:"is_active"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// Coordinates devuelve la posición cargada del hub, si existe.
func (h *Hub) Coordinates() (Coordinates, bool) {
	if h == nil || h.Latitude == nil || h.Longitude == nil {
		return Coordinates{}, false
	}
	return Coordinates{Lat: *h.Latitude, Lng: *h.Longitude}, true
}

// Location es el texto libre usado para geocodificar el hub.
func (h *Hub) Location() string {
	parts := []string{}
	for _, p := range []string{h.City, h.Country} {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return strings.TrimSpace(h.Name)
	}
	return strings.Join(parts, ", ")
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RoadDistance es la respuesta del servicio de ruteo por carretera.
type RoadDistance struct {
	DistanceKm      float64 `json:"distance_km"`
	DurationMinutes float64 `json:"duration_minutes"`
	Success         bool    `json:"success"`
}
