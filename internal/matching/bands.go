package matching

import (
	"github.com/google/uuid"

	"github.com/phenrril/freshtrade/internal/domain"
)

// CheapestBand elige el tramo con menor precio por pallet (> 0).
// Empate: menor mínimo de pallets, después el primero encontrado.
func CheapestBand(bands []domain.PriceBand) (*domain.PriceBand, bool) {
	var best *domain.PriceBand
	for i := range bands {
		b := &bands[i]
		if b.PricePerPallet <= 0 {
			continue
		}
		if best == nil || b.PricePerPallet < best.PricePerPallet ||
			(b.PricePerPallet == best.PricePerPallet && b.MinPallets < best.MinPallets) {
			best = b
		}
	}
	return best, best != nil
}

// BandForPallets busca el tramo que cubre esa cantidad de pallets. Los tramos
// pueden tener huecos: si ninguno la cubre devuelve false.
func BandForPallets(bands []domain.PriceBand, pallets int) (*domain.PriceBand, bool) {
	var best *domain.PriceBand
	for i := range bands {
		b := &bands[i]
		if b.PricePerPallet <= 0 || !b.Covers(pallets) {
			continue
		}
		if best == nil || b.PricePerPallet < best.PricePerPallet {
			best = b
		}
	}
	return best, best != nil
}

// FindBand busca un tramo por id dentro de una ruta.
func FindBand(route *domain.TransporterRoute, bandID uuid.UUID) (*domain.PriceBand, bool) {
	if route == nil {
		return nil, false
	}
	for i := range route.PriceBands {
		if route.PriceBands[i].ID == bandID {
			return &route.PriceBands[i], true
		}
	}
	return nil, false
}
