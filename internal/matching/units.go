// Package matching contiene el motor de cruce proveedor/hub/empaque y la
// resolución de rutas. No hace I/O: recibe filas ya cargadas del Store.
package matching

import (
	"math"

	"github.com/phenrril/freshtrade/internal/domain"
)

// UnitsPerPallet convierte un empaque en unidades de venta por pallet.
// Nunca devuelve NaN ni valores negativos.
func UnitsPerPallet(soldBy domain.SoldBy, spec *domain.PackagingSpec) float64 {
	if spec == nil {
		return 0
	}
	boxes := num(spec.BoxesPerPallet)
	var units float64
	switch soldBy {
	case domain.SoldByKg:
		units = num(spec.WeightPerPallet)
	case domain.SoldByPiece, domain.SoldByPunnet:
		if pieces := num(spec.PiecesPerBox); pieces != 0 {
			units = pieces * boxes
		} else {
			units = boxes
		}
	default:
		// box, bag y cualquier unidad desconocida
		units = boxes
	}
	return clean(units)
}

// PerUnit reparte un precio por pallet entre las unidades; 0 si no hay unidades.
func PerUnit(pricePerPallet, unitsPerPallet float64) float64 {
	pricePerPallet, unitsPerPallet = clean(pricePerPallet), clean(unitsPerPallet)
	if unitsPerPallet <= 0 {
		return 0
	}
	return pricePerPallet / unitsPerPallet
}

func num(v *float64) float64 {
	if v == nil {
		return 0
	}
	return clean(*v)
}

func clean(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
