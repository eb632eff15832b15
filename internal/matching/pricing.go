package matching

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	moneyPlaces   = 4
	percentPlaces = 2
)

// Quote es el resultado del cálculo de costo y margen de una oportunidad.
type Quote struct {
	TransportCostPerUnit float64 `json:"transport_cost_per_unit"`
	TotalCost            float64 `json:"total_cost"`
	Margin               float64 `json:"margin"`
	MarginPct            float64 `json:"margin_pct"`
	OfferPrice           float64 `json:"offer_price"`
}

// PriceOpportunity calcula el precio de oferta con margen sobre el costo:
// offer = (proveedor + flete por unidad) * (1 + margen/100).
func PriceOpportunity(supplierPricePerUnit, transportPricePerPallet, unitsPerPallet, marginPct float64) Quote {
	total := totalCost(supplierPricePerUnit, transportPricePerPallet, unitsPerPallet)
	pct := dec(marginPct)
	offer := total.Mul(decimal.NewFromInt(1).Add(pct.Div(decimal.NewFromInt(100))))
	return Quote{
		TransportCostPerUnit: transportPerUnit(transportPricePerPallet, unitsPerPallet).Round(moneyPlaces).InexactFloat64(),
		TotalCost:            total.Round(moneyPlaces).InexactFloat64(),
		Margin:               offer.Sub(total).Round(moneyPlaces).InexactFloat64(),
		MarginPct:            pct.Round(percentPlaces).InexactFloat64(),
		OfferPrice:           offer.Round(moneyPlaces).InexactFloat64(),
	}
}

// QuoteWithOfferPrice parte de un precio de oferta elegido a mano y recalcula
// el margen sobre el precio de venta (no sobre el costo).
func QuoteWithOfferPrice(supplierPricePerUnit, transportPricePerPallet, unitsPerPallet, offerPrice float64) Quote {
	total := totalCost(supplierPricePerUnit, transportPricePerPallet, unitsPerPallet)
	offer := dec(offerPrice)
	margin, pct := backCompute(total, offer)
	return Quote{
		TransportCostPerUnit: transportPerUnit(transportPricePerPallet, unitsPerPallet).Round(moneyPlaces).InexactFloat64(),
		TotalCost:            total.Round(moneyPlaces).InexactFloat64(),
		Margin:               margin.Round(moneyPlaces).InexactFloat64(),
		MarginPct:            pct.Round(percentPlaces).InexactFloat64(),
		OfferPrice:           offer.Round(moneyPlaces).InexactFloat64(),
	}
}

// BackComputeMargin: margen = oferta - costo; % = margen/oferta*100, 0 si oferta <= 0.
// No es la inversa de PriceOpportunity salvo con margen 0.
func BackComputeMargin(totalCost, offerPrice float64) (margin, marginPct float64) {
	m, pct := backCompute(dec(totalCost), dec(offerPrice))
	return m.Round(moneyPlaces).InexactFloat64(), pct.Round(percentPlaces).InexactFloat64()
}

func backCompute(total, offer decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	margin := offer.Sub(total)
	if !offer.IsPositive() {
		return margin, decimal.Zero
	}
	return margin, margin.Div(offer).Mul(decimal.NewFromInt(100))
}

func totalCost(supplierPricePerUnit, transportPricePerPallet, unitsPerPallet float64) decimal.Decimal {
	return dec(supplierPricePerUnit).Add(transportPerUnit(transportPricePerPallet, unitsPerPallet))
}

func transportPerUnit(pricePerPallet, unitsPerPallet float64) decimal.Decimal {
	units := dec(clean(unitsPerPallet))
	if !units.IsPositive() {
		return decimal.Zero
	}
	return dec(clean(pricePerPallet)).Div(units)
}

// dec convierte a decimal tratando NaN e infinitos como 0.
func dec(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}
