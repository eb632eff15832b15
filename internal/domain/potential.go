package domain

import (
	"strings"

	"github.com/google/uuid"
)

type PotentialStatus string

const (
	StatusComplete         PotentialStatus = "complete"
	StatusMissingPrice     PotentialStatus = "missing_price"
	StatusMissingTransport PotentialStatus = "missing_transport"
	StatusMissingBoth      PotentialStatus = "missing_both"
)

func (s PotentialStatus) Valid() bool {
	switch s {
	case StatusComplete, StatusMissingPrice, StatusMissingTransport, StatusMissingBoth:
		return true
	}
	return false
}

// Potential es una combinación candidata calculada al vuelo; no se persiste.
// Para la matriz de mercado el dueño es Hub; para oportunidades de clientes es Customer.
type Potential struct {
	Key                  string          `json:"key"`
	Hub                  *Hub            `json:"hub"`
	Customer             *Customer       `json:"customer,omitempty"`
	Supplier             *Supplier       `json:"supplier"`
	Spec                 *PackagingSpec  `json:"spec"`
	UnitsPerPallet       float64         `json:"units_per_pallet"`
	SupplierPrice        *SupplierPrice  `json:"supplier_price,omitempty"`
	Transport            *ResolvedRoute  `json:"transport,omitempty"`
	TransportCostPerUnit float64         `json:"transport_cost_per_unit"`
	HasSupplierPrice     bool            `json:"has_supplier_price"`
	HasTransportRoute    bool            `json:"has_transport_route"`
	Status               PotentialStatus `json:"status"`
	CompletionScore      int             `json:"completion_score"`
	HasMarketOpportunity bool            `json:"has_market_opportunity"`
	MarketOpportunity    *Opportunity    `json:"market_opportunity,omitempty"`
}

// Summary se calcula siempre sobre la lista sin filtrar.
type Summary struct {
	Total            int     `json:"total"`
	Complete         int     `json:"complete"`
	MissingPrice     int     `json:"missing_price"`
	MissingTransport int     `json:"missing_transport"`
	MissingBoth      int     `json:"missing_both"`
	CompletionRate   float64 `json:"completion_rate"`
}

// PotentialKey arma la clave "{dueño}-{proveedor}-{empaque}[-{hub del precio}]".
func PotentialKey(ownerID, supplierID, specID uuid.UUID, priceHubID *uuid.UUID) string {
	k := ownerID.String() + "-" + supplierID.String() + "-" + specID.String()
	if priceHubID != nil {
		k += "-" + priceHubID.String()
	}
	return k
}

// TradePotentialKey es la clave de un Potential por cliente: la clave base con el
// cliente como dueño, más ":{hub de entrega}" para que el commit sepa a qué hub llevarlo.
func TradePotentialKey(customerID, supplierID, specID uuid.UUID, priceHubID *uuid.UUID, deliveryHubID uuid.UUID) string {
	return PotentialKey(customerID, supplierID, specID, priceHubID) + ":" + deliveryHubID.String()
}

// PotentialKeyParts: si DeliveryHubID viene informado, OwnerID es un cliente.
type PotentialKeyParts struct {
	OwnerID       uuid.UUID
	SupplierID    uuid.UUID
	SpecID        uuid.UUID
	PriceHubID    *uuid.UUID
	DeliveryHubID *uuid.UUID
}

// ParsePotentialKey separa la clave por longitud fija: los UUID también llevan guiones.
func ParsePotentialKey(key string) (PotentialKeyParts, error) {
	const idLen = 36
	key = strings.TrimSpace(key)
	var parts PotentialKeyParts
	if base, suffix, ok := strings.Cut(key, ":"); ok {
		if len(suffix) != idLen {
			return parts, ErrInvalidPotentialKey
		}
		id, err := uuid.Parse(suffix)
		if err != nil {
			return parts, ErrInvalidPotentialKey
		}
		parts.DeliveryHubID = &id
		key = base
	}
	n := len(key)
	if n != 3*idLen+2 && n != 4*idLen+3 {
		return parts, ErrInvalidPotentialKey
	}
	ids := make([]uuid.UUID, 0, 4)
	for off := 0; off < n; off += idLen + 1 {
		if off > 0 && key[off-1] != '-' {
			return parts, ErrInvalidPotentialKey
		}
		id, err := uuid.Parse(key[off : off+idLen])
		if err != nil {
			return parts, ErrInvalidPotentialKey
		}
		ids = append(ids, id)
	}
	parts.OwnerID, parts.SupplierID, parts.SpecID = ids[0], ids[1], ids[2]
	if len(ids) == 4 {
		h := ids[3]
		parts.PriceHubID = &h
	}
	return parts, nil
}
