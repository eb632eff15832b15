package matching

import (
	"github.com/google/uuid"

	"github.com/phenrril/freshtrade/internal/domain"
)

// Snapshot son las filas que se cargan una sola vez por cálculo de matriz.
// Hubs es la red completa; los hubs a recorrer se pasan aparte.
type Snapshot struct {
	Hubs          []domain.Hub
	Specs         []domain.PackagingSpec
	Capabilities  []domain.SupplierCapability
	Prices        []domain.SupplierPrice
	Routes        []domain.TransporterRoute
	Opportunities []domain.Opportunity
}

// Demand es un destino del lado cliente: qué empaque necesita y en qué hub lo recibe.
type Demand struct {
	Customer *domain.Customer
	Hub      *domain.Hub
	Spec     *domain.PackagingSpec
}

type supplierSpec struct{ supplier, spec uuid.UUID }

type index struct {
	net      *Network
	caps     map[uuid.UUID][]*domain.SupplierCapability
	prices   map[supplierSpec][]*domain.SupplierPrice
	byMatrix map[string]*domain.Opportunity
	byTrade  map[string]*domain.Opportunity
}

func newIndex(s Snapshot) *index {
	ix := &index{
		net:      NewNetwork(s.Routes, s.Hubs),
		caps:     make(map[uuid.UUID][]*domain.SupplierCapability),
		prices:   make(map[supplierSpec][]*domain.SupplierPrice),
		byMatrix: make(map[string]*domain.Opportunity),
		byTrade:  make(map[string]*domain.Opportunity),
	}
	for i := range s.Capabilities {
		c := &s.Capabilities[i]
		if !c.IsActive || (c.Supplier != nil && !c.Supplier.IsActive) {
			continue
		}
		ix.caps[c.SpecID] = append(ix.caps[c.SpecID], c)
	}
	for i := range s.Prices {
		p := &s.Prices[i]
		k := supplierSpec{p.SupplierID, p.SpecID}
		ix.prices[k] = append(ix.prices[k], p)
	}
	for i := range s.Opportunities {
		o := &s.Opportunities[i]
		if !o.IsActive {
			continue
		}
		keepLatest(ix.byMatrix, o.MatrixKey(), o)
		if k := o.TradeKey(); k != "" {
			keepLatest(ix.byTrade, k, o)
		}
	}
	return ix
}

func keepLatest(m map[string]*domain.Opportunity, k string, o *domain.Opportunity) {
	if cur, ok := m[k]; !ok || o.CreatedAt.After(cur.CreatedAt) {
		m[k] = o
	}
}

// Classify deriva el estado y el puntaje de completitud de una combinación.
func Classify(hasPrice, hasTransport bool) (domain.PotentialStatus, int) {
	score := 0
	if hasPrice {
		score += 50
	}
	if hasTransport {
		score += 50
	}
	switch {
	case hasPrice && hasTransport:
		return domain.StatusComplete, score
	case hasPrice:
		return domain.StatusMissingTransport, score
	case hasTransport:
		return domain.StatusMissingPrice, score
	default:
		return domain.StatusMissingBoth, score
	}
}

// BuildMatrix cruza hubs × empaques × proveedores × precios y devuelve un
// Potential por combinación. Un proveedor sin precios genera igual un Potential.
func BuildMatrix(s Snapshot, targets []domain.Hub) []domain.Potential {
	ix := newIndex(s)
	out := []domain.Potential{}
	for h := range targets {
		hub := &targets[h]
		for sp := range s.Specs {
			spec := &s.Specs[sp]
			key := func(supplierID uuid.UUID, priceHub *uuid.UUID) string {
				return domain.PotentialKey(hub.ID, supplierID, spec.ID, priceHub)
			}
			out = ix.combine(out, hub, nil, spec, key, func(supplierID uuid.UUID) *domain.Opportunity {
				return ix.byMatrix[hub.ID.String()+"|"+supplierID.String()+"|"+spec.ID.String()]
			})
		}
	}
	return out
}

// BuildTrade es la variante por cliente: la clave usa el id del cliente y lleva
// el hub de entrega; las oportunidades previas se buscan por (cliente, proveedor, empaque).
func BuildTrade(s Snapshot, demands []Demand) []domain.Potential {
	ix := newIndex(s)
	out := []domain.Potential{}
	for _, d := range demands {
		if d.Customer == nil || d.Hub == nil || d.Spec == nil {
			continue
		}
		customer, spec, hubID := d.Customer, d.Spec, d.Hub.ID
		key := func(supplierID uuid.UUID, priceHub *uuid.UUID) string {
			return domain.TradePotentialKey(customer.ID, supplierID, spec.ID, priceHub, hubID)
		}
		out = ix.combine(out, d.Hub, customer, spec, key, func(supplierID uuid.UUID) *domain.Opportunity {
			return ix.byTrade[customer.ID.String()+"|"+supplierID.String()+"|"+spec.ID.String()]
		})
	}
	return out
}

func (ix *index) combine(out []domain.Potential, hub *domain.Hub, customer *domain.Customer, spec *domain.PackagingSpec, key func(uuid.UUID, *uuid.UUID) string, existing func(uuid.UUID) *domain.Opportunity) []domain.Potential {
	units := UnitsPerPallet(spec.SoldBy(), spec)
	for _, c := range ix.caps[spec.ID] {
		prices := ix.prices[supplierSpec{c.SupplierID, spec.ID}]
		if len(prices) == 0 {
			prices = []*domain.SupplierPrice{nil}
		}
		opp := existing(c.SupplierID)
		for _, price := range prices {
			p := domain.Potential{
				Hub:               hub,
				Customer:          customer,
				Supplier:          c.Supplier,
				Spec:              spec,
				UnitsPerPallet:    units,
				SupplierPrice:     price,
				HasSupplierPrice:  price != nil,
				MarketOpportunity: opp,
			}
			var priceHub *uuid.UUID
			if price != nil {
				id := price.HubID
				priceHub = &id
				p.Transport = ix.net.ResolveForPrice(price, hub.ID, units)
			}
			if p.Transport != nil {
				p.HasTransportRoute = true
				p.TransportCostPerUnit = p.Transport.PricePerUnit
			}
			p.Status, p.CompletionScore = Classify(p.HasSupplierPrice, p.HasTransportRoute)
			p.HasMarketOpportunity = opp != nil
			p.Key = key(c.SupplierID, priceHub)
			out = append(out, p)
		}
	}
	return out
}

// Summarize cuenta por estado. Debe recibir la lista sin filtrar.
func Summarize(list []domain.Potential) domain.Summary {
	s := domain.Summary{Total: len(list)}
	for _, p := range list {
		switch p.Status {
		case domain.StatusComplete:
			s.Complete++
		case domain.StatusMissingPrice:
			s.MissingPrice++
		case domain.StatusMissingTransport:
			s.MissingTransport++
		default:
			s.MissingBoth++
		}
	}
	if s.Total > 0 {
		s.CompletionRate = float64(s.Complete) / float64(s.Total)
	}
	return s
}

// FilterByStatus devuelve los potenciales con ese estado; "" o "all" no filtra.
func FilterByStatus(list []domain.Potential, status domain.PotentialStatus) []domain.Potential {
	if status == "" || status == "all" {
		return list
	}
	out := []domain.Potential{}
	for _, p := range list {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out
}

// PreferredSpecs restringe los empaques a los productos con preferencia.
// Si todas las preferencias de un producto fijan empaque, sólo se usan esos.
func PreferredSpecs(specs []domain.PackagingSpec, prefs []domain.HubProductPreference) []domain.PackagingSpec {
	anySpec := map[uuid.UUID]bool{}
	pinned := map[uuid.UUID]bool{}
	for _, p := range prefs {
		if !p.IsActive {
			continue
		}
		if p.SpecID == nil {
			anySpec[p.ProductID] = true
		} else {
			pinned[*p.SpecID] = true
		}
	}
	out := []domain.PackagingSpec{}
	for _, s := range specs {
		if anySpec[s.ProductID] || pinned[s.ID] {
			out = append(out, s)
		}
	}
	return out
}

// PreferredProductIDs devuelve los productos referenciados, sin repetir.
func PreferredProductIDs(prefs []domain.HubProductPreference) []uuid.UUID {
	seen := map[uuid.UUID]bool{}
	out := []uuid.UUID{}
	for _, p := range prefs {
		if !p.IsActive || seen[p.ProductID] {
			continue
		}
		seen[p.ProductID] = true
		out = append(out, p.ProductID)
	}
	return out
}
