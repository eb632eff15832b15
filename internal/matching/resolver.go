package matching

import (
	"sort"

	"github.com/google/uuid"

	"github.com/phenrril/freshtrade/internal/domain"
)

// ResolveTransport arma la red y resuelve un único par origen/destino.
// Para muchos pares conviene construir un Network y reutilizarlo.
func ResolveTransport(origin, destination uuid.UUID, unitsPerPallet float64, routes []domain.TransporterRoute, hubs []domain.Hub) *domain.ResolvedRoute {
	return NewNetwork(routes, hubs).Resolve(origin, destination, unitsPerPallet)
}

// ResolveForPrice resuelve el transporte desde el hub del precio hasta destination.
// Un precio DELIVERY hacia otro hub lo entrega el proveedor sin costo de flete aparte.
func (n *Network) ResolveForPrice(price *domain.SupplierPrice, destination uuid.UUID, unitsPerPallet float64) *domain.ResolvedRoute {
	if price == nil {
		return nil
	}
	if price.HubID == destination {
		return sameLocation(destination)
	}
	if price.DeliveryMode == domain.DeliveryModeDelivery {
		return &domain.ResolvedRoute{
			Kind:             domain.RouteSupplierDelivery,
			OriginHubID:      price.HubID,
			DestinationHubID: destination,
		}
	}
	return n.Resolve(price.HubID, destination, unitsPerPallet)
}

// Resolve devuelve la ruta más barata, o nil si no hay ninguna.
func (n *Network) Resolve(origin, destination uuid.UUID, unitsPerPallet float64) *domain.ResolvedRoute {
	if origin == destination {
		return sameLocation(destination)
	}
	cands := n.Candidates(origin, destination, unitsPerPallet)
	if len(cands) == 0 {
		return nil
	}
	best := cands[0]
	return &best
}

// Candidates lista las rutas directas ordenadas por precio; sólo si no hay
// ninguna directa con precio busca combinaciones de dos tramos por un hub de transbordo.
func (n *Network) Candidates(origin, destination uuid.UUID, unitsPerPallet float64) []domain.ResolvedRoute {
	if origin == destination {
		return []domain.ResolvedRoute{*sameLocation(destination)}
	}
	cands := n.direct(origin, destination, unitsPerPallet)
	if len(cands) == 0 {
		cands = n.twoLeg(origin, destination, unitsPerPallet)
	}
	sortCandidates(cands)
	return cands
}

func (n *Network) direct(origin, destination uuid.UUID, units float64) []domain.ResolvedRoute {
	out := []domain.ResolvedRoute{}
	for _, r := range n.byPair[hubPair{origin, destination}] {
		band, ok := CheapestBand(r.PriceBands)
		if !ok {
			continue
		}
		out = append(out, domain.ResolvedRoute{
			Kind:             domain.RouteDirect,
			OriginHubID:      origin,
			DestinationHubID: destination,
			Legs:             []domain.RouteLeg{n.leg(r, band)},
			PricePerPallet:   band.PricePerPallet,
			PricePerUnit:     PerUnit(band.PricePerPallet, units),
			DurationDays:     r.DurationDays,
		})
	}
	return out
}

func (n *Network) twoLeg(origin, destination uuid.UUID, units float64) []domain.ResolvedRoute {
	out := []domain.ResolvedRoute{}
	for _, first := range n.from[origin] {
		mid := n.hubs[first.DestinationHubID]
		if mid == nil || !mid.CanTransship || mid.ID == origin || mid.ID == destination {
			continue
		}
		b1, ok := CheapestBand(first.PriceBands)
		if !ok {
			continue
		}
		for _, second := range n.byPair[hubPair{mid.ID, destination}] {
			b2, ok := CheapestBand(second.PriceBands)
			if !ok {
				continue
			}
			total := b1.PricePerPallet + b2.PricePerPallet
			midID := mid.ID
			out = append(out, domain.ResolvedRoute{
				Kind:                  domain.RouteTransshipment,
				OriginHubID:           origin,
				DestinationHubID:      destination,
				Legs:                  []domain.RouteLeg{n.leg(first, b1), n.leg(second, b2)},
				PricePerPallet:        total,
				PricePerUnit:          PerUnit(total, units),
				DurationDays:          first.DurationDays + second.DurationDays,
				TransshipHubID:        &midID,
				TransshipHubName:      mid.Name,
				HandlingDays:          mid.TransshipHandlingDays,
				HandlingCostPerPallet: mid.TransshipCostPerPallet,
			})
		}
	}
	return out
}

// Reprice recalcula una ruta resuelta usando otro tramo de precio en el tramo
// de ruta que lo contiene. Devuelve false si el tramo no pertenece a la ruta.
func (n *Network) Reprice(rr *domain.ResolvedRoute, bandID uuid.UUID, unitsPerPallet float64) (*domain.ResolvedRoute, bool) {
	if rr == nil {
		return nil, false
	}
	for i, l := range rr.Legs {
		band, ok := FindBand(n.routes[l.RouteID], bandID)
		if !ok || band.PricePerPallet <= 0 {
			continue
		}
		out := *rr
		out.Legs = append([]domain.RouteLeg(nil), rr.Legs...)
		setBand(&out.Legs[i], band)
		retotal(&out, unitsPerPallet)
		return &out, true
	}
	return nil, false
}

// RepriceForPallets aplica en cada tramo de ruta el tramo de precio que cubre esa
// cantidad de pallets. Si algún tramo de ruta no tiene uno que la cubra devuelve false.
func (n *Network) RepriceForPallets(rr *domain.ResolvedRoute, pallets int, unitsPerPallet float64) (*domain.ResolvedRoute, bool) {
	if rr == nil {
		return nil, false
	}
	out := *rr
	out.Legs = append([]domain.RouteLeg(nil), rr.Legs...)
	for i := range out.Legs {
		route := n.routes[out.Legs[i].RouteID]
		if route == nil {
			return nil, false
		}
		band, ok := BandForPallets(route.PriceBands, pallets)
		if !ok {
			return nil, false
		}
		setBand(&out.Legs[i], band)
	}
	retotal(&out, unitsPerPallet)
	return &out, true
}

func setBand(l *domain.RouteLeg, b *domain.PriceBand) {
	id := b.ID
	l.PriceBandID = &id
	l.PricePerPallet = b.PricePerPallet
}

func retotal(rr *domain.ResolvedRoute, unitsPerPallet float64) {
	total := 0.0
	for _, leg := range rr.Legs {
		total += leg.PricePerPallet
	}
	rr.PricePerPallet = total
	rr.PricePerUnit = PerUnit(total, unitsPerPallet)
}

func sameLocation(hubID uuid.UUID) *domain.ResolvedRoute {
	return &domain.ResolvedRoute{
		Kind:             domain.RouteSameLocation,
		OriginHubID:      hubID,
		DestinationHubID: hubID,
	}
}

// sortCandidates: precio, duración, transportista y por último ids de ruta.
func sortCandidates(c []domain.ResolvedRoute) {
	sort.SliceStable(c, func(i, j int) bool {
		a, b := c[i], c[j]
		if a.PricePerPallet != b.PricePerPallet {
			return a.PricePerPallet < b.PricePerPallet
		}
		if a.DurationDays != b.DurationDays {
			return a.DurationDays < b.DurationDays
		}
		if ta, tb := transporterKey(a), transporterKey(b); ta != tb {
			return ta < tb
		}
		return routeKey(a) < routeKey(b)
	})
}

func transporterKey(r domain.ResolvedRoute) string {
	k := ""
	for _, l := range r.Legs {
		k += l.TransporterName + "/"
	}
	return k
}

func routeKey(r domain.ResolvedRoute) string {
	k := ""
	for _, l := range r.Legs {
		k += l.RouteID.String() + "/"
	}
	return k
}
