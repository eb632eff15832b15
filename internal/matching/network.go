package matching

import (
	"sort"

	"github.com/google/uuid"

	"github.com/phenrril/freshtrade/internal/domain"
)

type hubPair struct{ origin, destination uuid.UUID }

// Network indexa rutas activas y hubs una sola vez por cálculo, para que la
// búsqueda de rutas sea por lookup y no por recorrer todas las filas.
type Network struct {
	hubs   map[uuid.UUID]*domain.Hub
	routes map[uuid.UUID]*domain.TransporterRoute
	byPair map[hubPair][]*domain.TransporterRoute
	from   map[uuid.UUID][]*domain.TransporterRoute
}

func NewNetwork(routes []domain.TransporterRoute, hubs []domain.Hub) *Network {
	n := &Network{
		hubs:   make(map[uuid.UUID]*domain.Hub, len(hubs)),
		routes: make(map[uuid.UUID]*domain.TransporterRoute, len(routes)),
		byPair: make(map[hubPair][]*domain.TransporterRoute),
		from:   make(map[uuid.UUID][]*domain.TransporterRoute),
	}
	for i := range hubs {
		n.hubs[hubs[i].ID] = &hubs[i]
	}
	for i := range routes {
		r := &routes[i]
		if !r.IsActive {
			continue
		}
		n.routes[r.ID] = r
		k := hubPair{r.OriginHubID, r.DestinationHubID}
		n.byPair[k] = append(n.byPair[k], r)
		n.from[r.OriginHubID] = append(n.from[r.OriginHubID], r)
	}
	return n
}

func (n *Network) Hub(id uuid.UUID) *domain.Hub { return n.hubs[id] }

func (n *Network) Route(id uuid.UUID) *domain.TransporterRoute { return n.routes[id] }

// TransshipHubs devuelve los hubs habilitados para transbordo, ordenados por nombre.
func (n *Network) TransshipHubs() []*domain.Hub {
	out := []*domain.Hub{}
	for _, h := range n.hubs {
		if h.CanTransship {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func (n *Network) hubName(id uuid.UUID) string {
	if h := n.hubs[id]; h != nil {
		return h.Name
	}
	return ""
}

func (n *Network) leg(r *domain.TransporterRoute, b *domain.PriceBand) domain.RouteLeg {
	bandID := b.ID
	return domain.RouteLeg{
		RouteID:            r.ID,
		TransporterID:      r.TransporterID,
		TransporterName:    r.TransporterName(),
		OriginHubID:        r.OriginHubID,
		OriginHubName:      n.hubName(r.OriginHubID),
		DestinationHubID:   r.DestinationHubID,
		DestinationHubName: n.hubName(r.DestinationHubID),
		PriceBandID:        &bandID,
		PricePerPallet:     b.PricePerPallet,
		DurationDays:       r.DurationDays,
	}
}

// HasRoute indica si hay al menos una ruta activa origen→destino.
func (n *Network) HasRoute(origin, destination uuid.UUID) bool {
	return len(n.byPair[hubPair{origin, destination}]) > 0
}
