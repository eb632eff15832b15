package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/phenrril/freshtrade/internal/domain"
	"github.com/phenrril/freshtrade/internal/metrics"
)

// RouteResolution es la ruta elegida más todas las candidatas ordenadas.
type RouteResolution struct {
	Route      *domain.ResolvedRoute  `json:"route"`
	Candidates []domain.ResolvedRoute `json:"candidates"`
}

// AlternativeRoute es un hub de transbordo posible con sus distancias por carretera.
type AlternativeRoute struct {
	Hub                  domain.Hub          `json:"hub"`
	FirstLeg             domain.RoadDistance `json:"first_leg"`
	SecondLeg            domain.RoadDistance `json:"second_leg"`
	TotalDistanceKm      float64             `json:"total_distance_km"`
	TotalDurationMinutes float64             `json:"total_duration_minutes"`
	HasTransporterRoutes bool                `json:"has_transporter_routes"`
}

type RouteUC struct {
	Store
	Geo     domain.GeoService
	Limit   int
	limiter *rate.Limiter
}

// NewRouteUC espacia las llamadas externas cada delay; delay <= 0 no limita.
func NewRouteUC(s Store, geo domain.GeoService, limit int, delay time.Duration) *RouteUC {
	l := rate.NewLimiter(rate.Inf, 1)
	if delay > 0 {
		l = rate.NewLimiter(rate.Every(delay), 1)
	}
	if limit <= 0 {
		limit = 10
	}
	return &RouteUC{Store: s, Geo: geo, Limit: limit, limiter: l}
}

// Resolve busca el transporte más barato entre dos hubs.
func (uc *RouteUC) Resolve(ctx context.Context, origin, destination uuid.UUID, unitsPerPallet float64) (*RouteResolution, error) {
	if origin == uuid.Nil || destination == uuid.Nil {
		return nil, domain.ErrInvalidInput
	}
	net, err := uc.network(ctx)
	if err != nil {
		return nil, err
	}
	if net.Hub(origin) == nil || net.Hub(destination) == nil {
		return nil, domain.ErrNotFound
	}
	res := &RouteResolution{Candidates: net.Candidates(origin, destination, unitsPerPallet)}
	if len(res.Candidates) > 0 {
		best := res.Candidates[0]
		res.Route = &best
	}
	metrics.RecordRoute(res.Route)
	return res, nil
}

// SuggestAlternatives evalúa hubs de transbordo por distancia por carretera.
// Procesa como máximo Limit candidatos, de a uno y respetando el limitador;
// si un candidato falla se registra y se sigue con el resto.
func (uc *RouteUC) SuggestAlternatives(ctx context.Context, origin, destination uuid.UUID) ([]AlternativeRoute, error) {
	if origin == uuid.Nil || destination == uuid.Nil || origin == destination {
		return nil, domain.ErrInvalidInput
	}
	net, err := uc.network(ctx)
	if err != nil {
		return nil, err
	}
	from, to := net.Hub(origin), net.Hub(destination)
	if from == nil || to == nil {
		return nil, domain.ErrNotFound
	}
	fromC, err := uc.coordinates(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("geocodificar origen %s: %w", from.Name, err)
	}
	toC, err := uc.coordinates(ctx, to)
	if err != nil {
		return nil, fmt.Errorf("geocodificar destino %s: %w", to.Name, err)
	}

	candidates := []*domain.Hub{}
	for _, h := range net.TransshipHubs() {
		if h.ID == origin || h.ID == destination {
			continue
		}
		candidates = append(candidates, h)
		if len(candidates) == uc.Limit {
			break
		}
	}

	out := []AlternativeRoute{}
	for _, h := range candidates {
		alt, err := uc.evaluate(ctx, h, fromC, toC)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err != nil {
			log.Warn().Err(err).Str("hub", h.Name).Msg("candidato de transbordo descartado")
			continue
		}
		alt.HasTransporterRoutes = net.HasRoute(origin, h.ID) && net.HasRoute(h.ID, destination)
		out = append(out, *alt)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalDistanceKm < out[j].TotalDistanceKm })

	log.Info().Str("origin", from.Name).Str("destination", to.Name).Int("candidates", len(candidates)).Int("suggested", len(out)).Msg("rutas alternativas")
	return out, nil
}

func (uc *RouteUC) evaluate(ctx context.Context, h *domain.Hub, from, to domain.Coordinates) (*AlternativeRoute, error) {
	mid, err := uc.coordinates(ctx, h)
	if err != nil {
		return nil, err
	}
	first, err := uc.roadDistance(ctx, from, mid)
	if err != nil {
		return nil, err
	}
	second, err := uc.roadDistance(ctx, mid, to)
	if err != nil {
		return nil, err
	}
	return &AlternativeRoute{
		Hub:                  *h,
		FirstLeg:             first,
		SecondLeg:            second,
		TotalDistanceKm:      first.DistanceKm + second.DistanceKm,
		TotalDurationMinutes: first.DurationMinutes + second.DurationMinutes,
	}, nil
}

// coordinates usa las del hub si están cargadas; si no geocodifica "ciudad, país".
func (uc *RouteUC) coordinates(ctx context.Context, h *domain.Hub) (domain.Coordinates, error) {
	if c, ok := h.Coordinates(); ok {
		return c, nil
	}
	if err := uc.limiter.Wait(ctx); err != nil {
		return domain.Coordinates{}, err
	}
	return uc.Geo.Geocode(ctx, h.Location())
}

func (uc *RouteUC) roadDistance(ctx context.Context, from, to domain.Coordinates) (domain.RoadDistance, error) {
	if err := uc.limiter.Wait(ctx); err != nil {
		return domain.RoadDistance{}, err
	}
	d, err := uc.Geo.RoadDistance(ctx, from, to)
	if err != nil {
		return d, err
	}
	if !d.Success {
		return d, errors.New("sin ruta por carretera")
	}
	return d, nil
}
