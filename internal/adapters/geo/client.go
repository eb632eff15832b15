// Package geo habla con un geocodificador compatible con Nominatim y un
// ruteador compatible con OSRM.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/freshtrade/internal/domain"
	"github.com/phenrril/freshtrade/internal/metrics"
)

var ErrNoResults = errors.New("geocodificación sin resultados")

type Client struct {
	geocoderURL string
	routerURL   string
	userAgent   string
	httpClient  *http.Client
}

func NewClient(geocoderURL, routerURL, userAgent string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if userAgent == "" {
		userAgent = "freshtrade"
	}
	return &Client{
		geocoderURL: strings.TrimRight(geocoderURL, "/"),
		routerURL:   strings.TrimRight(routerURL, "/"),
		userAgent:   userAgent,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

type osrmResp struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
	} `json:"routes"`
}

// Geocode devuelve la primera coincidencia para el texto libre.
func (c *Client) Geocode(ctx context.Context, location string) (coords domain.Coordinates, err error) {
	defer func() { metrics.RecordGeoCall("geocode", err) }()

	q := strings.TrimSpace(location)
	if q == "" {
		return coords, fmt.Errorf("%w: ubicación vacía", domain.ErrInvalidInput)
	}
	v := url.Values{}
	v.Set("q", q)
	v.Set("format", "json")
	v.Set("limit", "1")

	var places []nominatimPlace
	if err = c.getJSON(ctx, c.geocoderURL+"/search?"+v.Encode(), &places); err != nil {
		log.Error().Err(err).Str("location", q).Msg("error geocodificando")
		return coords, err
	}
	if len(places) == 0 {
		return coords, fmt.Errorf("%w: %s", ErrNoResults, q)
	}
	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return coords, fmt.Errorf("latitud inválida %q: %w", places[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return coords, fmt.Errorf("longitud inválida %q: %w", places[0].Lon, err)
	}
	return domain.Coordinates{Lat: lat, Lng: lng}, nil
}

// RoadDistance consulta la ruta en auto entre dos puntos. Si el ruteador
// responde sin ruta devuelve Success=false sin error.
func (c *Client) RoadDistance(ctx context.Context, from, to domain.Coordinates) (d domain.RoadDistance, err error) {
	defer func() { metrics.RecordGeoCall("road_distance", err) }()

	path := fmt.Sprintf("%s/route/v1/driving/%s,%s;%s,%s?overview=false",
		c.routerURL,
		fmtCoord(from.Lng), fmtCoord(from.Lat),
		fmtCoord(to.Lng), fmtCoord(to.Lat))

	var res osrmResp
	if err = c.getJSON(ctx, path, &res); err != nil {
		log.Error().Err(err).Msg("error consultando distancia por carretera")
		return d, err
	}
	if res.Code != "Ok" || len(res.Routes) == 0 {
		return d, nil
	}
	r := res.Routes[0]
	return domain.RoadDistance{
		DistanceKm:      r.Distance / 1000,
		DurationMinutes: r.Duration / 60,
		Success:         true,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, u string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error de conexión con %s: %w", req.URL.Host, err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("geo status %d: %s", res.StatusCode, strings.TrimSpace(string(b)))
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func fmtCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
