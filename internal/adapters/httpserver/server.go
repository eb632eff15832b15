package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/phenrril/freshtrade/internal/adapters/export/xlsx"
	"github.com/phenrril/freshtrade/internal/domain"
	"github.com/phenrril/freshtrade/internal/usecase"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Services son los casos de uso que expone la API.
type Services struct {
	Market        *usecase.MarketUC
	Trade         *usecase.TradeUC
	Finder        *usecase.FinderUC
	Routes        *usecase.RouteUC
	Opportunities *usecase.OpportunityUC
	Prices        *usecase.PriceUC
}

type Server struct {
	mux *http.ServeMux
	Services
}

// New arma el mux con la cadena de middlewares. rateLimit es pedidos por minuto por IP.
func New(svc Services, rateLimit int) http.Handler {
	s := &Server{mux: http.NewServeMux(), Services: svc}
	s.routes()
	return Chain(s.mux,
		RateLimit(rateLimit),
		RequestID,
		Recovery,
		Logging,
		Metrics,
	)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.Handle("GET /metrics", promhttp.Handler())

	s.mux.HandleFunc("GET /api/market/matrix", s.apiMarketMatrix)
	s.mux.HandleFunc("GET /api/market/matrix.xlsx", s.apiMarketMatrixXLSX)
	s.mux.HandleFunc("GET /api/trade/opportunities", s.apiTradeOpportunities)
	s.mux.HandleFunc("POST /api/product-finder", s.apiProductFinder)

	s.mux.HandleFunc("GET /api/routes/resolve", s.apiResolveRoute)
	s.mux.HandleFunc("GET /api/routes/alternatives", s.apiRouteAlternatives)

	s.mux.HandleFunc("POST /api/opportunities/price", s.apiPriceOpportunity)
	s.mux.HandleFunc("POST /api/opportunities/preview", s.apiPreviewOpportunity)
	s.mux.HandleFunc("POST /api/opportunities", s.apiCommitOpportunity)
	s.mux.HandleFunc("PATCH /api/opportunities/{id}/status", s.apiOpportunityStatus)

	s.mux.HandleFunc("POST /api/supplier-prices", s.apiReplacePrice)
	s.mux.HandleFunc("POST /api/supplier-prices/import", s.apiImportPrices)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) matrixQuery(r *http.Request) (usecase.MatrixQuery, error) {
	q := r.URL.Query()
	hubID, err := optionalUUID(q.Get("hub_id"))
	if err != nil {
		return usecase.MatrixQuery{}, err
	}
	preferred := false
	if v := q.Get("preferred_only"); v != "" {
		if preferred, err = strconv.ParseBool(v); err != nil {
			return usecase.MatrixQuery{}, fmt.Errorf("%w: preferred_only", domain.ErrInvalidInput)
		}
	}
	return usecase.MatrixQuery{HubID: hubID, PreferredOnly: preferred, Status: domain.PotentialStatus(q.Get("status"))}, nil
}

func (s *Server) apiMarketMatrix(w http.ResponseWriter, r *http.Request) {
	q, err := s.matrixQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.Market.BuildMarketMatrix(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) apiMarketMatrixXLSX(w http.ResponseWriter, r *http.Request) {
	q, err := s.matrixQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.Market.BuildMarketMatrix(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="matriz_mercado.xlsx"`)
	if err := xlsx.WriteMatrix(w, res); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("no se pudo escribir la planilla")
	}
}

func (s *Server) apiTradeOpportunities(w http.ResponseWriter, r *http.Request) {
	customerID, err := optionalUUID(r.URL.Query().Get("customer_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.Trade.BuildTradeOpportunities(r.Context(), customerID, domain.PotentialStatus(r.URL.Query().Get("status")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// apiProductFinder devuelve JSON o, con ?format=xlsx, la planilla.
func (s *Server) apiProductFinder(w http.ResponseWriter, r *http.Request) {
	var c usecase.FinderCriteria
	if err := decodeJSON(r, &c); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.Finder.FindProductSuppliers(r.Context(), c)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if r.URL.Query().Get("format") == "xlsx" {
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="proveedores.xlsx"`)
		if err := xlsx.WriteFinder(w, res); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("no se pudo escribir la planilla")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": res, "total": len(res)})
}

func (s *Server) hubPair(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	origin, err := uuid.Parse(r.URL.Query().Get("origin"))
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("%w: origin", domain.ErrInvalidInput)
	}
	dest, err := uuid.Parse(r.URL.Query().Get("destination"))
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("%w: destination", domain.ErrInvalidInput)
	}
	return origin, dest, nil
}

func (s *Server) apiResolveRoute(w http.ResponseWriter, r *http.Request) {
	origin, dest, err := s.hubPair(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	units := 0.0
	if v := r.URL.Query().Get("units_per_pallet"); v != "" {
		if units, err = strconv.ParseFloat(v, 64); err != nil || units < 0 {
			writeError(w, r, fmt.Errorf("%w: units_per_pallet", domain.ErrInvalidInput))
			return
		}
	}
	res, err := s.Routes.Resolve(r.Context(), origin, dest, units)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) apiRouteAlternatives(w http.ResponseWriter, r *http.Request) {
	origin, dest, err := s.hubPair(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.Routes.SuggestAlternatives(r.Context(), origin, dest)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"alternatives": res})
}

func (s *Server) apiPriceOpportunity(w http.ResponseWriter, r *http.Request) {
	var req usecase.PriceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Opportunities.Price(req))
}

func (s *Server) apiPreviewOpportunity(w http.ResponseWriter, r *http.Request) {
	var req usecase.CommitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.Opportunities.PreviewCommit(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) apiCommitOpportunity(w http.ResponseWriter, r *http.Request) {
	var req usecase.CommitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	o, err := s.Opportunities.Commit(r.Context(), req)
	if err != nil && o == nil {
		writeError(w, r, err)
		return
	}
	body := committed{Opportunity: o}
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Str("opportunity_id", o.ID.String()).Msg("oportunidad guardada con invalidación pendiente")
		body.Warning = err.Error()
	}
	writeJSON(w, http.StatusCreated, body)
}

// committed es la oportunidad creada; Warning sólo aparece si falló la invalidación posterior.
type committed struct {
	*domain.Opportunity
	Warning string `json:"warning,omitempty"`
}

func (s *Server) apiOpportunityStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: id", domain.ErrInvalidInput))
		return
	}
	var body struct {
		Status domain.OpportunityStatus `json:"status"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	o, err := s.Opportunities.UpdateStatus(r.Context(), id, body.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// apiReplacePrice responde 201 aunque falle la invalidación posterior: el precio ya quedó guardado.
func (s *Server) apiReplacePrice(w http.ResponseWriter, r *http.Request) {
	var in usecase.PriceInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	saved, err := s.Prices.ReplaceSupplierPrice(r.Context(), in)
	if err != nil && saved == nil {
		writeError(w, r, err)
		return
	}
	body := map[string]any{"price": saved}
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Str("price_id", saved.ID.String()).Msg("precio guardado con invalidación pendiente")
		body["warning"] = err.Error()
	}
	writeJSON(w, http.StatusCreated, body)
}

func (s *Server) apiImportPrices(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(16 << 20); err != nil {
		writeError(w, r, fmt.Errorf("%w: multipart", domain.ErrInvalidInput))
		return
	}
	fh := r.MultipartForm.File["file"]
	if len(fh) == 0 {
		writeError(w, r, fmt.Errorf("%w: falta el archivo", domain.ErrInvalidInput))
		return
	}
	f, err := fh[0].Open()
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: archivo", domain.ErrInvalidInput))
		return
	}
	defer f.Close()

	rows, err := xlsx.ReadPriceRows(io.LimitReader(f, 16<<20))
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}
	createdBy := strings.TrimSpace(r.FormValue("created_by"))
	if createdBy == "" {
		createdBy = "import:" + fh[0].Filename
	}
	rep, err := s.Prices.ImportRows(r.Context(), rows, createdBy)
	if err != nil {
		writeError(w, r, err)
		return
	}
	zerolog.Ctx(r.Context()).Info().Int("imported", rep.Imported).Int("errors", len(rep.Errors)).Int("warnings", len(rep.Warnings)).Str("file", fh[0].Filename).Msg("lista de precios importada")
	writeJSON(w, http.StatusOK, rep)
}

func optionalUUID(raw string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: id %q", domain.ErrInvalidInput, raw)
	}
	return &id, nil
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: json: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(err error) int {
	var dfe *domain.DataFetchError
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrNoActivePrice):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidPotentialKey),
		errors.Is(err, domain.ErrBandNotOnRoute):
		return http.StatusBadRequest
	case errors.As(err, &dfe):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code >= 500 {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("error en la API")
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
