package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/freshtrade/internal/domain"
	"github.com/phenrril/freshtrade/internal/events"
	"github.com/phenrril/freshtrade/internal/metrics"
)

const ReasonSupplierPriceChanged = "supplier_price_changed"

// PriceChangeHandler es el único consumidor de SupplierPriceChanged: expira las
// oportunidades armadas con el precio anterior y marca las vistas como desactualizadas.
type PriceChangeHandler struct {
	Opportunities domain.OpportunityRepo
}

func (h *PriceChangeHandler) Handle(ctx context.Context, e events.Event) error {
	ev, ok := e.Data().(domain.SupplierPriceChanged)
	if !ok {
		return fmt.Errorf("evento %s con datos %T", e.Type(), e.Data())
	}
	n, err := h.Opportunities.DeactivateStale(ctx, ev, ReasonSupplierPriceChanged)
	if err != nil {
		return domain.FetchErr("desactivar oportunidades", err)
	}
	metrics.MatrixInvalidations.Inc()
	metrics.OpportunitiesDeactivated.Add(float64(n))
	log.Info().Str("supplier_id", ev.SupplierID.String()).Int64("deactivated", n).Msg("oportunidades invalidadas por cambio de precio")
	return nil
}

// Register suscribe el handler al bus.
func (h *PriceChangeHandler) Register(bus *events.Bus) {
	bus.Subscribe(events.TypeSupplierPriceChanged, h)
}
