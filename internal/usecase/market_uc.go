package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/freshtrade/internal/domain"
	"github.com/phenrril/freshtrade/internal/matching"
	"github.com/phenrril/freshtrade/internal/metrics"
)

type MatrixQuery struct {
	HubID         *uuid.UUID
	PreferredOnly bool
	Status        domain.PotentialStatus
}

type MarketUC struct {
	Store
}

// BuildMarketMatrix recalcula la matriz hub × proveedor × empaque desde el Store.
// No se cachea: cada llamada vuelve a leer todo.
func (uc *MarketUC) BuildMarketMatrix(ctx context.Context, q MatrixQuery) (*MatrixResult, error) {
	if q.Status != "" && q.Status != "all" && !q.Status.Valid() {
		return nil, domain.ErrInvalidInput
	}
	defer metrics.TrackMatrixBuild("market")(time.Now())

	prefs, err := uc.Preferences.List(ctx, q.HubID)
	if err != nil {
		return nil, domain.FetchErr("preferencias", err)
	}
	if q.PreferredOnly && len(prefs) == 0 {
		return newMatrixResult(nil, q.Status), nil
	}

	var productIDs []uuid.UUID
	if q.PreferredOnly {
		productIDs = matching.PreferredProductIDs(prefs)
	}
	specs, err := uc.Catalog.ListSpecs(ctx, productIDs)
	if err != nil {
		return nil, domain.FetchErr("empaques", err)
	}
	if q.PreferredOnly {
		specs = matching.PreferredSpecs(specs, prefs)
	}

	snap, err := uc.loadSnapshot(ctx, specs)
	if err != nil {
		return nil, err
	}

	targets := snap.Hubs
	if q.HubID != nil {
		h, err := uc.hub(ctx, *q.HubID)
		if err != nil {
			return nil, err
		}
		targets = []domain.Hub{*h}
	}

	all := matching.BuildMatrix(snap, targets)
	res := newMatrixResult(all, q.Status)
	metrics.RecordSummary("market", res.Summary)

	ev := log.Info().Int("potentials", res.Summary.Total).Int("complete", res.Summary.Complete).Bool("preferred_only", q.PreferredOnly)
	if q.HubID != nil {
		ev = ev.Str("hub_id", q.HubID.String())
	}
	ev.Msg("matriz de mercado calculada")
	return res, nil
}
