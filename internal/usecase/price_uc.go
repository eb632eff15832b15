package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/freshtrade/internal/domain"
	"github.com/phenrril/freshtrade/internal/events"
)

type PriceInput struct {
	SupplierID   uuid.UUID           `json:"supplier_id"`
	SpecID       uuid.UUID           `json:"spec_id"`
	HubID        uuid.UUID           `json:"hub_id"`
	DeliveryMode domain.DeliveryMode `json:"delivery_mode"`
	PricePerUnit float64             `json:"price_per_unit"`
	Currency     string              `json:"currency,omitempty"`
	ValidFrom    time.Time           `json:"valid_from,omitempty"`
	ValidUntil   *time.Time          `json:"valid_until,omitempty"`
	CreatedBy    string              `json:"created_by,omitempty"`
}

// PriceRow es una fila de una lista de precios importada, con códigos en vez de ids.
type PriceRow struct {
	Line         int
	SupplierCode string
	SpecID       string
	HubCode      string
	DeliveryMode string
	PricePerUnit float64
	Currency     string
}

type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ImportReport: Warnings son filas importadas cuya invalidación posterior falló.
type ImportReport struct {
	Imported int        `json:"imported"`
	Errors   []RowError `json:"errors"`
	Warnings []RowError `json:"warnings"`
}

type PriceUC struct {
	Store
	Bus             *events.Bus
	DefaultCurrency string
	Now             func() time.Time
}

func (uc *PriceUC) now() time.Time {
	if uc.Now != nil {
		return uc.Now()
	}
	return time.Now()
}

// ReplaceSupplierPrice deja el nuevo precio como único activo de su tupla y
// publica SupplierPriceChanged. Si falla la invalidación el precio ya quedó guardado.
func (uc *PriceUC) ReplaceSupplierPrice(ctx context.Context, in PriceInput) (*domain.SupplierPrice, error) {
	if err := validatePrice(in); err != nil {
		return nil, err
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = uc.DefaultCurrency
	}
	validFrom := in.ValidFrom
	if validFrom.IsZero() {
		validFrom = uc.now()
	}
	p := &domain.SupplierPrice{
		ID:           uuid.New(),
		SupplierID:   in.SupplierID,
		SpecID:       in.SpecID,
		HubID:        in.HubID,
		DeliveryMode: in.DeliveryMode,
		PricePerUnit: in.PricePerUnit,
		Currency:     currency,
		ValidFrom:    validFrom,
		ValidUntil:   in.ValidUntil,
		IsActive:     true,
		CreatedBy:    in.CreatedBy,
	}
	saved, err := uc.Suppliers.ReplacePrice(ctx, p)
	if err != nil {
		return nil, domain.FetchErr("reemplazar precio", err)
	}
	log.Info().Str("supplier_id", saved.SupplierID.String()).Str("spec_id", saved.SpecID.String()).Float64("price", saved.PricePerUnit).Msg("precio de proveedor reemplazado")

	if uc.Bus != nil {
		ev := events.NewEvent(events.TypeSupplierPriceChanged, domain.PriceChangedFrom(saved, uc.now()))
		if err := uc.Bus.Publish(ctx, ev); err != nil {
			return saved, fmt.Errorf("precio guardado, falló la invalidación: %w", err)
		}
	}
	return saved, nil
}

func validatePrice(in PriceInput) error {
	switch {
	case in.SupplierID == uuid.Nil, in.SpecID == uuid.Nil, in.HubID == uuid.Nil:
		return fmt.Errorf("%w: faltan proveedor, empaque o hub", domain.ErrInvalidInput)
	case !in.DeliveryMode.Valid():
		return fmt.Errorf("%w: modo de entrega %q", domain.ErrInvalidInput, in.DeliveryMode)
	case math.IsNaN(in.PricePerUnit) || math.IsInf(in.PricePerUnit, 0) || in.PricePerUnit <= 0:
		return fmt.Errorf("%w: precio debe ser mayor a 0", domain.ErrInvalidInput)
	case in.ValidUntil != nil && !in.ValidFrom.IsZero() && in.ValidUntil.Before(in.ValidFrom):
		return fmt.Errorf("%w: vigencia invertida", domain.ErrInvalidInput)
	}
	return nil
}

// ImportRows reemplaza un precio por fila. Las filas inválidas se informan y se
// sigue con el resto; una falla del Store corta la importación salvo que el precio
// ya haya quedado guardado, en cuyo caso la fila cuenta y queda como advertencia.
func (uc *PriceUC) ImportRows(ctx context.Context, rows []PriceRow, createdBy string) (*ImportReport, error) {
	rep := &ImportReport{Errors: []RowError{}, Warnings: []RowError{}}
	suppliers := map[string]*domain.Supplier{}
	hubs := map[string]*domain.Hub{}

	for _, r := range rows {
		in, err := uc.resolveRow(ctx, r, suppliers, hubs)
		var saved *domain.SupplierPrice
		if err == nil {
			in.CreatedBy = createdBy
			saved, err = uc.ReplaceSupplierPrice(ctx, in)
		}
		if saved != nil && err != nil {
			rep.Imported++
			rep.Warnings = append(rep.Warnings, RowError{Line: r.Line, Message: err.Error()})
			continue
		}
		var dfe *domain.DataFetchError
		if errors.As(err, &dfe) {
			return rep, err
		}
		if err != nil {
			rep.Errors = append(rep.Errors, RowError{Line: r.Line, Message: err.Error()})
			continue
		}
		rep.Imported++
	}
	log.Info().Int("imported", rep.Imported).Int("errors", len(rep.Errors)).Int("warnings", len(rep.Warnings)).Msg("importación de precios")
	return rep, nil
}

func (uc *PriceUC) resolveRow(ctx context.Context, r PriceRow, suppliers map[string]*domain.Supplier, hubs map[string]*domain.Hub) (PriceInput, error) {
	var in PriceInput
	code := strings.TrimSpace(r.SupplierCode)
	s, ok := suppliers[code]
	if !ok {
		found, err := uc.Suppliers.FindByCode(ctx, code)
		if err != nil {
			return in, rowErr("proveedor "+code, err)
		}
		s, suppliers[code] = found, found
	}
	hcode := strings.TrimSpace(r.HubCode)
	h, ok := hubs[hcode]
	if !ok {
		found, err := uc.Hubs.FindByCode(ctx, hcode)
		if err != nil {
			return in, rowErr("hub "+hcode, err)
		}
		h, hubs[hcode] = found, found
	}
	specID, err := uuid.Parse(strings.TrimSpace(r.SpecID))
	if err != nil {
		return in, fmt.Errorf("%w: empaque %q", domain.ErrInvalidInput, r.SpecID)
	}
	if _, err := uc.Catalog.FindSpec(ctx, specID); err != nil {
		return in, rowErr("empaque "+specID.String(), err)
	}
	return PriceInput{
		SupplierID:   s.ID,
		SpecID:       specID,
		HubID:        h.ID,
		DeliveryMode: ParseDeliveryMode(r.DeliveryMode),
		PricePerUnit: r.PricePerUnit,
		Currency:     r.Currency,
	}, nil
}

func rowErr(what string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return domain.FetchErr(what, err)
}

// ParseDeliveryMode acepta las variantes habituales de planilla ("EXW", "ex works", "delivery").
func ParseDeliveryMode(s string) domain.DeliveryMode {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "EXW", "EX WORKS", "EX-WORKS", "EXWORKS":
		return domain.DeliveryModeExWorks
	case "DELIVERY", "DAP", "DDP":
		return domain.DeliveryModeDelivery
	case "TRANSIT":
		return domain.DeliveryModeTransit
	}
	return domain.DeliveryMode(strings.TrimSpace(s))
}
