// Package xlsx exporta la matriz y el buscador a planillas y lee listas de precios.
package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/phenrril/freshtrade/internal/domain"
	"github.com/phenrril/freshtrade/internal/usecase"
)

const (
	dataSheet    = "Datos"
	summarySheet = "Resumen"
)

var matrixHeader = []interface{}{
	"Clave", "Hub", "Cliente", "Proveedor", "Empaque", "Unidades/pallet",
	"Precio proveedor", "Hub precio", "Modo", "Ruta", "Transportistas",
	"Flete/pallet", "Flete/unidad", "Manipuleo/pallet", "Días", "Estado", "Puntaje", "Oportunidad",
}

var finderHeader = []interface{}{
	"Proveedor", "Empaque", "Hub precio", "Destino", "Modo", "Precio proveedor",
	"Ruta", "Flete/unidad", "Manipuleo/unidad", "Puesto en destino", "Días de entrega",
}

// WriteMatrix escribe una hoja con los potenciales y otra con el resumen.
func WriteMatrix(w io.Writer, res *usecase.MatrixResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return err
	}
	rows := make([][]interface{}, 0, len(res.Potentials)+1)
	rows = append(rows, matrixHeader)
	for _, p := range res.Potentials {
		rows = append(rows, matrixRow(p))
	}
	if err := writeRows(f, dataSheet, rows); err != nil {
		return err
	}
	if err := writeSummary(f, res.Summary); err != nil {
		return err
	}
	return f.Write(w)
}

// WriteFinder escribe los resultados del buscador de proveedores.
func WriteFinder(w io.Writer, results []usecase.SupplierResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return err
	}
	rows := make([][]interface{}, 0, len(results)+1)
	rows = append(rows, finderHeader)
	withTransport := 0
	for _, r := range results {
		if r.HasTransport {
			withTransport++
		}
		rows = append(rows, finderRow(r))
	}
	if err := writeRows(f, dataSheet, rows); err != nil {
		return err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	summary := [][]interface{}{
		{"Resultados", len(results)},
		{"Con transporte", withTransport},
		{"Sin transporte", len(results) - withTransport},
	}
	if err := writeRows(f, summarySheet, summary); err != nil {
		return err
	}
	return f.Write(w)
}

func writeSummary(f *excelize.File, s domain.Summary) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	return writeRows(f, summarySheet, [][]interface{}{
		{"Total", s.Total},
		{"Completos", s.Complete},
		{"Falta precio", s.MissingPrice},
		{"Falta transporte", s.MissingTransport},
		{"Falta ambos", s.MissingBoth},
		{"Completitud", s.CompletionRate},
	})
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("hoja %s fila %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func matrixRow(p domain.Potential) []interface{} {
	customer := ""
	if p.Customer != nil {
		customer = p.Customer.Name
	}
	supplier := ""
	if p.Supplier != nil {
		supplier = p.Supplier.Name
	}
	hub, spec := "", ""
	if p.Hub != nil {
		hub = p.Hub.Name
	}
	if p.Spec != nil {
		spec = p.Spec.Label
	}
	var price interface{}
	priceHub, mode := "", ""
	if p.SupplierPrice != nil {
		price = p.SupplierPrice.PricePerUnit
		priceHub = p.SupplierPrice.HubID.String()
		mode = string(p.SupplierPrice.DeliveryMode)
	}
	kind, carriers, perPallet, handling, days := routeCells(p.Transport)
	return []interface{}{
		p.Key, hub, customer, supplier, spec, p.UnitsPerPallet,
		price, priceHub, mode, kind, carriers,
		perPallet, p.TransportCostPerUnit, handling, days, string(p.Status), p.CompletionScore, p.HasMarketOpportunity,
	}
}

func finderRow(r usecase.SupplierResult) []interface{} {
	supplier, spec := "", ""
	if r.Supplier != nil {
		supplier = r.Supplier.Name
	}
	if r.Spec != nil {
		spec = r.Spec.Label
	}
	kind, _, _, _, _ := routeCells(r.Transport)
	return []interface{}{
		supplier, spec, r.PriceHubName, r.DestinationHubName, string(r.Price.DeliveryMode), r.Price.PricePerUnit,
		kind, r.TransportCostPerUnit, r.HandlingCostPerUnit, r.LandedCostPerUnit, r.LeadTimeDays,
	}
}

func routeCells(t *domain.ResolvedRoute) (kind, carriers string, perPallet, handling float64, days int) {
	if t == nil {
		return "", "", 0, 0, 0
	}
	for i, l := range t.Legs {
		if i > 0 {
			carriers += " + "
		}
		carriers += l.TransporterName
	}
	return string(t.Kind), carriers, t.PricePerPallet, t.HandlingCostPerPallet, t.DurationDays
}
