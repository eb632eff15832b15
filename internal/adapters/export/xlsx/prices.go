package xlsx

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/phenrril/freshtrade/internal/usecase"
)

// columnas reconocidas en el encabezado de la lista de precios
var priceColumns = map[string]string{
	"supplier_code": "supplier", "proveedor": "supplier", "supplier": "supplier",
	"spec_id": "spec", "empaque": "spec", "spec": "spec",
	"hub_code": "hub", "hub": "hub",
	"delivery_mode": "mode", "modo": "mode", "mode": "mode",
	"price": "price", "precio": "price", "price_per_unit": "price",
	"currency": "currency", "moneda": "currency",
}

var required = []string{"supplier", "spec", "hub", "mode", "price"}

// ReadPriceRows lee la primera hoja: encabezado en la fila 1, una fila por precio.
// Las filas vacías se saltean; una celda de precio ilegible queda en 0 para que
// la valide el caso de uso y se informe por línea.
func ReadPriceRows(r io.Reader) ([]usecase.PriceRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("planilla ilegible: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("planilla sin hojas")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []usecase.PriceRow{}, nil
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		if key, ok := priceColumns[strings.ToLower(strings.TrimSpace(h))]; ok {
			if _, dup := cols[key]; !dup {
				cols[key] = i
			}
		}
	}
	for _, k := range required {
		if _, ok := cols[k]; !ok {
			return nil, fmt.Errorf("falta la columna %q en el encabezado", k)
		}
	}

	out := []usecase.PriceRow{}
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		cell := func(k string) string {
			idx, ok := cols[k]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		out = append(out, usecase.PriceRow{
			Line:         i + 2,
			SupplierCode: cell("supplier"),
			SpecID:       cell("spec"),
			HubCode:      cell("hub"),
			DeliveryMode: cell("mode"),
			PricePerUnit: parsePrice(cell("price")),
			Currency:     cell("currency"),
		})
	}
	return out, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parsePrice acepta coma decimal ("2,35") y separador de miles con punto ("1.234,5").
func parsePrice(s string) float64 {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
