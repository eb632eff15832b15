package xlsx

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/phenrril/freshtrade/internal/domain"
	"github.com/phenrril/freshtrade/internal/usecase"
)

func TestWriteMatrix(t *testing.T) {
	hub := &domain.Hub{ID: uuid.New(), Name: "Rotterdam"}
	sup := &domain.Supplier{ID: uuid.New(), Name: "Agro"}
	spec := &domain.PackagingSpec{ID: uuid.New(), Label: "5kg x 40"}
	res := &usecase.MatrixResult{
		Potentials: []domain.Potential{
			{
				Key: "k1", Hub: hub, Supplier: sup, Spec: spec, UnitsPerPallet: 40,
				SupplierPrice:        &domain.SupplierPrice{PricePerUnit: 2, DeliveryMode: domain.DeliveryModeExWorks},
				Transport:            &domain.ResolvedRoute{Kind: domain.RouteDirect, PricePerPallet: 200, DurationDays: 2, Legs: []domain.RouteLeg{{TransporterName: "TransIberia"}}},
				TransportCostPerUnit: 5, Status: domain.StatusComplete, CompletionScore: 100,
			},
			{Key: "k2", Hub: hub, Supplier: sup, Spec: spec, Status: domain.StatusMissingBoth},
		},
		Summary: domain.Summary{Total: 2, Complete: 1, MissingBoth: 1, CompletionRate: 0.5},
	}

	var buf bytes.Buffer
	if err := WriteMatrix(&buf, res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(dataSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d", len(rows))
	}
	if rows[1][0] != "k1" || rows[1][9] != "DIRECT" || rows[1][10] != "TransIberia" {
		t.Errorf("Unexpected first row %v", rows[1])
	}
	total, _ := f.GetCellValue(summarySheet, "B1")
	if total != "2" {
		t.Errorf("Expected total 2 in summary, got %q", total)
	}
}

func TestWriteFinder(t *testing.T) {
	results := []usecase.SupplierResult{
		{Supplier: &domain.Supplier{Name: "Agro"}, Spec: &domain.PackagingSpec{Label: "5kg"}, HasTransport: true, LandedCostPerUnit: 7,
			Transport: &domain.ResolvedRoute{Kind: domain.RouteDirect}},
		{Supplier: &domain.Supplier{Name: "Barato"}, LandedCostPerUnit: 1},
	}
	var buf bytes.Buffer
	if err := WriteFinder(&buf, results); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()
	with, _ := f.GetCellValue(summarySheet, "B2")
	without, _ := f.GetCellValue(summarySheet, "B3")
	if with != "1" || without != "1" {
		t.Errorf("Expected 1/1 in summary, got %s/%s", with, without)
	}
}

func priceBook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if err := writeRows(f, "Sheet1", rows); err != nil {
		t.Fatalf("writeRows: %v", err)
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return &buf
}

func TestReadPriceRows(t *testing.T) {
	spec := uuid.New().String()
	buf := priceBook(t, [][]interface{}{
		{"Proveedor", "Empaque", "Hub", "Modo", "Precio", "Moneda"},
		{"AGRO", spec, "ALM", "EXW", "2,35", "EUR"},
		{"", "", "", "", "", ""},
		{"FINCA", spec, "RTM", "DAP", 3.1},
		{"MALO", spec, "RTM", "DAP", "abc"},
	})

	rows, err := ReadPriceRows(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}
	if rows[0].Line != 2 || rows[0].SupplierCode != "AGRO" || rows[0].PricePerUnit != 2.35 || rows[0].Currency != "EUR" {
		t.Errorf("Unexpected first row %+v", rows[0])
	}
	if rows[1].Line != 4 || rows[1].PricePerUnit != 3.1 || rows[1].Currency != "" {
		t.Errorf("Unexpected second row %+v", rows[1])
	}
	if rows[2].PricePerUnit != 0 {
		t.Errorf("Expected unreadable price as 0, got %v", rows[2].PricePerUnit)
	}
}

func TestReadPriceRowsMissingColumn(t *testing.T) {
	buf := priceBook(t, [][]interface{}{{"Proveedor", "Hub", "Precio"}})
	if _, err := ReadPriceRows(buf); err == nil {
		t.Error("Expected error for missing columns")
	}
}

func TestParsePrice(t *testing.T) {
	cases := map[string]float64{"2.5": 2.5, "2,5": 2.5, "1.234,5": 1234.5, "": 0, "x": 0}
	for in, want := range cases {
		if got := parsePrice(in); got != want {
			t.Errorf("parsePrice(%q) = %v, want %v", in, got, want)
		}
	}
}
