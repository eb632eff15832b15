package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/freshtrade/internal/domain"
	"github.com/phenrril/freshtrade/internal/usecase"
)

func f64(v float64) *float64 { return &v }

// Seed carga un set mínimo de demo si no hay hubs.
func (a *App) Seed() error {
	ctx := context.Background()
	var count int64
	if err := a.DB.WithContext(ctx).Model(&domain.Hub{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info().Int64("hubs", count).Msg("seed omitido, ya hay datos")
		return nil
	}

	alm := &domain.Hub{Name: "Almería", Code: "ALM", City: "Almería", Country: "ES", Latitude: f64(36.834), Longitude: f64(-2.4637), IsActive: true}
	pgf := &domain.Hub{Name: "Perpignan Saint-Charles", Code: "PGF", City: "Perpignan", Country: "FR", Latitude: f64(42.6887), Longitude: f64(2.8948),
		CanTransship: true, TransshipHandlingDays: 1, TransshipCostPerPallet: 15, IsActive: true}
	rtm := &domain.Hub{Name: "Rotterdam", Code: "RTM", City: "Rotterdam", Country: "NL", Latitude: f64(51.9244), Longitude: f64(4.4777), IsActive: true}
	run := &domain.Hub{Name: "Rungis", Code: "RUN", City: "Rungis", Country: "FR", CanTransship: true, IsActive: true}
	for _, h := range []*domain.Hub{alm, pgf, rtm, run} {
		if err := a.Hubs.Save(ctx, h); err != nil {
			return err
		}
	}

	tomato := &domain.Product{Name: "Tomate rama", Category: "hortalizas", SoldBy: domain.SoldByBox, IsActive: true}
	pepper := &domain.Product{Name: "Pimiento california", Category: "hortalizas", SoldBy: domain.SoldByKg, IsActive: true}
	for _, p := range []*domain.Product{tomato, pepper} {
		if err := a.Catalog.SaveProduct(ctx, p); err != nil {
			return err
		}
	}
	tomatoSpec := &domain.PackagingSpec{ProductID: tomato.ID, Label: "Caja 6kg x 40", BoxesPerPallet: f64(40), WeightPerBox: f64(6)}
	pepperSpec := &domain.PackagingSpec{ProductID: pepper.ID, Label: "Caja 5kg x 80", BoxesPerPallet: f64(80), WeightPerBox: f64(5)}
	for _, s := range []*domain.PackagingSpec{tomatoSpec, pepperSpec} {
		if err := a.Catalog.SaveSpec(ctx, s); err != nil {
			return err
		}
	}

	if err := a.Prefs.Save(ctx, &domain.HubProductPreference{HubID: rtm.ID, ProductID: tomato.ID, Priority: domain.PriorityHigh, IsActive: true}); err != nil {
		return err
	}

	agro := &domain.Supplier{Code: "AGRO", Name: "Agroponiente", Country: "ES", IsActive: true}
	if err := a.Suppliers.Save(ctx, agro); err != nil {
		return err
	}
	for _, spec := range []uuid.UUID{tomatoSpec.ID, pepperSpec.ID} {
		if err := a.Suppliers.SaveCapability(ctx, &domain.SupplierCapability{SupplierID: agro.ID, SpecID: spec, IsActive: true}); err != nil {
			return err
		}
	}
	if err := a.Suppliers.SaveLogistics(ctx, &domain.SupplierLogistics{SupplierID: agro.ID, Mode: domain.DeliveryModeExWorks, OriginHubID: alm.ID, LeadTimeDays: 1, IsActive: true}); err != nil {
		return err
	}
	prices := []usecase.PriceInput{
		{SupplierID: agro.ID, SpecID: tomatoSpec.ID, HubID: alm.ID, DeliveryMode: domain.DeliveryModeExWorks, PricePerUnit: 7.2, CreatedBy: "seed"},
		{SupplierID: agro.ID, SpecID: pepperSpec.ID, HubID: alm.ID, DeliveryMode: domain.DeliveryModeExWorks, PricePerUnit: 1.35, CreatedBy: "seed"},
	}
	for _, p := range prices {
		if _, err := a.PriceUC.ReplaceSupplierPrice(ctx, p); err != nil {
			return err
		}
	}

	iberia := &domain.Transporter{Name: "TransIberia", IsActive: true}
	norte := &domain.Transporter{Name: "Norte Express", IsActive: true}
	for _, t := range []*domain.Transporter{iberia, norte} {
		if err := a.Routes.SaveTransporter(ctx, t); err != nil {
			return err
		}
	}
	upTo10 := 10
	routes := []*domain.TransporterRoute{
		{TransporterID: iberia.ID, OriginHubID: alm.ID, DestinationHubID: pgf.ID, DurationDays: 1, IsActive: true,
			PriceBands: []domain.PriceBand{{MinPallets: 1, PricePerPallet: 180}}},
		{TransporterID: iberia.ID, OriginHubID: pgf.ID, DestinationHubID: rtm.ID, DurationDays: 1, IsActive: true,
			PriceBands: []domain.PriceBand{{MinPallets: 1, PricePerPallet: 160}}},
		{TransporterID: norte.ID, OriginHubID: alm.ID, DestinationHubID: rtm.ID, DurationDays: 3, IsActive: true,
			PriceBands: []domain.PriceBand{{MinPallets: 1, MaxPallets: &upTo10, PricePerPallet: 420}, {MinPallets: 11, PricePerPallet: 380}}},
	}
	for _, r := range routes {
		if err := a.Routes.Save(ctx, r); err != nil {
			return err
		}
	}

	frh := &domain.Customer{Code: "FRH", Name: "Frutas Holanda", Country: "NL", IsActive: true}
	if err := a.Customers.Save(ctx, frh); err != nil {
		return err
	}
	if err := a.Customers.SaveLogistics(ctx, &domain.CustomerLogistics{CustomerID: frh.ID, Mode: domain.DeliveryModeDelivery, OriginHubID: alm.ID, DestinationHubID: &rtm.ID, IsActive: true}); err != nil {
		return err
	}
	if err := a.Customers.SaveRequirement(ctx, &domain.CustomerProductRequirement{CustomerID: frh.ID, ProductID: tomato.ID, SpecID: &tomatoSpec.ID, PalletsPerWeek: 4, IsActive: true}); err != nil {
		return err
	}

	log.Info().Int("hubs", 4).Int("routes", len(routes)).Msg("datos de demo cargados")
	return nil
}
