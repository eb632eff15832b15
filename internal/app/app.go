package app

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/phenrril/freshtrade/internal/adapters/geo"
	"github.com/phenrril/freshtrade/internal/adapters/httpserver"
	pgrepo "github.com/phenrril/freshtrade/internal/adapters/repo/postgres"
	"github.com/phenrril/freshtrade/internal/config"
	"github.com/phenrril/freshtrade/internal/domain"
	"github.com/phenrril/freshtrade/internal/events"
	"github.com/phenrril/freshtrade/internal/usecase"
)

type App struct {
	Config *config.Config
	DB     *gorm.DB
	Bus    *events.Bus

	Hubs      *pgrepo.HubRepo
	Catalog   *pgrepo.CatalogRepo
	Prefs     *pgrepo.PreferenceRepo
	Suppliers *pgrepo.SupplierRepo
	Routes    *pgrepo.RouteRepo
	Customers *pgrepo.CustomerRepo
	Opps      *pgrepo.OpportunityRepo

	MarketUC      *usecase.MarketUC
	TradeUC       *usecase.TradeUC
	FinderUC      *usecase.FinderUC
	RouteUC       *usecase.RouteUC
	OpportunityUC *usecase.OpportunityUC
	PriceUC       *usecase.PriceUC
}

// OpenDB abre la conexión a Postgres con el pool configurado.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.IsDev() {
		level = logger.Info
	}
	db, err := gorm.Open(postgres.Open(cfg.DB.GetDSN()), &gorm.Config{Logger: logger.Default.LogMode(level)})
	if err != nil {
		return nil, fmt.Errorf("conectar a la base: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	return db, nil
}

func NewApp(cfg *config.Config, db *gorm.DB) *App {
	a := &App{
		Config:    cfg,
		DB:        db,
		Bus:       events.NewBus(),
		Hubs:      pgrepo.NewHubRepo(db),
		Catalog:   pgrepo.NewCatalogRepo(db),
		Prefs:     pgrepo.NewPreferenceRepo(db),
		Suppliers: pgrepo.NewSupplierRepo(db),
		Routes:    pgrepo.NewRouteRepo(db),
		Customers: pgrepo.NewCustomerRepo(db),
		Opps:      pgrepo.NewOpportunityRepo(db),
	}
	store := usecase.Store{
		Hubs:          a.Hubs,
		Catalog:       a.Catalog,
		Preferences:   a.Prefs,
		Suppliers:     a.Suppliers,
		Routes:        a.Routes,
		Customers:     a.Customers,
		Opportunities: a.Opps,
	}

	(&usecase.PriceChangeHandler{Opportunities: a.Opps}).Register(a.Bus)

	geoClient := geo.NewClient(cfg.Geo.GeocoderURL, cfg.Geo.RouterURL, cfg.Geo.UserAgent, cfg.Geo.Timeout)

	a.MarketUC = &usecase.MarketUC{Store: store}
	a.TradeUC = &usecase.TradeUC{Store: store}
	a.FinderUC = &usecase.FinderUC{Store: store}
	a.RouteUC = usecase.NewRouteUC(store, geoClient, cfg.Geo.SuggestionLimit, cfg.Geo.SuggestionDelay)
	a.OpportunityUC = &usecase.OpportunityUC{
		Store:            store,
		Bus:              a.Bus,
		DefaultMarginPct: cfg.Trade.DefaultMarginPct,
		DefaultCurrency:  cfg.Trade.DefaultCurrency,
		ValidDays:        cfg.Trade.OpportunityValidDays,
	}
	a.PriceUC = &usecase.PriceUC{Store: store, Bus: a.Bus, DefaultCurrency: cfg.Trade.DefaultCurrency}
	return a
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(httpserver.Services{
		Market:        a.MarketUC,
		Trade:         a.TradeUC,
		Finder:        a.FinderUC,
		Routes:        a.RouteUC,
		Opportunities: a.OpportunityUC,
		Prices:        a.PriceUC,
	}, a.Config.RateLimit)
}

// Migrate crea las tablas y el índice que garantiza un solo precio activo por tupla.
func (a *App) Migrate() error {
	if err := a.DB.AutoMigrate(
		&domain.Hub{}, &domain.Product{}, &domain.PackagingSpec{}, &domain.HubProductPreference{},
		&domain.Supplier{}, &domain.SupplierCapability{}, &domain.SupplierPrice{}, &domain.SupplierLogistics{},
		&domain.Transporter{}, &domain.TransporterRoute{}, &domain.PriceBand{},
		&domain.Customer{}, &domain.CustomerLogistics{}, &domain.CustomerProductRequirement{},
		&domain.Opportunity{},
	); err != nil {
		return err
	}

	stmts := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_supplier_prices_active_tuple ON supplier_prices (supplier_id, spec_id, hub_id, delivery_mode) WHERE is_active",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_hub_product_preferences_unique ON hub_product_preferences (hub_id, product_id, COALESCE(spec_id, '00000000-0000-0000-0000-000000000000'::uuid))",
		"CREATE INDEX IF NOT EXISTS idx_opportunities_active_supplier ON opportunities (supplier_id, spec_id) WHERE is_active",
		"CREATE INDEX IF NOT EXISTS idx_transporter_routes_pair ON transporter_routes (origin_hub_id, destination_hub_id) WHERE is_active",
	}
	for _, s := range stmts {
		if err := a.DB.Exec(s).Error; err != nil {
			return fmt.Errorf("índice: %w", err)
		}
	}
	log.Info().Msg("migración completa")
	return nil
}

func (a *App) MigrateAndSeed(seed bool) error {
	if err := a.Migrate(); err != nil {
		return err
	}
	if !seed {
		return nil
	}
	return a.Seed()
}
