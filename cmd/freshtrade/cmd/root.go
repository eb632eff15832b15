// Package cmd arma la CLI de freshtrade.
package cmd

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/phenrril/freshtrade/internal/app"
	"github.com/phenrril/freshtrade/internal/config"
)

var (
	cfg     *config.Config
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "freshtrade",
	Short: "Matriz de mercado y rutas para comercio de frutas y hortalizas",
	Long: `freshtrade cruza hubs, proveedores, empaques y rutas de transporte
para armar la matriz de mercado y las oportunidades de venta.

Ejemplos:
  freshtrade serve
  freshtrade migrate --seed
  freshtrade matrix --hub RTM --preferred-only
  freshtrade export --out matriz.xlsx
  freshtrade import-prices precios.xlsx`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		setupLogging(cfg)
	},
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		zlog.Error().Err(err).Msg("comando fallido")
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log en nivel debug")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(matrixCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importPricesCmd)
}

func setupLogging(c *config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	level := c.ZerologLevel()
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	if c.IsDev() {
		zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		zlog.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}

func openApp() (*app.App, error) {
	db, err := app.OpenDB(cfg)
	if err != nil {
		return nil, err
	}
	return app.NewApp(cfg, db), nil
}

// hubFlag acepta el código del hub o su id.
func hubFlag(ctx context.Context, a *app.App, raw string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if id, err := uuid.Parse(raw); err == nil {
		return &id, nil
	}
	h, err := a.Hubs.FindByCode(ctx, raw)
	if err != nil {
		return nil, err
	}
	return &h.ID, nil
}
