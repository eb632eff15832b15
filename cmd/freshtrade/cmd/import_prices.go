package cmd

import (
	"os"
	"path/filepath"

	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/phenrril/freshtrade/internal/adapters/export/xlsx"
)

var createdBy string

var importPricesCmd = &cobra.Command{
	Use:   "import-prices [archivo.xlsx]",
	Short: "Importa una lista de precios de proveedores",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		rows, err := xlsx.ReadPriceRows(f)
		if err != nil {
			return err
		}
		by := createdBy
		if by == "" {
			by = "import:" + filepath.Base(args[0])
		}
		rep, err := a.PriceUC.ImportRows(cmd.Context(), rows, by)
		if err != nil {
			return err
		}
		for _, e := range rep.Errors {
			zlog.Warn().Int("line", e.Line).Str("error", e.Message).Msg("fila rechazada")
		}
		for _, e := range rep.Warnings {
			zlog.Warn().Int("line", e.Line).Str("error", e.Message).Msg("fila importada, invalidación pendiente")
		}
		zlog.Info().Int("imported", rep.Imported).Int("rejected", len(rep.Errors)).Int("warnings", len(rep.Warnings)).Msg("importación terminada")
		return nil
	},
}

func init() {
	importPricesCmd.Flags().StringVar(&createdBy, "created-by", "", "autor registrado en los precios")
}
