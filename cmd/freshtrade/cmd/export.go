package cmd

import (
	"os"

	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/phenrril/freshtrade/internal/adapters/export/xlsx"
)

var outPath string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Exporta la matriz de mercado a una planilla",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		res, err := buildMarket(cmd, a)
		if err != nil {
			return err
		}
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		if err := xlsx.WriteMatrix(f, res); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		zlog.Info().Str("file", outPath).Int("potentials", len(res.Potentials)).Msg("matriz exportada")
		return nil
	},
}

func init() {
	addMatrixFlags(exportCmd)
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "matriz_mercado.xlsx", "archivo de salida")
}
