package cmd

import (
	"github.com/spf13/cobra"
)

var seed bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Crea tablas e índices; con --seed carga datos de demo",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		return a.MigrateAndSeed(seed)
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&seed, "seed", false, "cargar datos de demo si la base está vacía")
}
