package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/phenrril/freshtrade/internal/app"
	"github.com/phenrril/freshtrade/internal/domain"
	"github.com/phenrril/freshtrade/internal/usecase"
)

var (
	hubArg        string
	preferredOnly bool
	statusArg     string
	tradeMode     bool
	customerArg   string
	summaryOnly   bool
)

var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "Calcula la matriz de mercado (o de clientes con --trade) y la imprime en JSON",
	RunE:  runMatrix,
}

func init() {
	addMatrixFlags(matrixCmd)
	matrixCmd.Flags().BoolVar(&tradeMode, "trade", false, "matriz de oportunidades por cliente")
	matrixCmd.Flags().StringVar(&customerArg, "customer", "", "id de cliente (sólo con --trade)")
	matrixCmd.Flags().BoolVar(&summaryOnly, "summary", false, "imprimir sólo el resumen")
}

func addMatrixFlags(c *cobra.Command) {
	c.Flags().StringVar(&hubArg, "hub", "", "código o id del hub")
	c.Flags().BoolVar(&preferredOnly, "preferred-only", false, "sólo productos preferidos del hub")
	c.Flags().StringVar(&statusArg, "status", "", "filtrar por estado (complete, missing_price, missing_transport, missing_both)")
}

func buildMarket(cmd *cobra.Command, a *app.App) (*usecase.MatrixResult, error) {
	hubID, err := hubFlag(cmd.Context(), a, hubArg)
	if err != nil {
		return nil, fmt.Errorf("hub %q: %w", hubArg, err)
	}
	return a.MarketUC.BuildMarketMatrix(cmd.Context(), usecase.MatrixQuery{
		HubID:         hubID,
		PreferredOnly: preferredOnly,
		Status:        domain.PotentialStatus(statusArg),
	})
}

func runMatrix(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	var res *usecase.MatrixResult
	if tradeMode {
		var customerID *uuid.UUID
		if customerArg != "" {
			id, err := uuid.Parse(customerArg)
			if err != nil {
				return fmt.Errorf("cliente %q: %w", customerArg, domain.ErrInvalidInput)
			}
			customerID = &id
		}
		res, err = a.TradeUC.BuildTradeOpportunities(cmd.Context(), customerID, domain.PotentialStatus(statusArg))
	} else {
		res, err = buildMarket(cmd, a)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if summaryOnly {
		return enc.Encode(res.Summary)
	}
	return enc.Encode(res)
}
