package gopay

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/liftedinit/gopay/internal/currency"
)

var convertCmd = &cobra.Command{
	Use:   "convert [amount] [from] [to]",
	Args:  cobra.ExactArgs(3),
	Short: "Convert an amount between currencies",
	Long:  `Convert an amount between currencies using the static exchange rate table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := strconv.ParseFloat(args[0], 64)
		if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
			return fmt.Errorf("invalid amount: %s", args[0])
		}
		from, to := strings.ToUpper(args[1]), strings.ToUpper(args[2])

		converted, err := currency.Convert(amount, from, to)
		if err != nil {
			return err
		}
		rate, err := currency.Rate(from, to)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s = %s %s\n", currency.FormatAmount(amount), from, currency.FormatAmount(converted), to)
		fmt.Fprintf(out, "Exchange rate: 1 %s = %s %s\n", from, currency.FormatRate(rate), to)
		return nil
	},
}

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Args:  cobra.NoArgs,
	Short: "List the supported currencies and their rate against USD",
	RunE: func(cmd *cobra.Command, args []string) error {
		data := pterm.TableData{{"Currency", "Rate (USD)"}}
		for _, code := range currency.Currencies() {
			rate, err := currency.Rate("USD", code)
			if err != nil {
				return err
			}
			data = append(data, []string{code, currency.FormatRate(rate)})
		}

		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), table)
		return nil
	},
}

func init() {
	convertCmd.AddCommand(ratesCmd)
}
