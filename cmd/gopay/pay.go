package gopay

import (
	"fmt"
	"io"
	"net/url"
	"slices"

	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/liftedinit/gopay/internal/config"
	"github.com/liftedinit/gopay/internal/forms"
	"github.com/liftedinit/gopay/internal/models"
	"github.com/liftedinit/gopay/internal/payment"
)

var payCmd = &cobra.Command{
	Use:     "pay",
	Args:    cobra.NoArgs,
	Short:   "Submit a payment to the ledger",
	Long:    `Record a payment on the ledger as a pending entry followed, after the processing delay, by a completed entry.`,
	PreRunE: bindFlags,
	RunE: func(cmd *cobra.Command, args []string) error {
		paymentConfig := config.LoadPaymentConfigFromCLI()
		if err := paymentConfig.Validate(); err != nil {
			return fmt.Errorf("invalid payment configuration: %w", err)
		}

		out := cmd.OutOrStdout()
		form, err := forms.ParsePayment(url.Values{
			"amount":      {viper.GetString("amount")},
			"currency":    {viper.GetString("currency")},
			"recipient":   {viper.GetString("recipient")},
			"description": {viper.GetString("description")},
		})
		if verr, ok := forms.AsValidationError(err); ok {
			printFieldErrors(out, verr)
			return verr
		}
		if err != nil {
			return err
		}

		ledger, err := newLedgerClient()
		if err != nil {
			return err
		}

		var user *models.User
		if id := viper.GetString("user-id"); id != "" {
			user = &models.User{ID: id, Email: viper.GetString("email"), KYCStatus: models.KYCNone}
		}

		flow := payment.NewFlow(ledger, paymentConfig.ProcessingDelay, paymentConfig.CompensationPolicy)
		res := flow.Submit(cmd.Context(), user, form.Request(), cliNotifier{out: out})
		if res.Err != nil {
			return errors.WithMessagef(res.Err, "payment %d failed", res.TransactionID)
		}

		fmt.Fprintf(out, "Transaction %d recorded in block %d\n", res.TransactionID, res.Final.Index)
		return nil
	},
}

func init() {
	payCmd.Flags().String("amount", "", "Amount to send")
	payCmd.Flags().String("currency", "USD", "Currency of the amount")
	payCmd.Flags().String("recipient", "", "Recipient of the payment")
	payCmd.Flags().String("description", "", "Optional description")
	payCmd.Flags().String("user-id", "1", "Ledger user id of the sender (empty means not logged in)")
	payCmd.Flags().String("email", "", "Email of the sender")
	addPaymentFlags(payCmd)
}

// cliNotifier prints payment notifications to the terminal.
type cliNotifier struct {
	out io.Writer
}

func (n cliNotifier) Notify(level payment.Level, message string) {
	var printer pterm.PrefixPrinter
	switch level {
	case payment.LevelSuccess:
		printer = pterm.Success
	case payment.LevelWarning:
		printer = pterm.Warning
	default:
		printer = pterm.Error
	}
	fmt.Fprint(n.out, printer.Sprintln(message))
}

func printFieldErrors(out io.Writer, verr *forms.ValidationError) {
	names := make([]string, 0, len(verr.Fields))
	for name := range verr.Fields {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(out, "%s: %s\n", name, verr.Fields[name])
	}
}
