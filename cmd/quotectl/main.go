// Command quotectl prices cleaning quotes offline with the same calculator the
// service uses, and lists the checkout catalog.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderovie/integrity/internal/application/services"
	"github.com/alexanderovie/integrity/internal/catalog"
	"github.com/alexanderovie/integrity/internal/domain"
	"github.com/alexanderovie/integrity/internal/pricing"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "quotectl",
		Short:         "Price cleaning quotes and inspect the service catalog",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	quotes := services.NewQuoteService(catalog.Default())

	rootCmd.AddCommand(quoteCmd(quotes))
	rootCmd.AddCommand(servicesCmd(quotes))

	return rootCmd
}

func quoteCmd(quotes *services.QuoteService) *cobra.Command {
	var (
		snapshot domain.QuoteSnapshot
		sqft     string
		bedrooms string
		baths    string
		tip      string
		custom   string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Compute the price of a cleaning",
		Example: `  quotectl quote --sqft 750 --bedrooms 1 --bathrooms 1 --tip 15
  quotectl quote --service-type "Deep Cleaning" --sqft 1200 --extras inside_oven,dishes --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot.PropertySize = domain.FlexString(sqft)
			snapshot.Bedrooms = domain.FlexString(bedrooms)
			snapshot.Bathrooms = domain.FlexString(baths)
			snapshot.TipPercentage = domain.FlexString(tip)
			snapshot.CustomTip = domain.FlexString(custom)

			for _, id := range snapshot.Extras {
				if _, ok := pricing.ExtraPrice(id); !ok {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: unknown extra %q is not priced\n", id)
				}
			}

			result := quotes.Quote(snapshot)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), quoteOutput{
					Amount:           result.Price.Amount,
					AmountMinorUnits: result.Price.MinorUnits(),
					Currency:         result.Price.Currency,
					ServiceID:        result.ServiceID,
					Breakdown:        result.Price.Breakdown,
				})
			}
			printQuote(cmd.OutOrStdout(), snapshot.ServiceType, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&snapshot.ServiceType, "service-type", "s", pricing.StandardClean, "Service type as shown on the quote form")
	cmd.Flags().StringVarP(&snapshot.Frequency, "frequency", "f", "", "weekly, bi-weekly or monthly (Standard Clean only)")
	cmd.Flags().StringVar(&sqft, "sqft", "", "Property size in square feet")
	cmd.Flags().StringVar(&bedrooms, "bedrooms", "", "Number of bedrooms")
	cmd.Flags().StringVar(&baths, "bathrooms", "", "Number of bathrooms")
	cmd.Flags().StringSliceVarP(&snapshot.Extras, "extras", "e", nil, "Comma-separated extra ids")
	cmd.Flags().StringVar(&tip, "tip", "", `Tip percentage, or "other" to use --custom-tip`)
	cmd.Flags().StringVar(&custom, "custom-tip", "", "Custom tip percentage")
	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "Output as JSON")

	return cmd
}

func servicesCmd(quotes *services.QuoteService) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "services",
		Short: "List the services that can be checked out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list := quotes.Services()
			if asJSON {
				out := make([]serviceOutput, 0, len(list))
				for _, s := range list {
					out = append(out, serviceOutput{ID: s.ID, Name: s.Name, Price: s.BasePrice, Currency: s.Currency})
				}
				return writeJSON(cmd.OutOrStdout(), out)
			}

			w := cmd.OutOrStdout()
			for _, s := range list {
				fmt.Fprintf(w, "%-20s %-28s %10s %s\n", s.ID, s.Name, domain.FormatMinorUnits(s.BasePrice), strings.ToUpper(s.Currency))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "Output as JSON")

	return cmd
}

type quoteOutput struct {
	Amount           int64                 `json:"amount"`
	AmountMinorUnits int64                 `json:"amountMinorUnits"`
	Currency         string                `json:"currency"`
	ServiceID        string                `json:"serviceId"`
	Breakdown        domain.PriceBreakdown `json:"breakdown"`
}

type serviceOutput struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Currency string `json:"currency"`
}

func printQuote(w io.Writer, serviceType string, result services.QuoteResult) {
	b := result.Price.Breakdown
	fmt.Fprintf(w, "Service type: %s\n", serviceType)
	fmt.Fprintf(w, "  %-10s %10.2f\n", "Base:", b.Base)
	fmt.Fprintf(w, "  %-10s %10.2f\n", "Extras:", b.Extras)
	fmt.Fprintf(w, "  %-10s %10.2f\n", "Tip:", b.Tip)
	fmt.Fprintf(w, "  %-10s %10.2f\n", "Subtotal:", b.Subtotal)
	fmt.Fprintf(w, "  %-10s %10.2f\n", "Tax:", b.Tax)
	fmt.Fprintf(w, "Total: %d %s\n", result.Price.Amount, strings.ToUpper(result.Price.Currency))
	fmt.Fprintf(w, "Checkout service: %s\n", result.ServiceID)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
