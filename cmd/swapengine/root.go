package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ratecraft/swapengine/calendar"
	"github.com/ratecraft/swapengine/daycount"
	"github.com/ratecraft/swapengine/engine"
	"github.com/ratecraft/swapengine/marketdata"
	"github.com/ratecraft/swapengine/schedule"
	"github.com/ratecraft/swapengine/swap"
	"github.com/ratecraft/swapengine/xva"
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "swapengine",
		Short:         "Deterministic swap valuation: pricing, sensitivities, and XVA",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("config", "", "config file (default swapengine.yaml)")
	cmd.PersistentFlags().String("as-of", time.Now().Format("2006-01-02"), "valuation date (YYYY-MM-DD)")
	cmd.PersistentFlags().Bool("verbose", false, "debug logging")

	viper.SetEnvPrefix("SWAPENGINE")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("as_of", cmd.PersistentFlags().Lookup("as-of"))
	_ = viper.BindPFlag("verbose", cmd.PersistentFlags().Lookup("verbose"))

	cobra.OnInitialize(func() {
		if cfg, _ := cmd.PersistentFlags().GetString("config"); cfg != "" {
			viper.SetConfigFile(cfg)
		} else {
			viper.SetConfigName("swapengine")
			viper.AddConfigPath(".")
		}
		// Missing config file is fine; flags and env still apply.
		_ = viper.ReadInConfig()
	})

	cmd.AddCommand(priceCmd(), sensCmd(), xvaCmd())
	return cmd
}

func newLogger() (*zap.Logger, error) {
	if viper.GetBool("verbose") {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func parseAsOf() (time.Time, error) {
	return time.Parse("2006-01-02", viper.GetString("as_of"))
}

// irsFlags adds the shared IRS definition flags.
func irsFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("notional", 10_000_000, "notional amount")
	cmd.Flags().String("currency", "USD", "swap currency")
	cmd.Flags().Float64("fixed-rate", 0.05, "fixed rate in decimal")
	cmd.Flags().Bool("pay-fixed", true, "pay fixed, receive floating")
	cmd.Flags().Int("years", 5, "tenor in years from as-of")
	cmd.Flags().String("index", "SOFR", "floating index name")
}

func irsFromFlags(cmd *cobra.Command, asOf time.Time) (swap.IRSSpec, error) {
	notional, _ := cmd.Flags().GetFloat64("notional")
	ccy, _ := cmd.Flags().GetString("currency")
	fixedRate, _ := cmd.Flags().GetFloat64("fixed-rate")
	payFixed, _ := cmd.Flags().GetBool("pay-fixed")
	years, _ := cmd.Flags().GetInt("years")
	index, _ := cmd.Flags().GetString("index")

	terms := swap.LegTerms{
		Frequency:   schedule.Quarterly,
		DayCount:    daycount.ACT360,
		BusinessDay: calendar.ModifiedFollowing,
		Calendar:    calendar.USNY,
	}
	// Standard T+2 spot lag.
	effective := calendar.AddBusinessDays(calendar.USNY, asOf, 2)
	return swap.IRSSpec{
		ID:            fmt.Sprintf("irs-%s-%dy", ccy, years),
		Notional:      notional,
		Currency:      ccy,
		FixedRate:     &fixedRate,
		FloatingIndex: index,
		Effective:     effective,
		Maturity:      effective.AddDate(years, 0, 0),
		PayFixed:      payFixed,
		Fixed:         terms,
		Floating:      terms,
	}, nil
}

func runRequest(cmd *cobra.Command, req engine.Request) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	runner := engine.NewRunner(engine.NewMemoryRepository(0), log)
	result, err := runner.PriceRun(cmd.Context(), req)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func priceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price an IRS against the synthetic market",
		RunE: func(cmd *cobra.Command, args []string) error {
			asOf, err := parseAsOf()
			if err != nil {
				return err
			}
			spec, err := irsFromFlags(cmd, asOf)
			if err != nil {
				return err
			}
			md, err := marketdata.DefaultMarket(asOf)
			if err != nil {
				return err
			}
			return runRequest(cmd, engine.Request{
				Instrument: spec,
				Market:     md,
				Pricing:    swap.DefaultConfig(),
			})
		},
	}
	irsFlags(cmd)
	return cmd
}

func sensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sens",
		Short: "Price an IRS and compute the full shock catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			asOf, err := parseAsOf()
			if err != nil {
				return err
			}
			spec, err := irsFromFlags(cmd, asOf)
			if err != nil {
				return err
			}
			md, err := marketdata.DefaultMarket(asOf)
			if err != nil {
				return err
			}
			return runRequest(cmd, engine.Request{
				Instrument:    spec,
				Market:        md,
				Pricing:       swap.DefaultConfig(),
				Sensitivities: true,
			})
		},
	}
	irsFlags(cmd)
	return cmd
}

func xvaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xva",
		Short: "Price an IRS with a CVA/DVA/FVA overlay",
		RunE: func(cmd *cobra.Command, args []string) error {
			asOf, err := parseAsOf()
			if err != nil {
				return err
			}
			spec, err := irsFromFlags(cmd, asOf)
			if err != nil {
				return err
			}
			md, err := marketdata.DefaultMarket(asOf)
			if err != nil {
				return err
			}

			cpSpread, _ := cmd.Flags().GetFloat64("cpty-spread")
			ownSpread, _ := cmd.Flags().GetFloat64("own-spread")
			fundSpread, _ := cmd.Flags().GetFloat64("funding-spread")

			tenors := []string{"1Y", "2Y", "5Y", "10Y"}
			flat := func(bp float64) []float64 { return []float64{bp, bp, bp, bp} }
			xcfg := &xva.Config{
				ComputeCVA: true,
				ComputeDVA: true,
				ComputeFVA: true,
				Counterparty: &xva.CreditCurve{
					Name: "CPTY", Currency: spec.Currency,
					Tenors: tenors, Spreads: flat(cpSpread), RecoveryRate: 0.4,
				},
				OwnCredit: &xva.CreditCurve{
					Name: "OWN", Currency: spec.Currency,
					Tenors: tenors, Spreads: flat(ownSpread), RecoveryRate: 0.4,
				},
				Funding: &xva.CreditCurve{
					Name: "FUNDING", Currency: spec.Currency,
					Tenors: tenors, Spreads: flat(fundSpread), RecoveryRate: 0.4,
				},
			}
			return runRequest(cmd, engine.Request{
				Instrument: spec,
				Market:     md,
				Pricing:    swap.DefaultConfig(),
				XVA:        xcfg,
			})
		},
	}
	irsFlags(cmd)
	cmd.Flags().Float64("cpty-spread", 100, "counterparty credit spread (bp)")
	cmd.Flags().Float64("own-spread", 50, "own credit spread (bp)")
	cmd.Flags().Float64("funding-spread", 30, "funding spread (bp)")
	return cmd
}
