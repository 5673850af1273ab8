package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/healthnav/internal/exitcode"
	"github.com/gyeh/healthnav/internal/logging"
	"github.com/gyeh/healthnav/internal/present"
	"github.com/gyeh/healthnav/internal/views"
)

var output string

var (
	variationReq views.VariationRequest
	deepDiveReq  views.DeepDiveRequest
	providerReq  views.ProviderRequest
	explorerReq  views.ExplorerRequest
	navigateReq  views.NavigatorRequest
)

// viewCommand builds a command that runs one view and prints its result.
func viewCommand(use, short string, run func(ctx context.Context, svc *views.Service) (*present.Result, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
			ctx := context.Background()
			pool := connect(ctx, log)
			defer pool.Close()

			r, err := run(ctx, newService(pool, log))
			code := printResult(log, r, err)
			if code != exitcode.Success {
				pool.Close()
				os.Exit(code)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text or json")
	return cmd
}

// printResult writes r to stdout and returns the exit code for it.
func printResult(log zerolog.Logger, r *present.Result, err error) int {
	var ve *views.ValidationError
	if errors.As(err, &ve) {
		log.Error().Str("field", ve.Field).Msg(ve.Message)
		return exitcode.ValidationError
	}
	if err != nil {
		log.Error().Err(err).Msg("view failed")
		return exitcode.QueryError
	}

	if output == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(r)
	} else {
		err = present.RenderText(os.Stdout, r)
	}
	if err != nil {
		log.Error().Err(err).Msg("render failed")
		return exitcode.UsageError
	}
	if r.HasLevel(present.Error) {
		return exitcode.QueryError
	}
	return exitcode.Success
}

func init() {
	variation := viewCommand("variation", "Rank hospitals by price consistency",
		func(ctx context.Context, svc *views.Service) (*present.Result, error) {
			return svc.PriceVariation(ctx, variationReq)
		})
	f := variation.Flags()
	f.StringVar(&variationReq.State, "state", "All States", "State code, or \"All States\" for the configured defaults")
	f.StringVar(&variationReq.City, "city", "All Cities", "City, or \"All Cities\"")
	f.IntVar(&variationReq.MinProcedures, "min-procedures", views.DefaultMinProcedures, "Minimum distinct procedures per hospital (5-50, step 5)")
	f.StringVar(&variationReq.Metric, "metric", "coefficient_of_variation", "coefficient_of_variation, standard_deviation or price_range")
	f.StringVar(&variationReq.Search, "search", "", "Filter the comparison table by hospital name")

	procedures := viewCommand("procedures", "Compare one hospital's procedure prices with the market",
		func(ctx context.Context, svc *views.Service) (*present.Result, error) {
			return svc.ProcedureDeepDive(ctx, deepDiveReq)
		})
	f = procedures.Flags()
	f.StringVar(&deepDiveReq.HospitalID, "hospital-id", "", "Hospital id (required)")
	f.StringVar(&deepDiveReq.HospitalName, "hospital-name", "", "Hospital name for display")

	providers := viewCommand("providers", "Average standard charge per insurance provider",
		func(ctx context.Context, svc *views.Service) (*present.Result, error) {
			return svc.ProviderComparison(ctx, providerReq)
		})
	f = providers.Flags()
	f.StringVar(&providerReq.State, "state", "All States", "State code or \"All States\"")
	f.StringVar(&providerReq.City, "city", "All Cities", "City or \"All Cities\"")

	explore := viewCommand("explore", "Compare one procedure's price across cities",
		func(ctx context.Context, svc *views.Service) (*present.Result, error) {
			return svc.CostExplorer(ctx, explorerReq)
		})
	f = explore.Flags()
	f.StringVar(&explorerReq.Code, "code", "", "CPT code or \"CODE - DESCRIPTION\" (required)")
	f.StringVar(&explorerReq.State, "state", "", "Optional state filter")
	f.StringVar(&explorerReq.Metric, "metric", "average", "average, median, minimum or maximum")
	f.StringVar(&explorerReq.Search, "search", "", "Filter the city table")

	navigate := viewCommand("navigate", "Look up charges for a procedure by ZIP code or city",
		func(ctx context.Context, svc *views.Service) (*present.Result, error) {
			return svc.Navigator(ctx, navigateReq)
		})
	f = navigate.Flags()
	f.StringVar(&navigateReq.Code, "code", "", "CPT code (required)")
	f.StringVar(&navigateReq.Zip, "zip", "", "ZIP code")
	f.StringVar(&navigateReq.City, "city", "", "City, used when no ZIP is given")

	rootCmd.AddCommand(variation, procedures, providers, explore, navigate)
}
