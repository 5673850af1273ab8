package main

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/gyeh/healthnav/internal/exitcode"
	"github.com/gyeh/healthnav/internal/logging"
)

var optionsState string

var optionsCmd = &cobra.Command{
	Use:       "options [states|cities|codes]",
	Short:     "List dropdown options",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"states", "cities", "codes"},
	RunE:      runOptions,
}

func init() {
	optionsCmd.Flags().StringVar(&optionsState, "state", "", "Limit cities to one state")
	rootCmd.AddCommand(optionsCmd)
}

func runOptions(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()
	pool := connect(ctx, log)
	defer pool.Close()

	opts := newService(pool, log).Options()
	tw := tablewriter.NewWriter(os.Stdout)
	tw.SetAutoWrapText(false)

	var (
		n   int
		err error
	)
	switch args[0] {
	case "states":
		var states []string
		states, err = opts.States(ctx)
		tw.SetHeader([]string{"State"})
		for _, s := range states {
			tw.Append([]string{s})
		}
		n = len(states)
	case "cities":
		var cities []string
		cities, err = opts.Cities(ctx, optionsState)
		tw.SetHeader([]string{"City"})
		for _, c := range cities {
			tw.Append([]string{c})
		}
		n = len(cities)
	case "codes":
		codes, cerr := opts.Codes(ctx)
		err = cerr
		tw.SetHeader([]string{"Code", "Label"})
		for _, c := range codes {
			tw.Append([]string{c.Code, c.Label})
		}
		n = len(codes)
	}
	if err != nil {
		log.Error().Err(err).Msg("option load failed")
		pool.Close()
		os.Exit(exitcode.QueryError)
	}
	tw.Render()
	fmt.Printf("%d %s\n", n, args[0])
	return nil
}
