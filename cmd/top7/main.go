// Command top7 reads voting lines from stdin and prints hit list summaries.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/timzifer/kvfifo/chart"
	cfgpkg "github.com/timzifer/kvfifo/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags *cfgpkg.Flags
	cmd := &cobra.Command{
		Use:   "top7 [file]",
		Short: "Weekly hit list",
		Long: "top7 reads vote, NEW and TOP lines from a file or stdin. Summaries go to\n" +
			"stdout, rejected lines to stderr.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.Resolve()
			if err != nil {
				return err
			}
			logger, err := cfgpkg.NewLogger(cfg.Log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			c := chart.New(cmd.OutOrStdout(), cmd.ErrOrStderr(),
				chart.WithTop(cfg.Chart.Top),
				chart.WithMaxID(cfg.Chart.MaxID),
				chart.WithLogger(logger),
			)
			if err := c.Process(cmd.Context(), in); err != nil {
				return fmt.Errorf("top7: %w", err)
			}
			return nil
		},
	}
	flags = cfgpkg.AddFlags(cmd.Flags())
	flags.AddChartFlags()
	return cmd
}
