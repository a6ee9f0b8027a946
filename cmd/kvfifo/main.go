// Command kvfifo runs queue scripts. See package script for the language.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/timzifer/kvfifo"
	cfgpkg "github.com/timzifer/kvfifo/internal/config"
	"github.com/timzifer/kvfifo/internal/script"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "kvfifo",
		Short:        "Ordered multi-key queue playground",
		SilenceUsage: true,
	}

	var flags *cfgpkg.Flags
	runCmd := &cobra.Command{
		Use:   "run [file...]",
		Short: "Execute queue scripts",
		Long: "run executes each file in order, or stdin when no file is given, in one\n" +
			"interpreter so later files see the queues of earlier ones.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.Resolve()
			if err != nil {
				return err
			}
			logger, err := cfgpkg.NewLogger(cfg.Log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			in := script.New(cmd.OutOrStdout(),
				script.WithLogger(logger),
				script.WithQueueOptions(kvfifo.WithCapacity(cfg.Queue.Capacity)),
			)
			defer in.Close()

			if len(args) == 0 {
				return in.Run(cmd.Context(), cmd.InOrStdin())
			}
			for _, name := range args {
				if err := runFile(cmd.Context(), in, name); err != nil {
					return err
				}
			}
			return nil
		},
	}
	flags = cfgpkg.AddFlags(runCmd.Flags())
	flags.AddQueueFlags()
	rootCmd.AddCommand(runCmd)

	statsCmd := &cobra.Command{
		Use:   "stats [file...]",
		Short: "Execute queue scripts silently and print sharing counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			before, commits := kvfifo.SharingStats(), kvfifo.CommitCounters()
			in := script.New(io.Discard)
			defer in.Close()
			if len(args) == 0 {
				if err := in.Run(cmd.Context(), cmd.InOrStdin()); err != nil {
					return err
				}
			}
			for _, name := range args {
				if err := runFile(cmd.Context(), in, name); err != nil {
					return err
				}
			}
			after := kvfifo.SharingStats()
			published := kvfifo.CommitCounters().Published - commits.Published
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "shares %d\nlazy detaches %d\neager detaches %d\ncloned entries %d\npublished stages %d\n",
				after.Shares-before.Shares,
				after.LazyDetaches-before.LazyDetaches,
				after.EagerDetaches-before.EagerDetaches,
				after.ClonedEntries-before.ClonedEntries,
				published)
			return err
		},
	}
	rootCmd.AddCommand(statsCmd)
	return rootCmd
}

func runFile(ctx context.Context, in *script.Interpreter, name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := in.Run(ctx, f); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
