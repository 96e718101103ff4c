package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"admitd/internal/workload"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath  string
		requests    int
		chunkSize   int
		workers     int
		repetitions int
		pace        float64
		seed        uint64
		strategy    string
		limit       int
		window      time.Duration
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "loadgen",
		Short: "Drive the admission engine with a synthetic workload",
		Long: `loadgen generates a stream of random IPv4 client keys, submits them
concurrently to a freshly built ledger, and tabulates the admission
decisions. Flags override values from the optional yaml config file.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := workload.DefaultConfig()

			if configPath != "" {
				loaded, err := workload.LoadConfig(configPath)
				if err != nil {
					return err
				}

				cfg = loaded
			}

			flags := cmd.Flags()
			if flags.Changed("requests") {
				cfg.Requests = requests
			}
			if flags.Changed("chunk-size") {
				cfg.ChunkSize = chunkSize
			}
			if flags.Changed("workers") {
				cfg.Workers = workers
			}
			if flags.Changed("repetitions") {
				cfg.Repetitions = repetitions
			}
			if flags.Changed("rate") {
				cfg.Rate = pace
			}
			if flags.Changed("seed") {
				cfg.Seed = seed
			}
			if flags.Changed("strategy") {
				cfg.Strategy = strategy
			}
			if flags.Changed("limit") {
				cfg.Limit = limit
			}
			if flags.Changed("window") {
				cfg.Window = window
			}

			logger := zap.NewNop()
			if verbose {
				var err error

				logger, err = zap.NewDevelopment()
				if err != nil {
					return err
				}
			}

			runner, err := workload.NewRunner(cfg, logger)
			if err != nil {
				return err
			}

			report, err := runner.Run(context.Background())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), report)

			return nil
		},
	}

	defaults := workload.DefaultConfig()

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "yaml workload config file")
	cmd.Flags().IntVar(&requests, "requests", defaults.Requests, "admission calls per repetition")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", defaults.ChunkSize, "requests per worker task")
	cmd.Flags().IntVar(&workers, "workers", defaults.Workers, "concurrent submission goroutines")
	cmd.Flags().IntVar(&repetitions, "repetitions", defaults.Repetitions, "times to replay the key stream")
	cmd.Flags().Float64Var(&pace, "rate", defaults.Rate, "submission pacing in req/s; 0 is unpaced")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "key stream seed; 0 picks one")
	cmd.Flags().StringVar(&strategy, "strategy", defaults.Strategy, "ledger strategy: global, snapshot, keyed or ring")
	cmd.Flags().IntVar(&limit, "limit", defaults.Limit, "requests admitted per key per window")
	cmd.Flags().DurationVar(&window, "window", defaults.Window, "sliding window duration")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log run progress")

	return cmd
}
