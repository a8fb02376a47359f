package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagData         string
	flagSeed         int64
	flagTestFraction float64
	flagFolds        int
	flagWorkers      int
	flagVerbose      bool
)

func main() {
	root := &cobra.Command{
		Use:          "ixeoritune",
		Short:        "Cross-validated hyperparameter search for the insurance cost regressor",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if flagVerbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	root.PersistentFlags().StringVar(&flagData, "data", "insurance.csv", "path to the insurance CSV file")
	root.PersistentFlags().Int64Var(&flagSeed, "seed", 42, "seed for split, folds, sampling and model init")
	root.PersistentFlags().Float64Var(&flagTestFraction, "test-fraction", 0.33, "held-out fraction for the final evaluation")
	root.PersistentFlags().IntVar(&flagFolds, "folds", 5, "cross-validation fold count")
	root.PersistentFlags().IntVar(&flagWorkers, "workers", 1, "max concurrent trials")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log per-trial detail")

	root.AddCommand(newGridCommand(), newRandomCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
