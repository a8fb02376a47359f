package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fumitoshi0524/ixeoriTune/dataset"
	"github.com/fumitoshi0524/ixeoriTune/loss"
	"github.com/fumitoshi0524/ixeoriTune/model"
	"github.com/fumitoshi0524/ixeoriTune/search"
)

func newGridCommand() *cobra.Command {
	var (
		batchSizes []int
		epochs     []int
		optimizers []string
	)
	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Exhaustive sweep over every batch size / epoch combination",
		RunE: func(cmd *cobra.Command, args []string) error {
			grid := search.Grid{
				model.ParamBatchSize: intValues(batchSizes),
				model.ParamEpochs:    intValues(epochs),
				model.ParamOptimizer: stringValues(optimizers),
			}
			return sweep(cmd, grid)
		},
	}
	cmd.Flags().IntSliceVar(&batchSizes, "batch-sizes", []int{6, 64}, "batch sizes to enumerate")
	cmd.Flags().IntSliceVar(&epochs, "epochs", []int{10, 50}, "epoch counts to enumerate")
	cmd.Flags().StringSliceVar(&optimizers, "optimizers", []string{"adam"}, "optimizers to enumerate (adam, sgd, nesterov, rmsprop)")
	return cmd
}

func newRandomCommand() *cobra.Command {
	var (
		trials     int
		batchLow   int
		batchHigh  int
		epochLow   int
		epochHigh  int
		optimizers []string
	)
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Sample a fixed budget of configurations from integer ranges",
		RunE: func(cmd *cobra.Command, args []string) error {
			sampler := search.Sampler{
				Trials: trials,
				Distributions: map[string]search.Distribution{
					model.ParamBatchSize: search.IntRange{Low: batchLow, High: batchHigh},
					model.ParamEpochs:    search.IntRange{Low: epochLow, High: epochHigh},
					model.ParamOptimizer: search.Choice{Values: stringValues(optimizers)},
				},
			}
			return sweep(cmd, sampler)
		},
	}
	cmd.Flags().IntVar(&trials, "trials", 12, "number of sampled configurations")
	cmd.Flags().StringSliceVar(&optimizers, "optimizers", []string{"adam"}, "optimizers to sample from (adam, sgd, nesterov, rmsprop)")
	cmd.Flags().IntVar(&batchLow, "batch-low", 2, "batch size range lower bound (inclusive)")
	cmd.Flags().IntVar(&batchHigh, "batch-high", 16, "batch size range upper bound (exclusive)")
	cmd.Flags().IntVar(&epochLow, "epoch-low", 10, "epoch range lower bound (inclusive)")
	cmd.Flags().IntVar(&epochHigh, "epoch-high", 100, "epoch range upper bound (exclusive)")
	return cmd
}

func sweep(cmd *cobra.Command, gen search.Generator) error {
	records, err := dataset.Load(flagData)
	if err != nil {
		return err
	}
	x, y, names, err := dataset.Encode(records)
	if err != nil {
		return err
	}
	slog.Info("dataset loaded", "rows", len(x), "features", len(names))

	xTrain, xTest, yTrain, yTest, err := dataset.TrainTestSplit(x, y, flagTestFraction, flagSeed)
	if err != nil {
		return err
	}
	scaler := dataset.NewStandardScaler(dataset.NumericColumns...)
	xTrain, err = scaler.FitTransform(xTrain)
	if err != nil {
		return err
	}
	xTest, err = scaler.Transform(xTest)
	if err != nil {
		return err
	}

	width := len(names)
	driver, err := search.NewDriver(model.Factory(width), search.Options{
		Folds:   flagFolds,
		Seed:    flagSeed,
		Workers: flagWorkers,
	})
	if err != nil {
		return err
	}
	result, err := driver.Run(cmd.Context(), gen, xTrain, yTrain)
	if err != nil {
		return err
	}
	fmt.Print(result.String())

	best, err := result.Best()
	if err != nil {
		return err
	}
	slog.Info("best configuration", "params", best.Params.Key(), "mean", best.Mean, "std", best.Std)

	// Refit the winner on the full training split and report held-out error.
	final := model.New(width, flagSeed)
	if err := final.Fit(xTrain, yTrain, best.Params); err != nil {
		return fmt.Errorf("refit best configuration: %w", err)
	}
	pred, err := final.Predict(xTest)
	if err != nil {
		return err
	}
	mse, err := loss.MSEValue(pred, yTest)
	if err != nil {
		return err
	}
	mae, err := loss.MAEValue(pred, yTest)
	if err != nil {
		return err
	}
	fmt.Printf("held-out test: mse=%.4f mae=%.4f (%d rows)\n", mse, mae, len(yTest))
	return nil
}

func intValues(vs []int) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}

func stringValues(vs []string) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}
