package main

import (
	"context"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Prastabm/SafeLanes-Research/internal/config"
	"github.com/Prastabm/SafeLanes-Research/internal/incidents"
	"github.com/Prastabm/SafeLanes-Research/internal/ml"
	"github.com/Prastabm/SafeLanes-Research/internal/store"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the crime-category model on the cleaned table",
	Long:  "Reads the cleaned incident table, holds out a test split, fits the one-hot + random-forest pipeline, prints the classification report and saves the model.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, _ := cmd.Flags().GetString("format")
		input, _ := cmd.Flags().GetString("input")
		modelPath, _ := cmd.Flags().GetString("model")

		if input == "" {
			input = cfg.Datasets.OutputPath()
		}
		if modelPath != "" {
			cfg.Model.Path = modelPath
		}

		res, err := runTrain(cmd.Context(), cfg, input)
		if err != nil {
			return err
		}

		out, err := res.Report.Render(format)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	},
}

func init() {
	trainCmd.Flags().String("format", "text", "report format: text, json or yaml")
	trainCmd.Flags().String("input", "", "cleaned table to train on (default datasets.output)")
	trainCmd.Flags().String("model", "", "where to save the model (default model.path)")
	rootCmd.AddCommand(trainCmd)
}

// runTrain trains on the cleaned table at input, saves the pipeline to
// c.Model.Path and records the run in the configured store.
func runTrain(ctx context.Context, c *config.Config, input string) (*ml.TrainResult, error) {
	log := zap.L().With(zap.String("component", "train"))
	started := time.Now().UTC()

	incs, stats, err := incidents.ReadFile(ctx, input)
	if err != nil {
		return nil, eris.Wrap(err, "train: read cleaned table")
	}
	log.Info("cleaned table loaded",
		zap.String("path", input),
		zap.Int("read", stats.Read),
		zap.Int("dropped", stats.Dropped),
	)

	res, err := ml.Train(ctx, incs, ml.TrainOptions{
		Forest: ml.ForestOptions{
			Trees:   c.Model.Trees,
			Seed:    c.Model.Seed,
			Workers: c.Model.Workers,
		},
		TestSize: c.Model.TestSize,
	})
	if err != nil {
		return nil, eris.Wrap(err, "train: fit model")
	}

	if err := res.Pipeline.Save(c.Model.Path); err != nil {
		return nil, eris.Wrap(err, "train: save model")
	}
	log.Info("model saved", zap.String("path", c.Model.Path))

	report, err := res.Report.JSON()
	if err != nil {
		return nil, err
	}

	st, err := initStore(ctx, c.Store)
	if err != nil {
		return nil, eris.Wrap(err, "train: open store")
	}
	defer st.Close() //nolint:errcheck

	run := &store.Run{
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
		InputRows:  len(incs),
		TrainRows:  res.TrainRows,
		TestRows:   res.TestRows,
		Trees:      c.Model.Trees,
		Seed:       c.Model.Seed,
		Accuracy:   res.Report.Accuracy,
		ModelPath:  c.Model.Path,
		Report:     report,
	}
	if err := st.RecordRun(ctx, run); err != nil {
		return nil, eris.Wrap(err, "train: record run")
	}

	return res, nil
}
