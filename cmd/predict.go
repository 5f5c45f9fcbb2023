package main

import (
	"context"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Prastabm/SafeLanes-Research/internal/incidents"
	"github.com/Prastabm/SafeLanes-Research/internal/ml"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict crime categories with a saved model",
	Long:  "Loads a saved model and appends a predicted_category column to a table in the cleaned-incident layout. The crime_category column may be blank or absent.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		input, _ := cmd.Flags().GetString("input")
		output, _ := cmd.Flags().GetString("output")
		modelPath, _ := cmd.Flags().GetString("model")
		if modelPath == "" {
			modelPath = cfg.Model.Path
		}

		in, err := os.Open(input)
		if err != nil {
			return eris.Wrap(err, "predict: open input")
		}
		defer in.Close() //nolint:errcheck

		var out io.Writer = os.Stdout
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return eris.Wrap(err, "predict: create output")
			}
			defer f.Close() //nolint:errcheck
			out = f
		}

		return runPredict(cmd.Context(), modelPath, in, out)
	},
}

func init() {
	predictCmd.Flags().String("input", "", "table of incidents to classify (required)")
	predictCmd.Flags().String("output", "", "write predictions here instead of stdout")
	predictCmd.Flags().String("model", "", "saved model (default model.path)")
	_ = predictCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(predictCmd)
}

// runPredict classifies every usable row of in and writes them with their
// predictions to out.
func runPredict(ctx context.Context, modelPath string, in io.Reader, out io.Writer) error {
	p, err := ml.Load(modelPath)
	if err != nil {
		return eris.Wrap(err, "predict: load model")
	}

	incs, stats, err := incidents.ReadUnlabeled(ctx, in)
	if err != nil {
		return eris.Wrap(err, "predict: read input")
	}
	zap.L().Info("predicting",
		zap.String("model", modelPath),
		zap.Int("rows", len(incs)),
		zap.Int("dropped", stats.Dropped),
	)

	return incidents.WritePredictions(out, incs, p.Predict(incs))
}
