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

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Write the encoded feature matrix a saved model sees",
	Long:  "Loads a saved model, encodes a table in the cleaned-incident layout with its one-hot encoder and writes the design matrix as CSV, one column per model feature. Useful for checking what the forest was trained on.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		input, _ := cmd.Flags().GetString("input")
		output, _ := cmd.Flags().GetString("output")
		modelPath, _ := cmd.Flags().GetString("model")
		if modelPath == "" {
			modelPath = cfg.Model.Path
		}

		in, err := os.Open(input)
		if err != nil {
			return eris.Wrap(err, "features: open input")
		}
		defer in.Close() //nolint:errcheck

		var out io.Writer = os.Stdout
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return eris.Wrap(err, "features: create output")
			}
			defer f.Close() //nolint:errcheck
			out = f
		}

		return runFeatures(cmd.Context(), modelPath, in, out)
	},
}

func init() {
	featuresCmd.Flags().String("input", "", "table of incidents to encode (required)")
	featuresCmd.Flags().String("output", "", "write the matrix here instead of stdout")
	featuresCmd.Flags().String("model", "", "saved model (default model.path)")
	_ = featuresCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(featuresCmd)
}

// runFeatures encodes every usable row of in with the model's encoder and
// writes the resulting matrix to out.
func runFeatures(ctx context.Context, modelPath string, in io.Reader, out io.Writer) error {
	p, err := ml.Load(modelPath)
	if err != nil {
		return eris.Wrap(err, "features: load model")
	}

	incs, stats, err := incidents.ReadUnlabeled(ctx, in)
	if err != nil {
		return eris.Wrap(err, "features: read input")
	}

	x := p.Encoder.Transform(incs)
	rows, cols := x.Dims()
	zap.L().Info("encoding features",
		zap.String("model", modelPath),
		zap.Int("rows", rows),
		zap.Int("columns", cols),
		zap.Int("dropped", stats.Dropped),
	)

	return ml.WriteMatrix(out, p.Encoder.FeatureNames(), x)
}
