package ml

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Prastabm/SafeLanes-Research/internal/model"
)

// TrainOptions configures a training run.
type TrainOptions struct {
	Forest   ForestOptions
	TestSize float64 // held-out fraction; default 0.2
}

// TrainResult is the fitted pipeline and its held-out evaluation.
type TrainResult struct {
	Pipeline  *Pipeline
	Report    *Report
	TrainRows int
	TestRows  int
	Elapsed   time.Duration
}

// Train splits incs into train and test sets, fits a pipeline on the training
// rows and evaluates it on the held-out rows.
func Train(ctx context.Context, incs []model.Incident, opts TrainOptions) (*TrainResult, error) {
	log := zap.L().With(zap.String("component", "ml.train"))
	start := time.Now()

	testSize := opts.TestSize
	if testSize == 0 {
		testSize = 0.2
	}
	trainIdx, testIdx, err := TrainTestSplit(len(incs), testSize, opts.Forest.Seed)
	if err != nil {
		return nil, err
	}
	train := pick(incs, trainIdx)
	test := pick(incs, testIdx)

	log.Info("fitting model",
		zap.Int("train_rows", len(train)),
		zap.Int("test_rows", len(test)),
		zap.Int("trees", opts.Forest.Trees),
	)

	p, err := Fit(ctx, train, opts.Forest)
	if err != nil {
		return nil, err
	}

	yTrue := make([]model.Category, len(test))
	for i, inc := range test {
		yTrue[i] = inc.Category
	}
	report, err := ClassificationReport(yTrue, p.Predict(test))
	if err != nil {
		return nil, err
	}

	res := &TrainResult{
		Pipeline:  p,
		Report:    report,
		TrainRows: len(train),
		TestRows:  len(test),
		Elapsed:   time.Since(start),
	}
	log.Info("model trained",
		zap.Int("classes", len(p.Classes)),
		zap.Int("features", p.Encoder.Width()),
		zap.Float64("accuracy", report.Accuracy),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}

func pick(incs []model.Incident, idx []int) []model.Incident {
	out := make([]model.Incident, len(idx))
	for i, j := range idx {
		out[i] = incs[j]
	}
	return out
}
