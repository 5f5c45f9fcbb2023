package ml

import (
	"context"
	"encoding/json"
	"os"
	"slices"

	"github.com/rotisserie/eris"

	"github.com/Prastabm/SafeLanes-Research/internal/model"
)

// ArtifactVersion is bumped whenever the saved pipeline layout changes.
const ArtifactVersion = 1

// Pipeline is the one-hot encoder plus the fitted forest.
type Pipeline struct {
	Version int              `json:"version"`
	Classes []model.Category `json:"classes"`
	Encoder *OneHotEncoder   `json:"encoder"`
	Forest  *Forest          `json:"forest"`
}

// Fit encodes incs and trains a forest on their categories.
func Fit(ctx context.Context, incs []model.Incident, opts ForestOptions) (*Pipeline, error) {
	if len(incs) == 0 {
		return nil, eris.New("ml: no training rows")
	}

	p := &Pipeline{Version: ArtifactVersion, Encoder: &OneHotEncoder{}}
	p.Encoder.Fit(incs)

	seen := make(map[model.Category]struct{})
	for _, inc := range incs {
		if _, ok := seen[inc.Category]; !ok {
			seen[inc.Category] = struct{}{}
			p.Classes = append(p.Classes, inc.Category)
		}
	}
	slices.Sort(p.Classes)

	y := make([]int, len(incs))
	for i, inc := range incs {
		y[i], _ = slices.BinarySearch(p.Classes, inc.Category)
	}

	forest, err := FitForest(ctx, p.Encoder.Transform(incs), y, len(p.Classes), opts)
	if err != nil {
		return nil, err
	}
	p.Forest = forest
	return p, nil
}

// Predict returns the predicted category for each incident. Cities and
// descriptions not seen during training contribute nothing to the encoding.
func (p *Pipeline) Predict(incs []model.Incident) []model.Category {
	if len(incs) == 0 {
		return nil
	}
	idx := p.Forest.Predict(p.Encoder.Transform(incs))
	out := make([]model.Category, len(idx))
	for i, c := range idx {
		out[i] = p.Classes[c]
	}
	return out
}

// Save writes the pipeline to path as JSON.
func (p *Pipeline) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "ml: create model file")
	}
	if err := json.NewEncoder(f).Encode(p); err != nil {
		_ = f.Close()
		return eris.Wrap(err, "ml: encode model")
	}
	return eris.Wrap(f.Close(), "ml: close model file")
}

// Load reads a pipeline saved by Save.
func Load(path string) (*Pipeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "ml: open model file")
	}
	defer f.Close()

	var p Pipeline
	if err := json.NewDecoder(f).Decode(&p); err != nil {
		return nil, eris.Wrap(err, "ml: decode model")
	}
	if p.Version != ArtifactVersion {
		return nil, eris.Errorf("ml: model version %d, want %d", p.Version, ArtifactVersion)
	}
	if p.Encoder == nil || p.Forest == nil || len(p.Classes) != p.Forest.Classes {
		return nil, eris.New("ml: incomplete model file")
	}
	if p.Encoder.Width() != p.Forest.Features {
		return nil, eris.Errorf("ml: encoder width %d does not match forest features %d", p.Encoder.Width(), p.Forest.Features)
	}
	p.Encoder.reindex()
	return &p, nil
}
