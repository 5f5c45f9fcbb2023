package ml

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/Prastabm/SafeLanes-Research/internal/model"
)

// ClassMetrics holds precision, recall and F1 for one label or average.
type ClassMetrics struct {
	Label     string  `json:"label" yaml:"label"`
	Precision float64 `json:"precision" yaml:"precision"`
	Recall    float64 `json:"recall" yaml:"recall"`
	F1        float64 `json:"f1_score" yaml:"f1_score"`
	Support   int     `json:"support" yaml:"support"`
}

// Report is a per-class classification report over a held-out set.
type Report struct {
	Classes     []ClassMetrics `json:"classes" yaml:"classes"`
	Accuracy    float64        `json:"accuracy" yaml:"accuracy"`
	MacroAvg    ClassMetrics   `json:"macro_avg" yaml:"macro_avg"`
	WeightedAvg ClassMetrics   `json:"weighted_avg" yaml:"weighted_avg"`
	Support     int            `json:"support" yaml:"support"`
}

// ClassificationReport compares predictions with true labels. Rows are the
// distinct labels of yTrue in sorted order; a class that is never predicted
// has precision 0. A predicted class absent from yTrue gets no row and does
// not enter the macro average, unlike scikit-learn, which reports the union
// of true and predicted labels.
func ClassificationReport(yTrue, yPred []model.Category) (*Report, error) {
	if len(yTrue) != len(yPred) {
		return nil, eris.Errorf("ml: %d true labels but %d predictions", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return nil, eris.New("ml: empty evaluation set")
	}

	var labels []model.Category
	support := make(map[model.Category]int)
	predicted := make(map[model.Category]int)
	hits := make(map[model.Category]int)
	correct := 0
	for i, t := range yTrue {
		if support[t] == 0 {
			labels = append(labels, t)
		}
		support[t]++
		predicted[yPred[i]]++
		if yPred[i] == t {
			hits[t]++
			correct++
		}
	}
	slices.Sort(labels)

	r := &Report{
		Classes:     make([]ClassMetrics, 0, len(labels)),
		Accuracy:    float64(correct) / float64(len(yTrue)),
		MacroAvg:    ClassMetrics{Label: "macro avg"},
		WeightedAvg: ClassMetrics{Label: "weighted avg"},
		Support:     len(yTrue),
	}
	for _, l := range labels {
		m := ClassMetrics{
			Label:     string(l),
			Precision: ratio(hits[l], predicted[l]),
			Recall:    ratio(hits[l], support[l]),
			Support:   support[l],
		}
		m.F1 = f1(m.Precision, m.Recall)
		r.Classes = append(r.Classes, m)

		n := float64(len(labels))
		w := float64(m.Support) / float64(len(yTrue))
		r.MacroAvg.Precision += m.Precision / n
		r.MacroAvg.Recall += m.Recall / n
		r.MacroAvg.F1 += m.F1 / n
		r.WeightedAvg.Precision += m.Precision * w
		r.WeightedAvg.Recall += m.Recall * w
		r.WeightedAvg.F1 += m.F1 * w
	}
	r.MacroAvg.Support = len(yTrue)
	r.WeightedAvg.Support = len(yTrue)
	return r, nil
}

// Labels returns the report's class labels in row order.
func (r *Report) Labels() []string {
	out := make([]string, len(r.Classes))
	for i, c := range r.Classes {
		out[i] = c.Label
	}
	return out
}

// String renders the report as an aligned text table.
func (r *Report) String() string {
	const avgWidth = len("weighted avg")
	width := avgWidth
	for _, c := range r.Classes {
		width = max(width, len(c.Label))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%*s  %9s %9s %9s %9s\n\n", width, "", "precision", "recall", "f1-score", "support")
	row := func(m ClassMetrics) {
		fmt.Fprintf(&b, "%*s  %9.2f %9.2f %9.2f %9d\n", width, m.Label, m.Precision, m.Recall, m.F1, m.Support)
	}
	for _, c := range r.Classes {
		row(c)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%*s  %9s %9s %9.2f %9d\n", width, "accuracy", "", "", r.Accuracy, r.Support)
	row(r.MacroAvg)
	row(r.WeightedAvg)
	return b.String()
}

// JSON renders the report as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "ml: marshal report json")
	}
	return out, nil
}

// YAML renders the report as YAML.
func (r *Report) YAML() ([]byte, error) {
	out, err := yaml.Marshal(r)
	if err != nil {
		return nil, eris.Wrap(err, "ml: marshal report yaml")
	}
	return out, nil
}

// Render formats the report as "text", "json" or "yaml".
func (r *Report) Render(format string) ([]byte, error) {
	switch format {
	case "", "text":
		return []byte(r.String()), nil
	case "json":
		return r.JSON()
	case "yaml":
		return r.YAML()
	default:
		return nil, eris.Errorf("ml: unknown report format %q", format)
	}
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func f1(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}
