package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/afero"
	"gonum.org/v1/gonum/floats"
)

// NumericFeature is a scaled numeric input. Missing values are imputed with Impute.
type NumericFeature struct {
	Name   string  `json:"name"`
	Impute float64 `json:"impute"`
	Mean   float64 `json:"mean"`
	Scale  float64 `json:"scale"`
	Coef   float64 `json:"coef"`
}

// CategoricalFeature is a one-hot encoded input. Unknown or missing levels
// contribute nothing.
type CategoricalFeature struct {
	Levels map[string]float64 `json:"levels"`
	Name   string             `json:"name"`
}

// LogisticArtifact is the serialized form of a fitted preprocessing and
// logistic regression pipeline.
type LogisticArtifact struct {
	Numeric     []NumericFeature     `json:"numeric"`
	Categorical []CategoricalFeature `json:"categorical"`
	Intercept   float64              `json:"intercept"`
}

// LogisticModel implements port.RiskModel from a LogisticArtifact.
type LogisticModel struct {
	artifact LogisticArtifact
	coefs    []float64
}

// NewLogisticModel validates the artifact and prepares it for scoring.
func NewLogisticModel(a LogisticArtifact) (*LogisticModel, error) {
	if len(a.Numeric) == 0 && len(a.Categorical) == 0 {
		return nil, errors.New("model artifact has no features")
	}
	coefs := make([]float64, len(a.Numeric))
	for i, f := range a.Numeric {
		if f.Name == "" {
			return nil, fmt.Errorf("numeric feature %d has no name", i)
		}
		if f.Scale < 0 || math.IsNaN(f.Scale) {
			return nil, fmt.Errorf("numeric feature %s has invalid scale %v", f.Name, f.Scale)
		}
		coefs[i] = f.Coef
	}
	for i, f := range a.Categorical {
		if f.Name == "" {
			return nil, fmt.Errorf("categorical feature %d has no name", i)
		}
	}
	return &LogisticModel{artifact: a, coefs: coefs}, nil
}

// LoadLogisticModel reads a JSON artifact from path.
func LoadLogisticModel(fs afero.Fs, path string) (*LogisticModel, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading model artifact: %w", err)
	}
	var a LogisticArtifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decoding model artifact %s: %w", path, err)
	}
	return NewLogisticModel(a)
}

// PredictProbability returns the probability of the high risk class.
func (m *LogisticModel) PredictProbability(_ context.Context, features map[string]any) (float64, error) {
	x := make([]float64, len(m.artifact.Numeric))
	for i, f := range m.artifact.Numeric {
		v, ok, err := numericValue(features[f.Name])
		if err != nil {
			return 0, fmt.Errorf("feature %s: %w", f.Name, err)
		}
		if !ok {
			v = f.Impute
		}
		scale := f.Scale
		if scale == 0 {
			scale = 1
		}
		x[i] = (v - f.Mean) / scale
	}

	z := m.artifact.Intercept + floats.Dot(m.coefs, x)
	for _, f := range m.artifact.Categorical {
		if raw, ok := features[f.Name]; ok && raw != nil {
			z += f.Levels[categoryValue(raw)]
		}
	}
	return sigmoid(z), nil
}

func numericValue(v any) (float64, bool, error) {
	switch n := v.(type) {
	case nil:
		return 0, false, nil
	case float64:
		if math.IsNaN(n) {
			return 0, false, nil
		}
		return n, true, nil
	case int:
		return float64(n), true, nil
	case int64:
		return float64(n), true, nil
	case json.Number:
		f, err := n.Float64()
		return f, err == nil, err
	case string:
		if n == "" {
			return 0, false, nil
		}
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil, err
	default:
		return 0, false, fmt.Errorf("unsupported numeric value of type %T", v)
	}
}

func categoryValue(v any) string {
	switch c := v.(type) {
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	default:
		return fmt.Sprint(c)
	}
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
