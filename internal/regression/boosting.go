package regression

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Artifact keys for the two boosting backends. The names match the model
// families the dashboard already labels; the implementations here are
// native reimplementations of those families.
const (
	KindXGBoost  = "xgboost"
	KindLightGBM = "lightgbm"
)

func init() {
	Register(KindXGBoost, func(seed int64) Model {
		return NewGradientBoosting(BoostingConfig{
			Rounds:         100,
			LearningRate:   0.1,
			MaxDepth:       4,
			MinSamplesLeaf: 2,
			Seed:           seed,
		})
	})
	Register(KindLightGBM, func(seed int64) Model {
		return NewGradientBoosting(BoostingConfig{
			Rounds:         100,
			LearningRate:   0.1,
			MaxDepth:       4,
			MaxLeaves:      31,
			MinSamplesLeaf: 3,
			Seed:           seed,
		})
	})
}

// BoostingConfig holds the fixed boosting hyperparameters. MaxLeaves > 0
// switches tree growth from depth-wise (XGBoost style) to best-gain-first
// (LightGBM style).
type BoostingConfig struct {
	Rounds         int
	LearningRate   float64
	MaxDepth       int
	MaxLeaves      int
	MinSamplesLeaf int
	Seed           int64
}

// GradientBoosting fits an additive ensemble of regression trees on the
// squared-error gradient: each round a tree is grown on the current
// residuals and shrunk by the learning rate. The procedure is fully
// deterministic, so equal seeds trivially reproduce equal models.
type GradientBoosting struct {
	cfg       BoostingConfig
	base      float64
	trees     []*node
	nFeatures int
	fitted    bool
}

// NewGradientBoosting creates an unfitted boosting model.
func NewGradientBoosting(cfg BoostingConfig) *GradientBoosting {
	return &GradientBoosting{cfg: cfg}
}

// Fit trains the ensemble.
func (gb *GradientBoosting) Fit(features [][]float64, targets []float64) error {
	if err := checkTrainingSet(features, targets); err != nil {
		return err
	}

	opts := treeOptions{
		maxDepth:        gb.cfg.MaxDepth,
		maxLeaves:       gb.cfg.MaxLeaves,
		minSamplesSplit: 2 * gb.cfg.MinSamplesLeaf,
		minSamplesLeaf:  gb.cfg.MinSamplesLeaf,
	}

	n := len(features)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	gb.nFeatures = len(features[0])
	gb.base = stat.Mean(targets, nil)
	gb.trees = gb.trees[:0]

	residuals := make([]float64, n)
	for i, y := range targets {
		residuals[i] = y - gb.base
	}

	for round := 0; round < gb.cfg.Rounds; round++ {
		if sumSquares(residuals) <= pureSSE {
			break
		}
		tree := buildTree(features, residuals, idx, opts)
		gb.trees = append(gb.trees, tree)
		for i, row := range features {
			residuals[i] -= gb.cfg.LearningRate * tree.predict(row)
		}
	}

	gb.fitted = true
	return nil
}

// Predict returns the additive ensemble prediction for each row.
func (gb *GradientBoosting) Predict(features [][]float64) ([]float64, error) {
	if !gb.fitted {
		return nil, fmt.Errorf("gradient boosting model is not fitted")
	}
	if err := checkFeatureWidth(features, gb.nFeatures); err != nil {
		return nil, err
	}

	out := make([]float64, len(features))
	for i, row := range features {
		pred := gb.base
		for _, tree := range gb.trees {
			pred += gb.cfg.LearningRate * tree.predict(row)
		}
		out[i] = pred
	}
	return out, nil
}

func sumSquares(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v * v
	}
	return sum
}
