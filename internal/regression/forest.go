package regression

import (
	"fmt"
	"math/rand"
)

// KindRandomForest is the artifact key for the random forest backend.
const KindRandomForest = "randomforest"

func init() {
	Register(KindRandomForest, func(seed int64) Model {
		return NewRandomForest(ForestConfig{
			Trees:    100,
			MaxDepth: 6,
			Seed:     seed,
		})
	})
}

// ForestConfig holds the fixed random forest hyperparameters, chosen for
// stability with small economic time series rather than peak accuracy.
type ForestConfig struct {
	Trees    int
	MaxDepth int
	Seed     int64
}

// RandomForest is a bagged ensemble of CART regression trees, each grown
// on a bootstrap resample of the training set.
type RandomForest struct {
	cfg       ForestConfig
	trees     []*node
	nFeatures int
}

// NewRandomForest creates an unfitted random forest.
func NewRandomForest(cfg ForestConfig) *RandomForest {
	return &RandomForest{cfg: cfg}
}

// Fit trains the forest. The bootstrap draws come from a generator seeded
// from the configuration, so refitting reproduces the same ensemble.
func (rf *RandomForest) Fit(features [][]float64, targets []float64) error {
	if err := checkTrainingSet(features, targets); err != nil {
		return err
	}

	n := len(features)
	rng := rand.New(rand.NewSource(rf.cfg.Seed))
	opts := treeOptions{
		maxDepth:        rf.cfg.MaxDepth,
		minSamplesSplit: 2,
		minSamplesLeaf:  1,
	}

	rf.nFeatures = len(features[0])
	rf.trees = make([]*node, 0, rf.cfg.Trees)
	sample := make([]int, n)
	for t := 0; t < rf.cfg.Trees; t++ {
		for i := range sample {
			sample[i] = rng.Intn(n)
		}
		rf.trees = append(rf.trees, buildTree(features, targets, sample, opts))
	}
	return nil
}

// Predict returns the mean prediction over all trees.
func (rf *RandomForest) Predict(features [][]float64) ([]float64, error) {
	if len(rf.trees) == 0 {
		return nil, fmt.Errorf("random forest is not fitted")
	}
	if err := checkFeatureWidth(features, rf.nFeatures); err != nil {
		return nil, err
	}

	out := make([]float64, len(features))
	for i, row := range features {
		sum := 0.0
		for _, tree := range rf.trees {
			sum += tree.predict(row)
		}
		out[i] = sum / float64(len(rf.trees))
	}
	return out, nil
}

func checkTrainingSet(features [][]float64, targets []float64) error {
	if len(features) == 0 {
		return fmt.Errorf("empty training set")
	}
	if len(features) != len(targets) {
		return fmt.Errorf("feature rows (%d) and targets (%d) differ in length", len(features), len(targets))
	}
	width := len(features[0])
	if width == 0 {
		return fmt.Errorf("training rows have no features")
	}
	return checkFeatureWidth(features, width)
}

func checkFeatureWidth(features [][]float64, width int) error {
	for i, row := range features {
		if len(row) != width {
			return fmt.Errorf("feature row %d has %d columns, want %d", i, len(row), width)
		}
	}
	return nil
}
