package regression

import (
	"sort"
	"sync"

	"github.com/creditorural/forecaster/internal/utils"
)

// Model is a trainable regression backend with a train-once, predict-many
// lifecycle. Implementations are not safe for concurrent Fit calls; the
// orchestrator creates a fresh instance per series x model kind.
type Model interface {
	Fit(features [][]float64, targets []float64) error
	Predict(features [][]float64) ([]float64, error)
}

// Factory builds a fresh model instance with a deterministic seed.
type Factory func(seed int64) Model

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes a model kind available by name. Backends register
// themselves at init time; a kind that never registers is simply
// unavailable in this runtime, which is a valid configuration.
func Register(kind string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[kind] = factory
}

// New creates a fresh model of the requested kind. An unregistered kind
// yields a ModelUnavailableError, distinct from any training failure.
func New(kind string, seed int64) (Model, error) {
	registryMu.RLock()
	factory, ok := registry[kind]
	registryMu.RUnlock()
	if !ok {
		return nil, utils.NewModelUnavailableError(kind)
	}
	return factory(seed), nil
}

// Available lists the registered model kinds in sorted order.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	kinds := make([]string, 0, len(registry))
	for kind := range registry {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}
