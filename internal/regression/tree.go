package regression

import "sort"

// node is one CART node. Leaves carry the mean target of their samples.
type node struct {
	feature   int
	threshold float64
	left      *node
	right     *node
	value     float64
	leaf      bool
}

// treeOptions control how a single regression tree is grown.
type treeOptions struct {
	maxDepth        int
	maxLeaves       int // 0 grows depth-wise; >0 grows best-gain-first
	minSamplesSplit int
	minSamplesLeaf  int
}

const pureSSE = 1e-12

func (n *node) predict(row []float64) float64 {
	for !n.leaf {
		if row[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

// buildTree grows a regression tree over the samples in idx, minimizing
// the sum of squared errors at each split.
func buildTree(features [][]float64, targets []float64, idx []int, opts treeOptions) *node {
	if opts.maxLeaves > 0 {
		return growLeafWise(features, targets, idx, opts)
	}
	return growDepthWise(features, targets, idx, 0, opts)
}

func growDepthWise(features [][]float64, targets []float64, idx []int, depth int, opts treeOptions) *node {
	if depth >= opts.maxDepth || len(idx) < opts.minSamplesSplit {
		return leafNode(targets, idx)
	}
	sp := bestSplit(features, targets, idx, opts)
	if !sp.ok {
		return leafNode(targets, idx)
	}
	return &node{
		feature:   sp.feature,
		threshold: sp.threshold,
		left:      growDepthWise(features, targets, sp.left, depth+1, opts),
		right:     growDepthWise(features, targets, sp.right, depth+1, opts),
	}
}

// growLeafWise repeatedly splits the leaf with the largest SSE reduction
// until the leaf budget is exhausted, the way LightGBM grows trees.
func growLeafWise(features [][]float64, targets []float64, idx []int, opts treeOptions) *node {
	type candidate struct {
		n     *node
		idx   []int
		depth int
		sp    split
	}

	root := leafNode(targets, idx)
	var candidates []candidate
	if len(idx) >= opts.minSamplesSplit && opts.maxDepth > 0 {
		if sp := bestSplit(features, targets, idx, opts); sp.ok {
			candidates = append(candidates, candidate{n: root, idx: idx, depth: 0, sp: sp})
		}
	}

	leaves := 1
	for leaves < opts.maxLeaves && len(candidates) > 0 {
		best := 0
		for i := 1; i < len(candidates); i++ {
			if candidates[i].sp.gain > candidates[best].sp.gain {
				best = i
			}
		}
		chosen := candidates[best]
		candidates = append(candidates[:best], candidates[best+1:]...)

		chosen.n.leaf = false
		chosen.n.feature = chosen.sp.feature
		chosen.n.threshold = chosen.sp.threshold
		chosen.n.left = leafNode(targets, chosen.sp.left)
		chosen.n.right = leafNode(targets, chosen.sp.right)
		leaves++

		children := []candidate{
			{n: chosen.n.left, idx: chosen.sp.left, depth: chosen.depth + 1},
			{n: chosen.n.right, idx: chosen.sp.right, depth: chosen.depth + 1},
		}
		for _, child := range children {
			if child.depth >= opts.maxDepth || len(child.idx) < opts.minSamplesSplit {
				continue
			}
			if sp := bestSplit(features, targets, child.idx, opts); sp.ok {
				child.sp = sp
				candidates = append(candidates, child)
			}
		}
	}

	return root
}

func leafNode(targets []float64, idx []int) *node {
	return &node{leaf: true, value: meanAt(targets, idx)}
}

func meanAt(targets []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range idx {
		sum += targets[i]
	}
	return sum / float64(len(idx))
}

type split struct {
	ok        bool
	feature   int
	threshold float64
	gain      float64
	left      []int
	right     []int
}

// bestSplit scans every feature and boundary between distinct values,
// scoring candidates by SSE reduction. Features are visited in a fixed
// order so ties resolve deterministically.
func bestSplit(features [][]float64, targets []float64, idx []int, opts treeOptions) split {
	n := len(idx)
	if n < opts.minSamplesSplit || n < 2*opts.minSamplesLeaf {
		return split{}
	}

	var sumTotal, sqTotal float64
	for _, i := range idx {
		v := targets[i]
		sumTotal += v
		sqTotal += v * v
	}
	parent := sqTotal - sumTotal*sumTotal/float64(n)
	if parent <= pureSSE {
		return split{}
	}

	nFeatures := len(features[idx[0]])
	best := split{}
	order := make([]int, n)

	for f := 0; f < nFeatures; f++ {
		copy(order, idx)
		sort.SliceStable(order, func(a, b int) bool {
			return features[order[a]][f] < features[order[b]][f]
		})

		var sumLeft, sqLeft float64
		for p := 1; p < n; p++ {
			v := targets[order[p-1]]
			sumLeft += v
			sqLeft += v * v

			if features[order[p-1]][f] == features[order[p]][f] {
				continue
			}
			if p < opts.minSamplesLeaf || n-p < opts.minSamplesLeaf {
				continue
			}

			nl, nr := float64(p), float64(n-p)
			sseLeft := sqLeft - sumLeft*sumLeft/nl
			sumRight := sumTotal - sumLeft
			sseRight := (sqTotal - sqLeft) - sumRight*sumRight/nr
			gain := parent - sseLeft - sseRight

			if gain > best.gain+pureSSE {
				best = split{
					ok:        true,
					feature:   f,
					threshold: (features[order[p-1]][f] + features[order[p]][f]) / 2,
					gain:      gain,
					left:      append([]int(nil), order[:p]...),
					right:     append([]int(nil), order[p:]...),
				}
			}
		}
	}

	return best
}
