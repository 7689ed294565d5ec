package regress

import (
	"math"
	"math/rand"
	"sort"
)

// ForestConfig contains random forest regression parameters
type ForestConfig struct {
	NumTrees        int     `json:"num_trees"`
	MaxDepth        int     `json:"max_depth"`
	MinLeafSamples  int     `json:"min_leaf_samples"`
	SampleFraction  float64 `json:"sample_fraction"`  // bootstrap sample size relative to corpus
	FeatureFraction float64 `json:"feature_fraction"` // features considered at each split
	RandomSeed      int64   `json:"random_seed"`
}

// DefaultForestConfig returns parameters tuned for sparse tag vectors:
// moderately deep trees with leaf-size smoothing
func DefaultForestConfig() *ForestConfig {
	return &ForestConfig{
		NumTrees:        100,
		MaxDepth:        15,
		MinLeafSamples:  5,
		SampleFraction:  1.0,
		FeatureFraction: 1.0 / 3.0,
		RandomSeed:      42,
	}
}

// TreeNode is one node of a regression tree in flat-array form. Leaves carry
// the mean target of their samples; internal nodes route on a feature
// threshold.
type TreeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
	Leaf      bool    `json:"leaf"`
}

// Tree is a single regression tree; node 0 is the root
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// ForestState is the fitted state of a random forest
type ForestState struct {
	InputDim int    `json:"input_dim"`
	Trees    []Tree `json:"trees"`
}

// Forest implements bagged regression trees with variance-reduction splits
// and per-split feature subsampling
//
// References:
//   - Breiman, L. (2001). "Random Forests"
//   - Breiman, L., et al. (1984). "Classification and Regression Trees"
type Forest struct {
	config *ForestConfig
	state  *ForestState
	fitted bool
}

// NewForest creates an unfitted forest regressor; a nil config selects defaults
func NewForest(config *ForestConfig) *Forest {
	if config == nil {
		config = DefaultForestConfig()
	}
	return &Forest{config: config}
}

// Fit grows the configured number of trees on bootstrap samples. Tree
// construction is sequential over a single seeded source, so fitting is
// deterministic for a fixed seed and input order.
func (f *Forest) Fit(X [][]float64, y []float64) error {
	dim, err := validateTrainingData(X, y)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(f.config.RandomSeed))

	sampleSize := int(float64(len(X)) * f.config.SampleFraction)
	if sampleSize < 1 {
		sampleSize = len(X)
	}

	featuresPerSplit := int(float64(dim) * f.config.FeatureFraction)
	if featuresPerSplit < 1 {
		featuresPerSplit = 1
	}
	if featuresPerSplit > dim {
		featuresPerSplit = dim
	}

	builder := &treeBuilder{
		X:                X,
		y:                y,
		dim:              dim,
		maxDepth:         f.config.MaxDepth,
		minLeafSamples:   f.config.MinLeafSamples,
		featuresPerSplit: featuresPerSplit,
		rng:              rng,
	}

	trees := make([]Tree, f.config.NumTrees)
	for t := range trees {
		indices := make([]int, sampleSize)
		for i := range indices {
			indices[i] = rng.Intn(len(X))
		}
		trees[t] = builder.build(indices)
	}

	f.state = &ForestState{InputDim: dim, Trees: trees}
	f.fitted = true

	return nil
}

// Predict averages the tree outputs for one input vector
func (f *Forest) Predict(x []float64) float64 {
	if !f.fitted || len(f.state.Trees) == 0 {
		return 0.0
	}

	sum := 0.0
	for i := range f.state.Trees {
		sum += f.state.Trees[i].evaluate(x)
	}
	return sum / float64(len(f.state.Trees))
}

// Serialize captures the fitted trees
func (f *Forest) Serialize() *SerializedModel {
	if !f.fitted {
		return nil
	}
	return &SerializedModel{
		Type:     ModelForest,
		InputDim: f.state.InputDim,
		Forest:   f.state,
	}
}

func (t *Tree) evaluate(x []float64) float64 {
	idx := 0
	for {
		node := t.Nodes[idx]
		if node.Leaf {
			return node.Value
		}
		value := 0.0
		if node.Feature < len(x) {
			value = x[node.Feature]
		}
		if value <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
}

type treeBuilder struct {
	X                [][]float64
	y                []float64
	dim              int
	maxDepth         int
	minLeafSamples   int
	featuresPerSplit int
	rng              *rand.Rand
}

func (b *treeBuilder) build(indices []int) Tree {
	tree := Tree{}
	b.grow(&tree, indices, 0)
	return tree
}

// grow appends the subtree for the given sample indices and returns nothing;
// the node for this call is always appended before its children so the root
// lands at index 0
func (b *treeBuilder) grow(tree *Tree, indices []int, depth int) int {
	nodeIdx := len(tree.Nodes)
	tree.Nodes = append(tree.Nodes, TreeNode{})

	mean := b.targetMean(indices)

	if depth >= b.maxDepth || len(indices) < 2*b.minLeafSamples {
		tree.Nodes[nodeIdx] = TreeNode{Leaf: true, Value: mean}
		return nodeIdx
	}

	feature, threshold, ok := b.bestSplit(indices)
	if !ok {
		tree.Nodes[nodeIdx] = TreeNode{Leaf: true, Value: mean}
		return nodeIdx
	}

	var left, right []int
	for _, idx := range indices {
		if b.X[idx][feature] <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}

	if len(left) < b.minLeafSamples || len(right) < b.minLeafSamples {
		tree.Nodes[nodeIdx] = TreeNode{Leaf: true, Value: mean}
		return nodeIdx
	}

	leftIdx := b.grow(tree, left, depth+1)
	rightIdx := b.grow(tree, right, depth+1)

	tree.Nodes[nodeIdx] = TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      leftIdx,
		Right:     rightIdx,
	}
	return nodeIdx
}

// bestSplit searches a random feature subset for the threshold maximizing
// variance reduction, using prefix sums over the sorted sample values
func (b *treeBuilder) bestSplit(indices []int) (int, float64, bool) {
	features := b.sampleFeatures()

	bestScore := math.Inf(-1)
	bestFeature := -1
	bestThreshold := 0.0

	values := make([]float64, len(indices))
	order := make([]int, len(indices))

	for _, feature := range features {
		for i, idx := range indices {
			values[i] = b.X[idx][feature]
			order[i] = idx
		}
		sort.Sort(&byValue{values: values, order: order})

		// Prefix-sum scan: maximizing sumL²/nL + sumR²/nR is equivalent
		// to minimizing the summed within-child SSE
		total := 0.0
		for _, idx := range order {
			total += b.y[idx]
		}

		leftSum := 0.0
		for i := 0; i < len(order)-1; i++ {
			leftSum += b.y[order[i]]

			if values[i] == values[i+1] {
				continue
			}

			nLeft := i + 1
			nRight := len(order) - nLeft
			if nLeft < b.minLeafSamples || nRight < b.minLeafSamples {
				continue
			}

			rightSum := total - leftSum
			score := leftSum*leftSum/float64(nLeft) + rightSum*rightSum/float64(nRight)

			if score > bestScore {
				bestScore = score
				bestFeature = feature
				bestThreshold = (values[i] + values[i+1]) / 2.0
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

// sampleFeatures draws a random subset of feature columns without replacement
func (b *treeBuilder) sampleFeatures() []int {
	if b.featuresPerSplit >= b.dim {
		features := make([]int, b.dim)
		for i := range features {
			features[i] = i
		}
		return features
	}

	perm := b.rng.Perm(b.dim)
	return perm[:b.featuresPerSplit]
}

func (b *treeBuilder) targetMean(indices []int) float64 {
	if len(indices) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, idx := range indices {
		sum += b.y[idx]
	}
	return sum / float64(len(indices))
}

// byValue sorts sample values and their index order together
type byValue struct {
	values []float64
	order  []int
}

func (s *byValue) Len() int           { return len(s.values) }
func (s *byValue) Less(i, j int) bool { return s.values[i] < s.values[j] }
func (s *byValue) Swap(i, j int) {
	s.values[i], s.values[j] = s.values[j], s.values[i]
	s.order[i], s.order[j] = s.order[j], s.order[i]
}
