package anomaly

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
)

const (
	defaultTrees     = 100
	defaultSubsample = 256
)

// IsolationForest is the default OutlierModel: an ensemble of random
// partition trees over a scalar feature. Points isolated by short paths
// receive scores near 1 and are outliers; deep, hard-to-isolate points
// score near 0.5 or below.
//
// The struct is configuration only; each FitPredict call fits a fresh
// ensemble from its own seeded source, so a single instance is safe for
// concurrent use across invocations.
type IsolationForest struct {
	Trees     int // number of trees, default 100
	Subsample int // per-tree sample size, default 256
}

// NewIsolationForest creates a forest with default ensemble parameters.
func NewIsolationForest() *IsolationForest {
	return &IsolationForest{Trees: defaultTrees, Subsample: defaultSubsample}
}

// FitPredict fits the ensemble over features and labels each point:
// -1 for outliers, 1 for inliers. The anomalous fraction is governed by
// contamination: the score threshold is the empirical (1-contamination)
// quantile, and only points strictly above it are flagged. The same
// features, seed, and contamination always produce the same labels.
func (f *IsolationForest) FitPredict(features []float64, seed int64, contamination float64) ([]int, []float64, error) {
	n := len(features)
	if n < 2 {
		return nil, nil, fmt.Errorf("isolation forest: need at least 2 points, got %d", n)
	}
	if contamination <= 0 || contamination > 0.5 {
		return nil, nil, fmt.Errorf("isolation forest: contamination must be in (0, 0.5], got %v", contamination)
	}

	labels := make([]int, n)
	scores := make([]float64, n)

	// Zero variance means every point is equally (un)isolatable.
	if stat.Variance(features, nil) == 0 {
		for i := range labels {
			labels[i] = 1
			scores[i] = 0.5
		}
		return labels, scores, nil
	}

	trees := f.Trees
	if trees <= 0 {
		trees = defaultTrees
	}
	psi := f.Subsample
	if psi <= 0 {
		psi = defaultSubsample
	}
	if psi > n {
		psi = n
	}

	rng := rand.New(rand.NewSource(seed))
	maxDepth := int(math.Ceil(math.Log2(float64(psi))))

	ensemble := make([]*itreeNode, trees)
	for t := range ensemble {
		sample := make([]float64, psi)
		for i, j := range rng.Perm(n)[:psi] {
			sample[i] = features[j]
		}
		ensemble[t] = growTree(sample, 0, maxDepth, rng)
	}

	norm := avgPathLength(psi)
	for i, x := range features {
		var total float64
		for _, root := range ensemble {
			total += pathLength(root, x, 0)
		}
		mean := total / float64(trees)
		scores[i] = math.Exp2(-mean / norm)
	}

	threshold := scoreThreshold(scores, contamination)
	for i, s := range scores {
		if s > threshold {
			labels[i] = -1
		} else {
			labels[i] = 1
		}
	}
	return labels, scores, nil
}

// itreeNode is one node of an isolation tree. Leaves carry the number of
// points that reached them; internal nodes carry a split value.
type itreeNode struct {
	split       float64
	left, right *itreeNode
	size        int
}

func growTree(values []float64, depth, maxDepth int, rng *rand.Rand) *itreeNode {
	if len(values) <= 1 || depth >= maxDepth {
		return &itreeNode{size: len(values)}
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		return &itreeNode{size: len(values)}
	}

	split := lo + rng.Float64()*(hi-lo)
	var left, right []float64
	for _, v := range values {
		if v < split {
			left = append(left, v)
		} else {
			right = append(right, v)
		}
	}
	return &itreeNode{
		split: split,
		left:  growTree(left, depth+1, maxDepth, rng),
		right: growTree(right, depth+1, maxDepth, rng),
	}
}

func pathLength(node *itreeNode, x float64, depth int) float64 {
	if node.left == nil {
		return float64(depth) + avgPathLength(node.size)
	}
	if x < node.split {
		return pathLength(node.left, x, depth+1)
	}
	return pathLength(node.right, x, depth+1)
}

// avgPathLength is c(n), the expected path length of an unsuccessful BST
// search over n points. Used both to terminate leaves early and to
// normalize scores.
func avgPathLength(n int) float64 {
	if n <= 1 {
		return 0
	}
	if n == 2 {
		return 1
	}
	h := math.Log(float64(n-1)) + 0.5772156649015329
	return 2*h - 2*float64(n-1)/float64(n)
}

// scoreThreshold returns the empirical (1-contamination) quantile of the
// score distribution.
func scoreThreshold(scores []float64, contamination float64) float64 {
	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	sort.Float64s(sorted)
	return stat.Quantile(1-contamination, stat.Empirical, sorted, nil)
}
