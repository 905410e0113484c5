package ansify

import (
	"sort"
)

// colorNode is a node in a KD-tree over palette entries. Each node holds
// one palette color, its palette index and the axis along which its
// subtree is split.
type colorNode struct {
	color       RGB
	index       int
	left, right *colorNode
	splitAxis   int
}

type indexedColor struct {
	color RGB
	index int
}

// buildKDTree constructs a KD-tree from the palette entries. The input
// slice is reordered in place.
func buildKDTree(entries []indexedColor) *colorNode {
	if len(entries) == 0 {
		return nil
	}

	axis := chooseSplitAxis(entries)

	// Stable on index so duplicate components split deterministically.
	sort.SliceStable(entries, func(i, j int) bool {
		ci, cj := entries[i].color.component(axis), entries[j].color.component(axis)
		if ci != cj {
			return ci < cj
		}
		return entries[i].index < entries[j].index
	})

	median := len(entries) / 2
	return &colorNode{
		color:     entries[median].color,
		index:     entries[median].index,
		left:      buildKDTree(entries[:median]),
		right:     buildKDTree(entries[median+1:]),
		splitAxis: axis,
	}
}

// chooseSplitAxis selects the axis with the largest variance.
func chooseSplitAxis(entries []indexedColor) int {
	var meanR, meanG, meanB float64
	for _, e := range entries {
		meanR += float64(e.color.R)
		meanG += float64(e.color.G)
		meanB += float64(e.color.B)
	}
	n := float64(len(entries))
	meanR /= n
	meanG /= n
	meanB /= n

	var varR, varG, varB float64
	for _, e := range entries {
		dr := float64(e.color.R) - meanR
		dg := float64(e.color.G) - meanG
		db := float64(e.color.B) - meanB
		varR += dr * dr
		varG += dg * dg
		varB += db * db
	}

	if varR > varG && varR > varB {
		return 0
	} else if varG > varB {
		return 1
	}
	return 2
}

// nearest finds the palette entry closest to target. Candidates are
// ordered by (squared distance, index), so equidistant entries resolve
// to the lowest palette index.
func (node *colorNode) nearest(target RGB, bestIdx, bestDist int) (int, int) {
	if node == nil {
		return bestIdx, bestDist
	}

	dist := node.color.distanceSq(target)
	if dist < bestDist || (dist == bestDist && node.index < bestIdx) {
		bestIdx, bestDist = node.index, dist
	}

	axisDist := int(target.component(node.splitAxis)) -
		int(node.color.component(node.splitAxis))
	next, other := node.right, node.left
	if axisDist < 0 {
		next, other = node.left, node.right
	}

	bestIdx, bestDist = next.nearest(target, bestIdx, bestDist)

	// Equal distance must still descend: a lower index may be waiting
	// on the far side of the split plane.
	if axisDist*axisDist <= bestDist {
		bestIdx, bestDist = other.nearest(target, bestIdx, bestDist)
	}

	return bestIdx, bestDist
}
