package shipping

import "math"

// SelectBox picks the smallest box whose volume holds totalVolume. Boxes of
// equal volume are ordered by the lowest weight limit the order satisfies,
// then by catalog order. When nothing is large enough the largest box is
// returned with Oversized set. Orders are never split across boxes.
func SelectBox(totalVolume, totalWeight float64, catalog []PackagingBox) (BoxSelection, error) {
	if len(catalog) == 0 {
		return BoxSelection{}, ErrNoBoxCatalog
	}

	best := -1
	for i, b := range catalog {
		if b.Volume() < totalVolume {
			continue
		}
		if best < 0 || smallerBox(b, catalog[best], totalWeight) {
			best = i
		}
	}
	if best >= 0 {
		return BoxSelection{Box: catalog[best]}, nil
	}

	largest := 0
	for i, b := range catalog[1:] {
		if largerBox(b, catalog[largest], totalWeight) {
			largest = i + 1
		}
	}
	return BoxSelection{Box: catalog[largest], Oversized: true}, nil
}

// smallerBox reports whether a should replace the current best b, b coming
// earlier in the catalog.
func smallerBox(a, b PackagingBox, weight float64) bool {
	va, vb := a.Volume(), b.Volume()
	if va != vb {
		return va < vb
	}
	return tighterLimit(a, b, weight)
}

func largerBox(a, b PackagingBox, weight float64) bool {
	va, vb := a.Volume(), b.Volume()
	if va != vb {
		return va > vb
	}
	return tighterLimit(a, b, weight)
}

// tighterLimit breaks volume ties: a box that accepts the weight beats one
// that does not, and among accepting boxes the lower limit wins. Unlimited
// boxes rank after limited ones. Equal candidates keep catalog order.
func tighterLimit(a, b PackagingBox, weight float64) bool {
	okA, okB := a.Accepts(weight), b.Accepts(weight)
	if okA != okB {
		return okA
	}
	if !okA {
		return false
	}
	la, lb := limitRank(a), limitRank(b)
	return la < lb
}

func limitRank(b PackagingBox) float64 {
	if b.MaxWeight <= 0 {
		return math.MaxFloat64
	}
	return b.MaxWeight
}
