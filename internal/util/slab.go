package util

// Slab is a reusable scratch buffer handed to the fuzzy scorer so that
// repeated match attempts against the same item don't churn the garbage
// collector: FuzzyMatchV2's O(n*m) score matrix is carved out of Slab
// instead of being allocated fresh on every call.
type Slab struct {
	I16 []int16
	I32 []int32
}

// MakeSlab allocates a Slab with the given int16/int32 capacities.
func MakeSlab(size16, size32 int) *Slab {
	return &Slab{
		I16: make([]int16, size16),
		I32: make([]int32, size32),
	}
}
