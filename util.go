package orbit

import "golang.org/x/exp/constraints"

func clamp[T constraints.Float](v, lo, hi T) T {
	return max(lo, min(hi, v))
}
