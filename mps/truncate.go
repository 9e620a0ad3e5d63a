package mps

// TruncationPolicy decides how many singular values survive a two-site split.
//
// MaxBond is a hard ceiling on the new bond dimension; 0 means unbounded.
// Cutoff bounds the discarded weight relative to the total spectrum weight;
// 0 means exact. The two compose: the ceiling applies first, the cutoff then
// trims further within it. A machine-precision floor relative to the leading
// singular value always applies, so exact mode does not accumulate
// numerically zero bond directions. A policy is immutable for a run.
type TruncationPolicy struct {
	MaxBond int
	Cutoff  float64
}

// Exact returns the policy that keeps everything above the numerical floor.
func Exact() TruncationPolicy {
	return TruncationPolicy{}
}

// Truncate returns the number of leading singular values to keep, and the
// discarded weight, i.e. the sum of squares of the dropped values. sigmas
// must be sorted in descending order. At least one value is always kept, and
// since truncation keeps a prefix, ties at the boundary resolve to the lower
// index.
func (p TruncationPolicy) Truncate(sigmas []float64) (int, float64) {
	if len(sigmas) == 0 {
		return 0, 0
	}
	var total float64
	for _, s := range sigmas {
		total += s * s
	}

	keep := len(sigmas)
	floor := epsilon * sigmas[0]
	for keep > 1 && sigmas[keep-1] <= floor {
		keep--
	}
	if p.MaxBond > 0 && keep > p.MaxBond {
		keep = p.MaxBond
	}

	var discarded float64
	for _, s := range sigmas[keep:] {
		discarded += s * s
	}
	if p.Cutoff > 0 {
		budget := p.Cutoff * total
		for keep > 1 && discarded+sigmas[keep-1]*sigmas[keep-1] <= budget {
			keep--
			discarded += sigmas[keep] * sigmas[keep]
		}
	}
	return keep, discarded
}
