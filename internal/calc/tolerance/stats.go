package tolerance

import "math"

// Stat summarizes one sampled property.
type Stat struct {
	Mean      float64
	Std       float64
	CVPercent float64
}

// welford is an incremental mean/variance accumulator. The update form
// avoids the catastrophic cancellation a naive sum-of-squares suffers at
// large sample counts.
type welford struct {
	n    int
	mean float64
	m2   float64
}

func (w *welford) add(x float64) {
	w.n++
	delta := x - w.mean
	w.mean += delta / float64(w.n)
	w.m2 += delta * (x - w.mean)
}

// merge folds another accumulator in (Chan parallel combination), so
// per-worker results can be reduced in any grouping with the same outcome.
func (w *welford) merge(o welford) {
	if o.n == 0 {
		return
	}
	if w.n == 0 {
		*w = o
		return
	}
	n := float64(w.n + o.n)
	delta := o.mean - w.mean
	w.mean += delta * float64(o.n) / n
	w.m2 += o.m2 + delta*delta*float64(w.n)*float64(o.n)/n
	w.n += o.n
}

// stat finalizes to population statistics.
func (w welford) stat() Stat {
	if w.n == 0 {
		return Stat{}
	}
	std := math.Sqrt(w.m2 / float64(w.n))
	cv := 0.0
	if w.mean != 0 {
		cv = std / math.Abs(w.mean) * 100
	}
	return Stat{Mean: w.mean, Std: std, CVPercent: cv}
}
