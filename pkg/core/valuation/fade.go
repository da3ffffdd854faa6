package valuation

import "math"

// FadeParams carries the optional shape parameters for a fade schedule.
// Zero values select the documented defaults.
type FadeParams struct {
	K     float64  // exp fade sharpness, default 0.5 (lower = slower decay)
	Mid   *float64 // piecewise midpoint, default midway between start and end
	Split int      // piecewise fast-segment length in years, default 2
}

// LinearFade interpolates from start at year 1 to end at year n inclusive.
// A single-year horizon is constant at start.
func LinearFade(start, end float64, n int) []float64 {
	if n <= 1 {
		return []float64{start}
	}
	step := (end - start) / float64(n-1)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = start + step*float64(i)
	}
	return out
}

// ExpFade interpolates geometrically: start * (end/start)^(t^k) for
// normalized time t in [0,1]. Degrades to the linear formula when either
// rate is non-positive, where the geometric form is undefined.
func ExpFade(start, end float64, n int, k float64) []float64 {
	if n <= 1 {
		return []float64{start}
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		if start > 0 && end > 0 {
			out[i] = start * math.Pow(end/start, math.Pow(t, k))
		} else {
			out[i] = start + (end-start)*t
		}
	}
	return out
}

// PiecewiseFade runs a fast linear fade from start to mid over the first
// split years, then a slower linear fade from mid to end over the remainder.
// When split >= n the whole horizon is a single linear fade to end.
func PiecewiseFade(start, mid, end float64, n, split int) []float64 {
	if n <= 1 {
		return []float64{start}
	}
	if split >= n {
		return LinearFade(start, end, n)
	}
	out := make([]float64, 0, n)
	out = append(out, LinearFade(start, mid, split)...)
	out = append(out, LinearFade(mid, end, n-split)...)
	return out
}

// FadeSchedule produces the n-year fade for a method name ("linear", "exp",
// "piecewise"); unknown methods default to linear. Clamping the result
// against the terminal rate is the caller's responsibility.
func FadeSchedule(method string, start, end float64, n int, p FadeParams) []float64 {
	switch method {
	case FadeExponential:
		k := p.K
		if k == 0 {
			k = 0.5
		}
		return ExpFade(start, end, n, k)
	case FadePiecewise:
		mid := (start + end) / 2
		if p.Mid != nil {
			mid = *p.Mid
		}
		split := p.Split
		if split == 0 {
			split = 2
		}
		return PiecewiseFade(start, mid, end, n, split)
	default:
		return LinearFade(start, end, n)
	}
}
