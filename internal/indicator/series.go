package indicator

import "math"

// Series helpers. Every helper returns a new slice of the same length as its input and marks
// positions without enough history as NaN.

// Diff returns values[i] - values[i-1]. The first value is NaN.
func Diff(values []float64) []float64 {
	out := nanSlice(len(values))
	for i := 1; i < len(values); i++ {
		out[i] = values[i] - values[i-1]
	}

	return out
}

// EWM is an exponentially weighted mean without bias adjustment:
// y[0] = x[0], y[t] = (1-alpha)*y[t-1] + alpha*x[t]. Leading NaNs stay NaN and the first
// defined value seeds the average. Interior NaNs carry the previous average forward.
func EWM(values []float64, alpha float64) []float64 {
	out := nanSlice(len(values))
	seeded := false
	prev := math.NaN()

	for i, v := range values {
		switch {
		case math.IsNaN(v):
			out[i] = prev
		case !seeded:
			seeded = true
			prev = v
			out[i] = v
		default:
			prev = (1-alpha)*prev + alpha*v
			out[i] = prev
		}
	}

	return out
}

// SpanEWM is EWM with alpha = 2 / (span + 1).
func SpanEWM(values []float64, span int) []float64 {
	return EWM(values, 2/(float64(span)+1))
}

// RollingMean is the simple moving average over window values. Any NaN in the window yields NaN.
func RollingMean(values []float64, window int) []float64 {
	return rolling(values, window, func(w []float64) float64 {
		sum := 0.0
		for _, v := range w {
			sum += v
		}

		return sum / float64(len(w))
	})
}

// RollingStd is the sample standard deviation (n-1 denominator) over window values.
func RollingStd(values []float64, window int) []float64 {
	return rolling(values, window, func(w []float64) float64 {
		if len(w) < 2 {
			return math.NaN()
		}

		mean := 0.0
		for _, v := range w {
			mean += v
		}

		mean /= float64(len(w))

		ss := 0.0
		for _, v := range w {
			ss += (v - mean) * (v - mean)
		}

		return math.Sqrt(ss / float64(len(w)-1))
	})
}

// RollingMin is the lowest value over window values.
func RollingMin(values []float64, window int) []float64 {
	return rolling(values, window, func(w []float64) float64 {
		lowest := w[0]
		for _, v := range w[1:] {
			lowest = math.Min(lowest, v)
		}

		return lowest
	})
}

// RollingMax is the highest value over window values.
func RollingMax(values []float64, window int) []float64 {
	return rolling(values, window, func(w []float64) float64 {
		highest := w[0]
		for _, v := range w[1:] {
			highest = math.Max(highest, v)
		}

		return highest
	})
}

// FillNonFinite replaces NaN and infinite values with fill.
func FillNonFinite(values []float64, fill float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[i] = fill
		} else {
			out[i] = v
		}
	}

	return out
}

func rolling(values []float64, window int, reduce func([]float64) float64) []float64 {
	out := nanSlice(len(values))

	for i := window - 1; i < len(values); i++ {
		w := values[i-window+1 : i+1]
		if hasNaN(w) {
			continue
		}

		out[i] = reduce(w)
	}

	return out
}

func hasNaN(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}

	return false
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}

	return out
}
