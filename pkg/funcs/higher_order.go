package funcs

// Number is the set of types arithmetic helpers work on.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// Compose returns a function applying fns in order.
func Compose[T any](fns ...func(T) T) func(T) T {
	return func(in T) T {
		for _, fn := range fns {
			in = fn(in)
		}

		return in
	}
}

// ApplyAll applies fns in order to every element of data and returns the results. data is
// not modified.
func ApplyAll[T any](data []T, fns ...func(T) T) []T {
	fn := Compose(fns...)
	out := make([]T, len(data))
	for i, v := range data {
		out[i] = fn(v)
	}

	return out
}

// Multiplier returns a closure multiplying its argument by factor.
func Multiplier[N Number](factor N) func(N) N {
	return func(x N) N {
		return x * factor
	}
}

// Counter returns a closure returning 1, 2, 3... on successive calls.
func Counter() func() int {
	count := 0

	return func() int {
		count++
		return count
	}
}

// SumOf adds any number of values.
func SumOf[N Number](values ...N) N {
	var total N
	for _, v := range values {
		total += v
	}

	return total
}

// MeanOf returns the mean of values. ok is false when no value is given.
func MeanOf[N Number](values ...N) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}

	return float64(SumOf(values...)) / float64(len(values)), true
}
