package record

// SumNumbers adds the record to acc when it is a number. Other records are ignored.
func SumNumbers(acc float64, r Record) float64 {
	if f, ok := r.Number(); ok {
		return acc + f
	}

	return acc
}

// ProductNumbers multiplies acc by the record when it is a number. Other records are ignored.
func ProductNumbers(acc float64, r Record) float64 {
	if f, ok := r.Number(); ok {
		return acc * f
	}

	return acc
}

// MaxNumber keeps the greatest number. Other records are ignored.
func MaxNumber(acc float64, r Record) float64 {
	if f, ok := r.Number(); ok {
		return max(acc, f)
	}

	return acc
}

// MinNumber keeps the smallest number. Other records are ignored.
func MinNumber(acc float64, r Record) float64 {
	if f, ok := r.Number(); ok {
		return min(acc, f)
	}

	return acc
}
