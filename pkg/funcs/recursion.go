package funcs

import (
	"github.com/pkg/errors"
)

var ErrNegative = errors.New("negative input")

// Factorial computes n! recursively.
func Factorial(n int) (int, error) {
	if n < 0 {
		return 0, errors.Wrapf(ErrNegative, "factorial of %d", n)
	}
	if n == 0 {
		return 1, nil
	}

	sub, err := Factorial(n - 1)
	if err != nil {
		return 0, err
	}

	return n * sub, nil
}

// FactorialIterative computes n! with a loop.
func FactorialIterative(n int) (int, error) {
	if n < 0 {
		return 0, errors.Wrapf(ErrNegative, "factorial of %d", n)
	}

	result := 1
	for i := 2; i <= n; i++ {
		result *= i
	}

	return result, nil
}

// Fibonacci returns the nth Fibonacci number with the naive recursion. See memo.Fibonacci for
// the memoised version.
func Fibonacci(n int) int {
	if n <= 1 {
		return n
	}

	return Fibonacci(n-1) + Fibonacci(n-2)
}

// SumList adds the elements of data recursively.
func SumList[N Number](data []N) N {
	if len(data) == 0 {
		return 0
	}

	return data[0] + SumList(data[1:])
}
