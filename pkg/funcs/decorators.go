package funcs

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var ErrNotPositive = errors.New("all inputs must be positive")

// Logged wraps fn so that every call logs its argument and its result at debug level.
func Logged[A, R any](logger zerolog.Logger, name string, fn func(A) R) func(A) R {
	return func(arg A) R {
		logger.Debug().Str("func", name).Interface("arg", arg).Msg("calling")
		res := fn(arg)
		logger.Debug().Str("func", name).Interface("result", res).Msg("returned")

		return res
	}
}

// Timed wraps fn so that the duration of every call is given to report.
func Timed[A, R any](name string, report func(name string, elapsed time.Duration), fn func(A) R) func(A) R {
	return func(arg A) R {
		start := time.Now()
		res := fn(arg)
		report(name, time.Since(start))

		return res
	}
}

// LogDuration returns a report function for Timed logging at info level.
func LogDuration(logger zerolog.Logger) func(name string, elapsed time.Duration) {
	return func(name string, elapsed time.Duration) {
		logger.Info().Str("func", name).Dur("elapsed", elapsed).Msg("executed")
	}
}

// ValidatePositive wraps fn so that it fails with ErrNotPositive when any argument is
// negative.
func ValidatePositive[N Number, R any](fn func(args ...N) R) func(args ...N) (R, error) {
	return func(args ...N) (R, error) {
		for i, arg := range args {
			if arg < 0 {
				var zero R
				return zero, errors.Wrapf(ErrNotPositive, "argument %d is %v", i, arg)
			}
		}

		return fn(args...), nil
	}
}
