package health

import (
	"context"
	"runtime"

	"github.com/go-faster/errors"
)

// GoroutineCountCheck fails once the process holds more goroutines than
// threshold, a cheap proxy for leaked request handlers.
func GoroutineCountCheck(threshold int) CheckFunc {
	return func(context.Context) error {
		if n := runtime.NumGoroutine(); n > threshold {
			return errors.Errorf("%d goroutines running, threshold is %d", n, threshold)
		}
		return nil
	}
}
