// Package retry runs actions repeatedly until they succeed or a Strategy
// gives up.
package retry

// Action is a function to be performed in a retriable manner.
type Action func() error

// Retry runs action until it succeeds or a strategy declines another attempt.
// It returns the number of attempts made along with the last error.
//
// Strategies run in order and the first to decline stops the rest, so
// strategies that sleep belong at the end.
func Retry(action Action, strategies ...Strategy) (attempts uint, err error) {
	for {
		attempts++
		if err = action(); err == nil {
			return attempts, nil
		}
		if !shouldRetry(strategies, attempts, err) {
			return attempts, err
		}
	}
}

func shouldRetry(strategies []Strategy, attempts uint, err error) bool {
	for _, s := range strategies {
		if !s(attempts, err) {
			return false
		}
	}
	return true
}
