package countdown

import "time"

// Clock abstracts wall-clock reads so scheduler behavior can be tested
// deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock is the default Clock backed by the standard library.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}
