package format

import (
	"fmt"
	"time"
)

// ExactDuration renders a duration at millisecond precision, for benchmark
// and timing output.
func ExactDuration(d time.Duration) string {
	if d < time.Second {
		if d.Milliseconds() == 1 {
			return fmt.Sprintf("%d millisecond", d.Milliseconds())
		}
		return fmt.Sprintf("%d milliseconds", d.Milliseconds())
	}
	return fmt.Sprintf("%.2f seconds", d.Seconds())
}
