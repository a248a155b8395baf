package transform

import "golang.org/x/time/rate"

// Progress receives chunk-boundary updates: rows processed so far and the
// table row count. The final update always reports done == total.
type Progress func(done, total int)

// Throttle caps progress delivery at the given rate so a tight chunk loop
// does not flood a display. The final update is always delivered.
func Throttle(p Progress, limit rate.Limit) Progress {
	lim := rate.NewLimiter(limit, 1)
	return func(done, total int) {
		if done >= total || lim.Allow() {
			p(done, total)
		}
	}
}
