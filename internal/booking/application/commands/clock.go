package commands

import "time"

// NowFunc supplies the current time. Handlers receive it explicitly so
// time-dependent validation stays deterministic in tests; passing nil
// falls back to time.Now.
type NowFunc func() time.Time

func orSystemClock(now NowFunc) NowFunc {
	if now == nil {
		return time.Now
	}
	return now
}
