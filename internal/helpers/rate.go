package helpers

import (
	"time"

	"golang.org/x/time/rate"
)

// OnceAMinute throttles repetitive warnings, such as a missing API key hit on every request.
var OnceAMinute = onceAMinute()

func onceAMinute() *rate.Sometimes {
	return &rate.Sometimes{
		Interval: time.Minute,
	}
}
