package widget

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const tickInterval = time.Second

// Remaining is one frame of a countdown. Hours are not folded into days.
type Remaining struct {
	Hours     int  `json:"hours"`
	Minutes   int  `json:"minutes"`
	Seconds   int  `json:"seconds"`
	Completed bool `json:"completed"`
}

// RemainingUntil rounds partial seconds up so the display never shows zero
// before the end is reached.
func RemainingUntil(now, end time.Time) Remaining {
	d := end.Sub(now)
	if d <= 0 {
		return Remaining{Completed: true}
	}

	total := int((d + time.Second - 1) / time.Second)

	return Remaining{
		Hours:   total / 3600,
		Minutes: total % 3600 / 60,
		Seconds: total % 60,
	}
}

func (r Remaining) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", r.Hours, r.Minutes, r.Seconds)
}

// Countdown drives a ticking display towards end. render is called right
// away and then periodically until a frame with Completed set has been
// delivered or stop is called. No render is running once stop returns, so
// render must not call stop.
type Countdown interface {
	Start(end time.Time, render func(Remaining)) (stop func())
}

type ClockCountdown struct {
	clock    clockwork.Clock
	interval time.Duration
}

func NewClockCountdown(clock clockwork.Clock) *ClockCountdown {
	return &ClockCountdown{
		clock:    clock,
		interval: tickInterval,
	}
}

func (c *ClockCountdown) Start(end time.Time, render func(Remaining)) func() {
	first := RemainingUntil(c.clock.Now(), end)
	render(first)
	if first.Completed {
		return func() {}
	}

	ticker := c.clock.NewTicker(c.interval)
	done := make(chan struct{})
	exited := make(chan struct{})
	var once sync.Once

	go func() {
		defer close(exited)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.Chan():
				r := RemainingUntil(c.clock.Now(), end)
				render(r)
				if r.Completed {
					return
				}
			case <-done:
				return
			}
		}
	}()

	return func() {
		once.Do(func() { close(done) })
		<-exited
	}
}
