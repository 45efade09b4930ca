// Package cadence provides a cancellable repeating tick task.
package cadence

import (
	"sync"
	"time"
)

// Cadence delivers ticks at a fixed interval until stopped. Once Stop
// returns, the owner can drop its reference and never observe another
// tick by no longer selecting on C.
type Cadence struct {
	ticker *time.Ticker
	c      chan time.Time
	stop   chan struct{}
	once   sync.Once
}

func Start(interval time.Duration) *Cadence {
	c := &Cadence{
		ticker: time.NewTicker(interval),
		c:      make(chan time.Time, 1),
		stop:   make(chan struct{}),
	}
	go c.run()
	return c
}

func (c *Cadence) run() {
	defer c.ticker.Stop()
	for {
		select {
		case t := <-c.ticker.C:
			select {
			case c.c <- t:
			default:
			}
		case <-c.stop:
			return
		}
	}
}

// C returns the tick channel.
func (c *Cadence) C() <-chan time.Time {
	return c.c
}

// Stop cancels the cadence. Safe to call more than once.
func (c *Cadence) Stop() {
	c.once.Do(func() {
		close(c.stop)
	})
}
