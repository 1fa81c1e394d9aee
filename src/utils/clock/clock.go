// Package clock supplies the current time used for deadline checks.
// Time is expressed in unix seconds and never goes backwards.
package clock

import (
	"sync"
	"time"

	"go.uber.org/atomic"
)

type Clock interface {
	// Current unix time in seconds
	Now() int64
}

// Wall clock that never reports a value lower than one it already returned
type System struct {
	last atomic.Int64
}

func NewSystem() *System {
	return new(System)
}

func (self *System) Now() int64 {
	now := time.Now().Unix()
	for {
		last := self.last.Load()
		if now <= last {
			return last
		}
		if self.last.CompareAndSwap(last, now) {
			return now
		}
	}
}

// Clock moved by hand, used in tests and replays
type Manual struct {
	mtx sync.Mutex
	now int64
}

func NewManual(now int64) *Manual {
	return &Manual{now: now}
}

func (self *Manual) Now() int64 {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	return self.now
}

// Sets the time. Values in the past are ignored.
func (self *Manual) Set(now int64) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	if now > self.now {
		self.now = now
	}
}

func (self *Manual) Advance(d int64) {
	self.Set(self.Now() + d)
}
