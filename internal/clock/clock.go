// Copyright 2014 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package clock provides the benchmark's notion of "now" and a
// fractional-seconds scalar used throughout the run engine.
package clock

import (
	"fmt"
	"math"
	"time"
)

// Seconds is a fractional-seconds scalar with total ordering. NaN is
// never produced by this package; callers must not construct one.
type Seconds float64

// FromDuration converts a time.Duration to Seconds.
func FromDuration(d time.Duration) Seconds {
	return Seconds(d.Seconds())
}

// Duration converts Seconds back to a time.Duration.
func (s Seconds) Duration() time.Duration {
	return time.Duration(float64(s) * float64(time.Second))
}

// Less reports whether s sorts before o. NaN is disallowed, so this is a
// total order.
func (s Seconds) Less(o Seconds) bool {
	return float64(s) < float64(o)
}

func (s Seconds) String() string {
	return fmt.Sprintf("%.6f", float64(s))
}

// IsFinite reports whether s is neither NaN nor infinite.
func (s Seconds) IsFinite() bool {
	f := float64(s)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Clock is the benchmark's source of monotonic time, abstracted so tests
// can substitute a fake.
type Clock interface {
	// Now returns the current instant, measured from an arbitrary but
	// fixed epoch (time.Now() in the real implementation).
	Now() time.Time
	// SleepUntil blocks until the given instant, or returns immediately
	// if it has already passed. It never busy-waits.
	SleepUntil(t time.Time)
}

// System is the production Clock, backed by the standard library's
// monotonic clock.
type System struct{}

var _ Clock = System{}

func (System) Now() time.Time { return time.Now() }

func (System) SleepUntil(t time.Time) {
	if d := time.Until(t); d > 0 {
		time.Sleep(d)
	}
}

// Bench tracks the instant a benchmark run began, so that Worker and
// Runner code can convert absolute instants to the Seconds-since-start
// values that appear in Request.start_time and RequestResult.end_time.
type Bench struct {
	clock Clock
	start time.Time
}

// NewBench records bench_start = clock.Now() and returns a Bench handle.
func NewBench(clock Clock) *Bench {
	return &Bench{clock: clock, start: clock.Now()}
}

// Elapsed returns Seconds elapsed since bench start.
func (b *Bench) Elapsed() Seconds {
	return FromDuration(b.clock.Now().Sub(b.start))
}

// Deadline converts a start_time (Seconds since bench start) into an
// absolute instant suitable for Clock.SleepUntil.
func (b *Bench) Deadline(startTime Seconds) time.Time {
	return b.start.Add(startTime.Duration())
}

// SleepUntil parks the calling goroutine until bench_start + startTime.
func (b *Bench) SleepUntil(startTime Seconds) {
	b.clock.SleepUntil(b.Deadline(startTime))
}
