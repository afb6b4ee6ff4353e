// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package timer

import (
	"sync"
	"time"
)

// State represents the current state of a Timer
type State int

const (
	// StateStopped indicates the timer is stopped.
	StateStopped State = iota
	// StateRunning indicates the timer is currently running.
	StateRunning
	// StatePaused indicates the timer is paused and can be resumed.
	StatePaused
)

// Timer is a thread-safe, pausable, resettable timer that invokes a callback
// on its own goroutine when it expires.
//
// Every arm of the timer gets a generation number. An expiry whose generation
// no longer matches (because Stop, Reset or Pause ran concurrently) is
// discarded, so the callback only ever runs for the latest arm. The timer
// moves to StateStopped before the callback runs.
type Timer struct {
	mu         sync.Mutex
	timer      *time.Timer
	callback   func()
	duration   time.Duration
	expireAt   time.Time
	remain     time.Duration
	state      State
	generation uint64
}

// New creates a stopped Timer that calls fn after duration once started.
func New(duration time.Duration, fn func()) *Timer {
	return &Timer{
		duration: duration,
		callback: fn,
		state:    StateStopped,
	}
}

// Start starts the timer if it is currently stopped.
// Returns true if the timer was successfully started, false otherwise
func (t *Timer) Start() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateStopped {
		return false
	}
	t.armLocked(t.duration)
	return true
}

// Stop stops the timer if it is running or paused.
// Returns true if the timer was successfully stopped, false if it was already stopped.
func (t *Timer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateStopped {
		return false
	}
	t.disarmLocked()
	t.state = StateStopped
	t.remain = 0
	return true
}

// Reset stops the current timer (if running or paused) and starts it again with a new duration.
func (t *Timer) Reset(duration time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.duration = duration
	t.armLocked(duration)
}

// Pause stops the timer temporarily, preserving the remaining duration.
// The timer can later be resumed using Resume().
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateRunning {
		return
	}
	t.disarmLocked()
	t.remain = max(time.Until(t.expireAt), 0)
	t.state = StatePaused
}

// Resume resumes a previously paused timer from where it left off.
// Does nothing if the timer is not currently paused.
func (t *Timer) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StatePaused {
		return
	}
	t.armLocked(t.remain)
}

// State returns the current state of the timer (Running, Paused, or Stopped).
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Duration returns the duration used by the last Start or Reset.
func (t *Timer) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.duration
}

// armLocked assumes the caller already holds the mutex lock.
func (t *Timer) armLocked(d time.Duration) {
	t.disarmLocked()
	t.generation++
	generation := t.generation
	t.expireAt = time.Now().Add(d)
	t.state = StateRunning
	t.timer = time.AfterFunc(d, func() { t.fire(generation) })
}

func (t *Timer) disarmLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.generation++
}

func (t *Timer) fire(generation uint64) {
	t.mu.Lock()
	if t.generation != generation || t.state != StateRunning {
		t.mu.Unlock()
		return
	}
	t.timer = nil
	t.state = StateStopped
	callback := t.callback
	t.mu.Unlock()

	if callback != nil {
		callback()
	}
}
