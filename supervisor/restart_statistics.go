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

package supervisor

import (
	"slices"
	"sync"
	"time"
)

// RestartStatistics tracks the failures of one actor across its incarnations.
// It is owned by the failing actor and mutated by the strategy deciding on
// its failures.
type RestartStatistics struct {
	mu           sync.Mutex
	failureTimes []time.Time
}

// NewRestartStatistics creates an empty RestartStatistics
func NewRestartStatistics() *RestartStatistics {
	return &RestartStatistics{failureTimes: make([]time.Time, 0, 4)}
}

// FailureCount returns the number of failures recorded since the last reset
func (rs *RestartStatistics) FailureCount() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.failureTimes)
}

// LastFailureTime returns the time of the most recent failure, if any
func (rs *RestartStatistics) LastFailureTime() (time.Time, bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if len(rs.failureTimes) == 0 {
		return time.Time{}, false
	}
	return rs.failureTimes[len(rs.failureTimes)-1], true
}

// Fail records a failure happening now
func (rs *RestartStatistics) Fail() {
	rs.mu.Lock()
	rs.failureTimes = append(rs.failureTimes, time.Now())
	rs.mu.Unlock()
}

// Reset forgets every recorded failure
func (rs *RestartStatistics) Reset() {
	rs.mu.Lock()
	rs.failureTimes = rs.failureTimes[:0]
	rs.mu.Unlock()
}

// NumberOfFailures returns how many failures happened inside the last
// within duration. A non-positive window counts every recorded failure.
func (rs *RestartStatistics) NumberOfFailures(within time.Duration) int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.countLocked(within)
}

// RequestRestartPermission records a failure and reports whether the actor
// may be restarted.
//
// maxRetries == 0 always denies. A negative maxRetries always allows.
// Otherwise the failure is recorded and, when the failures inside the window
// exceed maxRetries, the statistics are reset and the restart is denied.
func (rs *RestartStatistics) RequestRestartPermission(maxRetries int, within time.Duration) bool {
	if maxRetries == 0 {
		return false
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()

	now := time.Now()
	if within > 0 {
		cutoff := now.Add(-within)
		rs.failureTimes = slices.DeleteFunc(rs.failureTimes, func(at time.Time) bool {
			return at.Before(cutoff)
		})
	}
	rs.failureTimes = append(rs.failureTimes, now)

	if maxRetries < 0 {
		return true
	}

	if rs.countLocked(within) > maxRetries {
		rs.failureTimes = rs.failureTimes[:0]
		return false
	}
	return true
}

func (rs *RestartStatistics) countLocked(within time.Duration) int {
	if within <= 0 {
		return len(rs.failureTimes)
	}
	cutoff := time.Now().Add(-within)
	count := 0
	for _, at := range rs.failureTimes {
		if !at.Before(cutoff) {
			count++
		}
	}
	return count
}
