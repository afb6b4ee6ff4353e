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

package actor

import (
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/tochemey/pactor/internal/timer"
	"github.com/tochemey/pactor/internal/xsync"
	"github.com/tochemey/pactor/supervisor"
)

// actorContextExtras holds the state leaf actors rarely need. It is created
// on first use and only touched by the goroutine draining the actor mailbox.
type actorContextExtras struct {
	children            *xsync.List[PID]
	watchers            mapset.Set[PID]
	stash               *unboundedQueue
	receiveTimeoutTimer *timer.Timer
	restartStats        *supervisor.RestartStatistics
	context             Context
}

func newActorContextExtras(context Context) *actorContextExtras {
	return &actorContextExtras{
		children:     xsync.NewList[PID](),
		watchers:     mapset.NewThreadUnsafeSet[PID](),
		stash:        newUnboundedQueue(),
		restartStats: supervisor.NewRestartStatistics(),
		context:      context,
	}
}

func (x *actorContextExtras) childrenPIDs() []*PID {
	items := x.children.Items()
	pids := make([]*PID, len(items))
	for i := range items {
		pids[i] = &items[i]
	}
	return pids
}

func (x *actorContextExtras) addChild(pid *PID) {
	x.children.Append(*pid)
}

func (x *actorContextExtras) removeChild(pid *PID) {
	x.children.Remove(*pid)
}

func (x *actorContextExtras) watch(watcher *PID) {
	x.watchers.Add(*watcher)
}

func (x *actorContextExtras) unwatch(watcher *PID) {
	x.watchers.Remove(*watcher)
}

func (x *actorContextExtras) watcherPIDs() []*PID {
	items := x.watchers.ToSlice()
	pids := make([]*PID, len(items))
	for i := range items {
		pids[i] = &items[i]
	}
	return pids
}

func (x *actorContextExtras) initReceiveTimeoutTimer(d time.Duration, onTimeout func()) {
	if x.receiveTimeoutTimer == nil {
		x.receiveTimeoutTimer = timer.New(d, onTimeout)
	}
	x.receiveTimeoutTimer.Reset(d)
}

func (x *actorContextExtras) receiveTimeoutRunning() bool {
	return x != nil && x.receiveTimeoutTimer != nil && x.receiveTimeoutTimer.State() == timer.StateRunning
}

func (x *actorContextExtras) resetReceiveTimeoutTimer(d time.Duration) {
	if x.receiveTimeoutTimer != nil {
		x.receiveTimeoutTimer.Reset(d)
	}
}

func (x *actorContextExtras) stopReceiveTimeoutTimer() {
	if x.receiveTimeoutTimer != nil {
		x.receiveTimeoutTimer.Stop()
	}
}

func (x *actorContextExtras) killReceiveTimeoutTimer() {
	if x.receiveTimeoutTimer != nil {
		x.receiveTimeoutTimer.Stop()
		x.receiveTimeoutTimer = nil
	}
}
