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
	"reflect"

	"github.com/tochemey/pactor/internal/xsync"
)

const guardianPrefix = "guardian"

// guardians holds one guardian process per distinct guardian strategy.
type guardians struct {
	system    *ActorSystem
	processes *xsync.Map[SupervisorStrategy, *guardianProcess]
}

func newGuardians(system *ActorSystem) *guardians {
	return &guardians{
		system:    system,
		processes: xsync.NewMap[SupervisorStrategy, *guardianProcess](),
	}
}

// guardianFor returns the guardian running strategy, creating it on first use.
// Guardians are keyed by strategy value: a strategy whose value is not
// comparable has no guardian and nil is returned.
func (g *guardians) guardianFor(strategy SupervisorStrategy) *guardianProcess {
	if !isComparableStrategy(strategy) {
		return nil
	}

	process, _ := g.processes.GetOrSet(strategy, func() *guardianProcess {
		return newGuardianProcess(g.system, strategy)
	})
	return process
}

func isComparableStrategy(strategy SupervisorStrategy) bool {
	return strategy == nil || reflect.ValueOf(strategy).Comparable()
}

// guardianProcess supervises root actors spawned with a guardian strategy.
// It is a process but not an actor: failures are handled inline on the
// goroutine of the failing actor.
type guardianProcess struct {
	system   *ActorSystem
	pid      *PID
	strategy SupervisorStrategy
	children *xsync.List[PID]
}

var (
	_ Process    = (*guardianProcess)(nil)
	_ Supervisor = (*guardianProcess)(nil)
)

func newGuardianProcess(system *ActorSystem, strategy SupervisorStrategy) *guardianProcess {
	guardian := &guardianProcess{
		system:   system,
		strategy: strategy,
		children: xsync.NewList[PID](),
	}
	pid, ok := system.registry.Add(guardian, guardianPrefix+system.registry.NextID())
	if !ok {
		system.logger.Errorf("guardian %s is already registered", pid)
	}
	guardian.pid = pid
	return guardian
}

func (g *guardianProcess) SendUserMessage(pid *PID, message any) {
	g.system.logger.Errorf("guardian %s cannot receive user message %T", pid, UnwrapEnvelopeMessage(message))
}

func (g *guardianProcess) SendSystemMessage(_ *PID, message SystemMessage) {
	switch msg := message.(type) {
	case *Failure:
		g.strategy.HandleFailure(g.system, g, msg.Who, msg.RestartStats, msg.Reason, msg.Message)
	case *Terminated:
		g.removeChild(msg.Who)
	}
}

func (g *guardianProcess) Stop(_ *PID) {}

func (g *guardianProcess) addChild(pid *PID) bool {
	return g.children.Append(*pid)
}

func (g *guardianProcess) removeChild(pid *PID) {
	g.children.Remove(*pid)
}

// Children returns the live root actors the guardian supervises.
func (g *guardianProcess) Children() []*PID {
	items := g.children.Items()
	pids := make([]*PID, len(items))
	for i := range items {
		pids[i] = &items[i]
	}
	return pids
}

func (g *guardianProcess) EscalateFailure(reason error, _ any) {
	g.system.logger.Errorf("guardian %s cannot escalate %v", g.pid, reason)
}

func (g *guardianProcess) RestartChildren(reason error, pids ...*PID) {
	for _, pid := range pids {
		g.system.sendSystemMessage(pid, &Restart{Reason: reason})
	}
}

func (g *guardianProcess) StopChildren(pids ...*PID) {
	for _, pid := range pids {
		g.system.sendSystemMessage(pid, stopMessage)
	}
}

func (g *guardianProcess) ResumeChildren(pids ...*PID) {
	for _, pid := range pids {
		g.system.sendSystemMessage(pid, resumeMailboxMessage)
	}
}
