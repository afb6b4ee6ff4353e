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
	"maps"
	"slices"
	"time"

	gerrors "github.com/tochemey/pactor/errors"
	"github.com/tochemey/pactor/log"
)

// RootContext lets code running outside of any actor spawn actors and talk to
// them. It is immutable: the With methods return a modified copy.
type RootContext struct {
	system           *ActorSystem
	senderMiddleware []SenderMiddleware
	senderChain      SenderFunc
	headers          map[string]string
	guardianStrategy SupervisorStrategy
}

var (
	_ SenderContext  = (*RootContext)(nil)
	_ SpawnerContext = (*RootContext)(nil)
	_ stopperPart    = (*RootContext)(nil)
)

// NewRootContext creates a RootContext sending with headers.
func NewRootContext(system *ActorSystem, headers map[string]string, middleware ...SenderMiddleware) *RootContext {
	return &RootContext{
		system:           system,
		senderMiddleware: middleware,
		senderChain:      makeSenderMiddlewareChain(middleware, sendEnvelope),
		headers:          maps.Clone(headers),
	}
}

func (rc *RootContext) copy() *RootContext {
	clone := *rc
	clone.senderMiddleware = slices.Clone(rc.senderMiddleware)
	clone.headers = maps.Clone(rc.headers)
	return &clone
}

// WithHeaders returns a copy of the context attaching headers to every message it sends.
func (rc *RootContext) WithHeaders(headers map[string]string) *RootContext {
	clone := rc.copy()
	clone.headers = maps.Clone(headers)
	return clone
}

// WithSenderMiddleware returns a copy of the context sending through middleware.
func (rc *RootContext) WithSenderMiddleware(middleware ...SenderMiddleware) *RootContext {
	clone := rc.copy()
	clone.senderMiddleware = append(clone.senderMiddleware, middleware...)
	clone.senderChain = makeSenderMiddlewareChain(clone.senderMiddleware, sendEnvelope)
	return clone
}

// WithGuardian returns a copy of the context whose spawns are supervised by
// a guardian running strategy.
func (rc *RootContext) WithGuardian(strategy SupervisorStrategy) *RootContext {
	clone := rc.copy()
	clone.guardianStrategy = strategy
	return clone
}

func (rc *RootContext) ActorSystem() *ActorSystem {
	return rc.system
}

// Parent is always nil.
func (rc *RootContext) Parent() *PID {
	return nil
}

// Self returns the PID of the guardian when one is set, nil otherwise.
func (rc *RootContext) Self() *PID {
	if rc.guardianStrategy == nil {
		return nil
	}

	if guardian := rc.system.guardians.guardianFor(rc.guardianStrategy); guardian != nil {
		return guardian.pid
	}
	return nil
}

// Actor is always nil.
func (rc *RootContext) Actor() Actor {
	return nil
}

func (rc *RootContext) Logger() log.Logger {
	return rc.system.logger
}

// Message is always nil.
func (rc *RootContext) Message() any {
	return nil
}

func (rc *RootContext) MessageHeader() MessageHeader {
	return NewMessageHeader(rc.headers)
}

// Sender is always nil.
func (rc *RootContext) Sender() *PID {
	return nil
}

func (rc *RootContext) Send(pid *PID, message any) {
	rc.sendUserMessage(pid, message)
}

func (rc *RootContext) Request(pid *PID, message any) {
	rc.sendUserMessage(pid, message)
}

func (rc *RootContext) RequestWithCustomSender(pid *PID, message any, sender *PID) {
	rc.sendUserMessage(pid, &MessageEnvelope{
		Header:  EmptyMessageHeader,
		Message: message,
		Sender:  sender,
	})
}

func (rc *RootContext) RequestFuture(pid *PID, message any, timeout time.Duration, opts ...RequestOption) *Future {
	f := NewFuture(rc.system, timeout, opts...)
	rc.sendUserMessage(pid, &MessageEnvelope{
		Header:  EmptyMessageHeader,
		Message: message,
		Sender:  f.PID(),
	})
	return f
}

func (rc *RootContext) sendUserMessage(pid *PID, message any) {
	if len(rc.headers) > 0 {
		envelope := WrapEnvelope(message)
		message = &MessageEnvelope{
			Header:  NewMessageHeader(rc.headers),
			Message: envelope.Message,
			Sender:  envelope.Sender,
		}
	}

	if rc.senderChain != nil {
		rc.senderChain(rc, pid, WrapEnvelope(message))
		return
	}
	rc.system.sendUserMessage(pid, message)
}

func (rc *RootContext) Spawn(props *Props) (*PID, error) {
	return rc.SpawnNamed(props, rc.system.registry.NextID())
}

func (rc *RootContext) SpawnPrefix(props *Props, prefix string) (*PID, error) {
	return rc.SpawnNamed(props, prefix+rc.system.registry.NextID())
}

// SpawnNamed starts a root actor named name. Actors whose Props carry a
// guardian strategy are supervised by that guardian, the others by the system
// default strategy.
func (rc *RootContext) SpawnNamed(props *Props, name string) (*PID, error) {
	parent := rc
	if props.guardianStrategy != nil {
		parent = rc.WithGuardian(props.guardianStrategy)
	}

	if parent.guardianStrategy == nil {
		return props.spawn(rc.system, name, parent)
	}

	// the guardian tracks the child before it starts so an early failure finds it
	guardian := rc.system.guardians.guardianFor(parent.guardianStrategy)
	if guardian == nil {
		return nil, gerrors.NewErrInvalidStrategy(errIncomparableGuardian)
	}

	child := NewPID(rc.system.registry.Address(), name)
	added := guardian.addChild(child)

	pid, err := props.spawn(rc.system, name, parent)
	if err != nil && added {
		guardian.removeChild(child)
	}
	return pid, err
}

func (rc *RootContext) Stop(pid *PID) {
	rc.system.stop(pid)
}

func (rc *RootContext) StopFuture(pid *PID) *Future {
	return rc.system.stopFuture(pid)
}

func (rc *RootContext) Poison(pid *PID) {
	rc.system.poison(pid)
}

func (rc *RootContext) PoisonFuture(pid *PID) *Future {
	return rc.system.poisonFuture(pid)
}
