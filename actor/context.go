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

	"github.com/tochemey/pactor/future"
	"github.com/tochemey/pactor/log"
)

// Context is the view an actor has of itself while handling a message.
type Context interface {
	infoPart
	basePart
	messagePart
	senderPart
	receiverPart
	spawnerPart
	stopperPart
}

// SenderContext is the context handed to sender middleware.
type SenderContext interface {
	infoPart
	senderPart
	messagePart
}

// ReceiverContext is the context handed to receiver middleware.
type ReceiverContext interface {
	infoPart
	receiverPart
	messagePart
}

// SpawnerContext is the context a spawner creates children from.
type SpawnerContext interface {
	infoPart
	spawnerPart
}

type infoPart interface {
	// Parent returns the PID of the actor's parent, nil for root actors
	Parent() *PID
	// Self returns the PID of the actor
	Self() *PID
	// Actor returns the current incarnation
	Actor() Actor
	// ActorSystem returns the actor system the actor lives in
	ActorSystem() *ActorSystem
	// Logger returns the logger scoped to the actor
	Logger() log.Logger
}

type basePart interface {
	// ReceiveTimeout returns the current receive timeout, zero when none is set
	ReceiveTimeout() time.Duration
	// Children returns the PIDs of the actor's children
	Children() []*PID
	// Respond sends response to the sender of the current message.
	// Responding without a sender routes the response to dead letters.
	Respond(response any)
	// Stash keeps the current message aside. Stashed messages are replayed,
	// oldest first, when the actor restarts or when UnstashAll is called.
	Stash()
	// UnstashAll posts every stashed message back to the actor's mailbox
	UnstashAll()
	// Watch registers the actor to receive a *Terminated when pid stops
	Watch(pid *PID)
	// Unwatch removes a previous Watch
	Unwatch(pid *PID)
	// SetReceiveTimeout delivers a *ReceiveTimeout to the actor after d of inactivity.
	// It returns an error when d is not positive.
	SetReceiveTimeout(d time.Duration) error
	// CancelReceiveTimeout disarms the receive timeout
	CancelReceiveTimeout()
	// Forward sends the current message, unchanged, to pid
	Forward(pid *PID)
	// ReenterAfter runs continuation inside the actor, with the current message
	// restored, once f completes.
	ReenterAfter(f future.Awaitable, continuation func(result any, err error))
	// PipeTo sends the outcome of f to pid as a *future.Result
	PipeTo(pid *PID, f future.Awaitable)
}

type messagePart interface {
	// Message returns the message being processed, unwrapped from its envelope
	Message() any
	// MessageHeader returns the header of the message being processed
	MessageHeader() MessageHeader
}

type senderPart interface {
	// Sender returns the sender of the message being processed, nil when unknown
	Sender() *PID
	// Send sends message to pid without a sender
	Send(pid *PID, message any)
	// Request sends message to pid with the actor as the sender
	Request(pid *PID, message any)
	// RequestWithCustomSender sends message to pid with sender as the sender
	RequestWithCustomSender(pid *PID, message any, sender *PID)
	// RequestFuture sends message to pid and returns a Future completed by the
	// response. A non-positive timeout waits forever.
	RequestFuture(pid *PID, message any, timeout time.Duration, opts ...RequestOption) *Future
}

type receiverPart interface {
	Receive(envelope *MessageEnvelope)
}

type spawnerPart interface {
	// Spawn starts a new actor with a generated name
	Spawn(props *Props) (*PID, error)
	// SpawnPrefix starts a new actor whose name starts with prefix
	SpawnPrefix(props *Props, prefix string) (*PID, error)
	// SpawnNamed starts a new actor with the given name. It returns a
	// *NameExistsError when the name is taken.
	SpawnNamed(props *Props, name string) (*PID, error)
}

type stopperPart interface {
	// Stop stops pid immediately, ahead of its pending user messages
	Stop(pid *PID)
	// StopFuture stops pid and returns a Future completed once it has stopped
	StopFuture(pid *PID) *Future
	// Poison stops pid once it has processed the messages already queued
	Poison(pid *PID)
	// PoisonFuture poisons pid and returns a Future completed once it has stopped
	PoisonFuture(pid *PID) *Future
}
