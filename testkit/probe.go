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

package testkit

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tochemey/pactor/actor"
)

const (
	MessagesQueueMax int           = 1000
	DefaultTimeout   time.Duration = 3 * time.Second
	noMessageTimeout time.Duration = 100 * time.Millisecond
)

// Probe defines the probe interface that helps perform some assertions
// when implementing unit tests with actors
type Probe interface {
	// ExpectMessage asserts that the message received from the test actor is the expected one
	ExpectMessage(message any) any
	// ExpectMessageWithin asserts that the message received from the test actor is the expected one within a time duration
	ExpectMessageWithin(duration time.Duration, message any) any
	// ExpectNoMessage asserts that no message is expected
	ExpectNoMessage()
	// ExpectAnyMessage asserts that any message is expected
	ExpectAnyMessage() any
	// ExpectAnyMessageWithin asserts that any message within a time duration
	ExpectAnyMessageWithin(duration time.Duration) any
	// ExpectMessageOfType asserts the next message has the type of sample
	ExpectMessageOfType(sample any) any
	// ExpectMessageOfTypeWithin asserts the next message has the type of sample within a time duration
	ExpectMessageOfTypeWithin(duration time.Duration, sample any) any
	// ExpectTerminated asserts the next message is the termination of pid.
	// pid must have been watched with Watch.
	ExpectTerminated(pid *actor.PID)
	// Send sends a message to the actor to be tested with the probe as sender.
	Send(to *actor.PID, message any)
	// SendSync sends a message to the actor to be tested and queues its response.
	SendSync(to *actor.PID, message any, timeout time.Duration)
	// Watch watches pid on behalf of the probe
	Watch(pid *actor.PID)
	// Sender returns the sender of last received message.
	Sender() *actor.PID
	// PID returns the pid of the test actor
	PID() *actor.PID
	// Stop stops the test probe
	Stop()
}

type message struct {
	sender  *actor.PID
	payload any
}

type watchRequest struct {
	pid *actor.PID
}

type probeActor struct {
	messageQueue chan message
}

// ensure that probeActor implements the Actor interface
var _ actor.Actor = &probeActor{}

// Receive handle message received
func (x *probeActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case actor.AutoReceiveMessage:
		// lifecycle notifications are not asserted upon
	case *watchRequest:
		ctx.Watch(msg.pid)
		ctx.Respond(true)
	default:
		x.messageQueue <- message{
			sender:  ctx.Sender(),
			payload: msg,
		}
	}
}

// probe defines the test probe implementation
type probe struct {
	pt *testing.T

	system         *actor.ActorSystem
	pid            *actor.PID
	lastMessage    any
	lastSender     *actor.PID
	messageQueue   chan message
	defaultTimeout time.Duration
}

// ensure that probe implements Probe
var _ Probe = (*probe)(nil)

// newProbe creates an instance of probe
func newProbe(system *actor.ActorSystem, t *testing.T) (*probe, error) {
	msgQueue := make(chan message, MessagesQueueMax)
	props := actor.PropsFromProducer(func() actor.Actor {
		return &probeActor{messageQueue: msgQueue}
	})

	pid, err := system.Root().SpawnPrefix(props, "probe")
	if err != nil {
		return nil, err
	}

	return &probe{
		pt:             t,
		system:         system,
		pid:            pid,
		messageQueue:   msgQueue,
		defaultTimeout: DefaultTimeout,
	}, nil
}

// ExpectMessageOfType asserts the expectation of a given message type
func (x *probe) ExpectMessageOfType(sample any) any {
	return x.expectMessageOfType(x.defaultTimeout, reflect.TypeOf(sample))
}

// ExpectMessageOfTypeWithin asserts the expectation of a given message type within a time duration
func (x *probe) ExpectMessageOfTypeWithin(duration time.Duration, sample any) any {
	return x.expectMessageOfType(duration, reflect.TypeOf(sample))
}

// ExpectMessage assert message expectation
func (x *probe) ExpectMessage(message any) any {
	return x.expectMessage(x.defaultTimeout, message)
}

// ExpectMessageWithin expects message within a time duration
func (x *probe) ExpectMessageWithin(duration time.Duration, message any) any {
	return x.expectMessage(duration, message)
}

// ExpectNoMessage expects no message
func (x *probe) ExpectNoMessage() {
	received := x.receiveOne(noMessageTimeout)
	require.Nil(x.pt, received, fmt.Sprintf("received unexpected message %v", received))
}

// ExpectAnyMessage expects any message
func (x *probe) ExpectAnyMessage() any {
	return x.expectAnyMessage(x.defaultTimeout)
}

// ExpectAnyMessageWithin expects any message within a time duration
func (x *probe) ExpectAnyMessageWithin(duration time.Duration) any {
	return x.expectAnyMessage(duration)
}

// ExpectTerminated expects the termination of pid
func (x *probe) ExpectTerminated(pid *actor.PID) {
	received := x.expectMessageOfType(x.defaultTimeout, reflect.TypeOf(new(actor.Terminated)))
	who := received.(*actor.Terminated).Who
	require.True(x.pt, pid.Equals(who), fmt.Sprintf("expected termination of %s, found %s", pid, who))
}

// Send sends a message to the actor to be tested.
func (x *probe) Send(to *actor.PID, message any) {
	x.system.Root().RequestWithCustomSender(to, message, x.pid)
}

// SendSync sends a message to the actor to be tested and expect a response within a time duration.
func (x *probe) SendSync(to *actor.PID, msg any, timeout time.Duration) {
	received, err := x.system.Root().RequestFuture(to, msg, timeout).Result()
	require.NoError(x.pt, err)
	x.messageQueue <- message{
		sender:  to,
		payload: received,
	}
}

// Watch watches pid. Its termination is delivered to the probe as *actor.Terminated.
func (x *probe) Watch(pid *actor.PID) {
	_, err := x.system.Root().RequestFuture(x.pid, &watchRequest{pid: pid}, x.defaultTimeout).Result()
	require.NoError(x.pt, err)
}

// Sender returns the last sender
func (x *probe) Sender() *actor.PID {
	return x.lastSender
}

// PID returns the pid of the test actor
func (x *probe) PID() *actor.PID {
	return x.pid
}

// Stop stops the test probe
func (x *probe) Stop() {
	require.NoError(x.pt, x.system.Root().StopFuture(x.pid).Wait())
}

// receiveOne receives one message within a maximum time duration
func (x *probe) receiveOne(max time.Duration) any {
	timer := time.NewTimer(max)
	defer timer.Stop()

	select {
	case m, ok := <-x.messageQueue:
		if !ok {
			return nil
		}

		if m.payload != nil {
			x.lastMessage = m.payload
			x.lastSender = m.sender
		}
		return m.payload
	case <-timer.C:
		return nil
	}
}

// expectMessage assert the expectation of a message within a maximum time duration
func (x *probe) expectMessage(max time.Duration, message any) any {
	received := x.receiveOne(max)
	require.NotNil(x.pt, received, fmt.Sprintf("timeout (%v) during expectMessage while waiting for %v", max, message))
	require.Equal(x.pt, message, received, fmt.Sprintf("expected %v, found %v", message, received))
	return received
}

// expectedAnyMessage asserts that any message is expected
func (x *probe) expectAnyMessage(max time.Duration) any {
	received := x.receiveOne(max)
	require.NotNil(x.pt, received, fmt.Sprintf("timeout (%v) during expectAnyMessage while waiting", max))
	return received
}

// expectMessageOfType asserts that a message of a given type is expected within a maximum time duration
func (x *probe) expectMessageOfType(max time.Duration, messageType reflect.Type) any {
	received := x.receiveOne(max)
	require.NotNil(x.pt, received, fmt.Sprintf("timeout (%v) during expectMessageOfType while waiting", max))

	actualType := reflect.TypeOf(received)
	require.Equal(x.pt, messageType, actualType, fmt.Sprintf("expected %v, found %v", messageType, actualType))
	return received
}
