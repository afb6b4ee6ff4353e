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
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/tochemey/pactor/log"
)

const (
	receivingTimeout = 2 * time.Second
	noMessageWindow  = 100 * time.Millisecond
)

var errBoom = errors.New("boom")

type testMessage struct {
	value int
}

type ping struct{}

type pong struct{}

type failMessage struct{}

// newTestSystem returns a started actor system shut down at the end of the test.
func newTestSystem(t *testing.T, opts ...Option) *ActorSystem {
	t.Helper()
	opts = append([]Option{WithLogger(log.DiscardLogger)}, opts...)
	system, err := NewActorSystem("test", opts...)
	require.NoError(t, err)
	require.NoError(t, system.Start(context.Background()))
	t.Cleanup(func() {
		_ = system.Shutdown(context.Background())
	})
	return system
}

// recorder collects the messages an actor receives.
type recorder struct {
	messages chan any
}

func newRecorder() *recorder {
	return &recorder{messages: make(chan any, 256)}
}

func (r *recorder) receive(ctx Context) {
	r.messages <- ctx.Message()
}

func (r *recorder) props(opts ...PropsOption) *Props {
	return PropsFromFunc(r.receive, opts...)
}

// expect returns the next message that is not a lifecycle notification.
func (r *recorder) expect(t *testing.T) any {
	t.Helper()
	for {
		select {
		case message := <-r.messages:
			if _, ok := message.(AutoReceiveMessage); ok {
				continue
			}
			return message
		case <-time.After(receivingTimeout):
			require.FailNow(t, "timed out waiting for a message")
			return nil
		}
	}
}

// expectRaw returns the next message, lifecycle notifications included.
func (r *recorder) expectRaw(t *testing.T) any {
	t.Helper()
	select {
	case message := <-r.messages:
		return message
	case <-time.After(receivingTimeout):
		require.FailNow(t, "timed out waiting for a message")
		return nil
	}
}

func (r *recorder) expectNone(t *testing.T) {
	t.Helper()
	for {
		select {
		case message := <-r.messages:
			if _, ok := message.(AutoReceiveMessage); ok {
				continue
			}
			require.FailNowf(t, "unexpected message", "%T %v", message, message)
		case <-time.After(noMessageWindow):
			return
		}
	}
}

// lifecycleActor records its incarnations and the messages it handles.
type lifecycleActor struct {
	incarnations *atomic.Int32
	events       chan any
}

func (a *lifecycleActor) Receive(ctx Context) {
	switch ctx.Message().(type) {
	case *Started:
		a.incarnations.Inc()
	case *failMessage:
		panic(errBoom)
	}
	a.events <- ctx.Message()
}

func lifecycleProps(incarnations *atomic.Int32, events chan any, opts ...PropsOption) *Props {
	return PropsFromProducer(func() Actor {
		return &lifecycleActor{incarnations: incarnations, events: events}
	}, opts...)
}

// fakeInvoker records what a mailbox hands over.
type fakeInvoker struct {
	mu          sync.Mutex
	user        []any
	system      []SystemMessage
	failures    []error
	panicOn     any
	concurrent  *atomic.Int32
	maxParallel *atomic.Int32
}

func newFakeInvoker() *fakeInvoker {
	return &fakeInvoker{
		concurrent:  atomic.NewInt32(0),
		maxParallel: atomic.NewInt32(0),
	}
}

func (f *fakeInvoker) InvokeSystemMessage(message SystemMessage) {
	f.mu.Lock()
	f.system = append(f.system, message)
	f.mu.Unlock()
}

func (f *fakeInvoker) InvokeUserMessage(message any) {
	current := f.concurrent.Inc()
	defer f.concurrent.Dec()
	for {
		observed := f.maxParallel.Load()
		if current <= observed || f.maxParallel.CompareAndSwap(observed, current) {
			break
		}
	}

	if f.panicOn != nil && message == f.panicOn {
		panic(errBoom)
	}

	f.mu.Lock()
	f.user = append(f.user, message)
	f.mu.Unlock()
}

func (f *fakeInvoker) EscalateFailure(reason error, _ any) {
	f.mu.Lock()
	f.failures = append(f.failures, reason)
	f.mu.Unlock()
}

func (f *fakeInvoker) userMessages() []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]any(nil), f.user...)
}

func (f *fakeInvoker) systemMessages() []SystemMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]SystemMessage(nil), f.system...)
}

func (f *fakeInvoker) failureReasons() []error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]error(nil), f.failures...)
}

// receiveFrom returns the next value of ch, failing the test after receivingTimeout.
func receiveFrom[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case value := <-ch:
		return value
	case <-time.After(receivingTimeout):
		require.FailNow(t, "timed out waiting on channel")
		var zero T
		return zero
	}
}

// stallingProps describes an actor that holds its stop sequence on
// *Stopping until release is closed. stopping is signaled once it holds.
func stallingProps(stopping chan<- struct{}, release <-chan struct{}) *Props {
	return PropsFromFunc(func(ctx Context) {
		if _, ok := ctx.Message().(*Stopping); ok {
			stopping <- struct{}{}
			<-release
		}
	})
}

// newRelease returns a release channel for stallingProps and its idempotent
// closer, which also runs at cleanup so a failing test never leaves an actor
// stuck.
func newRelease(t *testing.T) (chan struct{}, func()) {
	release := make(chan struct{})
	closer := sync.OnceFunc(func() { close(release) })
	t.Cleanup(closer)
	return release, closer
}
