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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/pactor/errors"
	"github.com/tochemey/pactor/future"
	"github.com/tochemey/pactor/internal/pause"
)

type preStartActor struct {
	attempts *atomic.Int32
	failures int32
}

func (a *preStartActor) PreStart(Context) error {
	if a.attempts.Inc() <= a.failures {
		return errBoom
	}
	return nil
}

func (a *preStartActor) Receive(Context) {}

type closingActor struct {
	closed chan struct{}
}

func (a *closingActor) Receive(Context) {}

func (a *closingActor) Close() error {
	close(a.closed)
	return nil
}

func echo(ctx Context) {
	switch ctx.Message().(type) {
	case *ping:
		ctx.Respond(new(pong))
	}
}

func TestSpawn(t *testing.T) {
	t.Run("With Started as first message", func(t *testing.T) {
		system := newTestSystem(t)
		rec := newRecorder()
		pid, err := system.Root().Spawn(rec.props())
		require.NoError(t, err)
		require.NotNil(t, pid)

		assert.IsType(t, new(Started), rec.expectRaw(t))
		assert.Equal(t, byte('$'), pid.ID()[0])
	})
	t.Run("With prefixed and named spawns", func(t *testing.T) {
		system := newTestSystem(t)
		pid, err := system.Root().SpawnPrefix(PropsFromFunc(echo), "worker")
		require.NoError(t, err)
		assert.Contains(t, pid.ID(), "worker$")

		pid, err = system.Root().SpawnNamed(PropsFromFunc(echo), "echo")
		require.NoError(t, err)
		assert.Equal(t, "echo", pid.ID())
	})
	t.Run("With a name already taken", func(t *testing.T) {
		system := newTestSystem(t)
		pid, err := system.Root().SpawnNamed(PropsFromFunc(echo), "echo")
		require.NoError(t, err)

		again, err := system.Root().SpawnNamed(PropsFromFunc(echo), "echo")
		require.Error(t, err)
		assert.ErrorIs(t, err, gerrors.ErrNameExists)
		var nameErr *NameExistsError
		require.True(t, errors.As(err, &nameErr))
		assert.True(t, pid.Equals(nameErr.PID))
		assert.True(t, pid.Equals(again))
	})
	t.Run("With invalid props", func(t *testing.T) {
		system := newTestSystem(t)
		pid, err := system.Root().Spawn(PropsFromProducer(nil))
		require.Error(t, err)
		assert.ErrorIs(t, err, gerrors.ErrInvalidProps)
		assert.Nil(t, pid)
	})
	t.Run("With PreStart retried", func(t *testing.T) {
		system := newTestSystem(t)
		attempts := atomic.NewInt32(0)
		props := PropsFromProducer(func() Actor {
			return &preStartActor{attempts: attempts, failures: 2}
		}, WithPreStartRetry(2, 5*time.Millisecond))

		pid, err := system.Root().Spawn(props)
		require.NoError(t, err)
		require.NotNil(t, pid)
		assert.EqualValues(t, 3, attempts.Load())
	})
	t.Run("With PreStart failing", func(t *testing.T) {
		system := newTestSystem(t)
		attempts := atomic.NewInt32(0)
		props := PropsFromProducer(func() Actor {
			return &preStartActor{attempts: attempts, failures: 10}
		}, WithPreStartRetry(1, 0))

		pid, err := system.Root().SpawnNamed(props, "failing")
		require.Error(t, err)
		assert.Nil(t, pid)
		assert.ErrorIs(t, err, gerrors.ErrInitFailure)
		assert.ErrorIs(t, err, errBoom)
		var spawnErr *gerrors.SpawnError
		assert.True(t, errors.As(err, &spawnErr))
		assert.EqualValues(t, 2, attempts.Load())

		_, ok := system.ProcessRegistry().GetLocal("failing")
		assert.False(t, ok)
	})
	t.Run("With OnInit before Started", func(t *testing.T) {
		system := newTestSystem(t)
		rec := newRecorder()
		initialized := make(chan *PID, 1)
		pid, err := system.Root().Spawn(rec.props(WithOnInit(func(ctx Context) {
			initialized <- ctx.Self()
		})))
		require.NoError(t, err)

		assert.True(t, pid.Equals(<-initialized))
		assert.IsType(t, new(Started), rec.expectRaw(t))
	})
	t.Run("With a custom spawn function", func(t *testing.T) {
		system := newTestSystem(t)
		spawned := atomic.NewInt32(0)
		props := PropsFromFunc(echo, WithSpawnFunc(func(system *ActorSystem, id string, props *Props, parent SpawnerContext) (*PID, error) {
			spawned.Inc()
			return defaultSpawner(system, id, props, parent)
		}))

		_, err := system.Root().Spawn(props)
		require.NoError(t, err)
		assert.EqualValues(t, 1, spawned.Load())
	})
}

func TestMessaging(t *testing.T) {
	t.Run("With FIFO per sender", func(t *testing.T) {
		system := newTestSystem(t)
		rec := newRecorder()
		pid, err := system.Root().Spawn(rec.props())
		require.NoError(t, err)

		for i := range 100 {
			system.Root().Send(pid, &testMessage{value: i})
		}
		for i := range 100 {
			assert.Equal(t, i, rec.expect(t).(*testMessage).value)
		}
	})
	t.Run("With request and response", func(t *testing.T) {
		system := newTestSystem(t)
		pid, err := system.Root().Spawn(PropsFromFunc(echo))
		require.NoError(t, err)

		response, err := system.Root().RequestFuture(pid, new(ping), time.Second).Result()
		require.NoError(t, err)
		assert.IsType(t, new(pong), response)
	})
	t.Run("With request timing out", func(t *testing.T) {
		system := newTestSystem(t)
		pid, err := system.Root().Spawn(PropsFromFunc(func(Context) {}))
		require.NoError(t, err)

		f := system.Root().RequestFuture(pid, new(ping), 10*time.Millisecond)
		_, err = f.Result()
		require.ErrorIs(t, err, gerrors.ErrRequestTimeout)

		_, ok := system.ProcessRegistry().GetLocal(f.PID().ID())
		assert.False(t, ok)
	})
	t.Run("With request to a dead actor", func(t *testing.T) {
		system := newTestSystem(t)
		missing := NewPID(system.Address(), "missing")

		_, err := system.Root().RequestFuture(missing, new(ping), time.Second).Result()
		require.ErrorIs(t, err, gerrors.ErrDeadLetter)
	})
	t.Run("With forward keeping the sender", func(t *testing.T) {
		system := newTestSystem(t)
		target, err := system.Root().Spawn(PropsFromFunc(echo))
		require.NoError(t, err)
		forwarder, err := system.Root().Spawn(PropsFromFunc(func(ctx Context) {
			if _, ok := ctx.Message().(*ping); ok {
				ctx.Forward(target)
			}
		}))
		require.NoError(t, err)

		response, err := system.Root().RequestFuture(forwarder, new(ping), time.Second).Result()
		require.NoError(t, err)
		assert.IsType(t, new(pong), response)
	})
	t.Run("With request from an actor", func(t *testing.T) {
		system := newTestSystem(t)
		target, err := system.Root().Spawn(PropsFromFunc(echo))
		require.NoError(t, err)

		rec := newRecorder()
		requester, err := system.Root().Spawn(PropsFromFunc(func(ctx Context) {
			switch ctx.Message().(type) {
			case *testMessage:
				ctx.Request(target, new(ping))
			case *pong:
				rec.messages <- ctx.Sender()
			}
		}))
		require.NoError(t, err)

		system.Root().Send(requester, new(testMessage))
		assert.True(t, target.Equals(rec.expect(t).(*PID)))
	})
	t.Run("With respond without sender", func(t *testing.T) {
		system := newTestSystem(t)
		pid, err := system.Root().Spawn(PropsFromFunc(echo))
		require.NoError(t, err)

		system.Root().Send(pid, new(ping))
		require.Eventually(t, func() bool {
			return system.DeadLetterCount() == 1
		}, receivingTimeout, 10*time.Millisecond)
	})
	t.Run("With headers", func(t *testing.T) {
		system := newTestSystem(t)
		rec := newRecorder()
		pid, err := system.Root().Spawn(PropsFromFunc(func(ctx Context) {
			if _, ok := ctx.Message().(*ping); ok {
				rec.messages <- ctx.MessageHeader().Get("tenant")
			}
		}))
		require.NoError(t, err)

		system.Root().WithHeaders(map[string]string{"tenant": "acme"}).Send(pid, new(ping))
		assert.Equal(t, "acme", rec.expect(t))

		system.Root().Send(pid, new(ping))
		assert.Equal(t, "", rec.expect(t))
	})
	t.Run("With forward of a system message rejected", func(t *testing.T) {
		passThrough := func(next ReceiverFunc) ReceiverFunc {
			return next
		}

		for name, opts := range map[string][]PropsOption{
			"bare":              nil,
			"with a middleware": {WithReceiverMiddleware(passThrough)},
		} {
			t.Run(name, func(t *testing.T) {
				system := newTestSystem(t)
				rec := newRecorder()
				target, err := system.Root().Spawn(rec.props())
				require.NoError(t, err)
				assert.IsType(t, new(Started), rec.expectRaw(t))

				_, err = system.Root().Spawn(PropsFromFunc(func(ctx Context) {
					if _, ok := ctx.Message().(*Started); ok {
						ctx.Forward(target)
						ctx.Send(target, &testMessage{value: 1})
					}
				}, opts...))
				require.NoError(t, err)

				// the marker follows the forward, so a forwarded message would arrive first
				assert.Equal(t, &testMessage{value: 1}, rec.expectRaw(t))
			})
		}
	})
	t.Run("With PipeTo", func(t *testing.T) {
		system := newTestSystem(t)
		rec := newRecorder()
		target, err := system.Root().Spawn(rec.props())
		require.NoError(t, err)

		piper, err := system.Root().Spawn(PropsFromFunc(func(ctx Context) {
			if _, ok := ctx.Message().(*ping); ok {
				ctx.PipeTo(target, future.New(func() (any, error) {
					return "done", nil
				}))
			}
		}))
		require.NoError(t, err)

		system.Root().Send(piper, new(ping))
		result := rec.expect(t).(*future.Result)
		assert.Equal(t, "done", result.Success())
		assert.NoError(t, result.Failure())
	})
}

func TestLifecycle(t *testing.T) {
	t.Run("With StopFuture", func(t *testing.T) {
		system := newTestSystem(t)
		events := make(chan any, 16)
		pid, err := system.Root().Spawn(lifecycleProps(atomic.NewInt32(0), events))
		require.NoError(t, err)

		result, err := system.Root().StopFuture(pid).Result()
		require.NoError(t, err)
		terminated, ok := result.(*Terminated)
		require.True(t, ok)
		assert.True(t, pid.Equals(terminated.Who))

		assert.IsType(t, new(Started), <-events)
		assert.IsType(t, new(Stopping), <-events)
		assert.IsType(t, new(Stopped), <-events)
		assert.Same(t, system.ProcessRegistry().DeadLetter(), system.ProcessRegistry().Get(pid))
	})
	t.Run("With StopFuture on a dead actor", func(t *testing.T) {
		system := newTestSystem(t)
		missing := NewPID(system.Address(), "missing")
		result, err := system.Root().StopFuture(missing).Result()
		require.NoError(t, err)
		assert.IsType(t, new(Terminated), result)
	})
	t.Run("With children stopped before their parent", func(t *testing.T) {
		system := newTestSystem(t)
		events := make(chan string, 16)
		child := PropsFromFunc(func(ctx Context) {
			if _, ok := ctx.Message().(*Stopped); ok {
				events <- "child"
			}
		})
		parent, err := system.Root().Spawn(PropsFromFunc(func(ctx Context) {
			switch ctx.Message().(type) {
			case *Started:
				_, _ = ctx.Spawn(child)
				_, _ = ctx.Spawn(child)
			case *Stopped:
				events <- "parent"
			}
		}))
		require.NoError(t, err)

		require.NoError(t, system.Root().StopFuture(parent).Wait())
		assert.Equal(t, "child", <-events)
		assert.Equal(t, "child", <-events)
		assert.Equal(t, "parent", <-events)
	})
	t.Run("With child ids under their parent", func(t *testing.T) {
		system := newTestSystem(t)
		children := make(chan *PID, 1)
		parent, err := system.Root().SpawnNamed(PropsFromFunc(func(ctx Context) {
			if _, ok := ctx.Message().(*Started); ok {
				pid, _ := ctx.SpawnNamed(PropsFromFunc(echo), "child")
				children <- pid
			}
		}), "parent")
		require.NoError(t, err)

		child := <-children
		assert.Equal(t, "parent/child", child.ID())

		_, err = system.Root().RequestFuture(child, new(ping), time.Second).Result()
		require.NoError(t, err)
		require.NoError(t, system.Root().StopFuture(parent).Wait())
		assert.Same(t, system.ProcessRegistry().DeadLetter(), system.ProcessRegistry().Get(child))
	})
	t.Run("With PoisonFuture after pending messages", func(t *testing.T) {
		system := newTestSystem(t)
		rec := newRecorder()
		pid, err := system.Root().Spawn(rec.props())
		require.NoError(t, err)

		system.Root().Send(pid, &testMessage{value: 1})
		f := system.Root().PoisonFuture(pid)
		system.Root().Send(pid, &testMessage{value: 2})
		require.NoError(t, f.Wait())

		assert.Equal(t, 1, rec.expect(t).(*testMessage).value)
		rec.expectNone(t)
	})
	t.Run("With Close on disposal", func(t *testing.T) {
		system := newTestSystem(t)
		closed := make(chan struct{})
		pid, err := system.Root().Spawn(PropsFromProducer(func() Actor {
			return &closingActor{closed: closed}
		}))
		require.NoError(t, err)

		system.Root().Stop(pid)
		select {
		case <-closed:
		case <-time.After(receivingTimeout):
			require.FailNow(t, "actor was not closed")
		}
	})
}

type unwatchRequest struct {
	pid *PID
}

// watcher watches the PIDs it receives and records the Terminated notifications.
func watcher(rec *recorder) *Props {
	return PropsFromFunc(func(ctx Context) {
		switch msg := ctx.Message().(type) {
		case *PID:
			ctx.Watch(msg)
			ctx.Respond(true)
		case *unwatchRequest:
			ctx.Unwatch(msg.pid)
			ctx.Respond(true)
		case *Terminated:
			rec.messages <- msg
		}
	})
}

func TestWatch(t *testing.T) {
	t.Run("With Terminated delivered once", func(t *testing.T) {
		system := newTestSystem(t)
		rec := newRecorder()
		watcherPID, err := system.Root().Spawn(watcher(rec))
		require.NoError(t, err)
		target, err := system.Root().Spawn(PropsFromFunc(echo))
		require.NoError(t, err)

		_, err = system.Root().RequestFuture(watcherPID, target, time.Second).Result()
		require.NoError(t, err)
		system.Root().Stop(target)

		terminated := rec.expect(t).(*Terminated)
		assert.True(t, target.Equals(terminated.Who))
		rec.expectNone(t)
	})
	t.Run("With a dead actor", func(t *testing.T) {
		system := newTestSystem(t)
		rec := newRecorder()
		watcherPID, err := system.Root().Spawn(watcher(rec))
		require.NoError(t, err)

		missing := NewPID(system.Address(), "missing")
		_, err = system.Root().RequestFuture(watcherPID, missing, time.Second).Result()
		require.NoError(t, err)

		assert.True(t, missing.Equals(rec.expect(t).(*Terminated).Who))
	})
	t.Run("With an actor already stopping", func(t *testing.T) {
		system := newTestSystem(t)
		stopping := make(chan struct{}, 1)
		release, releaseChild := newRelease(t)
		children := make(chan *PID, 1)
		target, err := system.Root().Spawn(PropsFromFunc(func(ctx Context) {
			if _, ok := ctx.Message().(*Started); ok {
				child, _ := ctx.Spawn(stallingProps(stopping, release))
				children <- child
			}
		}))
		require.NoError(t, err)
		receiveFrom(t, children)

		system.Root().Stop(target)
		receiveFrom(t, stopping)

		rec := newRecorder()
		watcherPID, err := system.Root().Spawn(watcher(rec))
		require.NoError(t, err)
		_, err = system.Root().RequestFuture(watcherPID, target, time.Second).Result()
		require.NoError(t, err)

		terminated := rec.expect(t).(*Terminated)
		assert.True(t, target.Equals(terminated.Who))
		assert.False(t, terminated.AddressTerminated)
		// still registered: the answer came from the stopping actor, not the dead letters
		assert.IsType(t, new(ActorProcess), system.ProcessRegistry().Get(target))

		releaseChild()
		require.Eventually(t, func() bool {
			_, ok := system.ProcessRegistry().Get(target).(*deadLetterProcess)
			return ok
		}, receivingTimeout, 10*time.Millisecond)
		rec.expectNone(t)
	})
	t.Run("With the parent notified beside a watcher", func(t *testing.T) {
		system := newTestSystem(t)
		rec := newRecorder()
		watcherPID, err := system.Root().Spawn(watcher(rec))
		require.NoError(t, err)

		children := make(chan *PID, 1)
		terminated := make(chan *Terminated, 1)
		parent, err := system.Root().Spawn(supervisingParent(PropsFromFunc(echo), children, terminated))
		require.NoError(t, err)
		child := receiveFrom(t, children)

		_, err = system.Root().RequestFuture(watcherPID, child, time.Second).Result()
		require.NoError(t, err)
		system.Root().Stop(child)

		assert.True(t, child.Equals(rec.expect(t).(*Terminated).Who))
		assert.True(t, child.Equals(receiveFrom(t, terminated).Who))
		require.NoError(t, system.Root().StopFuture(parent).Wait())
		rec.expectNone(t)
	})
	t.Run("With Unwatch", func(t *testing.T) {
		system := newTestSystem(t)
		rec := newRecorder()
		watcherPID, err := system.Root().Spawn(watcher(rec))
		require.NoError(t, err)
		target, err := system.Root().Spawn(PropsFromFunc(echo))
		require.NoError(t, err)

		_, err = system.Root().RequestFuture(watcherPID, target, time.Second).Result()
		require.NoError(t, err)
		_, err = system.Root().RequestFuture(watcherPID, &unwatchRequest{pid: target}, time.Second).Result()
		require.NoError(t, err)

		require.NoError(t, system.Root().StopFuture(target).Wait())
		rec.expectNone(t)
	})
}

type stashingActor struct {
	incarnations *atomic.Int32
	out          chan any
}

func (a *stashingActor) Receive(ctx Context) {
	switch msg := ctx.Message().(type) {
	case *Started:
		a.incarnations.Inc()
	case *testMessage:
		if a.incarnations.Load() == 1 {
			ctx.Stash()
			return
		}
		a.out <- msg.value
	case *failMessage:
		panic(errBoom)
	}
}

func TestStash(t *testing.T) {
	t.Run("With stashed messages replayed after restart", func(t *testing.T) {
		system := newTestSystem(t)
		out := make(chan any, 8)
		incarnations := atomic.NewInt32(0)
		pid, err := system.Root().Spawn(PropsFromProducer(func() Actor {
			return &stashingActor{incarnations: incarnations, out: out}
		}))
		require.NoError(t, err)

		system.Root().Send(pid, &testMessage{value: 1})
		system.Root().Send(pid, &testMessage{value: 2})
		system.Root().Send(pid, new(failMessage))

		assert.Equal(t, 1, <-out)
		assert.Equal(t, 2, <-out)
		assert.EqualValues(t, 2, incarnations.Load())
	})
	t.Run("With UnstashAll", func(t *testing.T) {
		system := newTestSystem(t)
		rec := newRecorder()
		ready := false
		pid, err := system.Root().Spawn(PropsFromFunc(func(ctx Context) {
			switch msg := ctx.Message().(type) {
			case *ping:
				ready = true
				ctx.UnstashAll()
				ctx.Respond(true)
			case *testMessage:
				if !ready {
					ctx.Stash()
					return
				}
				rec.messages <- msg.value
			}
		}))
		require.NoError(t, err)

		system.Root().Send(pid, &testMessage{value: 1})
		system.Root().Send(pid, &testMessage{value: 2})
		rec.expectNone(t)

		_, err = system.Root().RequestFuture(pid, new(ping), time.Second).Result()
		require.NoError(t, err)
		system.Root().Send(pid, &testMessage{value: 3})
		assert.Equal(t, 1, rec.expect(t))
		assert.Equal(t, 2, rec.expect(t))
		assert.Equal(t, 3, rec.expect(t))
	})
}

type passiveMessage struct{}

func (*passiveMessage) NotInfluenceReceiveTimeout() {}

func timeoutProps(timeout time.Duration, timeouts *atomic.Int32, errs chan error) *Props {
	return PropsFromFunc(func(ctx Context) {
		switch ctx.Message().(type) {
		case *Started:
			errs <- ctx.SetReceiveTimeout(timeout)
		case *ReceiveTimeout:
			timeouts.Inc()
		case *ping:
			ctx.CancelReceiveTimeout()
			ctx.Respond(ctx.ReceiveTimeout())
		}
	})
}

func TestReceiveTimeout(t *testing.T) {
	t.Run("With one timeout per idle period", func(t *testing.T) {
		system := newTestSystem(t)
		timeouts := atomic.NewInt32(0)
		errs := make(chan error, 1)
		_, err := system.Root().Spawn(timeoutProps(50*time.Millisecond, timeouts, errs))
		require.NoError(t, err)
		require.NoError(t, <-errs)

		require.Eventually(t, func() bool { return timeouts.Load() == 1 }, receivingTimeout, 10*time.Millisecond)
		pause.For(200 * time.Millisecond)
		assert.EqualValues(t, 1, timeouts.Load())
	})
	t.Run("With a timeout re-armed from its handler", func(t *testing.T) {
		system := newTestSystem(t)
		timeouts := atomic.NewInt32(0)
		errs := make(chan error, 8)
		_, err := system.Root().Spawn(PropsFromFunc(func(ctx Context) {
			switch ctx.Message().(type) {
			case *Started:
				errs <- ctx.SetReceiveTimeout(50 * time.Millisecond)
			case *ReceiveTimeout:
				if timeouts.Inc() < 3 {
					errs <- ctx.SetReceiveTimeout(50 * time.Millisecond)
				}
			}
		}))
		require.NoError(t, err)

		require.Eventually(t, func() bool { return timeouts.Load() == 3 }, receivingTimeout, 10*time.Millisecond)
		pause.For(200 * time.Millisecond)
		assert.EqualValues(t, 3, timeouts.Load())
		for range 3 {
			require.NoError(t, receiveFrom(t, errs))
		}
	})
	t.Run("With messages resetting the timer", func(t *testing.T) {
		system := newTestSystem(t)
		timeouts := atomic.NewInt32(0)
		errs := make(chan error, 1)
		pid, err := system.Root().Spawn(timeoutProps(200*time.Millisecond, timeouts, errs))
		require.NoError(t, err)
		require.NoError(t, <-errs)

		for range 6 {
			system.Root().Send(pid, new(testMessage))
			pause.For(40 * time.Millisecond)
		}
		assert.Zero(t, timeouts.Load())
		require.Eventually(t, func() bool { return timeouts.Load() == 1 }, receivingTimeout, 10*time.Millisecond)
	})
	t.Run("With messages not influencing the timer", func(t *testing.T) {
		system := newTestSystem(t)
		timeouts := atomic.NewInt32(0)
		errs := make(chan error, 1)
		pid, err := system.Root().Spawn(timeoutProps(100*time.Millisecond, timeouts, errs))
		require.NoError(t, err)
		require.NoError(t, <-errs)

		for range 8 {
			system.Root().Send(pid, new(passiveMessage))
			pause.For(40 * time.Millisecond)
		}
		assert.EqualValues(t, 1, timeouts.Load())
	})
	t.Run("With cancellation", func(t *testing.T) {
		system := newTestSystem(t)
		timeouts := atomic.NewInt32(0)
		errs := make(chan error, 1)
		pid, err := system.Root().Spawn(timeoutProps(200*time.Millisecond, timeouts, errs))
		require.NoError(t, err)
		require.NoError(t, <-errs)

		current, err := system.Root().RequestFuture(pid, new(ping), time.Second).Result()
		require.NoError(t, err)
		assert.Zero(t, current)

		pause.For(300 * time.Millisecond)
		assert.Zero(t, timeouts.Load())
	})
	t.Run("With an invalid duration", func(t *testing.T) {
		system := newTestSystem(t)
		errs := make(chan error, 1)
		_, err := system.Root().Spawn(timeoutProps(0, atomic.NewInt32(0), errs))
		require.NoError(t, err)
		assert.ErrorIs(t, <-errs, gerrors.ErrInvalidReceiveTimeout)
	})
}

func TestReenterAfter(t *testing.T) {
	t.Run("With the continuation run on the actor", func(t *testing.T) {
		system := newTestSystem(t)
		target, err := system.Root().Spawn(PropsFromFunc(echo))
		require.NoError(t, err)

		handled := atomic.NewInt32(0)
		pid, err := system.Root().Spawn(PropsFromFunc(func(ctx Context) {
			switch ctx.Message().(type) {
			case *ping:
				f := ctx.RequestFuture(target, new(ping), time.Second)
				ctx.ReenterAfter(f, func(result any, err error) {
					handled.Inc()
					// the original message and sender are restored
					if _, ok := ctx.Message().(*ping); ok && err == nil {
						ctx.Respond(result)
					}
				})
			case *testMessage:
				ctx.Respond(handled.Load())
			}
		}))
		require.NoError(t, err)

		response, err := system.Root().RequestFuture(pid, new(ping), time.Second).Result()
		require.NoError(t, err)
		assert.IsType(t, new(pong), response)

		count, err := system.Root().RequestFuture(pid, new(testMessage), time.Second).Result()
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})
}

type taggedContext struct {
	Context
}

func TestMiddleware(t *testing.T) {
	t.Run("With receiver middleware", func(t *testing.T) {
		system := newTestSystem(t)
		seen := make(chan any, 8)
		rec := newRecorder()
		middleware := func(next ReceiverFunc) ReceiverFunc {
			return func(ctx ReceiverContext, envelope *MessageEnvelope) {
				if _, ok := envelope.Message.(*testMessage); ok {
					seen <- envelope.Message
				}
				next(ctx, envelope)
			}
		}
		pid, err := system.Root().Spawn(rec.props(WithReceiverMiddleware(middleware)))
		require.NoError(t, err)

		system.Root().Send(pid, &testMessage{value: 7})
		assert.Equal(t, 7, (<-seen).(*testMessage).value)
		assert.Equal(t, 7, rec.expect(t).(*testMessage).value)
	})
	t.Run("With sender middleware", func(t *testing.T) {
		system := newTestSystem(t)
		rec := newRecorder()
		target, err := system.Root().Spawn(PropsFromFunc(func(ctx Context) {
			if _, ok := ctx.Message().(*testMessage); ok {
				rec.messages <- ctx.MessageHeader().Get("trace")
			}
		}))
		require.NoError(t, err)

		tracing := func(next SenderFunc) SenderFunc {
			return func(ctx SenderContext, pid *PID, envelope *MessageEnvelope) {
				next(ctx, pid, envelope.WithHeader("trace", "on"))
			}
		}
		sender, err := system.Root().Spawn(PropsFromFunc(func(ctx Context) {
			if _, ok := ctx.Message().(*ping); ok {
				ctx.Send(target, new(testMessage))
			}
		}, WithSenderMiddleware(tracing)))
		require.NoError(t, err)

		system.Root().Send(sender, new(ping))
		assert.Equal(t, "on", rec.expect(t))

		system.Root().WithSenderMiddleware(tracing).Send(target, new(testMessage))
		assert.Equal(t, "on", rec.expect(t))
	})
	t.Run("With context decorator", func(t *testing.T) {
		system := newTestSystem(t)
		rec := newRecorder()
		decorator := func(next ContextDecoratorFunc) ContextDecoratorFunc {
			return func(ctx Context) Context {
				return &taggedContext{Context: next(ctx)}
			}
		}
		pid, err := system.Root().Spawn(PropsFromFunc(func(ctx Context) {
			if _, ok := ctx.Message().(*testMessage); ok {
				_, tagged := ctx.(*taggedContext)
				rec.messages <- tagged
			}
		}, WithContextDecorator(decorator)))
		require.NoError(t, err)

		system.Root().Send(pid, new(testMessage))
		assert.Equal(t, true, rec.expect(t))
	})
}
