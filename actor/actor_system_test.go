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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	gerrors "github.com/tochemey/pactor/errors"
	"github.com/tochemey/pactor/internal/pause"
	"github.com/tochemey/pactor/log"
)

func TestActorSystem(t *testing.T) {
	t.Run("With an invalid name", func(t *testing.T) {
		for _, name := range []string{"", "-system", "my system", "sys/tem"} {
			system, err := NewActorSystem(name)
			assert.ErrorIs(t, err, gerrors.ErrInvalidActorSystemName, name)
			assert.Nil(t, system)
		}
	})
	t.Run("With invalid options", func(t *testing.T) {
		_, err := NewActorSystem("test", WithLogger(nil))
		assert.Error(t, err)
		_, err = NewActorSystem("test", WithShutdownTimeout(0))
		assert.Error(t, err)
		_, err = NewActorSystem("test", WithThroughput(-1))
		assert.Error(t, err)
	})
	t.Run("With accessors", func(t *testing.T) {
		system, err := NewActorSystem("test", WithLogger(log.DiscardLogger), WithAddress("127.0.0.1:8080"))
		require.NoError(t, err)

		assert.Equal(t, "test", system.Name())
		assert.NotEmpty(t, system.ID())
		assert.Equal(t, "127.0.0.1:8080", system.Address())
		assert.NotNil(t, system.Logger())
		assert.NotNil(t, system.EventStream())
		assert.NotNil(t, system.ProcessRegistry())
		assert.NotNil(t, system.Root())
		assert.False(t, system.Running())
		assert.Zero(t, system.Uptime())
		assert.ErrorIs(t, system.Shutdown(context.Background()), gerrors.ErrActorSystemNotStarted)
	})
	t.Run("With independent systems", func(t *testing.T) {
		first := newTestSystem(t)
		second := newTestSystem(t)

		pid, err := first.Root().SpawnNamed(PropsFromFunc(echo), "echo")
		require.NoError(t, err)
		_, err = second.Root().SpawnNamed(PropsFromFunc(echo), "echo")
		require.NoError(t, err)

		assert.NotEqual(t, first.ID(), second.ID())
		require.NoError(t, first.Root().StopFuture(pid).Wait())
		_, ok := second.ProcessRegistry().GetLocal("echo")
		assert.True(t, ok)
	})
	t.Run("With start and shutdown", func(t *testing.T) {
		ctx := context.Background()
		system, err := NewActorSystem("test",
			WithLogger(log.DiscardLogger),
			WithWorkerPool(2, 100*time.Millisecond),
			WithThroughput(10),
			WithMetrics(noop.NewMeterProvider()),
			WithShutdownTimeout(5*time.Second),
		)
		require.NoError(t, err)
		require.NoError(t, system.Start(ctx))
		require.NoError(t, system.Start(ctx))
		assert.True(t, system.Running())

		stopped := make(chan string, 4)
		child := PropsFromFunc(func(ctx Context) {
			if _, ok := ctx.Message().(*Stopped); ok {
				stopped <- "child"
			}
		})
		_, err = system.Root().Spawn(PropsFromFunc(func(ctx Context) {
			switch ctx.Message().(type) {
			case *Started:
				_, _ = ctx.Spawn(child)
			case *Stopped:
				stopped <- "parent"
			}
		}))
		require.NoError(t, err)
		_, err = system.Root().Spawn(PropsFromFunc(echo))
		require.NoError(t, err)

		pause.For(20 * time.Millisecond)
		assert.Positive(t, system.Uptime())

		require.NoError(t, system.Shutdown(ctx))
		assert.Equal(t, "child", <-stopped)
		assert.Equal(t, "parent", <-stopped)
		assert.False(t, system.Running())
		assert.ErrorIs(t, system.Scheduler().Cancel("any"), gerrors.ErrSchedulerNotStarted)
	})
	t.Run("With a default dispatcher", func(t *testing.T) {
		system := newTestSystem(t, WithDefaultDispatcher(NewDefaultDispatcher(DefaultThroughput)))
		pid, err := system.Root().Spawn(PropsFromFunc(echo))
		require.NoError(t, err)

		response, err := system.Root().RequestFuture(pid, new(ping), time.Second).Result()
		require.NoError(t, err)
		assert.IsType(t, new(pong), response)
	})
	t.Run("With spawns before start", func(t *testing.T) {
		system, err := NewActorSystem("test", WithLogger(log.DiscardLogger))
		require.NoError(t, err)

		pid, err := system.Root().Spawn(PropsFromFunc(echo))
		require.NoError(t, err)
		response, err := system.Root().RequestFuture(pid, new(ping), time.Second).Result()
		require.NoError(t, err)
		assert.IsType(t, new(pong), response)
		require.NoError(t, system.Root().StopFuture(pid).Wait())
	})
}
