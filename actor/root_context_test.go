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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/pactor/errors"
	"github.com/tochemey/pactor/supervisor"
)

func TestRootContext(t *testing.T) {
	t.Run("With copies on configuration", func(t *testing.T) {
		system := newTestSystem(t)
		root := system.Root()
		tagged := root.WithHeaders(map[string]string{"a": "1"})

		assert.NotSame(t, root, tagged)
		assert.Zero(t, root.MessageHeader().Length())
		assert.Equal(t, "1", tagged.MessageHeader().Get("a"))
		assert.Nil(t, root.Self())
		assert.Nil(t, root.Parent())
		assert.Nil(t, root.Sender())
		assert.Nil(t, root.Message())
		assert.Nil(t, root.Actor())
		assert.Same(t, system, root.ActorSystem())
	})
	t.Run("With a custom sender", func(t *testing.T) {
		system := newTestSystem(t)
		target, err := system.Root().Spawn(PropsFromFunc(echo))
		require.NoError(t, err)
		rec := newRecorder()
		replyTo, err := system.Root().Spawn(rec.props())
		require.NoError(t, err)

		system.Root().RequestWithCustomSender(target, new(ping), replyTo)
		assert.IsType(t, new(pong), rec.expect(t))
	})
}

func TestGuardian(t *testing.T) {
	t.Run("With a guardian supervising root actors", func(t *testing.T) {
		system := newTestSystem(t)
		strategy, err := NewAllForOneStrategy(10, time.Second, nil)
		require.NoError(t, err)

		first := atomic.NewInt32(0)
		second := atomic.NewInt32(0)
		failing, err := system.Root().Spawn(lifecycleProps(first, make(chan any, 64), WithGuardian(strategy)))
		require.NoError(t, err)
		_, err = system.Root().Spawn(lifecycleProps(second, make(chan any, 64), WithGuardian(strategy)))
		require.NoError(t, err)

		guardian := system.guardians.guardianFor(strategy)
		assert.Len(t, guardian.Children(), 2)

		system.Root().Send(failing, new(failMessage))
		require.Eventually(t, func() bool {
			return first.Load() == 2 && second.Load() == 2
		}, receivingTimeout, 10*time.Millisecond)
	})
	t.Run("With one guardian per strategy", func(t *testing.T) {
		system := newTestSystem(t)
		strategy, err := NewOneForOneStrategy(1, time.Second, nil)
		require.NoError(t, err)
		other, err := NewOneForOneStrategy(1, time.Second, nil)
		require.NoError(t, err)

		assert.Same(t, system.guardians.guardianFor(strategy), system.guardians.guardianFor(strategy))
		assert.NotSame(t, system.guardians.guardianFor(strategy), system.guardians.guardianFor(other))
	})
	t.Run("With the guardian forgetting terminated actors", func(t *testing.T) {
		system := newTestSystem(t)
		strategy, err := NewOneForOneStrategy(10, time.Second, deciderOf(supervisor.StopDirective))
		require.NoError(t, err)

		pid, err := system.Root().Spawn(lifecycleProps(atomic.NewInt32(0), make(chan any, 64), WithGuardian(strategy)))
		require.NoError(t, err)
		guardian := system.guardians.guardianFor(strategy)
		require.Len(t, guardian.Children(), 1)

		system.Root().Send(pid, new(failMessage))
		require.Eventually(t, func() bool {
			return len(guardian.Children()) == 0
		}, receivingTimeout, 10*time.Millisecond)
		assert.Same(t, system.ProcessRegistry().DeadLetter(), system.ProcessRegistry().Get(pid))
	})
	t.Run("With a failed spawn leaving the guardian untouched", func(t *testing.T) {
		system := newTestSystem(t)
		strategy := NewRestartingStrategy()
		_, err := system.Root().Spawn(PropsFromProducer(nil, WithGuardian(strategy)))
		require.Error(t, err)
		assert.Empty(t, system.guardians.guardianFor(strategy).Children())
	})
	t.Run("With children refusing guardian props", func(t *testing.T) {
		system := newTestSystem(t)
		errs := make(chan error, 1)
		_, err := system.Root().Spawn(PropsFromFunc(func(ctx Context) {
			if _, ok := ctx.Message().(*Started); ok {
				_, err := ctx.Spawn(PropsFromFunc(echo, WithGuardian(NewRestartingStrategy())))
				errs <- err
			}
		}))
		require.NoError(t, err)
		assert.ErrorIs(t, <-errs, gerrors.ErrGuardianChild)
	})
	t.Run("With an incomparable strategy refused", func(t *testing.T) {
		system := newTestSystem(t)
		strategy := taggedStrategy{tags: []string{"critical"}}
		registered := system.ProcessRegistry().Count()

		var err error
		require.NotPanics(t, func() {
			_, err = system.Root().Spawn(PropsFromFunc(echo, WithGuardian(strategy)))
		})
		assert.ErrorIs(t, err, gerrors.ErrInvalidStrategy)
		assert.ErrorIs(t, PropsFromFunc(echo, WithGuardian(strategy)).Validate(), gerrors.ErrInvalidProps)
		assert.Nil(t, system.Root().WithGuardian(strategy).Self())
		assert.Equal(t, registered, system.ProcessRegistry().Count())
	})
}

// taggedStrategy is a value strategy holding a slice, so it cannot be a map key.
type taggedStrategy struct {
	tags []string
}

func (taggedStrategy) HandleFailure(_ *ActorSystem, sup Supervisor, child *PID, _ *supervisor.RestartStatistics, reason error, _ any) {
	sup.RestartChildren(reason, child)
}
