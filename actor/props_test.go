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

	gerrors "github.com/tochemey/pactor/errors"
)

func TestProps(t *testing.T) {
	t.Run("With Configure returning a copy", func(t *testing.T) {
		noop := func(next ReceiverFunc) ReceiverFunc { return next }
		base := PropsFromFunc(echo, WithReceiverMiddleware(noop))
		derived := base.Configure(WithReceiverMiddleware(noop), WithSupervisor(NewRestartingStrategy()))

		assert.NotSame(t, base, derived)
		assert.Len(t, base.receiverMiddleware, 1)
		assert.Len(t, derived.receiverMiddleware, 2)
		assert.Nil(t, base.SupervisorStrategy())
		assert.NotNil(t, derived.SupervisorStrategy())
		assert.NotNil(t, derived.Producer())
	})
	t.Run("With empty chains left unset", func(t *testing.T) {
		props := PropsFromFunc(echo)
		assert.Nil(t, props.receiverChain)
		assert.Nil(t, props.senderChain)
		assert.Nil(t, props.contextDecoratorChain)
	})
	t.Run("With defaults", func(t *testing.T) {
		system := newTestSystem(t)
		props := PropsFromFunc(echo)

		assert.NotNil(t, props.produceMailbox())
		assert.Same(t, system.dispatcher, props.getDispatcher(system))
		assert.Equal(t, system.supervisorStrategy, props.getSupervisor(system))
		assert.Nil(t, props.GuardianStrategy())

		dispatcher := NewSynchronizedDispatcher(1)
		configured := props.Configure(WithDispatcher(dispatcher), WithMailbox(Bounded(8)))
		assert.Equal(t, dispatcher, configured.getDispatcher(system))
	})
	t.Run("With validation", func(t *testing.T) {
		assert.NoError(t, PropsFromFunc(echo).Validate())
		assert.ErrorIs(t, PropsFromProducer(nil).Validate(), gerrors.ErrInvalidProps)
		assert.ErrorIs(t, PropsFromFunc(echo, WithPreStartRetry(-1, 0)).Validate(), gerrors.ErrInvalidProps)
		assert.ErrorIs(t, PropsFromFunc(echo, WithPreStartRetry(1, -time.Second)).Validate(), gerrors.ErrInvalidProps)
	})
	t.Run("With one Props spawned many times", func(t *testing.T) {
		system := newTestSystem(t)
		props := PropsFromFunc(echo)
		for range 3 {
			pid, err := system.Root().Spawn(props)
			require.NoError(t, err)
			_, err = system.Root().RequestFuture(pid, new(ping), time.Second).Result()
			require.NoError(t, err)
		}
	})
}
