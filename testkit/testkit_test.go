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
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/pactor/actor"
	"github.com/tochemey/pactor/log"
)

func TestTestKit(t *testing.T) {
	t.Run("With default options", func(t *testing.T) {
		ctx := context.TODO()
		testkit := New(ctx, t)
		require.NotNil(t, testkit.ActorSystem())
		assert.True(t, testkit.ActorSystem().Running())
		assert.Equal(t, "testkit", testkit.ActorSystem().Name())
		testkit.Shutdown(ctx)
		assert.False(t, testkit.ActorSystem().Running())
	})
	t.Run("With options", func(t *testing.T) {
		ctx := context.TODO()
		testkit := New(ctx, t,
			WithLogging(log.ErrorLevel),
			WithSystemOptions(actor.WithAddress("testhost")))
		assert.Equal(t, "testhost", testkit.ActorSystem().Address())
		testkit.Shutdown(ctx)
	})
	t.Run("With named spawns", func(t *testing.T) {
		ctx := context.TODO()
		testkit := New(ctx, t)
		pid := testkit.Spawn("pinger", pinger())
		assert.Equal(t, "pinger", pid.ID())
		testkit.Shutdown(ctx)
	})
}
