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

package eventstream

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/pactor/log"
)

type ping struct{ id int }
type pong struct{ id int }

type goDispatcher struct {
	wg *sync.WaitGroup
}

func (d goDispatcher) Schedule(fn func()) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		fn()
	}()
}

func TestStream(t *testing.T) {
	t.Run("With every subscriber receiving", func(t *testing.T) {
		stream := New(WithLogger(log.DiscardLogger))
		var first, second []any
		stream.Subscribe(func(message any) { first = append(first, message) })
		stream.Subscribe(func(message any) { second = append(second, message) })
		require.Equal(t, 2, stream.Length())

		stream.Publish(&ping{1})
		stream.Publish("hello")

		assert.Equal(t, []any{&ping{1}, "hello"}, first)
		assert.Equal(t, first, second)
	})
	t.Run("With exact type filter", func(t *testing.T) {
		stream := New(WithLogger(log.DiscardLogger))
		var pings []*ping
		SubscribeType(stream, func(p *ping) { pings = append(pings, p) })

		var values []any
		stream.Subscribe(func(message any) { values = append(values, message) }, WithMessageTypeOf(ping{}))

		stream.Publish(&ping{1})
		stream.Publish(&pong{2})
		stream.Publish(ping{3})

		require.Len(t, pings, 1)
		assert.Equal(t, 1, pings[0].id)
		assert.Equal(t, []any{ping{3}}, values)
	})
	t.Run("With predicate", func(t *testing.T) {
		stream := New(WithLogger(log.DiscardLogger))
		var received []int
		SubscribeType(stream, func(p *ping) { received = append(received, p.id) },
			WithPredicate(func(message any) bool { return message.(*ping).id%2 == 0 }))

		for i := range 5 {
			stream.Publish(&ping{i})
		}
		assert.Equal(t, []int{0, 2, 4}, received)
	})
	t.Run("With failing handler isolated", func(t *testing.T) {
		stream := New(WithLogger(log.DiscardLogger))
		stream.Subscribe(func(any) { panic("boom") })
		count := 0
		stream.Subscribe(func(any) { count++ })

		require.NotPanics(t, func() {
			stream.Publish("one")
			stream.Publish("two")
		})
		assert.Equal(t, 2, count)
	})
	t.Run("With unsubscribe", func(t *testing.T) {
		stream := New(WithLogger(log.DiscardLogger))
		count := 0
		sub := stream.Subscribe(func(any) { count++ })
		other := stream.Subscribe(func(any) {})
		require.NotEmpty(t, sub.ID())
		require.NotEqual(t, sub.ID(), other.ID())

		stream.Publish("one")
		sub.Unsubscribe()
		sub.Unsubscribe()
		stream.Publish("two")

		assert.Equal(t, 1, count)
		assert.False(t, sub.Active())
		assert.True(t, other.Active())
		assert.Equal(t, 1, stream.Length())
		stream.Unsubscribe(nil)
	})
	t.Run("With dispatcher", func(t *testing.T) {
		stream := New(WithLogger(log.DiscardLogger))
		wg := &sync.WaitGroup{}
		var mu sync.Mutex
		received := 0
		stream.Subscribe(func(any) {
			mu.Lock()
			received++
			mu.Unlock()
		}, WithDispatcher(goDispatcher{wg: wg}))

		for range 10 {
			stream.Publish("event")
		}
		wg.Wait()
		assert.Equal(t, 10, received)
	})
	t.Run("With close", func(t *testing.T) {
		stream := New()
		sub := stream.Subscribe(func(any) {})
		stream.Close()
		assert.Zero(t, stream.Length())
		assert.False(t, sub.Active())
	})
}
