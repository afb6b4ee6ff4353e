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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type urgent struct {
	name string
}

func (*urgent) Priority() int {
	return 10
}

func TestUnboundedQueue(t *testing.T) {
	t.Run("With FIFO order", func(t *testing.T) {
		queue := newUnboundedQueue()
		for i := range 10 {
			queue.Push(i)
		}
		assert.Equal(t, 10, queue.Len())

		for i := range 10 {
			assert.Equal(t, i, queue.Pop())
		}
		assert.Nil(t, queue.Pop())
		assert.Zero(t, queue.Len())
	})
	t.Run("With multiple producers", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		queue := newUnboundedQueue()
		producers := 8
		perProducer := 500

		var wg sync.WaitGroup
		wg.Add(producers)
		for p := range producers {
			go func() {
				defer wg.Done()
				for i := range perProducer {
					queue.Push(p*perProducer + i)
				}
			}()
		}
		wg.Wait()

		seen := make(map[int]struct{}, producers*perProducer)
		for item := queue.Pop(); item != nil; item = queue.Pop() {
			seen[item.(int)] = struct{}{}
		}
		assert.Len(t, seen, producers*perProducer)
	})
}

func TestBoundedQueue(t *testing.T) {
	t.Run("With FIFO order", func(t *testing.T) {
		queue := newBoundedQueue(4, false)
		queue.Push(1)
		queue.Push(2)
		assert.Equal(t, 2, queue.Len())
		assert.Equal(t, 1, queue.Pop())
		assert.Equal(t, 2, queue.Pop())
		assert.Nil(t, queue.Pop())
	})
	t.Run("With dropping the oldest message when full", func(t *testing.T) {
		queue := newBoundedQueue(2, true)
		queue.Push(1)
		queue.Push(2)
		queue.Push(3)

		require.Equal(t, 2, queue.Len())
		assert.Equal(t, 2, queue.Pop())
		assert.Equal(t, 3, queue.Pop())
		assert.Nil(t, queue.Pop())
	})
}

func TestPriorityQueue(t *testing.T) {
	t.Run("With higher priorities first", func(t *testing.T) {
		queue := newPriorityQueue()
		queue.Push(1)
		queue.Push(2)
		first := &urgent{name: "first"}
		queue.Push(first)
		second := &MessageEnvelope{Header: EmptyMessageHeader, Message: &urgent{name: "second"}}
		queue.Push(second)
		queue.Push(3)

		assert.Equal(t, 5, queue.Len())
		assert.Same(t, first, queue.Pop())
		assert.Same(t, second, queue.Pop())
		assert.Equal(t, 1, queue.Pop())
		assert.Equal(t, 2, queue.Pop())
		assert.Equal(t, 3, queue.Pop())
		assert.Nil(t, queue.Pop())
	})
}
