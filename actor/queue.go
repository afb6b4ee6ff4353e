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
	"sync/atomic"
	"unsafe"

	gods "github.com/Workiva/go-datastructures/queue"
	uatomic "go.uber.org/atomic"
)

// MailboxQueue stores the pending messages of one mailbox queue.
//
// Push is called concurrently by any number of producers. Pop is only called
// by the goroutine draining the mailbox and returns nil when the queue is empty.
type MailboxQueue interface {
	Push(message any)
	Pop() any
	Len() int
}

// cacheLinePadding prevents false sharing between the producer and the
// consumer ends of the queue.
type cacheLinePadding [64]byte

type queueNode struct {
	value any
	next  unsafe.Pointer
}

var queueNodePool = sync.Pool{New: func() any { return new(queueNode) }}

// unboundedQueue is a lock-free multi-producer single-consumer FIFO queue.
//
// Reference: https://concurrencyfreaks.blogspot.com/2014/04/multi-producer-single-consumer-queue.html
type unboundedQueue struct {
	head unsafe.Pointer
	_    cacheLinePadding
	tail unsafe.Pointer
	_    cacheLinePadding
	size *uatomic.Int64
}

var _ MailboxQueue = (*unboundedQueue)(nil)

func newUnboundedQueue() *unboundedQueue {
	stub := new(queueNode)
	return &unboundedQueue{
		head: unsafe.Pointer(stub),
		tail: unsafe.Pointer(stub),
		size: uatomic.NewInt64(0),
	}
}

func (q *unboundedQueue) Push(message any) {
	n := queueNodePool.Get().(*queueNode)
	n.value = message
	atomic.StorePointer(&n.next, nil)

	prev := (*queueNode)(atomic.SwapPointer(&q.tail, unsafe.Pointer(n)))
	q.size.Inc()
	atomic.StorePointer(&prev.next, unsafe.Pointer(n))
}

func (q *unboundedQueue) Pop() any {
	head := (*queueNode)(atomic.LoadPointer(&q.head))
	next := (*queueNode)(atomic.LoadPointer(&head.next))
	if next == nil {
		return nil
	}

	atomic.StorePointer(&q.head, unsafe.Pointer(next))
	value := next.value
	next.value = nil
	q.size.Dec()

	head.next = nil
	queueNodePool.Put(head)
	return value
}

func (q *unboundedQueue) Len() int {
	return int(q.size.Load())
}

// boundedQueue is a ring buffer backed queue. Push blocks while the buffer is
// full unless the queue drops its oldest message to make room.
type boundedQueue struct {
	underlying *gods.RingBuffer
	dropping   bool
}

var _ MailboxQueue = (*boundedQueue)(nil)

func newBoundedQueue(size int, dropping bool) *boundedQueue {
	return &boundedQueue{
		underlying: gods.NewRingBuffer(uint64(size)),
		dropping:   dropping,
	}
}

func (q *boundedQueue) Push(message any) {
	if !q.dropping {
		_ = q.underlying.Put(message)
		return
	}

	for {
		ok, err := q.underlying.Offer(message)
		if err != nil || ok {
			return
		}
		// full: evict the oldest entry, unless the consumer emptied the buffer meanwhile
		if q.underlying.Len() > 0 {
			_, _ = q.underlying.Poll(1)
		}
	}
}

func (q *boundedQueue) Pop() any {
	if q.underlying.Len() > 0 {
		item, err := q.underlying.Get()
		if err != nil {
			return nil
		}
		return item
	}
	return nil
}

func (q *boundedQueue) Len() int {
	return int(q.underlying.Len())
}

// PriorityMessage is implemented by messages that must overtake the other
// messages queued in a priority mailbox. Higher values are delivered first.
type PriorityMessage interface {
	Priority() int
}

// DefaultPriority is the priority of messages not implementing PriorityMessage.
const DefaultPriority = 0

type priorityItem struct {
	priority int
	sequence uint64
	message  any
}

// Compare orders items by descending priority then by arrival.
func (x *priorityItem) Compare(other gods.Item) int {
	o := other.(*priorityItem)
	switch {
	case x.priority > o.priority:
		return -1
	case x.priority < o.priority:
		return 1
	case x.sequence < o.sequence:
		return -1
	case x.sequence > o.sequence:
		return 1
	default:
		return 0
	}
}

// priorityQueue delivers messages by priority, FIFO among equal priorities.
type priorityQueue struct {
	underlying *gods.PriorityQueue
	sequence   *uatomic.Uint64
}

var _ MailboxQueue = (*priorityQueue)(nil)

func newPriorityQueue() *priorityQueue {
	return &priorityQueue{
		underlying: gods.NewPriorityQueue(16, true),
		sequence:   uatomic.NewUint64(0),
	}
}

func (q *priorityQueue) Push(message any) {
	priority := DefaultPriority
	if prioritized, ok := UnwrapEnvelopeMessage(message).(PriorityMessage); ok {
		priority = prioritized.Priority()
	}

	_ = q.underlying.Put(&priorityItem{
		priority: priority,
		sequence: q.sequence.Inc(),
		message:  message,
	})
}

func (q *priorityQueue) Pop() any {
	if q.underlying.Len() == 0 {
		return nil
	}

	items, err := q.underlying.Get(1)
	if err != nil || len(items) == 0 {
		return nil
	}
	return items[0].(*priorityItem).message
}

func (q *priorityQueue) Len() int {
	return q.underlying.Len()
}
