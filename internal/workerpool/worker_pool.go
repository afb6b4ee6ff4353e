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

// Package workerpool provides a sharded pool of reusable goroutines.
package workerpool

import (
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/atomic"
)

const maxShards = 128

// WorkerPool manages reusable worker goroutines spread across shards to
// reduce lock contention. Idle workers exit after passivateAfter.
type WorkerPool struct {
	passivateAfter time.Duration
	numShards      int
	shards         []*poolShard
	mutex          sync.RWMutex
	started        atomic.Bool
	stopped        atomic.Bool
	spawnedWorkers atomic.Int64
	stopCh         chan struct{}
	cleanupDone    chan struct{}
}

type worker struct {
	workChan chan func()
	lastUsed atomic.Int64
}

type poolShard struct {
	wp          *WorkerPool
	idleWorkers []*worker
	mu          sync.Mutex
	stopped     bool
}

// New creates a new worker pool with the given options.
func New(opts ...Option) *WorkerPool {
	wp := &WorkerPool{
		passivateAfter: time.Second,
		numShards:      1,
	}

	for _, opt := range opts {
		opt.Apply(wp)
	}

	wp.numShards = min(max(wp.numShards, 1), maxShards)
	if wp.passivateAfter <= 0 {
		wp.passivateAfter = time.Second
	}
	return wp
}

// GetSpawnedWorkers returns the current count of live workers.
func (wp *WorkerPool) GetSpawnedWorkers() int {
	return int(wp.spawnedWorkers.Load())
}

// Start initializes the shards and the passivation loop.
// It's safe to call Start multiple times.
func (wp *WorkerPool) Start() {
	wp.mutex.Lock()
	defer wp.mutex.Unlock()
	if wp.started.Load() {
		return
	}

	wp.shards = make([]*poolShard, wp.numShards)
	for i := range wp.shards {
		wp.shards[i] = &poolShard{wp: wp, idleWorkers: make([]*worker, 0, 64)}
	}

	wp.stopCh = make(chan struct{})
	wp.cleanupDone = make(chan struct{})
	wp.started.Store(true)
	go wp.cleanup()
}

// Stop closes every idle worker and rejects further submissions. Busy
// workers exit once their current task returns.
func (wp *WorkerPool) Stop() {
	wp.mutex.Lock()
	if !wp.started.Load() || wp.stopped.Swap(true) {
		wp.mutex.Unlock()
		return
	}

	for _, shard := range wp.shards {
		shard.mu.Lock()
		shard.stopped = true
		for i, w := range shard.idleWorkers {
			close(w.workChan)
			shard.idleWorkers[i] = nil
		}
		shard.idleWorkers = shard.idleWorkers[:0]
		shard.mu.Unlock()
	}
	close(wp.stopCh)
	wp.mutex.Unlock()
	<-wp.cleanupDone
}

// SubmitWork hands the task to an idle worker or spawns a new one.
// It returns false when the pool is not running and the task was not accepted.
func (wp *WorkerPool) SubmitWork(task func()) bool {
	wp.mutex.RLock()
	if !wp.started.Load() || wp.stopped.Load() {
		wp.mutex.RUnlock()
		return false
	}
	shard := wp.shards[rand.IntN(wp.numShards)]
	wp.mutex.RUnlock()
	return shard.acquireWorker(task)
}

func (shard *poolShard) acquireWorker(task func()) bool {
	shard.mu.Lock()
	if shard.stopped {
		shard.mu.Unlock()
		return false
	}

	if n := len(shard.idleWorkers); n > 0 {
		w := shard.idleWorkers[n-1]
		shard.idleWorkers[n-1] = nil
		shard.idleWorkers = shard.idleWorkers[:n-1]
		shard.mu.Unlock()
		w.workChan <- task
		return true
	}
	shard.mu.Unlock()

	w := &worker{workChan: make(chan func(), 1)}
	w.workChan <- task
	shard.wp.spawnedWorkers.Inc()
	go shard.run(w)
	return true
}

func (shard *poolShard) run(w *worker) {
	defer shard.wp.spawnedWorkers.Dec()
	for task := range w.workChan {
		task()
		if !shard.release(w) {
			return
		}
	}
}

// release parks the worker in the idle list. It returns false when the shard
// is stopped and the worker should exit.
func (shard *poolShard) release(w *worker) bool {
	w.lastUsed.Store(time.Now().UnixNano())
	shard.mu.Lock()
	defer shard.mu.Unlock()
	if shard.stopped {
		return false
	}
	shard.idleWorkers = append(shard.idleWorkers, w)
	return true
}

// cleanup periodically closes workers idle for longer than passivateAfter.
// Idle workers are appended in release order, so the oldest sit at the front.
func (wp *WorkerPool) cleanup() {
	defer close(wp.cleanupDone)
	ticker := time.NewTicker(wp.passivateAfter)
	defer ticker.Stop()

	for {
		select {
		case <-wp.stopCh:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-wp.passivateAfter).UnixNano()
			for _, shard := range wp.shards {
				shard.mu.Lock()
				expired := 0
				for expired < len(shard.idleWorkers) && shard.idleWorkers[expired].lastUsed.Load() < cutoff {
					close(shard.idleWorkers[expired].workChan)
					expired++
				}
				if expired > 0 {
					remaining := copy(shard.idleWorkers, shard.idleWorkers[expired:])
					clear(shard.idleWorkers[remaining:])
					shard.idleWorkers = shard.idleWorkers[:remaining]
				}
				shard.mu.Unlock()
			}
		}
	}
}
