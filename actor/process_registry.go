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
	"strconv"
	"sync"

	"go.uber.org/atomic"

	"github.com/tochemey/pactor/internal/xsync"
)

const (
	// LocalAddress is the address of a system that was not given one.
	LocalAddress = "nonhost"

	idPrefix = "$"
)

// AddressResolver resolves a PID owned by another host to a proxy process.
// It returns nil when it does not know the address.
type AddressResolver func(pid *PID) Process

// ProcessRegistry is the process directory of an actor system.
//
// Registration and lookup are lock-free on a sharded map; ids are drawn from
// an atomic sequence.
type ProcessRegistry struct {
	sequence   *atomic.Uint64
	address    string
	processes  *xsync.ShardedMap[Process]
	mu         sync.RWMutex
	resolvers  []AddressResolver
	deadLetter Process
}

// NewProcessRegistry creates a registry for address. Lookups that cannot be
// resolved fall back to deadLetter.
func NewProcessRegistry(address string, deadLetter Process) *ProcessRegistry {
	if address == "" {
		address = LocalAddress
	}
	return &ProcessRegistry{
		sequence:   atomic.NewUint64(0),
		address:    address,
		processes:  xsync.NewShardedMap[Process](),
		deadLetter: deadLetter,
	}
}

// Address returns the local address.
func (r *ProcessRegistry) Address() string {
	return r.address
}

// NextID returns a new unique process id.
func (r *ProcessRegistry) NextID() string {
	return idPrefix + strconv.FormatUint(r.sequence.Inc(), 36)
}

// Add registers process under id. When id is already registered the registry
// is left untouched and the PID of the existing registration is returned with
// false.
func (r *ProcessRegistry) Add(process Process, id string) (*PID, bool) {
	pid := NewPID(r.address, id)
	if _, loaded := r.processes.LoadOrStore(id, process); loaded {
		return pid, false
	}
	return pid, true
}

// Remove unregisters pid. Removing an unknown pid is a no-op.
func (r *ProcessRegistry) Remove(pid *PID) {
	if pid == nil || pid.address != r.address {
		return
	}
	r.processes.Delete(pid.id)
}

// Get resolves pid to a process. A local pid resolves to its registration,
// a foreign one to the first resolver returning a process. Anything else
// resolves to the dead-letter process.
func (r *ProcessRegistry) Get(pid *PID) Process {
	if pid == nil {
		return r.deadLetter
	}

	if pid.address == r.address {
		if process, ok := r.processes.Load(pid.id); ok {
			return process
		}
		return r.deadLetter
	}

	r.mu.RLock()
	resolvers := r.resolvers
	r.mu.RUnlock()
	for _, resolve := range resolvers {
		if process := resolve(pid); process != nil {
			return process
		}
	}
	return r.deadLetter
}

// GetLocal returns the process registered under id.
func (r *ProcessRegistry) GetLocal(id string) (Process, bool) {
	return r.processes.Load(id)
}

// RegisterAddressResolver appends resolver to the resolvers consulted for
// foreign addresses.
func (r *ProcessRegistry) RegisterAddressResolver(resolver AddressResolver) {
	r.mu.Lock()
	r.resolvers = append(r.resolvers[:len(r.resolvers):len(r.resolvers)], resolver)
	r.mu.Unlock()
}

// Count returns the number of registered processes.
func (r *ProcessRegistry) Count() int {
	return r.processes.Len()
}

// DeadLetter returns the dead-letter process.
func (r *ProcessRegistry) DeadLetter() Process {
	return r.deadLetter
}
