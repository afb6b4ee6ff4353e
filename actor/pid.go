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

import "strings"

// PID is the addressable handle of a process.
//
// A PID does not own anything: it is a lookup key resolved through the
// ProcessRegistry to the Process currently accepting messages for it. Two PIDs
// are equal when both their address and id are equal, which makes the value
// form usable as a map or set key.
type PID struct {
	address string
	id      string
}

// NewPID creates a PID for the given address and id.
func NewPID(address, id string) *PID {
	return &PID{address: address, id: id}
}

// Address returns the address of the host owning the process.
func (pid *PID) Address() string {
	if pid == nil {
		return ""
	}
	return pid.address
}

// ID returns the process id, unique within its address.
func (pid *PID) ID() string {
	if pid == nil {
		return ""
	}
	return pid.id
}

// String returns the short form address/id used in logs and map keys.
func (pid *PID) String() string {
	if pid == nil {
		return "nil"
	}

	var sb strings.Builder
	sb.Grow(len(pid.address) + len(pid.id) + 1)
	sb.WriteString(pid.address)
	sb.WriteByte('/')
	sb.WriteString(pid.id)
	return sb.String()
}

// Equals reports whether pid and other identify the same process.
// Two nil PIDs are equal.
func (pid *PID) Equals(other *PID) bool {
	if pid == nil || other == nil {
		return pid == other
	}
	return pid.address == other.address && pid.id == other.id
}
