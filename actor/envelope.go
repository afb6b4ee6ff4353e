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
	"maps"
	"slices"
)

// MessageHeader is the read-only view of the metadata attached to a message.
type MessageHeader interface {
	// Get returns the value for key or an empty string.
	Get(key string) string
	// Keys returns the header keys in sorted order.
	Keys() []string
	// Length returns the number of entries.
	Length() int
	// ToMap returns a copy of the entries.
	ToMap() map[string]string
}

type messageHeader map[string]string

// EmptyMessageHeader is the header of messages sent without metadata.
var EmptyMessageHeader MessageHeader = messageHeader(nil)

var _ MessageHeader = messageHeader(nil)

func (m messageHeader) Get(key string) string {
	return m[key]
}

func (m messageHeader) Keys() []string {
	return slices.Sorted(maps.Keys(m))
}

func (m messageHeader) Length() int {
	return len(m)
}

func (m messageHeader) ToMap() map[string]string {
	return maps.Clone(map[string]string(m))
}

// NewMessageHeader creates a header holding a copy of the given entries.
func NewMessageHeader(entries map[string]string) MessageHeader {
	if len(entries) == 0 {
		return EmptyMessageHeader
	}
	return messageHeader(maps.Clone(entries))
}

// MessageEnvelope pairs a message with its optional sender and header.
// Envelopes are never mutated once posted; use WithHeader to derive a new one.
type MessageEnvelope struct {
	Header  MessageHeader
	Message any
	Sender  *PID
}

// GetHeader returns the header value for key.
func (envelope *MessageEnvelope) GetHeader(key string) string {
	if envelope.Header == nil {
		return ""
	}
	return envelope.Header.Get(key)
}

// WithHeader returns a copy of the envelope with key set to value.
func (envelope *MessageEnvelope) WithHeader(key, value string) *MessageEnvelope {
	entries := make(map[string]string, 1)
	if envelope.Header != nil {
		entries = envelope.Header.ToMap()
		if entries == nil {
			entries = make(map[string]string, 1)
		}
	}
	entries[key] = value
	return &MessageEnvelope{
		Header:  messageHeader(entries),
		Message: envelope.Message,
		Sender:  envelope.Sender,
	}
}

// WrapEnvelope returns message as an envelope. An envelope is returned unchanged.
func WrapEnvelope(message any) *MessageEnvelope {
	if envelope, ok := message.(*MessageEnvelope); ok {
		return envelope
	}
	return &MessageEnvelope{Header: EmptyMessageHeader, Message: message}
}

// UnwrapEnvelope splits message into its header, payload and sender.
// A bare message yields an empty header and a nil sender.
func UnwrapEnvelope(message any) (MessageHeader, any, *PID) {
	if envelope, ok := message.(*MessageEnvelope); ok {
		header := envelope.Header
		if header == nil {
			header = EmptyMessageHeader
		}
		return header, envelope.Message, envelope.Sender
	}
	return EmptyMessageHeader, message, nil
}

// UnwrapEnvelopeHeader returns the header of message.
func UnwrapEnvelopeHeader(message any) MessageHeader {
	header, _, _ := UnwrapEnvelope(message)
	return header
}

// UnwrapEnvelopeMessage returns the payload of message.
func UnwrapEnvelopeMessage(message any) any {
	_, payload, _ := UnwrapEnvelope(message)
	return payload
}

// UnwrapEnvelopeSender returns the sender carried by message, if any.
func UnwrapEnvelopeSender(message any) *PID {
	_, _, sender := UnwrapEnvelope(message)
	return sender
}
