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

package metric

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// ActorSystemMetric groups the instruments describing an actor system:
//   - actorsystem.deadletters.count
//   - actorsystem.processes.count
//   - actorsystem.restarts.count
//   - actorsystem.uptime (seconds)
type ActorSystemMetric struct {
	deadlettersCount metric.Int64ObservableCounter
	processesCount   metric.Int64ObservableGauge
	restartsCount    metric.Int64ObservableCounter
	uptime           metric.Int64ObservableCounter
}

// NewActorSystemMetric creates the instruments with meter.
func NewActorSystemMetric(meter metric.Meter) (*ActorSystemMetric, error) {
	var instruments ActorSystemMetric
	var err error

	if instruments.deadlettersCount, err = meter.Int64ObservableCounter(
		"actorsystem.deadletters.count",
		metric.WithDescription("Total number of deadletters in the actor system"),
	); err != nil {
		return nil, fmt.Errorf("failed to create deadlettersCount instrument, %w", err)
	}

	if instruments.processesCount, err = meter.Int64ObservableGauge(
		"actorsystem.processes.count",
		metric.WithDescription("Number of processes registered in the actor system"),
	); err != nil {
		return nil, fmt.Errorf("failed to create processesCount instrument, %w", err)
	}

	if instruments.restartsCount, err = meter.Int64ObservableCounter(
		"actorsystem.restarts.count",
		metric.WithDescription("Total number of actor restarts in the actor system"),
	); err != nil {
		return nil, fmt.Errorf("failed to create restartsCount instrument, %w", err)
	}

	if instruments.uptime, err = meter.Int64ObservableCounter(
		"actorsystem.uptime",
		metric.WithDescription("Uptime of the actor system in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create uptime instrument, %w", err)
	}

	return &instruments, nil
}

// DeadlettersCount returns the counter of messages routed to dead letters.
func (x *ActorSystemMetric) DeadlettersCount() metric.Int64ObservableCounter {
	return x.deadlettersCount
}

// ProcessesCount returns the gauge of registered processes.
func (x *ActorSystemMetric) ProcessesCount() metric.Int64ObservableGauge {
	return x.processesCount
}

// RestartsCount returns the counter of actor restarts.
func (x *ActorSystemMetric) RestartsCount() metric.Int64ObservableCounter {
	return x.restartsCount
}

// Uptime returns the counter of seconds elapsed since the system started.
func (x *ActorSystemMetric) Uptime() metric.Int64ObservableCounter {
	return x.uptime
}

// Instruments returns every instrument, as expected by Meter.RegisterCallback.
func (x *ActorSystemMetric) Instruments() []metric.Observable {
	return []metric.Observable{
		x.deadlettersCount,
		x.processesCount,
		x.restartsCount,
		x.uptime,
	}
}
