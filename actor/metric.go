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
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"

	"github.com/tochemey/pactor/internal/metric"
)

// systemMetrics holds the counters observed by the metric instruments.
type systemMetrics struct {
	restarts     *atomic.Int64
	registration otelmetric.Registration
}

func newSystemMetrics() *systemMetrics {
	return &systemMetrics{restarts: atomic.NewInt64(0)}
}

func (m *systemMetrics) restarted() {
	m.restarts.Inc()
}

func (m *systemMetrics) unregister() error {
	if m.registration == nil {
		return nil
	}
	return m.registration.Unregister()
}

// registerMetrics registers the observation callback of the system instruments.
func (s *ActorSystem) registerMetrics(meterProvider otelmetric.MeterProvider) error {
	meter := metric.NewProvider(meterProvider).Meter()
	instruments, err := metric.NewActorSystemMetric(meter)
	if err != nil {
		return err
	}

	observeOptions := []otelmetric.ObserveOption{
		otelmetric.WithAttributes(attribute.String("actor.system", s.name)),
	}

	registration, err := meter.RegisterCallback(func(_ context.Context, observer otelmetric.Observer) error {
		observer.ObserveInt64(instruments.DeadlettersCount(), s.deadLetter.Count(), observeOptions...)
		observer.ObserveInt64(instruments.ProcessesCount(), int64(s.registry.Count()), observeOptions...)
		observer.ObserveInt64(instruments.RestartsCount(), s.metrics.restarts.Load(), observeOptions...)
		observer.ObserveInt64(instruments.Uptime(), int64(time.Since(s.startedAt.Load()).Seconds()), observeOptions...)
		return nil
	}, instruments.Instruments()...)
	if err != nil {
		return err
	}

	s.metrics.registration = registration
	return nil
}
