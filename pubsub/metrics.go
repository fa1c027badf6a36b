// Copyright 2025-2026 Patrick J. Scruggs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pubsub

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts subscriber operations. A nil *Metrics records nothing.
type Metrics struct {
	pulled   prometheus.Counter
	pulls    *prometheus.CounterVec
	acks     *prometheus.CounterVec
	delays   *prometheus.CounterVec
	ackedIDs prometheus.Counter
}

// NewMetrics creates the subscriber counters and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		pulled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gcpkit_pubsub_pulled_messages_total",
			Help: "Messages returned by Pull.",
		}),
		pulls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gcpkit_pubsub_pull_requests_total",
			Help: "Pull requests by outcome.",
		}, []string{"subscription", "result"}),
		acks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gcpkit_pubsub_acknowledge_requests_total",
			Help: "Acknowledge requests by outcome.",
		}, []string{"subscription", "result"}),
		delays: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gcpkit_pubsub_modify_deadline_requests_total",
			Help: "Deadline modification requests by outcome.",
		}, []string{"subscription", "result"}),
		ackedIDs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gcpkit_pubsub_acknowledged_messages_total",
			Help: "Ack IDs successfully acknowledged.",
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.pulled, m.pulls, m.acks, m.delays, m.ackedIDs} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register pubsub metrics: %w", err)
		}
	}
	return m, nil
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) observePull(subscription string, n int, err error) {
	if m == nil {
		return
	}
	m.pulls.WithLabelValues(subscription, result(err)).Inc()
	m.pulled.Add(float64(n))
}

func (m *Metrics) observeAck(subscription string, n int, err error) {
	if m == nil {
		return
	}
	m.acks.WithLabelValues(subscription, result(err)).Inc()
	if err == nil {
		m.ackedIDs.Add(float64(n))
	}
}

func (m *Metrics) observeDelay(subscription string, err error) {
	if m == nil {
		return
	}
	m.delays.WithLabelValues(subscription, result(err)).Inc()
}
