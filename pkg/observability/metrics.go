package observability

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by engine events.
type Metrics struct {
	Conversations *prometheus.CounterVec
	Active        prometheus.Gauge
	NodeVisits    *prometheus.CounterVec
	Actions       *prometheus.CounterVec
	Duration      *prometheus.HistogramVec

	mu      sync.Mutex
	started map[string]time.Time
}

// NewMetrics creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer to expose them on the default handler.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Conversations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parley_conversations_total",
				Help: "Total number of conversations begun",
			},
			[]string{"tree", "routed"},
		),
		Active: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "parley_conversations_active",
				Help: "Conversations currently in progress",
			},
		),
		NodeVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parley_node_visits_total",
				Help: "Total number of node visits",
			},
			[]string{"tree", "node_id"},
		),
		Actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parley_actions_total",
				Help: "Total number of dispatched node actions",
			},
			[]string{"tag", "paused"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "parley_conversation_duration_seconds",
				Help:    "Wall time between the beginning and end of a conversation",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
			[]string{"tree"},
		),
		started: make(map[string]time.Time),
	}
	reg.MustRegister(m.Conversations, m.Active, m.NodeVisits, m.Actions, m.Duration)
	return m
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnConversationBegin: func(_ context.Context, e *domain.ConversationEvent) {
			m.Conversations.WithLabelValues(e.TreeID, strconv.FormatBool(e.Routed)).Inc()
			m.Active.Inc()

			m.mu.Lock()
			m.started[e.ConversationID] = e.Timestamp
			m.mu.Unlock()
		},
		OnConversationEnd: func(_ context.Context, e *domain.ConversationEvent) {
			m.Active.Dec()

			m.mu.Lock()
			start, ok := m.started[e.ConversationID]
			delete(m.started, e.ConversationID)
			m.mu.Unlock()
			if ok {
				m.Duration.WithLabelValues(e.TreeID).Observe(e.Timestamp.Sub(start).Seconds())
			}
		},
		OnNodeEnter: func(_ context.Context, e *domain.NodeEvent) {
			m.NodeVisits.WithLabelValues(e.TreeID, strconv.Itoa(int(e.NodeID))).Inc()
		},
		OnAction: func(_ context.Context, e *domain.ActionEvent) {
			m.Actions.WithLabelValues(e.Tag, strconv.FormatBool(e.Outcome.Pause)).Inc()
		},
	}
}
