package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func begin(id string, at time.Time) *domain.ConversationEvent {
	return &domain.ConversationEvent{
		EventBase: domain.EventBase{Timestamp: at, Type: domain.EventConversationBegin, ConversationID: id},
		Identity:  "crazy_cap",
		TreeID:    "crazy-cap",
	}
}

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	hooks := m.Hooks()
	ctx := context.Background()
	now := time.Now()

	hooks.OnConversationBegin(ctx, begin("c1", now))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Active))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Conversations.WithLabelValues("crazy-cap", "false")))

	hooks.OnNodeEnter(ctx, &domain.NodeEvent{TreeID: "crazy-cap", NodeID: 17})
	hooks.OnNodeEnter(ctx, &domain.NodeEvent{TreeID: "crazy-cap", NodeID: 17})
	assert.Equal(t, 2.0, testutil.ToFloat64(m.NodeVisits.WithLabelValues("crazy-cap", "17")))

	hooks.OnAction(ctx, &domain.ActionEvent{Tag: domain.TagItem, Outcome: domain.Outcome{Pause: true}})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Actions.WithLabelValues("item", "true")))

	end := begin("c1", now.Add(3*time.Second))
	end.Type = domain.EventConversationEnd
	hooks.OnConversationEnd(ctx, end)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Active))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Duration))

	count, err := testutil.GatherAndCount(reg, "parley_conversation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCombine(t *testing.T) {
	var order []string
	a := domain.LifecycleHooks{
		OnNodeEnter: func(context.Context, *domain.NodeEvent) { order = append(order, "a") },
	}
	b := domain.LifecycleHooks{
		OnNodeEnter: func(context.Context, *domain.NodeEvent) { order = append(order, "b") },
		OnAction:    func(context.Context, *domain.ActionEvent) { order = append(order, "b-action") },
	}

	hooks := observability.Combine(a, b)
	hooks.OnNodeEnter(context.Background(), &domain.NodeEvent{})
	hooks.OnAction(context.Background(), &domain.ActionEvent{})
	hooks.OnConversationBegin(context.Background(), &domain.ConversationEvent{})

	assert.Equal(t, []string{"a", "b", "b-action"}, order)
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	hooks := observability.LogHooks(logger)

	hooks.OnConversationBegin(context.Background(), begin("c9", time.Now()))
	assert.Contains(t, buf.String(), "conversation_begin")
	assert.Contains(t, buf.String(), "conversation=c9")
	assert.Contains(t, buf.String(), "tree=crazy-cap")
}
