package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/parley/pkg/domain"
)

// Combine fans every event out to all given hooks, in order.
func Combine(all ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks

	out.OnConversationBegin = func(ctx context.Context, e *domain.ConversationEvent) {
		for _, h := range all {
			if h.OnConversationBegin != nil {
				h.OnConversationBegin(ctx, e)
			}
		}
	}
	out.OnConversationEnd = func(ctx context.Context, e *domain.ConversationEvent) {
		for _, h := range all {
			if h.OnConversationEnd != nil {
				h.OnConversationEnd(ctx, e)
			}
		}
	}
	out.OnNodeEnter = func(ctx context.Context, e *domain.NodeEvent) {
		for _, h := range all {
			if h.OnNodeEnter != nil {
				h.OnNodeEnter(ctx, e)
			}
		}
	}
	out.OnAction = func(ctx context.Context, e *domain.ActionEvent) {
		for _, h := range all {
			if h.OnAction != nil {
				h.OnAction(ctx, e)
			}
		}
	}
	return out
}

// LogHooks writes each event as a structured log record at info level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnConversationBegin: func(ctx context.Context, e *domain.ConversationEvent) {
			logger.InfoContext(ctx, string(e.Type),
				"conversation", e.ConversationID,
				"identity", e.Identity,
				"tree", e.TreeID,
				"routed", e.Routed,
			)
		},
		OnConversationEnd: func(ctx context.Context, e *domain.ConversationEvent) {
			logger.InfoContext(ctx, string(e.Type),
				"conversation", e.ConversationID,
				"identity", e.Identity,
			)
		},
		OnNodeEnter: func(ctx context.Context, e *domain.NodeEvent) {
			logger.InfoContext(ctx, string(e.Type),
				"conversation", e.ConversationID,
				"node", e.NodeID,
				"player", e.IsPlayer,
			)
		},
		OnAction: func(ctx context.Context, e *domain.ActionEvent) {
			logger.InfoContext(ctx, string(e.Type),
				"conversation", e.ConversationID,
				"tag", e.Tag,
				"node", e.NodeID,
				"line", e.LineIndex,
				"pause", e.Outcome.Pause,
			)
		},
	}
}
