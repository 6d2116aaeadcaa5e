package runtime

import (
	"context"
	"time"

	"github.com/aretw0/parley/pkg/domain"
)

func (e *Engine) base(t domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp:      time.Now(),
		Type:           t,
		ConversationID: e.conversationID,
	}
}

func (e *Engine) conversationEvent(t domain.EventType, routed bool) *domain.ConversationEvent {
	evt := &domain.ConversationEvent{EventBase: e.base(t), Routed: routed}
	if e.assignment != nil {
		evt.Identity = e.assignment.Identity()
		evt.TreeID = e.assignment.TreeID()
	}
	return evt
}

func (e *Engine) emitConversationBegin(ctx context.Context, routed bool) {
	if e.hooks.OnConversationBegin != nil {
		e.hooks.OnConversationBegin(ctx, e.conversationEvent(domain.EventConversationBegin, routed))
	}
}

func (e *Engine) emitConversationEnd(ctx context.Context) {
	if e.hooks.OnConversationEnd != nil {
		e.hooks.OnConversationEnd(ctx, e.conversationEvent(domain.EventConversationEnd, false))
	}
}

func (e *Engine) emitNodeEnter(ctx context.Context) {
	if e.hooks.OnNodeEnter == nil {
		return
	}
	evt := &domain.NodeEvent{
		EventBase: e.base(domain.EventNodeEnter),
		NodeID:    e.data.NodeID,
		IsPlayer:  e.data.IsPlayerTurn,
	}
	if e.assignment != nil {
		evt.TreeID = e.assignment.TreeID()
	}
	e.hooks.OnNodeEnter(ctx, evt)
}

func (e *Engine) emitAction(ctx context.Context, out domain.Outcome) {
	if e.hooks.OnAction != nil {
		e.hooks.OnAction(ctx, &domain.ActionEvent{
			EventBase: e.base(domain.EventAction),
			NodeID:    e.data.NodeID,
			Tag:       e.data.ExtraData,
			LineIndex: e.data.ActiveLineIndex,
			Outcome:   out,
		})
	}
}
