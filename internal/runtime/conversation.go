package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/ports"
	"github.com/google/uuid"
)

// BeginConversation loads the first node of the assignment's tree.
//
// A start override stored on the record replaces the tree's first node. For
// characters talked to before, repeat-visit routing may then jump elsewhere.
// Beginning while a conversation is active ends that conversation first.
func (e *Engine) BeginConversation(ctx context.Context, a ports.AssignmentRecord) (domain.NodeData, error) {
	if e.active {
		e.logger.Debug("ending previous conversation before begin")
		e.EndConversation(ctx)
	}

	if a == nil || a.TreeID() == "" {
		e.logger.Warn("conversation begun without a dialogue tree")
		return domain.NodeData{}, domain.ErrNoTreeAssigned
	}

	data, err := e.store.LoadFirstNode(a)
	if err != nil {
		return domain.NodeData{}, fmt.Errorf("failed to begin conversation with %q: %w", a.Identity(), err)
	}

	if override, ok := a.OverrideStartNode(); ok {
		data, err = e.store.LoadNode(a, override)
		if err != nil {
			return domain.NodeData{}, fmt.Errorf("failed to load start override %d: %w", override, err)
		}
	}

	routed := false
	if target, ok := e.router.Resolve(e.world, a); ok {
		data, err = e.store.LoadNode(a, target)
		if err != nil {
			return domain.NodeData{}, fmt.Errorf("failed to load repeat-visit node %d: %w", target, err)
		}
		routed = true
	}

	a.RecordInteraction()

	e.active = true
	e.assignment = a
	e.conversationID = uuid.NewString()
	e.logger = e.baseLogger.With(
		"conversation", e.conversationID,
		"identity", a.Identity(),
		"tree", a.TreeID(),
	)
	e.logger.Info("conversation begun", "start", data.NodeID, "routed", routed, "interactions", a.InteractionCount())
	e.emitConversationBegin(ctx, routed)

	e.enter(ctx, data)
	return e.Current(), nil
}

// JumpToNode moves the conversation to id, bypassing edges and actions.
func (e *Engine) JumpToNode(ctx context.Context, id domain.NodeID) (domain.NodeData, error) {
	if !e.active {
		return domain.NodeData{}, domain.ErrNotActive
	}

	data, err := e.store.LoadNode(e.assignment, id)
	if err != nil {
		e.logger.Error("jump failed, ending conversation", "target", id, "error", err)
		e.EndConversation(ctx)
		return domain.NodeData{}, fmt.Errorf("failed to jump to node %d: %w", id, err)
	}

	e.logger.Debug("jump", "from", e.data.NodeID, "to", id)
	e.enter(ctx, data)
	return e.Current(), nil
}

// EndConversation returns the engine to idle. Calling it while idle is a no-op.
func (e *Engine) EndConversation(ctx context.Context) {
	if !e.active {
		return
	}

	e.logger.Info("conversation ended", "reached_end", e.data.IsEnd)
	e.emitConversationEnd(ctx)

	e.active = false
	e.assignment = nil
	e.data = domain.NodeData{}
	e.acknowledged = false
	e.conversationID = ""
	e.reveal.Reset()
	e.logger = e.baseLogger
}

// enter replaces the NodeData wholesale and makes its first line active.
func (e *Engine) enter(ctx context.Context, data domain.NodeData) {
	e.revision++
	data.Revision = e.revision
	data.ActiveLineIndex = 0
	data.SelectedOption = 0
	data.ActionPaused = false

	e.data = data
	e.acknowledged = false
	e.emitNodeEnter(ctx)
	e.activateLine()
}

// activateLine applies text substitution to the active line, then schedules its reveal.
// Substitution always completes before the reveal starts. A line identical to the
// one already shown or being revealed is left untouched.
func (e *Engine) activateLine() {
	if e.data.IsPlayerTurn || e.data.IsEnd || len(e.data.NPCLines) == 0 {
		e.reveal.Reset()
		return
	}

	idx := e.data.ActiveLineIndex
	if e.data.ExtraData != "" && !e.data.ActionPaused {
		e.data.NPCLines[idx] = e.dispatcher.Substitute(e.actionContext(), e.data.NPCLines[idx])
	}
	e.reveal.Start(e.data.NPCLines[idx])
}
