package runtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/parley/pkg/domain"
)

// Advance moves the conversation forward by one step.
//
// While a line is being revealed, the call only completes the reveal. While an
// action pause is in effect, the call is a no-op until the pause is
// acknowledged. On NPC nodes with an action tag the dispatcher runs first and
// may pause. Remaining lines of a multi-line node are shown in place before
// the next node is loaded. On player nodes the highlighted option is followed.
func (e *Engine) Advance(ctx context.Context) (domain.NodeData, error) {
	if !e.active || e.data.IsEnd {
		return domain.NodeData{}, domain.ErrNotActive
	}

	if e.reveal.Skip() {
		e.logger.Debug("reveal interrupted", "node", e.data.NodeID, "line", e.data.ActiveLineIndex)
		return e.Current(), nil
	}

	if e.data.ActionPaused {
		if !e.acknowledged {
			return e.Current(), nil
		}
		e.logger.Debug("action pause released", "node", e.data.NodeID, "tag", e.data.ExtraData)
		e.data.ActionPaused = false
		e.acknowledged = false
		return e.step(ctx)
	}

	if !e.data.IsPlayerTurn && e.data.ExtraData != "" {
		out := e.dispatcher.Dispatch(e.actionContext())
		e.emitAction(ctx, out)
		if out.Pause {
			e.data.ActionPaused = true
			return e.Current(), nil
		}
	}

	return e.step(ctx)
}

// ConfirmOption commits the highlighted option and advances along it.
func (e *Engine) ConfirmOption(ctx context.Context) (domain.NodeData, error) {
	if e.active && e.data.IsPlayerTurn {
		e.logger.Debug("option confirmed", "node", e.data.NodeID, "option", e.data.SelectedOption)
	}
	return e.Advance(ctx)
}

// SelectOption moves the highlighted option by delta, clamped to the option list.
// It is ignored outside player turns and while an action pause is in effect.
// Returns the highlighted index.
func (e *Engine) SelectOption(delta int) int {
	d := &e.data
	if !e.active || d.IsEnd || !d.IsPlayerTurn || d.ActionPaused || len(d.PlayerOptions) == 0 {
		return d.SelectedOption
	}
	d.SelectedOption = max(0, min(d.SelectedOption+delta, len(d.PlayerOptions)-1))
	return d.SelectedOption
}

// Acknowledge is the external confirmation that lets a paused action continue.
// The next Advance releases the pause and moves on. Returns false if nothing is paused.
func (e *Engine) Acknowledge() bool {
	if !e.active || !e.data.ActionPaused {
		return false
	}
	e.acknowledged = true
	return true
}

func (e *Engine) step(ctx context.Context) (domain.NodeData, error) {
	if e.data.HasMoreLines() {
		e.data.ActiveLineIndex++
		e.activateLine()
		return e.Current(), nil
	}

	from := e.data.NodeID
	next, err := e.store.LoadNext(e.assignment, from, e.data.SelectedOption)
	if errors.Is(err, domain.ErrEndOfTree) {
		e.logger.Debug("end of tree reached", "node", from)
		e.revision++
		e.data = domain.EndNodeData()
		e.data.Revision = e.revision
		e.reveal.Reset()
		return e.Current(), nil
	}
	if err != nil {
		e.logger.Error("advance failed, ending conversation", "node", from, "error", err)
		e.EndConversation(ctx)
		return domain.NodeData{}, fmt.Errorf("failed to advance from node %d: %w", from, err)
	}

	e.enter(ctx, next)
	return e.Current(), nil
}
