package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventConversationBegin EventType = "conversation_begin"
	EventConversationEnd   EventType = "conversation_end"
	EventNodeEnter         EventType = "node_enter"
	EventAction            EventType = "action"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp      time.Time `json:"timestamp"`
	Type           EventType `json:"type"`
	ConversationID string    `json:"conversation_id"`
}

// ConversationEvent marks the start or end of a conversation.
type ConversationEvent struct {
	EventBase
	Identity string `json:"identity"`
	TreeID   string `json:"tree_id"`
	// Routed is true when repeat-visit routing replaced the default start node.
	Routed bool `json:"routed,omitempty"`
}

// NodeEvent represents entry into a node.
type NodeEvent struct {
	EventBase
	TreeID   string `json:"tree_id"`
	NodeID   NodeID `json:"node_id"`
	IsPlayer bool   `json:"is_player"`
}

// ActionEvent represents a dispatched action tag.
type ActionEvent struct {
	EventBase
	NodeID    NodeID  `json:"node_id"`
	Tag       string  `json:"tag"`
	LineIndex int     `json:"line_index"`
	Outcome   Outcome `json:"outcome"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnConversationBegin func(context.Context, *ConversationEvent)
	OnConversationEnd   func(context.Context, *ConversationEvent)
	OnNodeEnter         func(context.Context, *NodeEvent)
	OnAction            func(context.Context, *ActionEvent)
}
