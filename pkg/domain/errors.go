package domain

import "errors"

// ErrNoTreeAssigned is returned when a conversation is begun for an assignment without a tree.
var ErrNoTreeAssigned = errors.New("no dialogue tree assigned")

// ErrEndOfTree is returned by dialogue stores when traversal leaves the tree.
// It is an expected terminal condition and surfaces to callers as NodeData.IsEnd.
var ErrEndOfTree = errors.New("end of dialogue tree")

// ErrNodeNotFound is returned when a node id does not exist in a tree.
var ErrNodeNotFound = errors.New("node not found")

// ErrTreeNotFound is returned when a loader has no tree with the requested id.
var ErrTreeNotFound = errors.New("tree not found")

// ErrNotActive is returned when an operation needs an active conversation.
var ErrNotActive = errors.New("no active conversation")

// ErrAssignmentNotFound is returned by assignment stores for unknown identities.
var ErrAssignmentNotFound = errors.New("assignment not found")
