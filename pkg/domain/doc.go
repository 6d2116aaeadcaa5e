/*
Package domain contains the core models of the parley dialogue engine.

It defines the authored dialogue tree (an arena of nodes addressed by integer id),
the per-step NodeData snapshot the engine hands to presenters, the assignment
record that ties a character to a tree, and the lifecycle hooks used for
observability. This package is kept pure and free of I/O.

# Key Entities

  - Tree / Node: authored content. A node is either an NPC turn (one or more lines)
    or a player turn (a set of reply options).
  - NodeData: the snapshot describing where a conversation currently is.
  - Assignment: per-character metadata (identity, tree, visit counter, start override).
  - LifecycleHooks: callbacks fired by the engine on begin, node enter, action and end.
*/
package domain
