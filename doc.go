/*
Package parley is a branching dialogue engine for games: NPC conversations
authored as trees of numbered nodes, played one line at a time.

It separates authored content (trees, loaded from YAML files, Loam Markdown
documents or memory) from per-character state (assignment records persisted
in files or Redis) and from presentation (any ports.Surface driven by a
presenter.Presenter).

# Concept

A Tree holds NPC nodes, which speak one or more lines split on "<br>", and
player nodes, which offer options leading to other nodes. Every character has
an assignment naming its tree and counting how often it has been talked to.
Nodes may carry an action tag: the built-in item action pauses until the
player acknowledges it, insanity forces the start node of every later
conversation, and itemLookUp substitutes the character's name into the line.
Repeat-visit routing can jump a returning player straight to another node.

Lines are revealed one character at a time. The engine is driven by Tick and
never blocks; confirming while a line is still being revealed completes it.

# Usage

	game, err := parley.New("./trees", parley.WithAssignments(file.NewAssignmentStore("")))
	if err != nil {
		log.Fatal(err)
	}

	cap := domain.NewAssignment("Crazy Cap", "crazy-cap")
	if _, err := game.Talk(ctx, "Crazy Cap", cap); err != nil {
		log.Fatal(err)
	}

	// Bind a surface and an input source, then drive the frame loop.
	p := game.Presenter(surface, input)
	if err := p.Run(ctx, 16*time.Millisecond); err != nil {
		log.Fatal(err)
	}
*/
package parley
