/*
Package dsl provides a Go DSL for programmatically constructing dialogue trees.

It allows developers to author conversations with a fluent builder instead of
YAML or Markdown files. This is particularly useful for generated dialogue and
unit tests.

Example usage:

	b := dsl.New("crazy-cap").Name("Crazy Cap")

	b.Add(0).
		Say("Cap", "Hello there, [NAME].", "Nice weather.").
		Action(domain.TagItemLookUp).
		Go(1)

	b.Add(1).
		Choice("Got anything for me?", 2).
		Choice("Bye.", domain.NoNode)

	b.Add(2).
		Say("Cap", "Take this.").
		Action(domain.TagItem).
		End()

	// The result can be passed to parley.New with parley.WithLoader.
	loader, err := b.Build()
*/
package dsl
