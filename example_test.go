package parley_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/parley"
	"github.com/aretw0/parley/pkg/adapters/memory"
	"github.com/aretw0/parley/pkg/domain"
)

// ExampleNew_memory drives a conversation without a terminal, using an in-memory tree.
func ExampleNew_memory() {
	tree := domain.NewTree("guard", 0,
		&domain.Node{ID: 0, Kind: domain.KindNPC, Tag: "Guard", Text: "Halt, [NAME]!<br>State your business.", ExtraData: domain.TagItemLookUp, Next: 1},
		&domain.Node{ID: 1, Kind: domain.KindPlayer, Options: []domain.Option{
			{Text: "Just passing through", To: 2},
			{Text: "None of yours", To: domain.NoNode},
		}},
		&domain.Node{ID: 2, Kind: domain.KindNPC, Tag: "Guard", Text: "Move along then.", Next: domain.NoNode},
	)

	game, err := parley.New("", parley.WithLoader(memory.NewLoader(tree)))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	hero := domain.NewAssignment("guard", "guard")
	hero.Display = "stranger"

	data, err := game.BeginConversation(ctx, hero)
	if err != nil {
		log.Fatal(err)
	}

	for !data.IsEnd {
		switch {
		case data.IsPlayerTurn:
			fmt.Printf("> %s\n", data.PlayerOptions[data.SelectedOption])
		case game.Revealing():
			// Skip the typewriter effect.
			if _, err := game.Advance(ctx); err != nil {
				log.Fatal(err)
			}
			fmt.Printf("%s: %s\n", data.SpeakerTag, game.ShownText())
		}
		if data, err = game.Advance(ctx); err != nil {
			log.Fatal(err)
		}
	}

	// Output:
	// Guard: Halt, stranger!
	// Guard: State your business.
	// > Just passing through
	// Guard: Move along then.
}
