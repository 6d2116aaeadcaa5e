package domain

// Built-in action tags carried in Node.ExtraData.
const (
	// TagItem pauses on the first line of its node until the player acknowledges
	// receiving an item.
	TagItem = "item"
	// TagInsanity rewrites the start node of future conversations.
	TagInsanity = "insanity"
	// TagItemLookUp substitutes placeholders in the active line before it is revealed.
	TagItemLookUp = "itemLookUp"
)

// NamePlaceholder is replaced with the assignment's display name by TagItemLookUp.
const NamePlaceholder = "[NAME]"

// Outcome is what an action decided about advancing the conversation.
type Outcome struct {
	// AdvancesAutomatically means the action moved the conversation on by itself.
	AdvancesAutomatically bool
	// Pause suspends advancement until the pause is acknowledged.
	Pause bool
}
