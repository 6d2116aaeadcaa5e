package ports

// OptionView is one rendered player option.
type OptionView struct {
	Text       string
	IsSelected bool
}

// Surface is the UI toolkit boundary. Implementations only draw; they never
// mutate conversation state.
type Surface interface {
	SetContainerVisible(visible bool)
	SetSpeakerPanelVisible(isPlayer bool)
	SetSpeakerName(name string)
	SetSpeakerText(text string)
	SetNoticeVisible(visible bool)

	// ClearOptions disposes every option widget currently rendered.
	ClearOptions()
	// RenderOptions draws the given list, replacing nothing: callers clear first.
	RenderOptions(options []OptionView)
	// HighlightOption updates selection state of the options already rendered.
	HighlightOption(index int)
}

// Event is a discrete input edge.
type Event int

const (
	EventNone Event = iota
	EventScrollUp
	EventScrollDown
	// EventConfirm advances, skips a reveal, or commits the highlighted option.
	EventConfirm
	EventQuit
)

func (e Event) String() string {
	switch e {
	case EventScrollUp:
		return "scroll_up"
	case EventScrollDown:
		return "scroll_down"
	case EventConfirm:
		return "confirm"
	case EventQuit:
		return "quit"
	default:
		return "none"
	}
}

// InputSource yields the key-down edges seen since the previous poll.
// Each key fires at most once per tick.
type InputSource interface {
	Poll() []Event
}
