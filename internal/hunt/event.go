package hunt

import "strings"

// EventKind classifies inbound updates.
type EventKind uint8

const (
	// EventOther is any message that is neither text nor a location.
	EventOther EventKind = iota
	// EventCommand is a slash command such as /start.
	EventCommand
	// EventText is free text.
	EventText
	// EventLocation is a shared location.
	EventLocation
)

func (k EventKind) String() string {
	switch k {
	case EventCommand:
		return "command"
	case EventText:
		return "text"
	case EventLocation:
		return "location"
	default:
		return "other"
	}
}

// Commands understood by the engine.
const (
	CmdStart = "/start"
	CmdHelp  = "/help"
	CmdCheck = "/check"
)

// Event is one inbound update scoped to a session.
type Event struct {
	Kind     EventKind
	Command  string
	Text     string
	Location Coordinate
	// Lang is the sender's IETF language tag, used only for rendering.
	Lang string
}

// CommandEvent builds a command event. Arguments and a trailing @botname are dropped.
func CommandEvent(text string) Event {
	name := strings.TrimSpace(text)
	if i := strings.IndexAny(name, " \t\n"); i >= 0 {
		name = name[:i]
	}
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	return Event{Kind: EventCommand, Command: strings.ToLower(name), Text: text}
}

// TextEvent classifies free text, treating a leading slash as a command.
func TextEvent(text string) Event {
	if strings.HasPrefix(strings.TrimSpace(text), "/") {
		return CommandEvent(text)
	}
	return Event{Kind: EventText, Text: text}
}

// LocationEvent builds a location event.
func LocationEvent(lat, lon float64) Event {
	return Event{Kind: EventLocation, Location: Coordinate{Lat: lat, Lon: lon}}
}
