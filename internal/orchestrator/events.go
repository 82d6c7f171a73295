package orchestrator

import "encoding/json"

// Event is one element of a run's live output stream. The transport layer
// pattern-matches on the concrete type.
type Event interface {
	isEvent()
}

// TextDelta is an incremental fragment of the assistant's answer.
type TextDelta struct {
	Content string
}

// ToolCallAnnouncement surfaces the capability invocations one reasoning
// step requested, in request order.
type ToolCallAnnouncement struct {
	Calls []AnnouncedCall
}

// AnnouncedCall is a capability name plus its argument mapping. It marshals
// as a [name, args] pair to match the wire protocol.
type AnnouncedCall struct {
	Name string
	Args map[string]any
}

func (TextDelta) isEvent()            {}
func (ToolCallAnnouncement) isEvent() {}

func (c AnnouncedCall) MarshalJSON() ([]byte, error) {
	args := c.Args
	if args == nil {
		args = map[string]any{}
	}
	return json.Marshal([2]any{c.Name, args})
}
