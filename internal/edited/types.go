// Package edited decodes a message's message_summary_info plist into the
// per-part edit/retract history described in spec.md §4.5.
package edited

// Status is the lifecycle state of one original message part.
type Status int

const (
	StatusOriginal Status = iota
	StatusEdited
	StatusUnsent
)

func (s Status) String() string {
	switch s {
	case StatusOriginal:
		return "Original"
	case StatusEdited:
		return "Edited"
	case StatusUnsent:
		return "Unsent"
	default:
		return "Unknown"
	}
}

// Event is one entry in a part's edit history: the original send (first
// event) or a subsequent edit. Body holds the event's own embedded
// attributedBody blob as raw bytes; it is not decoded, and an Event carries
// no component list of its own.
type Event struct {
	Date       int64 // nanoseconds since Apple epoch, same units as Message.Date
	Text       string
	Body       []byte // the event's own attributedBody blob, if present
	GUID       string
	HasGUID    bool
}

// Part is one original message part's edit/retract history.
type Part struct {
	Status  Status
	History []Event
}

// Message is the per-part decode of message_summary_info, aligned one to
// one with the original (pre-retraction-splicing) message parts.
type Message struct {
	Parts []Part
}

// IsPartEdited reports whether the part at idx is marked Edited.
func (m Message) IsPartEdited(idx int) bool {
	return idx >= 0 && idx < len(m.Parts) && m.Parts[idx].Status == StatusEdited
}

// IsPartUnsent reports whether the part at idx is marked Unsent.
func (m Message) IsPartUnsent(idx int) bool {
	return idx >= 0 && idx < len(m.Parts) && m.Parts[idx].Status == StatusUnsent
}
