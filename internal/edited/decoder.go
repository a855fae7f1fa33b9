package edited

import (
	"github.com/lrhodin/imessage-export/internal/plist"
)

// Decode walks the resolved message_summary_info plist (already run through
// internal/plist) into a Message.
//
// message_summary_info's on-disk key names are not publicly documented at
// the byte level beyond what spec.md describes semantically; this decoder
// therefore expects a "parts" array (one entry per original message part)
// whose elements are either absent (nil node, meaning StatusOriginal), a
// dict with "unsent": true (StatusUnsent), or a dict with a "history" array
// of {"date", "text"?, "body"?, "guid"?} event dicts (StatusEdited). This is
// the package's own schema convention for the semantics spec.md specifies,
// not a claim of bit-exact agreement with Apple's internal key names — see
// DESIGN.md.
func Decode(root plist.Node) (Message, error) {
	partsNode, ok := root.Get("parts")
	if !ok {
		return Message{}, nil
	}
	elems, ok := partsNode.AsArray()
	if !ok {
		return Message{}, nil
	}

	out := Message{Parts: make([]Part, 0, len(elems))}
	for _, elem := range elems {
		part, err := decodePart(elem)
		if err != nil {
			return Message{}, err
		}
		out.Parts = append(out.Parts, part)
	}
	return out, nil
}

func decodePart(n plist.Node) (Part, error) {
	if n.Kind == plist.KindNil {
		return Part{Status: StatusOriginal}, nil
	}
	if unsent, ok := n.Get("unsent"); ok {
		if b, ok := unsent.AsBool(); ok && b {
			return Part{Status: StatusUnsent}, nil
		}
	}
	historyNode, ok := n.Get("history")
	if !ok {
		return Part{Status: StatusOriginal}, nil
	}
	elems, ok := historyNode.AsArray()
	if !ok {
		return Part{Status: StatusOriginal}, nil
	}

	events := make([]Event, 0, len(elems))
	for _, e := range elems {
		ev, err := decodeEvent(e)
		if err != nil {
			return Part{}, err
		}
		events = append(events, ev)
	}
	return Part{Status: StatusEdited, History: events}, nil
}

func decodeEvent(n plist.Node) (Event, error) {
	var ev Event
	if dateNode, ok := n.Get("date"); ok {
		if v, ok := dateNode.AsInteger(); ok {
			ev.Date = v
		}
	}
	if textNode, ok := n.Get("text"); ok {
		if s, ok := textNode.AsString(); ok {
			ev.Text = s
		}
	}
	if bodyNode, ok := n.Get("body"); ok && bodyNode.Kind == plist.KindData {
		ev.Body = bodyNode.Data
	}
	if guidNode, ok := n.Get("guid"); ok {
		if s, ok := guidNode.AsString(); ok {
			ev.GUID = s
			ev.HasGUID = true
		}
	}
	return ev, nil
}
