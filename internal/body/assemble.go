package body

import (
	"github.com/lrhodin/imessage-export/internal/edited"
	"github.com/lrhodin/imessage-export/internal/typedstream"
)

// Input bundles the raw row fields the body assembler needs, per spec.md
// §4.6.
type Input struct {
	// Text is the row's plain-text column, used both as the legacy-parser
	// source and as the fallback when no attributedBody blob decodes.
	Text string
	// AttributedBody is the raw typedstream blob from the attributedBody
	// column, or nil if absent.
	AttributedBody []byte
	// Edits is the decoded message_summary_info for this row, or the zero
	// value if absent/undecodable.
	Edits edited.Message
	// PartIndex selects which edited.Message part this row corresponds to.
	PartIndex int
	// HasPayload reports whether the row carries a non-null payload_data
	// blob (a balloon attachment).
	HasPayload bool
	// BalloonBundleID is the row's balloon_bundle_id column, or "" if null.
	BalloonBundleID string
}

// Assemble runs the full C6 pipeline for one message row: typedstream
// decode with legacy fallback (§4.6.2, §4.6.5), retraction splicing
// (§4.6.4), and single-URL coalescing (§4.6.6).
func Assemble(in Input) (Result, bool) {
	text := in.Text
	components, leading, ok := decodeTypedstream(in.AttributedBody)
	if ok && leading != "" {
		text = leading
	}
	if !ok || len(components) == 0 {
		components = legacyParse(text)
	}

	components = spliceRetractions(components, in.Edits, in.PartIndex)
	components = coalesceSingleURL(components, in.HasPayload, in.BalloonBundleID)

	if len(components) == 0 && text == "" {
		return Result{}, false
	}
	return Result{Text: text, HasText: text != "", Components: components}, true
}

// decodeTypedstream decodes an attributedBody blob into its leading
// NSString (the plain text) and the consumed attribute-run components. ok
// is false on any C1 decode failure, signaling the caller to use the
// legacy fallback.
func decodeTypedstream(blob []byte) (components []Component, text string, ok bool) {
	if len(blob) == 0 {
		return nil, "", false
	}
	dec, err := typedstream.NewDecoder(blob)
	if err != nil {
		return nil, "", false
	}
	props, err := dec.Properties()
	if err != nil || len(props) == 0 {
		return nil, "", false
	}
	leading, isStr := typedstream.AsNSString(props[0])
	if !isStr {
		return nil, "", false
	}
	return consumeAttributeRuns(props[1:], leading), leading, true
}

// spliceRetractions inserts a Retracted component at the part's original
// position when the edited-message history marks it Unsent, per spec.md
// §4.6.4.
func spliceRetractions(out []Component, edits edited.Message, partIndex int) []Component {
	if !edits.IsPartUnsent(partIndex) {
		return out
	}
	if partIndex < len(out) {
		spliced := make([]Component, 0, len(out)+1)
		spliced = append(spliced, out[:partIndex]...)
		spliced = append(spliced, Component{Kind: ComponentRetracted})
		spliced = append(spliced, out[partIndex:]...)
		return spliced
	}
	return append(out, Component{Kind: ComponentRetracted})
}

// coalesceSingleURL collapses the message to a single App component
// whenever a balloon bundle id is present, regardless of the shape
// `out` happens to be in, and otherwise only when `out` is a lone
// Link-only Text run backed by a payload blob. Per
// `original_source/imessage-database/src/tables/messages/message.rs`'s
// `generate_text` and the Open Question resolved in SPEC_FULL.md §13 #1:
// a present bundle id alone is sufficient; the single-URL-plus-blob rule
// is a separate, narrower path for messages with no bundle id at all.
func coalesceSingleURL(out []Component, hasPayload bool, balloonBundleID string) []Component {
	if balloonBundleID != "" {
		return []Component{{Kind: ComponentApp}}
	}
	if len(out) != 1 || out[0].Kind != ComponentText || len(out[0].Runs) != 1 {
		return out
	}
	if _, ok := out[0].Runs[0].HasOnlyLink(); !ok {
		return out
	}
	if hasPayload {
		return []Component{{Kind: ComponentApp}}
	}
	return out
}
