// Package body assembles a decoded message row's attributedBody,
// payload_data and message_summary_info blobs into an ordered sequence of
// bubble components, per spec.md §4.6.
package body

// ComponentKind discriminates the four BubbleComponent shapes.
type ComponentKind int

const (
	ComponentText ComponentKind = iota
	ComponentAttachment
	ComponentApp
	ComponentRetracted
)

// Component is a single bubble in the rendered message, order-preserving.
type Component struct {
	Kind       ComponentKind
	Runs       []TextAttributes // populated when Kind == ComponentText
	Attachment AttachmentMeta   // populated when Kind == ComponentAttachment
}

// TextAttributes is one attribute run: [Start, End) are UTF-8 byte offsets
// into the message text, and Effects is the set of TextEffect values
// applied together across that span.
type TextAttributes struct {
	Start, End int
	Effects    []TextEffect
}

// AttachmentMeta describes an attachment referenced inline in the body;
// correspondence to the attachment table is positional (nth Attachment
// component <-> nth attached file row).
type AttachmentMeta struct {
	GUID          *string
	Transcription *string
	Height        *int
	Width         *int
	Name          *string
}

// EffectKind discriminates the TextEffect sum type.
type EffectKind int

const (
	EffectDefault EffectKind = iota
	EffectMention
	EffectLink
	EffectOTP
	EffectConversion
	EffectStyles
	EffectAnimated
)

// Unit is the kind of value a Conversion effect recognizes.
type Unit int

const (
	UnitTimezone Unit = iota
	UnitCurrency
	UnitDistance
)

// Style is one text decoration; Styles effects carry a non-empty set of
// these applied together.
type Style int

const (
	StyleBold Style = iota
	StyleItalic
	StyleUnderline
	StyleStrikethrough
)

// Animation is a Messages "big emoji"/effect animation id.
type Animation int

const (
	AnimationUnknown Animation = iota
	AnimationBig
	AnimationSmall
	AnimationShake
	AnimationNod
	AnimationExplode
	AnimationRipple
	AnimationBloom
	AnimationJitter
)

// AnimationFromID maps the integer id stored under
// __kIMTextEffectAttributeName to an Animation, per the known id table
// referenced in spec.md §4.6.3.
func AnimationFromID(id int64) Animation {
	switch id {
	case 1:
		return AnimationBig
	case 2:
		return AnimationSmall
	case 3:
		return AnimationShake
	case 4:
		return AnimationNod
	case 5:
		return AnimationExplode
	case 6:
		return AnimationRipple
	case 7:
		return AnimationBloom
	case 8:
		return AnimationJitter
	default:
		return AnimationUnknown
	}
}

// TextEffect is a single formatting effect applied to a run.
type TextEffect struct {
	Kind       EffectKind
	Mention    string
	Link       string
	ConvertsTo Unit
	Styles     []Style
	Animation  Animation
}

// HasOnlyLink reports whether a run's effects are exactly a single Link
// effect, used by the single-URL coalescing rule (spec.md §4.6.6).
func (t TextAttributes) HasOnlyLink() (string, bool) {
	if len(t.Effects) != 1 || t.Effects[0].Kind != EffectLink {
		return "", false
	}
	return t.Effects[0].Link, true
}

// Result is the body assembler's output: the plain message text (when
// available) and its ordered bubble components.
type Result struct {
	Text       string
	HasText    bool
	Components []Component
}
