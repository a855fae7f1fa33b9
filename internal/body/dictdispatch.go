package body

import (
	"go.mau.fi/util/ptr"

	"github.com/lrhodin/imessage-export/internal/typedstream"
)

// dictionaryDispatch implements spec.md §4.6.3: read the pair count N from
// the dictionary's first child, then classify each key/value pair either
// into an AttachmentMeta (short-circuiting on the first attachment-meta
// key) or into a collected set of text effects/styles.
func dictionaryDispatch(dict []typedstream.Property, startU16, endU16 uint64, m *IndexMap) Component {
	startByte, endByte := m.ByteOffset(startU16), m.ByteOffset(endU16)

	if len(dict) == 0 {
		return Component{Kind: ComponentText, Runs: []TextAttributes{{Start: startByte, End: endByte, Effects: []TextEffect{{Kind: EffectDefault}}}}}
	}

	pairs := dict[1:]
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := typedstream.AsNSString(pairs[i])
		if !ok {
			continue
		}
		if attachmentMetaKeys[key] {
			return Component{Kind: ComponentAttachment, Attachment: buildAttachmentMeta(pairs[i:])}
		}
	}

	var effects []TextEffect
	var styles []Style
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := typedstream.AsNSString(pairs[i])
		if !ok {
			continue
		}
		value := pairs[i+1]
		switch key {
		case keyMention:
			if s, ok := typedstream.AsNSString(value); ok {
				effects = append(effects, TextEffect{Kind: EffectMention, Mention: s})
			}
		case keyLink:
			if s, ok := typedstream.AsNSURL(value); ok {
				effects = append(effects, TextEffect{Kind: EffectLink, Link: s})
			} else if s, ok := typedstream.AsNSString(value); ok {
				effects = append(effects, TextEffect{Kind: EffectLink, Link: s})
			}
		case keyOneTimeCode:
			effects = append(effects, TextEffect{Kind: EffectOTP})
		case keyCalendarEvent:
			effects = append(effects, TextEffect{Kind: EffectConversion, ConvertsTo: UnitTimezone})
		case keyTextEffect:
			if id, ok := typedstream.AsSignedInteger(value); ok {
				effects = append(effects, TextEffect{Kind: EffectAnimated, Animation: AnimationFromID(id)})
			}
		case keyTextBold:
			styles = append(styles, StyleBold)
		case keyTextItalic:
			styles = append(styles, StyleItalic)
		case keyTextUnderline:
			styles = append(styles, StyleUnderline)
		case keyTextStrike:
			styles = append(styles, StyleStrikethrough)
		}
	}

	if len(effects) == 0 && len(styles) == 0 {
		return Component{Kind: ComponentText, Runs: []TextAttributes{{Start: startByte, End: endByte, Effects: []TextEffect{{Kind: EffectDefault}}}}}
	}
	if len(styles) > 0 {
		effects = append(effects, TextEffect{Kind: EffectStyles, Styles: styles})
	}
	return Component{Kind: ComponentText, Runs: []TextAttributes{{Start: startByte, End: endByte, Effects: effects}}}
}

// buildAttachmentMeta scans the remaining key/value pairs (starting at the
// first attachment-meta key encountered) into an AttachmentMeta. Per
// spec.md §9, IMAudioTranscription may be either a bare NSString or an
// NSAttributedString whose leading NSString is the transcript; both forms
// are accepted.
func buildAttachmentMeta(pairs []typedstream.Property) AttachmentMeta {
	var meta AttachmentMeta
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := typedstream.AsNSString(pairs[i])
		if !ok {
			continue
		}
		value := pairs[i+1]
		switch key {
		case keyFileTransferGUID:
			if s, ok := typedstream.AsNSString(value); ok {
				meta.GUID = ptr.Ptr(s)
			}
		case keyAudioTranscript:
			if s, ok := typedstream.AsNSString(value); ok {
				meta.Transcription = ptr.Ptr(s)
			}
		case keyMediaHeight:
			if v, ok := typedstream.AsFloat(value); ok {
				meta.Height = ptr.Ptr(int(v))
			} else if v, ok := typedstream.AsSignedInteger(value); ok {
				meta.Height = ptr.Ptr(int(v))
			}
		case keyMediaWidth:
			if v, ok := typedstream.AsFloat(value); ok {
				meta.Width = ptr.Ptr(int(v))
			} else if v, ok := typedstream.AsSignedInteger(value); ok {
				meta.Width = ptr.Ptr(int(v))
			}
		case keyFilename:
			if s, ok := typedstream.AsNSString(value); ok {
				meta.Name = ptr.Ptr(s)
			}
		}
	}
	return meta
}
