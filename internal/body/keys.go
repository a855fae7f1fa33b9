package body

// Attribute dictionary keys recognized by Dictionary Dispatch (spec.md
// §4.6.3).
const (
	keyFileTransferGUID = "__kIMFileTransferGUIDAttributeName"
	keyAudioTranscript  = "IMAudioTranscription"
	keyMediaHeight      = "__kIMInlineMediaHeightAttributeName"
	keyMediaWidth       = "__kIMInlineMediaWidthAttributeName"
	keyFilename         = "__kIMFilenameAttributeName"

	keyMention        = "__kIMMentionConfirmedMention"
	keyLink           = "__kIMLinkAttributeName"
	keyOneTimeCode    = "__kIMOneTimeCodeAttributeName"
	keyCalendarEvent  = "__kIMCalendarEventAttributeName"
	keyTextEffect     = "__kIMTextEffectAttributeName"
	keyTextBold       = "__kIMTextBoldAttributeName"
	keyTextItalic     = "__kIMTextItalicAttributeName"
	keyTextUnderline  = "__kIMTextUnderlineAttributeName"
	keyTextStrike     = "__kIMTextStrikethroughAttributeName"
)

var attachmentMetaKeys = map[string]bool{
	keyFileTransferGUID: true,
	keyAudioTranscript:  true,
	keyMediaHeight:      true,
	keyMediaWidth:       true,
	keyFilename:         true,
}
