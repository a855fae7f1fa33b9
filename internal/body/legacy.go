package body

// Sentinel scalars used by the legacy (pre-typedstream-decode) tagged text
// format, per spec.md §4.6.5.
const (
	sentinelAttachment = '￼'
	sentinelApp        = '�'
)

// legacyParse scans text for the attachment/app sentinel scalars and
// produces one Component per run or sentinel, operating on byte offsets and
// never splitting a multi-byte scalar.
func legacyParse(text string) []Component {
	var out []Component
	runStart := 0
	flushText := func(end int) {
		if end > runStart {
			out = append(out, Component{
				Kind: ComponentText,
				Runs: []TextAttributes{{Start: runStart, End: end, Effects: []TextEffect{{Kind: EffectDefault}}}},
			})
		}
	}
	for i, r := range text {
		switch r {
		case sentinelAttachment:
			flushText(i)
			out = append(out, Component{Kind: ComponentAttachment})
			runStart = i + len(string(r))
		case sentinelApp:
			flushText(i)
			out = append(out, Component{Kind: ComponentApp})
			runStart = i + len(string(r))
		}
	}
	flushText(len(text))
	return out
}
