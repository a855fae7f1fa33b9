package body

import (
	"testing"

	"github.com/lrhodin/imessage-export/internal/edited"
	"github.com/lrhodin/imessage-export/internal/typedstream"
)

func strProp(s string) typedstream.Property {
	return typedstream.Property{Object: &typedstream.Object{
		ClassName: "NSString",
		Data:      []typedstream.Property{{Primitive: &typedstream.Primitive{Kind: typedstream.KindString, String: s}}},
	}}
}

func intProp(v int64) typedstream.Property {
	return typedstream.Property{Primitive: &typedstream.Primitive{Kind: typedstream.KindSignedInteger, SignedInteger: v}}
}

func uintProp(v uint64) typedstream.Property {
	return typedstream.Property{Primitive: &typedstream.Primitive{Kind: typedstream.KindUnsignedInteger, UnsignedInteger: v}}
}

func rangePair(typeIndex int64, length uint64) typedstream.Property {
	return typedstream.Property{Group: []typedstream.Property{intProp(typeIndex), uintProp(length)}}
}

func dict(pairCount int64, kv ...typedstream.Property) typedstream.Property {
	data := append([]typedstream.Property{intProp(pairCount)}, kv...)
	return typedstream.Property{Object: &typedstream.Object{ClassName: "NSDictionary", Data: data}}
}

// Scenario 1: plain text, one Default run over the whole string.
func TestConsumeAttributeRunsPlainText(t *testing.T) {
	text := "Noter test"
	props := []typedstream.Property{rangePair(0, 10), dict(0)}
	got := consumeAttributeRuns(props, text)
	if len(got) != 1 || got[0].Kind != ComponentText {
		t.Fatalf("expected a single Text component, got %+v", got)
	}
	if len(got[0].Runs) != 1 || got[0].Runs[0].Start != 0 || got[0].Runs[0].End != 10 {
		t.Fatalf("expected run (0,10), got %+v", got[0].Runs)
	}
	if got[0].Runs[0].Effects[0].Kind != EffectDefault {
		t.Fatalf("expected Default effect, got %+v", got[0].Runs[0].Effects)
	}
}

// Scenario 2: mention in the middle of the text, merged into a single Text
// component spanning three runs.
func TestConsumeAttributeRunsMention(t *testing.T) {
	text := "Test Dad "
	props := []typedstream.Property{
		rangePair(0, 5), dict(0),
		rangePair(1, 3), dict(1, strProp(keyMention), strProp("+15558675309")),
		rangePair(0, 1), dict(0),
	}
	got := consumeAttributeRuns(props, text)
	if len(got) != 1 || got[0].Kind != ComponentText {
		t.Fatalf("expected all runs merged into one Text component, got %+v", got)
	}
	runs := got[0].Runs
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d: %+v", len(runs), runs)
	}
	if runs[1].Start != 5 || runs[1].End != 8 {
		t.Fatalf("expected mention run (5,8), got (%d,%d)", runs[1].Start, runs[1].End)
	}
	mention, ok := runs[1].Effects[0].Mention, runs[1].Effects[0].Kind == EffectMention
	if !ok || mention != "+15558675309" {
		t.Fatalf("expected mention +15558675309, got %+v", runs[1].Effects)
	}
}

// Scenario 3: one-time code covers the first 6 bytes.
func TestConsumeAttributeRunsOTP(t *testing.T) {
	text := "000123 is your security code. Don't share your code."
	props := []typedstream.Property{
		rangePair(0, 6), dict(1, strProp(keyOneTimeCode), intProp(1)),
		rangePair(1, uint64(len(text)-6)), dict(0),
	}
	got := consumeAttributeRuns(props, text)
	if len(got) != 1 {
		t.Fatalf("expected single merged Text component, got %+v", got)
	}
	runs := got[0].Runs
	if len(runs) != 2 || runs[0].Effects[0].Kind != EffectOTP {
		t.Fatalf("expected first run to carry OTP, got %+v", runs)
	}
	if runs[0].Start != 0 || runs[0].End != 6 {
		t.Fatalf("expected OTP run (0,6), got (%d,%d)", runs[0].Start, runs[0].End)
	}
}

// Scenario 5: overlapping styled link — dictionary with both a Conversion
// and a Styles classification in the same run.
func TestConsumeAttributeRunsOverlappingStyledLink(t *testing.T) {
	text := "8:00 pm"
	props := []typedstream.Property{
		rangePair(0, uint64(len(text))),
		dict(2, strProp(keyCalendarEvent), intProp(1), strProp(keyTextBold), intProp(1)),
	}
	got := consumeAttributeRuns(props, text)
	if len(got) != 1 || len(got[0].Runs) != 1 {
		t.Fatalf("expected one run, got %+v", got)
	}
	effects := got[0].Runs[0].Effects
	var sawConversion, sawStyles bool
	for _, e := range effects {
		if e.Kind == EffectConversion && e.ConvertsTo == UnitTimezone {
			sawConversion = true
		}
		if e.Kind == EffectStyles && len(e.Styles) == 1 && e.Styles[0] == StyleBold {
			sawStyles = true
		}
	}
	if !sawConversion || !sawStyles {
		t.Fatalf("expected both Conversion and Styles effects, got %+v", effects)
	}
}

// The format-range cache: a repeated typeIndex clones the cached
// classification onto the new span instead of re-dispatching.
func TestConsumeAttributeRunsCacheHit(t *testing.T) {
	text := "aabb"
	props := []typedstream.Property{
		rangePair(5, 2), dict(1, strProp(keyMention), strProp("x")),
		rangePair(5, 2), dict(1, strProp(keyMention), strProp("should not be read")),
	}
	got := consumeAttributeRuns(props, text)
	if len(got) != 1 || len(got[0].Runs) != 2 {
		t.Fatalf("expected one merged component with two runs, got %+v", got)
	}
	if got[0].Runs[1].Effects[0].Mention != "x" {
		t.Fatalf("expected cached mention 'x' on second run, got %+v", got[0].Runs[1].Effects)
	}
}

func TestDictionaryDispatchAttachmentShortCircuit(t *testing.T) {
	m := BuildIndexMap("x")
	d, _ := typedstream.AsNSDictionary(dict(2,
		strProp(keyFileTransferGUID), strProp("D0551D89-guid"),
		strProp(keyMention), strProp("ignored once short-circuited"),
	))
	c := dictionaryDispatch(d, 0, 1, m)
	if c.Kind != ComponentAttachment {
		t.Fatalf("expected Attachment component, got %+v", c)
	}
	if c.Attachment.GUID == nil || *c.Attachment.GUID != "D0551D89-guid" {
		t.Fatalf("expected guid D0551D89-guid, got %+v", c.Attachment)
	}
}

// Legacy fallback: sentinel scan over byte offsets, never splitting a
// multi-byte scalar.
func TestLegacyParseSentinels(t *testing.T) {
	text := "From arbitrary byte stream:\r￼ To native Rust data structures:\r"
	got := legacyParse(text)
	var attachments, texts int
	for _, c := range got {
		switch c.Kind {
		case ComponentAttachment:
			attachments++
		case ComponentText:
			texts++
		}
	}
	if attachments != 1 {
		t.Fatalf("expected 1 attachment sentinel, got %d in %+v", attachments, got)
	}
	if texts != 2 {
		t.Fatalf("expected 2 text runs around the sentinel, got %d in %+v", texts, got)
	}
}

func TestLegacyParseAppSentinel(t *testing.T) {
	got := legacyParse("look � here")
	found := false
	for _, c := range got {
		if c.Kind == ComponentApp {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an App component for U+FFFD, got %+v", got)
	}
}

// Scenario 4: multi-part with attachment and retraction via edited status.
func TestAssembleRetractionSplicing(t *testing.T) {
	text := "From arbitrary byte stream:\r￼ To native Rust data structures:\r"
	edits := edited.Message{Parts: []edited.Part{
		{Status: edited.StatusOriginal},
		{Status: edited.StatusOriginal},
		{Status: edited.StatusOriginal},
		{Status: edited.StatusUnsent},
	}}
	res, ok := Assemble(Input{Text: text, Edits: edits, PartIndex: 3})
	if !ok {
		t.Fatal("expected Assemble to succeed")
	}
	last := res.Components[len(res.Components)-1]
	if last.Kind != ComponentRetracted {
		t.Fatalf("expected trailing Retracted component, got %+v", res.Components)
	}
}

func TestAssembleRetractionSplicingMidSequence(t *testing.T) {
	out := []Component{{Kind: ComponentText}, {Kind: ComponentAttachment}, {Kind: ComponentText}}
	edits := edited.Message{Parts: []edited.Part{{Status: edited.StatusUnsent}}}
	spliced := spliceRetractions(out, edits, 0)
	if len(spliced) != 4 || spliced[0].Kind != ComponentRetracted {
		t.Fatalf("expected Retracted inserted at index 0, got %+v", spliced)
	}
}

// Scenario 6: a single Link run plus a payload blob coalesces to App.
func TestCoalesceSingleURLToApp(t *testing.T) {
	out := []Component{{
		Kind: ComponentText,
		Runs: []TextAttributes{{Start: 0, End: 9, Effects: []TextEffect{{Kind: EffectLink, Link: "https://x"}}}},
	}}
	got := coalesceSingleURL(out, true, "")
	if len(got) != 1 || got[0].Kind != ComponentApp {
		t.Fatalf("expected coalescing to App, got %+v", got)
	}
}

func TestCoalesceSingleURLLeavesMultiEffectRunAlone(t *testing.T) {
	out := []Component{{
		Kind: ComponentText,
		Runs: []TextAttributes{{Start: 0, End: 9, Effects: []TextEffect{
			{Kind: EffectLink, Link: "https://x"},
			{Kind: EffectStyles, Styles: []Style{StyleBold}},
		}}},
	}}
	got := coalesceSingleURL(out, true, "")
	if len(got) != 1 || got[0].Kind != ComponentText {
		t.Fatalf("expected no coalescing when run carries more than a Link effect, got %+v", got)
	}
}

// A present bundle id forces the App collapse regardless of out's shape,
// even when out has more than one component and none of them is a lone
// Link-only Text run.
func TestCoalesceSingleURLWithBundleIDIgnoresShape(t *testing.T) {
	out := []Component{
		{Kind: ComponentText, Runs: []TextAttributes{{Start: 0, End: 5}}},
		{Kind: ComponentAttachment, Attachment: AttachmentMeta{}},
	}
	got := coalesceSingleURL(out, false, "com.apple.messages.URLBalloonProvider")
	if len(got) != 1 || got[0].Kind != ComponentApp {
		t.Fatalf("expected bundle id alone to force App coalescing, got %+v", got)
	}
}

func TestBuildIndexMapAstralScalar(t *testing.T) {
	m := BuildIndexMap("a\U0001F600b")
	if m.ByteOffset(0) != 0 {
		t.Fatalf("expected byte 0 for utf16 index 0, got %d", m.ByteOffset(0))
	}
	// 'a' occupies utf16 index 0, the emoji occupies indices 1-2 (surrogate
	// pair), 'b' occupies index 3.
	if m.ByteOffset(3) != 5 {
		t.Fatalf("expected byte offset 5 for utf16 index 3, got %d", m.ByteOffset(3))
	}
	if got := m.ByteOffset(100); got != len("a\U0001F600b") {
		t.Fatalf("expected out-of-range index to clamp to text length, got %d", got)
	}
}
