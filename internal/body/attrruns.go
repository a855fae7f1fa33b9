package body

import "github.com/lrhodin/imessage-export/internal/typedstream"

// consumeAttributeRuns walks an NSAttributedString's range-pair / dictionary
// stream and produces one Component per run, per spec.md §4.6.2. A
// format-range cache keyed by typeIndex lets a repeated attribute set clone
// its previous Text classification onto the new span rather than
// re-dispatching the dictionary; adjacent Text bubbles that share no
// formatting are merged into a single Text component's run list.
func consumeAttributeRuns(props []typedstream.Property, text string) []Component {
	m := BuildIndexMap(text)
	cache := make(map[int64]Component)
	var out []Component
	var cursor uint64

	for i := 0; i+1 < len(props); i += 2 {
		pair, ok := typedstream.AsTypeLengthPair(props[i])
		if !ok {
			continue
		}
		start := cursor
		end := cursor + pair.Length
		cursor = end

		var next Component
		if cached, hit := cache[pair.TypeIndex]; hit && cached.Kind == ComponentText {
			next = rewriteSpan(cached, m.ByteOffset(start), m.ByteOffset(end))
		} else {
			dict, _ := typedstream.AsNSDictionary(props[i+1])
			next = dictionaryDispatch(dict, start, end, m)
			cache[pair.TypeIndex] = next
		}

		if len(out) > 0 && out[len(out)-1].Kind == ComponentText && next.Kind == ComponentText {
			last := &out[len(out)-1]
			last.Runs = append(last.Runs, next.Runs...)
			continue
		}
		out = append(out, next)
	}
	return out
}

// rewriteSpan clones a cached component onto a new byte span, used on a
// format-range cache hit.
func rewriteSpan(c Component, startByte, endByte int) Component {
	if c.Kind != ComponentText || len(c.Runs) == 0 {
		return c
	}
	effects := make([]TextEffect, len(c.Runs[0].Effects))
	copy(effects, c.Runs[0].Effects)
	return Component{
		Kind: ComponentText,
		Runs: []TextAttributes{{Start: startByte, End: endByte, Effects: effects}},
	}
}
