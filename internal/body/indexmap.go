package body

import "unicode/utf8"

// IndexMap translates UTF-16 code-unit offsets (as used throughout Apple's
// attribute-run encoding) to UTF-8 byte offsets of the same message text,
// per spec.md §4.6.1. It is built once per message and threaded through
// dictionary dispatch and edited-event decoding.
type IndexMap struct {
	text string
	// offsets[i] is the UTF-8 byte offset of the scalar that begins at
	// UTF-16 code unit i; a trailing sentinel equal to len(text) is
	// appended so that an index one past the last scalar still resolves.
	offsets []int
}

// BuildIndexMap constructs the UTF-16 -> UTF-8 map for text.
func BuildIndexMap(text string) *IndexMap {
	offsets := make([]int, 0, len(text)+1)
	byteOffset := 0
	for _, r := range text {
		width := utf16Width(r)
		for i := 0; i < width; i++ {
			offsets = append(offsets, byteOffset)
		}
		byteOffset += utf8.RuneLen(r)
	}
	offsets = append(offsets, len(text))
	return &IndexMap{text: text, offsets: offsets}
}

// utf16Width reports how many UTF-16 code units r encodes as (1, or 2 for
// scalars outside the Basic Multilingual Plane).
func utf16Width(r rune) int {
	if r > 0xFFFF {
		return 2
	}
	return 1
}

// ByteOffset resolves a UTF-16 index to a UTF-8 byte offset. Out-of-range
// indices (hit on malformed input) return len(text) rather than panicking,
// per spec.md §4.6.1.
func (m *IndexMap) ByteOffset(utf16Index uint64) int {
	if utf16Index >= uint64(len(m.offsets)) {
		return len(m.text)
	}
	return m.offsets[utf16Index]
}
