package typedstream

import (
	"encoding/binary"
	"testing"
)

// streamBuilder assembles a synthetic typedstream buffer using the same
// wire grammar the Decoder reads, for tests that exercise decode logic
// end to end without a real Apple-encoded fixture (none are available in
// this environment).
type streamBuilder struct {
	buf []byte
}

func newStreamBuilder() *streamBuilder {
	b := &streamBuilder{}
	b.buf = append(b.buf, headerMagic...)
	b.buf = append(b.buf, 0, 0)
	return b
}

func (b *streamBuilder) putByte(v byte) { b.buf = append(b.buf, v) }

func (b *streamBuilder) putUint32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

func (b *streamBuilder) putSignedInt(v int32) {
	b.putByte('i')
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(v))
	b.buf = append(b.buf, tmp[:]...)
}

func (b *streamBuilder) putUnsignedLong(v uint64) {
	b.putByte('Q')
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

func (b *streamBuilder) putString(s string) {
	b.putByte('*')
	b.putByte(byte(len(s)))
	b.buf = append(b.buf, []byte(s)...)
}

// putGroup writes a '+' group header (count) followed by caller-supplied
// raw bytes for each element (already including its own type descriptor).
func (b *streamBuilder) putGroupHeader(count uint32) {
	b.putByte('+')
	b.putUint32(count)
}

func (b *streamBuilder) putNewClass(name string, version int32) {
	b.putByte('@')
	b.putByte(classTagNew)
	b.putByte(byte(len(name)))
	b.buf = append(b.buf, []byte(name)...)
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(version))
	b.buf = append(b.buf, 'i')
	b.buf = append(b.buf, tmp[:]...)
	b.putByte(0) // end of superclass chain
}

func (b *streamBuilder) putObjectDataLen(inner []byte) {
	b.putByte(objectTagNew)
	b.putUint32(uint32(len(inner)))
	b.buf = append(b.buf, inner...)
}

func TestDecoderPrimitives(t *testing.T) {
	b := newStreamBuilder()
	b.putSignedInt(42)
	b.putUnsignedLong(7)
	b.putString("hello")

	dec, err := NewDecoder(b.buf)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	props, err := dec.Properties()
	if err != nil {
		t.Fatalf("Properties: %v", err)
	}
	if len(props) != 3 {
		t.Fatalf("expected 3 properties, got %d", len(props))
	}
	if v, ok := AsSignedInteger(props[0]); !ok || v != 42 {
		t.Fatalf("expected signed int 42, got %v ok=%v", v, ok)
	}
	if v, ok := AsUnsignedInteger(props[1]); !ok || v != 7 {
		t.Fatalf("expected unsigned int 7, got %v ok=%v", v, ok)
	}
	if props[2].Primitive == nil || props[2].Primitive.String != "hello" {
		t.Fatalf("expected string 'hello', got %+v", props[2])
	}
}

func TestDecoderInvalidHeader(t *testing.T) {
	_, err := NewDecoder([]byte("not a typedstream"))
	if err == nil {
		t.Fatal("expected an InvalidHeaderError")
	}
	if _, ok := err.(*InvalidHeaderError); !ok {
		t.Fatalf("expected *InvalidHeaderError, got %T", err)
	}
}

func TestDecoderOutOfBounds(t *testing.T) {
	b := newStreamBuilder()
	b.putByte('i') // declares a 4-byte int but supplies no bytes

	dec, err := NewDecoder(b.buf)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	_, _, err = dec.Next()
	if _, ok := err.(*OutOfBoundsError); !ok {
		t.Fatalf("expected *OutOfBoundsError, got %T (%v)", err, err)
	}
}

func TestDecoderObjectNSString(t *testing.T) {
	b := newStreamBuilder()
	b.putNewClass("NSString", 1)

	var inner streamBuilder
	inner.putString("Noter test")
	b.putObjectDataLen(inner.buf)

	dec, err := NewDecoder(b.buf)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	props, err := dec.Properties()
	if err != nil {
		t.Fatalf("Properties: %v", err)
	}
	if len(props) != 1 {
		t.Fatalf("expected 1 property, got %d", len(props))
	}
	s, ok := AsNSString(props[0])
	if !ok || s != "Noter test" {
		t.Fatalf("expected NSString 'Noter test', got %q ok=%v", s, ok)
	}
}

func TestDecoderRangePairGroup(t *testing.T) {
	b := newStreamBuilder()
	b.putGroupHeader(2)
	b.putSignedInt(3)
	b.putUnsignedLong(10)

	dec, err := NewDecoder(b.buf)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	props, err := dec.Properties()
	if err != nil {
		t.Fatalf("Properties: %v", err)
	}
	pair, ok := AsTypeLengthPair(props[0])
	if !ok {
		t.Fatalf("expected a range pair")
	}
	if pair.TypeIndex != 3 || pair.Length != 10 {
		t.Fatalf("expected (3, 10), got (%d, %d)", pair.TypeIndex, pair.Length)
	}
}
