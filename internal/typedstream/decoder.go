package typedstream

import (
	"encoding/binary"
	"unicode/utf8"
)

// Header magic: "streamtyped" prefixed with the two NSArchiver framing
// bytes, followed directly by a 2-byte version word. Bit-exact
// agreement with Apple's own encoder is not verifiable from this package in
// isolation (see DESIGN.md); what matters for the rest of the pipeline is
// that the header is checked and skipped consistently.
var headerMagic = append([]byte{0x04, 0x0b}, []byte("streamtyped")...)

const headerVersionLen = 2

// Tags for the '@' object descriptor.
const (
	classTagNew byte = 0x00
	classTagRef byte = 0x01

	objectTagNew byte = 0x00
	objectTagRef byte = 0x01
)

// classEntry is one row of the append-only class table.
type classEntry struct {
	Name    string
	Version int64
}

// Decoder parses a typedstream byte buffer into a sequence of resolved
// top-level Properties. Class and object back-reference tables are
// per-Decoder (never shared between messages), per spec.md's concurrency
// model.
type Decoder struct {
	buf     []byte
	pos     int
	classes []classEntry
	objects []Property
}

// NewDecoder validates the header and returns a Decoder positioned at the
// first top-level property.
func NewDecoder(buf []byte) (*Decoder, error) {
	if len(buf) < len(headerMagic)+headerVersionLen || string(buf[:len(headerMagic)]) != string(headerMagic) {
		got := buf
		if len(got) > 16 {
			got = got[:16]
		}
		return nil, &InvalidHeaderError{Got: got}
	}
	return &Decoder{buf: buf, pos: len(headerMagic) + headerVersionLen}, nil
}

// Next reads and resolves the next top-level property. It returns
// (Property{}, false, nil) when the buffer is exhausted.
func (d *Decoder) Next() (Property, bool, error) {
	if d.pos >= len(d.buf) {
		return Property{}, false, nil
	}
	p, err := d.readValue()
	if err != nil {
		return Property{}, false, err
	}
	return p, true, nil
}

// Properties drains the decoder into a slice, for callers that don't need
// streaming consumption.
func (d *Decoder) Properties() ([]Property, error) {
	var out []Property
	for {
		p, ok, err := d.Next()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, p)
	}
}

func (d *Decoder) readByte() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, &OutOfBoundsError{Index: d.pos, Len: len(d.buf)}
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

func (d *Decoder) readN(n int) ([]byte, error) {
	if d.pos+n > len(d.buf) {
		return nil, &OutOfBoundsError{Index: d.pos + n, Len: len(d.buf)}
	}
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *Decoder) readUint32() (uint32, error) {
	b, err := d.readN(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// readValue dispatches on a single type-descriptor byte and returns the
// resolved property it introduces.
func (d *Decoder) readValue() (Property, error) {
	tag, err := d.readByte()
	if err != nil {
		return Property{}, err
	}
	return d.readValueOfType(tag)
}

func (d *Decoder) readValueOfType(tag byte) (Property, error) {
	switch tag {
	case 'c':
		b, err := d.readByte()
		if err != nil {
			return Property{}, err
		}
		return Property{Primitive: &Primitive{Kind: KindSignedInteger, SignedInteger: int64(int8(b))}}, nil
	case 'C':
		b, err := d.readByte()
		if err != nil {
			return Property{}, err
		}
		return Property{Primitive: &Primitive{Kind: KindUnsignedInteger, UnsignedInteger: uint64(b)}}, nil
	case 's':
		b, err := d.readN(2)
		if err != nil {
			return Property{}, err
		}
		v := int16(binary.LittleEndian.Uint16(b))
		return Property{Primitive: &Primitive{Kind: KindSignedInteger, SignedInteger: int64(v)}}, nil
	case 'i':
		b, err := d.readN(4)
		if err != nil {
			return Property{}, err
		}
		v := int32(binary.LittleEndian.Uint32(b))
		return Property{Primitive: &Primitive{Kind: KindSignedInteger, SignedInteger: int64(v)}}, nil
	case 'q':
		b, err := d.readN(8)
		if err != nil {
			return Property{}, err
		}
		v := int64(binary.LittleEndian.Uint64(b))
		return Property{Primitive: &Primitive{Kind: KindSignedInteger, SignedInteger: v}}, nil
	case 'Q':
		b, err := d.readN(8)
		if err != nil {
			return Property{}, err
		}
		return Property{Primitive: &Primitive{Kind: KindUnsignedInteger, UnsignedInteger: binary.LittleEndian.Uint64(b)}}, nil
	case 'f':
		b, err := d.readN(4)
		if err != nil {
			return Property{}, err
		}
		bits := binary.LittleEndian.Uint32(b)
		return Property{Primitive: &Primitive{Kind: KindFloat, Float: float32FromBits(bits)}}, nil
	case 'd':
		b, err := d.readN(8)
		if err != nil {
			return Property{}, err
		}
		bits := binary.LittleEndian.Uint64(b)
		return Property{Primitive: &Primitive{Kind: KindDouble, Double: float64FromBits(bits)}}, nil
	case '*':
		return d.readString()
	case '#':
		return d.readBytesBlob()
	case '[':
		return d.readArray()
	case '{':
		return d.readStruct()
	case '+':
		return d.readGroup()
	case '@':
		return d.readObject()
	default:
		return Property{}, &InvalidPointerError{Tag: tag}
	}
}

func (d *Decoder) readLength() (int, error) {
	n, err := d.readByte()
	if err != nil {
		return 0, err
	}
	if n != 0xff {
		return int(n), nil
	}
	ext, err := d.readUint32()
	if err != nil {
		return 0, err
	}
	return int(ext), nil
}

func (d *Decoder) readString() (Property, error) {
	n, err := d.readLength()
	if err != nil {
		return Property{}, err
	}
	raw, err := d.readN(n)
	if err != nil {
		return Property{}, err
	}
	if !utf8.Valid(raw) {
		return Property{}, &StringParseError{Cause: errNotUTF8}
	}
	return Property{Primitive: &Primitive{Kind: KindString, String: string(raw)}}, nil
}

func (d *Decoder) readBytesBlob() (Property, error) {
	n, err := d.readUint32()
	if err != nil {
		return Property{}, err
	}
	raw, err := d.readN(int(n))
	if err != nil {
		return Property{}, err
	}
	cp := append([]byte(nil), raw...)
	return Property{Primitive: &Primitive{Kind: KindBytes, Bytes: cp}}, nil
}

// readArray reads a composite "[N T]" form: N children, all of declared
// element type T.
func (d *Decoder) readArray() (Property, error) {
	count, err := d.readUint32()
	if err != nil {
		return Property{}, err
	}
	elemType, err := d.readByte()
	if err != nil {
		return Property{}, err
	}
	children := make([]Property, 0, count)
	for i := uint32(0); i < count; i++ {
		c, err := d.readValueOfType(elemType)
		if err != nil {
			return Property{}, &InvalidArrayError{Length: int(count), Type: elemType}
		}
		children = append(children, c)
	}
	return Property{Group: children}, nil
}

// readStruct reads a composite "{T...}" form: a field count K followed by K
// heterogeneously-typed values.
func (d *Decoder) readStruct() (Property, error) {
	count, err := d.readByte()
	if err != nil {
		return Property{}, err
	}
	children := make([]Property, 0, count)
	for i := byte(0); i < count; i++ {
		c, err := d.readValue()
		if err != nil {
			return Property{}, err
		}
		children = append(children, c)
	}
	return Property{Group: children}, nil
}

// readGroup reads an explicit property-run group: a count followed by that
// many values of mixed type. Used to represent ad hoc tuples such as the
// (typeIndex, length) range pair.
func (d *Decoder) readGroup() (Property, error) {
	count, err := d.readUint32()
	if err != nil {
		return Property{}, err
	}
	children := make([]Property, 0, count)
	for i := uint32(0); i < count; i++ {
		c, err := d.readValue()
		if err != nil {
			return Property{}, err
		}
		children = append(children, c)
	}
	return Property{Group: children}, nil
}

// readObject reads a class declaration or back-reference, then the object's
// instance data (itself new or a back-reference), per spec.md §4.1 step 3.
func (d *Decoder) readObject() (Property, error) {
	classTag, err := d.readByte()
	if err != nil {
		return Property{}, err
	}

	var class classEntry
	switch classTag {
	case classTagNew:
		nameProp, err := d.readString()
		if err != nil {
			return Property{}, err
		}
		versionProp, err := d.readValue()
		if err != nil {
			return Property{}, err
		}
		version := int64(0)
		if versionProp.Primitive != nil {
			version = versionProp.Primitive.SignedInteger
		}
		// Drain the superclass chain: each entry is a non-zero marker byte,
		// a name and a version value; a zero marker ends the chain.
		for {
			more, err := d.readByte()
			if err != nil {
				return Property{}, err
			}
			if more == 0 {
				break
			}
			if _, err := d.readString(); err != nil {
				return Property{}, err
			}
			if _, err := d.readValue(); err != nil {
				return Property{}, err
			}
		}
		class = classEntry{Name: nameProp.Primitive.String, Version: version}
		d.classes = append(d.classes, class)
	case classTagRef:
		idx, err := d.readUint32()
		if err != nil {
			return Property{}, err
		}
		if int(idx) >= len(d.classes) {
			return Property{}, &InvalidPointerError{Tag: classTag}
		}
		class = d.classes[idx]
	default:
		return Property{}, &InvalidPointerError{Tag: classTag}
	}

	objTag, err := d.readByte()
	if err != nil {
		return Property{}, err
	}
	switch objTag {
	case objectTagNew:
		n, err := d.readUint32()
		if err != nil {
			return Property{}, err
		}
		inner, err := d.readN(int(n))
		if err != nil {
			return Property{}, err
		}
		sub := &Decoder{buf: inner, pos: 0, classes: d.classes, objects: d.objects}
		children, err := sub.Properties()
		if err != nil {
			return Property{}, err
		}
		prop := Property{Object: &Object{ClassName: class.Name, Version: class.Version, Data: children}}
		d.objects = append(d.objects, prop)
		return prop, nil
	case objectTagRef:
		idx, err := d.readUint32()
		if err != nil {
			return Property{}, err
		}
		if int(idx) >= len(d.objects) {
			return Property{}, &InvalidPointerError{Tag: objTag}
		}
		return d.objects[idx], nil
	default:
		return Property{}, &InvalidPointerError{Tag: objTag}
	}
}
