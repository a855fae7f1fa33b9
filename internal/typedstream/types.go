package typedstream

// Kind identifies which field of a Primitive is populated.
type Kind int

const (
	KindSignedInteger Kind = iota
	KindUnsignedInteger
	KindFloat
	KindDouble
	KindString
	KindBytes
)

// Primitive is a single decoded scalar value: a sign-extended integer of the
// stored width, a float or double, a length-prefixed UTF-8 string, or a raw
// byte array (used for struct/array element storage that isn't otherwise
// typed).
type Primitive struct {
	Kind Kind

	SignedInteger   int64
	UnsignedInteger uint64
	Float           float32
	Double          float64
	String          string
	Bytes           []byte
}

// Object is a class instance: its flattened class name (the leaf of the
// class -> superclass -> NSObject chain), the version integer of that leaf
// class, and its decoded instance data as a further sequence of resolved
// properties.
type Object struct {
	ClassName string
	Version   int64
	Data      []Property
}

// Property is the resolved output node of the typedstream decoder: exactly
// one of Primitive, Object or Group is non-nil. Back-references are resolved
// transparently by the decoder and never appear as a distinct Property kind.
type Property struct {
	Primitive *Primitive
	Object    *Object
	Group     []Property
}

// IsPrimitive reports whether p holds a scalar value.
func (p Property) IsPrimitive() bool { return p.Primitive != nil }

// IsObject reports whether p holds a class instance.
func (p Property) IsObject() bool { return p.Object != nil }

// IsGroup reports whether p holds an ordered tuple of children (used for
// property runs and array contents).
func (p Property) IsGroup() bool { return p.Group != nil }
