package typedstream

// TypeLengthPair is the (typeIndex, length) range pair that precedes each
// attribute dictionary in an NSAttributedString body. length is measured in
// UTF-16 code units, not bytes or Unicode scalars.
type TypeLengthPair struct {
	TypeIndex int64
	Length    uint64
}

// AsTypeLengthPair converts a resolved property into a range pair: a group
// whose first child is a signed integer and second an unsigned integer.
func AsTypeLengthPair(p Property) (TypeLengthPair, bool) {
	if p.Group == nil || len(p.Group) < 2 {
		return TypeLengthPair{}, false
	}
	ti, ok := AsSignedInteger(p.Group[0])
	if !ok {
		return TypeLengthPair{}, false
	}
	length, ok := AsUnsignedInteger(p.Group[1])
	if !ok {
		return TypeLengthPair{}, false
	}
	return TypeLengthPair{TypeIndex: ti, Length: length}, true
}

// AsSignedInteger converts a resolved property into an int64 if it is a
// signed integer primitive or an NSNumber wrapping one.
func AsSignedInteger(p Property) (int64, bool) {
	if p.Primitive != nil && p.Primitive.Kind == KindSignedInteger {
		return p.Primitive.SignedInteger, true
	}
	if p.Object != nil && p.Object.ClassName == "NSNumber" && len(p.Object.Data) > 0 {
		return AsSignedInteger(p.Object.Data[0])
	}
	if p.Group != nil && len(p.Group) > 0 {
		return AsSignedInteger(p.Group[0])
	}
	return 0, false
}

// AsUnsignedInteger converts a resolved property into a uint64 if it is an
// unsigned integer primitive or an NSNumber wrapping one.
func AsUnsignedInteger(p Property) (uint64, bool) {
	if p.Primitive != nil && p.Primitive.Kind == KindUnsignedInteger {
		return p.Primitive.UnsignedInteger, true
	}
	if p.Object != nil && p.Object.ClassName == "NSNumber" && len(p.Object.Data) > 0 {
		return AsUnsignedInteger(p.Object.Data[0])
	}
	if p.Group != nil && len(p.Group) > 0 {
		return AsUnsignedInteger(p.Group[0])
	}
	return 0, false
}

// AsFloat converts a resolved property into a float64 if it is a float or
// double primitive, or an NSNumber wrapping one.
func AsFloat(p Property) (float64, bool) {
	if p.Primitive != nil {
		switch p.Primitive.Kind {
		case KindFloat:
			return float64(p.Primitive.Float), true
		case KindDouble:
			return p.Primitive.Double, true
		}
	}
	if p.Object != nil && p.Object.ClassName == "NSNumber" && len(p.Object.Data) > 0 {
		return AsFloat(p.Object.Data[0])
	}
	if p.Group != nil && len(p.Group) > 0 {
		return AsFloat(p.Group[0])
	}
	return 0, false
}

func unwrapObject(p Property) *Object {
	if p.Object != nil {
		return p.Object
	}
	if p.Group != nil && len(p.Group) > 0 {
		return unwrapObject(p.Group[0])
	}
	return nil
}

// AsNSString converts a resolved property into a string if it is an
// NSString, NSMutableString or NSAttributedString object whose first data
// element is a string primitive (NSAttributedString's leading element is
// its plain-text NSString).
func AsNSString(p Property) (string, bool) {
	obj := unwrapObject(p)
	if obj == nil {
		return "", false
	}
	switch obj.ClassName {
	case "NSString", "NSMutableString", "NSAttributedString":
	default:
		return "", false
	}
	if len(obj.Data) == 0 {
		return "", false
	}
	first := obj.Data[0]
	if first.Primitive != nil && first.Primitive.Kind == KindString {
		return first.Primitive.String, true
	}
	if first.Group != nil {
		for _, g := range first.Group {
			if g.Primitive != nil && g.Primitive.Kind == KindString {
				return g.Primitive.String, true
			}
		}
	}
	return "", false
}

// AsNSDictionary converts a resolved property into its NSDictionary data
// children (alternating key/value pairs preceded by a count, per spec.md
// §4.1) if it is an NSDictionary object.
func AsNSDictionary(p Property) ([]Property, bool) {
	obj := unwrapObject(p)
	if obj == nil || obj.ClassName != "NSDictionary" {
		return nil, false
	}
	return obj.Data, true
}

// AsNSURL converts a resolved property into a string if it is an NSURL
// object wrapping an NSString.
func AsNSURL(p Property) (string, bool) {
	obj := unwrapObject(p)
	if obj == nil || obj.ClassName != "NSURL" {
		return "", false
	}
	for _, child := range obj.Data {
		if s, ok := AsNSString(child); ok {
			return s, true
		}
	}
	return "", false
}
