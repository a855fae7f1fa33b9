package plist

import (
	"sort"

	applist "howett.net/plist"
)

// Decode resolves data (a binary plist with the standard
// $archiver = "NSKeyedArchiver" layout) into a Node rooted at $top.root.
//
// The raw bplist tokenization (header, offset table, trailer, object
// formats) is delegated to howett.net/plist, which this package is not
// grounded on any example repo for — it is named rather than grounded, per
// DESIGN.md. The $objects/$top/CF$UID graph walk, cycle detection and
// NS.objects/NS.string collapsing below are this package's own work and are
// what spec.md §4.3 actually specifies.
func Decode(data []byte) (Node, error) {
	var root map[string]interface{}
	if _, err := applist.Unmarshal(data, &root); err != nil {
		return Node{}, err
	}

	objects, ok := root["$objects"].([]interface{})
	if !ok {
		return Node{}, &MissingKeyError{Key: "$objects"}
	}
	top, ok := root["$top"].(map[string]interface{})
	if !ok {
		return Node{}, &MissingKeyError{Key: "$top"}
	}
	rootRef, ok := top["root"]
	if !ok {
		return Node{}, &MissingKeyError{Key: "root"}
	}
	rootUID, ok := rootRef.(applist.UID)
	if !ok {
		return Node{}, &InvalidTypeError{Key: "$top.root", Expected: "UID"}
	}

	d := &decoder{objects: objects, visiting: map[uint64]bool{}}
	return d.resolve(uint64(rootUID))
}

type decoder struct {
	objects  []interface{}
	visiting map[uint64]bool
}

func (d *decoder) resolve(uid uint64) (Node, error) {
	if d.visiting[uid] {
		return Node{}, newCycleError("any")
	}
	if uid >= uint64(len(d.objects)) {
		return Node{}, &NoValueAtIndexError{Index: int(uid)}
	}
	d.visiting[uid] = true
	defer delete(d.visiting, uid)

	return d.resolveValue(d.objects[uid])
}

func (d *decoder) resolveValue(raw interface{}) (Node, error) {
	switch v := raw.(type) {
	case applist.UID:
		return d.resolve(uint64(v))
	case nil:
		return Node{Kind: KindNil}, nil
	case string:
		return Node{Kind: KindString, Str: v}, nil
	case bool:
		return Node{Kind: KindBool, Bool: v}, nil
	case []byte:
		return Node{Kind: KindData, Data: v}, nil
	case int64:
		return Node{Kind: KindInteger, Integer: v}, nil
	case uint64:
		return Node{Kind: KindInteger, Integer: int64(v)}, nil
	case float64:
		return Node{Kind: KindReal, Real: v}, nil
	case []interface{}:
		arr := make([]Node, 0, len(v))
		for _, elem := range v {
			n, err := d.resolveValue(elem)
			if err != nil {
				return Node{}, err
			}
			arr = append(arr, n)
		}
		return Node{Kind: KindArray, Array: arr}, nil
	case map[string]interface{}:
		return d.resolveDict(v)
	default:
		return Node{}, &InvalidTypeError{Key: "$objects", Expected: "a known plist type"}
	}
}

func (d *decoder) resolveDict(v map[string]interface{}) (Node, error) {
	className := ""
	if classRef, ok := v["$class"]; ok {
		if uid, ok := classRef.(applist.UID); ok {
			if classNode, err := d.resolveValue(d.classNameOf(uid)); err == nil {
				className, _ = classNode.AsString()
			}
		}
	}

	// {NS.keys: [uid, ...], NS.objects: [uid, ...]} is a real archived
	// NSDictionary: the two UID arrays are parallel and, per the
	// NSKeyedArchiver wire format, list entries in the exact order they
	// were added to the dictionary. Resolving them through the ordered
	// []interface{} walk (rather than through a Go map, which would
	// discard that order) keeps the Dict node's entries in archive order,
	// per spec.md §3's "insertion-ordered mapping" invariant. This must be
	// checked before the NS.objects-alone case below, since a real
	// NSDictionary carries both keys.
	if nsKeys, hasKeys := v["NS.keys"]; hasKeys {
		nsObjects, hasObjects := v["NS.objects"]
		if !hasObjects {
			return Node{}, &MissingKeyError{Key: "NS.objects"}
		}
		keyRefs, ok := nsKeys.([]interface{})
		if !ok {
			return Node{}, &InvalidTypeError{Key: "NS.keys", Expected: "array"}
		}
		objRefs, ok := nsObjects.([]interface{})
		if !ok {
			return Node{}, &InvalidTypeError{Key: "NS.objects", Expected: "array"}
		}
		if len(keyRefs) != len(objRefs) {
			return Node{}, &MismatchedDictionaryLengthError{Keys: len(keyRefs), Objects: len(objRefs)}
		}
		entries := make([]DictEntry, 0, len(keyRefs))
		for i := range keyRefs {
			keyNode, err := d.resolveValue(keyRefs[i])
			if err != nil {
				return Node{}, err
			}
			key, ok := keyNode.AsString()
			if !ok {
				return Node{}, &InvalidTypeError{Key: "NS.keys[]", Expected: "string"}
			}
			valNode, err := d.resolveValue(objRefs[i])
			if err != nil {
				return Node{}, err
			}
			entries = append(entries, DictEntry{Key: key, Value: valNode})
		}
		return Node{Kind: KindDict, Dict: entries, ClassName: className}, nil
	}

	// {NS.objects: [uid, ...]} alone (no NS.keys) is an NSArray/NSSet and
	// collapses to a plain ordered array.
	if nsObjects, ok := v["NS.objects"]; ok {
		objs, ok := nsObjects.([]interface{})
		if !ok {
			return Node{}, &InvalidTypeError{Key: "NS.objects", Expected: "array"}
		}
		n, err := d.resolveValue(objs)
		if err != nil {
			return Node{}, err
		}
		n.ClassName = className
		return n, nil
	}

	// {NS.string: "..."} collapses to a plain string.
	if nsString, ok := v["NS.string"]; ok {
		n, err := d.resolveValue(nsString)
		if err != nil {
			return Node{}, err
		}
		return n, nil
	}

	keys := make([]string, 0, len(v))
	for k := range v {
		if k == "$class" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]DictEntry, 0, len(keys))
	for _, k := range keys {
		n, err := d.resolveValue(v[k])
		if err != nil {
			return Node{}, err
		}
		entries = append(entries, DictEntry{Key: k, Value: n})
	}
	return Node{Kind: KindDict, Dict: entries, ClassName: className}, nil
}

// classNameOf reads the $classname string out of a $classes metadata dict
// referenced by a $class UID, without going through the cycle-tracked
// resolve() (class metadata objects are never part of a cycle).
func (d *decoder) classNameOf(uid uint64) interface{} {
	if uid >= uint64(len(d.objects)) {
		return nil
	}
	meta, ok := d.objects[uid].(map[string]interface{})
	if !ok {
		return nil
	}
	return meta["$classname"]
}
