package plist

import (
	"testing"

	applist "howett.net/plist"
)

// newTestDecoder builds a decoder directly over a synthetic $objects array,
// bypassing actual bplist byte encoding (which howett.net/plist itself
// already has extensive coverage for) so these tests focus on this
// package's own contribution: the UID graph walk and cycle detection.
func newTestDecoder(objects []interface{}) *decoder {
	return &decoder{objects: objects, visiting: map[uint64]bool{}}
}

func TestResolveStringAndDict(t *testing.T) {
	objects := []interface{}{
		"$null",
		map[string]interface{}{"title": applist.UID(2), "count": int64(3)},
		"hello",
	}
	d := newTestDecoder(objects)
	n, err := d.resolve(1)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	title, ok := n.Get("title")
	if !ok {
		t.Fatal("expected a title key")
	}
	s, ok := title.AsString()
	if !ok || s != "hello" {
		t.Fatalf("expected 'hello', got %q ok=%v", s, ok)
	}
	count, ok := n.Get("count")
	if !ok {
		t.Fatal("expected a count key")
	}
	if iv, ok := count.AsInteger(); !ok || iv != 3 {
		t.Fatalf("expected 3, got %v ok=%v", iv, ok)
	}
}

func TestResolveCycleDetected(t *testing.T) {
	objects := []interface{}{
		"$null",
		map[string]interface{}{"next": applist.UID(2)},
		map[string]interface{}{"next": applist.UID(1)},
	}
	d := newTestDecoder(objects)
	_, err := d.resolve(1)
	if err == nil {
		t.Fatal("expected a cycle error")
	}
	ite, ok := err.(*InvalidTypeError)
	if !ok || ite.Key != cycleSentinel {
		t.Fatalf("expected cycle InvalidTypeError, got %T (%v)", err, err)
	}
}

func TestResolveNoValueAtIndex(t *testing.T) {
	d := newTestDecoder([]interface{}{"$null"})
	_, err := d.resolve(5)
	if _, ok := err.(*NoValueAtIndexError); !ok {
		t.Fatalf("expected *NoValueAtIndexError, got %T (%v)", err, err)
	}
}

func TestResolveNSObjectsCollapsesToArray(t *testing.T) {
	objects := []interface{}{
		"$null",
		map[string]interface{}{"NS.objects": []interface{}{applist.UID(2), applist.UID(3)}},
		"a",
		"b",
	}
	d := newTestDecoder(objects)
	n, err := d.resolve(1)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	arr, ok := n.AsArray()
	if !ok || len(arr) != 2 {
		t.Fatalf("expected a 2-element array, got %+v", n)
	}
	if s, _ := arr[0].AsString(); s != "a" {
		t.Fatalf("expected 'a', got %q", s)
	}
}

func TestResolveNSStringCollapses(t *testing.T) {
	objects := []interface{}{
		"$null",
		map[string]interface{}{"NS.string": "plain"},
	}
	d := newTestDecoder(objects)
	n, err := d.resolve(1)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if s, ok := n.AsString(); !ok || s != "plain" {
		t.Fatalf("expected 'plain', got %q ok=%v", s, ok)
	}
}
