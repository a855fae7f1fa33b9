package imessage

import "testing"

func TestResolveContentTypePrefersStoredMimeType(t *testing.T) {
	a := Attachment{MimeType: "image/heic", Filename: "/nonexistent/path.heic"}
	if got := a.ResolveContentType(); got != "image/heic" {
		t.Fatalf("expected stored mime type to win, got %q", got)
	}
}

func TestResolveContentTypeEmptyWithoutFilename(t *testing.T) {
	a := Attachment{}
	if got := a.ResolveContentType(); got != "" {
		t.Fatalf("expected empty content type, got %q", got)
	}
}

func TestResolveDimensionsMissingFile(t *testing.T) {
	a := Attachment{Filename: "/nonexistent/path.png"}
	if _, _, ok := a.ResolveDimensions(); ok {
		t.Fatalf("expected resolution to fail for a missing file")
	}
}
