package models

import "testing"

func TestCompositeCursorRoundTrip(t *testing.T) {
	encoded := EncodeCompositeCursor("2026-08-01 10:30:00.000000", 42)
	sortValue, id := DecodeCompositeCursor(&encoded)
	if sortValue != "2026-08-01 10:30:00.000000" {
		t.Fatalf("sort value: got %q", sortValue)
	}
	if id != 42 {
		t.Fatalf("id: got %d, want 42", id)
	}
}

func TestDecodeCompositeCursorMalformed(t *testing.T) {
	empty := ""
	if s, id := DecodeCompositeCursor(&empty); s != "" || id != 0 {
		t.Fatalf("empty cursor should decode to zero values, got %q %d", s, id)
	}
	if s, id := DecodeCompositeCursor(nil); s != "" || id != 0 {
		t.Fatalf("nil cursor should decode to zero values, got %q %d", s, id)
	}
	notBase64 := "!!not-base64!!"
	if s, id := DecodeCompositeCursor(&notBase64); s != "" || id != 0 {
		t.Fatalf("invalid base64 should decode to zero values, got %q %d", s, id)
	}
	noSeparator := EncodeCursor("justonefield")
	if s, id := DecodeCompositeCursor(&noSeparator); s != "" || id != 0 {
		t.Fatalf("cursor without separator should decode to zero values, got %q %d", s, id)
	}
}

func TestDecodeCursor(t *testing.T) {
	encoded := EncodeCursor("2026-08-01 10:30:00")
	decoded, err := DecodeCursor(&encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded != "2026-08-01 10:30:00" {
		t.Fatalf("got %q", decoded)
	}

	if decoded, err := DecodeCursor(nil); err != nil || decoded != "" {
		t.Fatalf("nil cursor should decode to empty, got %q %v", decoded, err)
	}
}
