package textcodec

import (
	"bytes"
	"errors"
	"testing"
)

func TestLookupUTF8Aliases(t *testing.T) {
	for _, name := range []string{"", "utf-8", "UTF8", " Utf-8 "} {
		cs, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		if !cs.IsUTF8() || cs.Name() != "utf-8" {
			t.Fatalf("Lookup(%q) = %+v, want utf-8", name, cs)
		}
	}
}

func TestLookupWHATWGLabel(t *testing.T) {
	cs, err := Lookup("windows-1252")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if cs.IsUTF8() {
		t.Fatal("windows-1252 must transcode")
	}
}

func TestLookupASCIIIsStrict(t *testing.T) {
	for _, name := range []string{"ascii", "US-ASCII", "ansi_x3.4-1968"} {
		cs, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		if cs.Name() != "us-ascii" {
			t.Fatalf("Lookup(%q).Name() = %q", name, cs.Name())
		}
	}

	var buf bytes.Buffer
	w := ASCII.NewWriter(&buf)
	_, writeErr := w.Write([]byte("caf\u00e9"))
	closeErr := w.Close()
	if writeErr == nil && closeErr == nil {
		t.Fatal("expected an error for a rune outside US-ASCII")
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("no-such-charset")
	if !errors.Is(err, ErrUnknownEncoding) {
		t.Fatalf("expected ErrUnknownEncoding, got %v", err)
	}
}

func TestWriterUTF8Passthrough(t *testing.T) {
	var buf bytes.Buffer
	w := UTF8.NewWriter(&buf)
	if _, err := w.Write([]byte("ä\tb\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if buf.String() != "ä\tb\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestWriterLatin1(t *testing.T) {
	cs, err := Lookup("ISO-8859-1")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	var buf bytes.Buffer
	w := cs.NewWriter(&buf)
	if _, err := w.Write([]byte("é")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), []byte{0xE9}) {
		t.Fatalf("got % x", buf.Bytes())
	}
}

func TestWriterUnencodableRune(t *testing.T) {
	cs, err := Lookup("ISO-8859-1")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	var buf bytes.Buffer
	w := cs.NewWriter(&buf)
	_, writeErr := w.Write([]byte("世"))
	closeErr := w.Close()
	if writeErr == nil && closeErr == nil {
		t.Fatal("expected an error for a rune outside ISO-8859-1")
	}
}

func TestParseNewlineMode(t *testing.T) {
	if m, err := ParseNewlineMode(""); err != nil || m != NewlineUniversal {
		t.Fatalf("empty: %v %v", m, err)
	}
	if m, err := ParseNewlineMode("RAW"); err != nil || m != NewlineRaw {
		t.Fatalf("raw: %v %v", m, err)
	}
	if _, err := ParseNewlineMode("dos"); !errors.Is(err, ErrUnknownNewlineMode) {
		t.Fatalf("expected ErrUnknownNewlineMode, got %v", err)
	}
}
