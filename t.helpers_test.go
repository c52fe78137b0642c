package docufill

import (
	"bytes"
	"errors"
	"io"
	"log"
	"testing"
)

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		"Name":          "name",
		"  Surname  ":   "surname",
		"Company Name":  "company_name",
		"Compañía":      "compania",
		"Émilie Dupont": "emilie_dupont",
		"":              "",
	}
	for in, want := range cases {
		if got := normalizeHeader(in); got != want {
			t.Fatalf("normalizeHeader(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStringify(t *testing.T) {
	if got := stringify(nil); got != "" {
		t.Fatalf("nil: %q", got)
	}
	if got := stringify("  padded  "); got != "padded" {
		t.Fatalf("string: %q", got)
	}
	if got := stringify(true); got != "true" {
		t.Fatalf("bool: %q", got)
	}
}

func TestStampedPath(t *testing.T) {
	if got := stampedPath("out/ana_kovacs.pdf"); got != "out/ana_kovacs_with_logo.pdf" {
		t.Fatalf("stampedPath: %q", got)
	}
}

func TestBaseName(t *testing.T) {
	rec := NewRecord()
	rec.Set("name", "Ana/..")
	rec.Set("surname", "Kovacs")

	if got := baseName(0, rec); got != "Ana_.._Kovacs" {
		t.Fatalf("baseName: %q", got)
	}

	empty := NewRecord()
	if got := baseName(4, empty); got != "record_5" {
		t.Fatalf("baseName fallback: %q", got)
	}
}

func TestParseCollisionPolicy(t *testing.T) {
	for in, want := range map[string]CollisionPolicy{
		"":          CollisionOverwrite,
		"overwrite": CollisionOverwrite,
		"fail":      CollisionFail,
		"suffix":    CollisionSuffix,
	} {
		got, err := ParseCollisionPolicy(in)
		if err != nil || got != want {
			t.Fatalf("ParseCollisionPolicy(%q) = %v, %v", in, got, err)
		}
	}

	if _, err := ParseCollisionPolicy("bogus"); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}

func TestRecordReplaceIn(t *testing.T) {
	rec := NewRecord()
	rec.Set("name", "Ana")

	got := rec.replaceIn([]byte("Hi {name}, {name}! {other} stays."))
	want := "Hi Ana, Ana! {other} stays."
	if string(got) != want {
		t.Fatalf("replaceIn: %q", got)
	}
}

type brokenReadCloser struct {
	io.Reader
	shouldReadFail  bool
	shouldCloseFail bool
}

func (brc *brokenReadCloser) Read(p []byte) (n int, err error) {
	if brc.shouldReadFail {
		return 0, errors.New("broken read error")
	}
	if brc.Reader == nil {
		return 0, io.EOF
	}
	return brc.Reader.Read(p)
}

func (brc *brokenReadCloser) Close() error {
	if brc.shouldCloseFail {
		return errors.New("broken close error")
	}
	return nil
}

func TestReaderBytesInvalidCases(t *testing.T) {
	// disable log output for tests
	wr := log.Writer()
	log.SetOutput(io.Discard)
	defer log.SetOutput(wr)

	t.Run("nil input", func(t *testing.T) {
		if result := readerBytes(nil); result != nil {
			t.Fatalf("Expected nil result, got: %v", result)
		}
	})

	t.Run("broken reader", func(t *testing.T) {
		rdr := &brokenReadCloser{shouldReadFail: true}
		if result := readerBytes(rdr); result != nil {
			t.Fatalf("Expected nil result, got: %v", result)
		}
	})

	t.Run("broken closer", func(t *testing.T) {
		rdr := &brokenReadCloser{Reader: bytes.NewReader([]byte("test data")), shouldCloseFail: true}
		if result := readerBytes(rdr); result != nil {
			t.Fatalf("Expected nil result, got: %v", result)
		}
	})
}

func TestXMLRoundTripKeepsNamespacePrefix(t *testing.T) {
	raw := []byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<w:body><w:p><w:r><w:t>Hello {name}!</w:t></w:r></w:p></w:body></w:document>`)

	xnode := bytesToXMLStruct(raw)
	if xnode == nil {
		t.Fatal("parse failed")
	}

	out := structToXMLBytes(xnode)
	if !bytes.Contains(out, []byte("<w:t>Hello {name}!</w:t>")) {
		t.Fatalf("prefix not restored: %s", out)
	}
	if bytes.Contains(out, []byte("_xmlns")) {
		t.Fatalf("namespace fixup missed: %s", out)
	}
}
