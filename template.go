package docufill

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"strings"
)

// Template is an opened docx file. All zip entries are kept in memory
// byte-for-byte; only word/document.xml is ever rewritten. The template
// itself is never mutated — every record works on a freshly parsed copy
// of the document tree.
type Template struct {
	path string

	// zip entry names in original order, contents keyed by name
	names []string
	files map[string][]byte
}

// OpenTemplate - docpath can be a local file or a http(s) url.
// Remote templates are downloaded to a temp file first.
func OpenTemplate(docpath string) (*Template, error) {
	if isURL(docpath) {
		tmpFile, err := DefaultDownloader.DownloadFile(context.Background(), docpath)
		if err != nil {
			return nil, fmt.Errorf("%w: download: %v", ErrTemplateLoad, err)
		}
		defer func() { _ = os.Remove(tmpFile) }()
		docpath = tmpFile
	}

	t := &Template{
		path:  docpath,
		files: map[string][]byte{},
	}

	// Unzip
	zipr, err := zip.OpenReader(docpath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateLoad, err)
	}
	defer func() { _ = zipr.Close() }()

	for _, f := range zipr.File {
		fr, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: read [ %s ]: %v", ErrTemplateLoad, f.Name, err)
		}
		t.names = append(t.names, f.Name)
		t.files[f.Name] = readerBytes(fr)
	}

	if t.files[mainDocumentName] == nil {
		return nil, fmt.Errorf("%w: mandatory [ %s ] not found", ErrTemplateLoad, mainDocumentName)
	}

	return t, nil
}

const mainDocumentName = "word/document.xml"

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// documentTree - fresh parse of the main document. Each call returns an
// independent tree so per-record substitution never leaks between records.
func (t *Template) documentTree() *xmlNode {
	return bytesToXMLStruct(t.files[mainDocumentName])
}

// Plaintext - visible document text, paragraphs separated by newlines
func (t *Template) Plaintext() string {
	xnode := t.documentTree()
	if xnode == nil {
		return ""
	}
	return xnode.plaintext()
}

// FillTo - substitute given record into a fresh copy of the template
// and save it as a new docx at path
func (t *Template) FillTo(path string, rec Record) error {
	xnode := t.documentTree()
	if xnode == nil {
		return fmt.Errorf("%w: [ %s ] is not parsable xml", ErrOutputWrite, mainDocumentName)
	}

	rec.substitute(xnode)

	buf := structToXMLBytes(xnode)
	if buf == nil {
		return fmt.Errorf("%w: [ %s ] re-encode failed", ErrOutputWrite, mainDocumentName)
	}
	head := []byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	buf = append(head, buf...)

	return t.writeDocx(path, buf)
}

// Rebuild the docx archive with given main document contents
func (t *Template) writeDocx(path string, document []byte) error {
	fDocx, err := os.Create(path) // #nosec G304 - output path comes from CLI args
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOutputWrite, err)
	}

	zipw := zip.NewWriter(fDocx)

	// Loop existing files to build docx archive again
	for _, name := range t.names {
		fw, err := zipw.Create(name)
		if err != nil {
			_ = zipw.Close()
			_ = fDocx.Close()
			return fmt.Errorf("%w: archive [ %s ]: %v", ErrOutputWrite, name, err)
		}

		fbuf := t.files[name]
		if name == mainDocumentName {
			fbuf = document
		}

		if _, err := fw.Write(fbuf); err != nil {
			_ = zipw.Close()
			_ = fDocx.Close()
			return fmt.Errorf("%w: archive [ %s ]: %v", ErrOutputWrite, name, err)
		}
	}

	if err := zipw.Close(); err != nil {
		_ = fDocx.Close()
		return fmt.Errorf("%w: %v", ErrOutputWrite, err)
	}
	return fDocx.Close()
}

// Placeholders - distinct placeholder keys found in the main document.
// A key split across runs is not reported, same as it is not replaced.
func (t *Template) Placeholders() []string {
	xnode := t.documentTree()
	if xnode == nil {
		return nil
	}

	var keys []string
	seen := map[string]bool{}
	xnode.Walk(func(n *xmlNode) {
		for _, m := range rePlaceholder.FindAllSubmatch(n.Content, -1) {
			key := string(m[1])
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	})
	return keys
}
