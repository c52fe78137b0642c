package docufill

import (
	"bytes"
	"regexp"
)

// rePlaceholder - {identifier} tokens inside document text
var rePlaceholder = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// Placeholder .. {key}
func placeholderFor(key string) []byte {
	return []byte("{" + key + "}")
}

// substitute replaces every {key} of this record in every text node of
// the tree. Nodes are processed one by one, so a placeholder broken
// across separate runs by prior rich-text editing stays literal — a
// known limitation of run-level replacement. Keys not present in the
// record are left untouched as well.
//
// Table cell paragraphs need no special casing: their w-t nodes are
// part of the same walk as body paragraphs.
func (r Record) substitute(xnode *xmlNode) {
	xnode.Walk(func(n *xmlNode) {
		if !bytes.Contains(n.Content, []byte("{")) {
			return
		}
		n.Content = r.replaceIn(n.Content)
	})
}

// replaceIn - apply every field of the record to a single node's text
func (r Record) replaceIn(buf []byte) []byte {
	for _, key := range r.keys {
		buf = bytes.ReplaceAll(buf, placeholderFor(key), []byte(r.values[key]))
	}
	return buf
}
