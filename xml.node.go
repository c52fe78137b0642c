package docufill

import (
	"encoding/xml"
	"strings"
)

// xmlNode is one element of word/document.xml. The whole document is
// held as a recursive tree so body paragraphs and table cells can be
// processed by the same walk.
type xmlNode struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Content []byte     `xml:",chardata"`
	Nodes   []*xmlNode `xml:",any"`
}

// UnmarshalXML ..
func (xnode *xmlNode) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	type x xmlNode
	return d.DecodeElement((*x)(xnode), &start)
}

// Walk down all nodes and do custom stuff with given function
func (xnode *xmlNode) Walk(fn func(*xmlNode)) {
	for _, n := range xnode.Nodes {
		if n == nil {
			continue
		}

		fn(n)

		if len(n.Nodes) > 0 {
			n.Walk(fn)
		}
	}
}

// Tag - local tag name with the namespace marker kept ("w-t", "w-p" ..)
func (xnode *xmlNode) Tag() string {
	return xnode.XMLName.Local
}

// isTextNode - node holds visible document text
func (xnode *xmlNode) isTextNode() bool {
	return xnode.Tag() == "w-t"
}

// isParagraphNode - body paragraph or table cell paragraph
func (xnode *xmlNode) isParagraphNode() bool {
	return xnode.Tag() == "w-p"
}

// plaintext - document text with paragraphs separated by newlines.
// Backs Template.Plaintext.
func (xnode *xmlNode) plaintext() string {
	var sb strings.Builder
	xnode.Walk(func(n *xmlNode) {
		if n.isParagraphNode() && sb.Len() > 0 {
			sb.WriteString("\n")
		}
		if n.isTextNode() {
			sb.Write(n.Content)
		}
	})
	return sb.String()
}
