// Package marshaler moves element subtrees in and out of XML bytes through
// etree documents.
package marshaler

import (
	"fmt"

	"github.com/beevik/etree"
)

// NoIndent disables pretty-printing.
const NoIndent = -1

// Settings controls how an element is serialized.
type Settings struct {
	// Indent is the number of spaces per nesting level, or NoIndent.
	Indent int
	// Declaration prefixes the output with an XML declaration.
	Declaration bool
}

// Marshal serializes the subtree rooted at e. The live tree is never
// modified: the subtree is copied into a fresh document first, so e keeps
// its parent and its surrounding whitespace.
func Marshal(e *etree.Element, s Settings) ([]byte, error) {
	doc := etree.NewDocument()
	if s.Declaration {
		doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	}
	doc.SetRoot(e.Copy())
	if s.Indent != NoIndent {
		doc.Indent(s.Indent)
	}
	b, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("lxmlbind: cannot serialize %q: %w", e.Tag, err)
	}
	return b, nil
}

// Unmarshal parses data and returns its root element, detached from the
// document that held it.
func Unmarshal(data []byte, permissive bool) (*etree.Element, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = permissive
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("lxmlbind: parsing error: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, nil
	}
	doc.RemoveChild(root)
	return root, nil
}
