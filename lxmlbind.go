package lxmlbind

import (
	"github.com/beevik/etree"

	"github.com/jessemyers/lxmlbind/internal/marshaler"
)

// Marshal returns the XML encoding of b's element and everything below it.
func Marshal(b Bound, opts ...Option) ([]byte, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	return marshaler.Marshal(b.Base().node, marshaler.Settings{Indent: o.indent, Declaration: o.declaration})
}

// Parse parses data into a tree without binding it, returning the root
// element detached from its document. A document without a root element
// fails with ErrNoRootElement.
func Parse(data []byte, opts ...Option) (*etree.Element, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	root, err := marshaler.Unmarshal(data, o.permissive)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, ErrNoRootElement
	}
	return root, nil
}
