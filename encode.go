package lxmlbind

import (
	"io"

	"github.com/beevik/etree"

	"github.com/jessemyers/lxmlbind/internal/marshaler"
)

// Encoder writes bound objects to an output stream.
type Encoder struct {
	w    io.Writer
	opts []Option
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	return &Encoder{w: w, opts: opts}
}

// Encode writes the XML encoding of b to the stream.
func (e *Encoder) Encode(b Bound) error {
	return e.EncodeElement(b.Base().node)
}

// EncodeElement writes the XML encoding of an unbound element.
func (e *Encoder) EncodeElement(node *etree.Element) error {
	o, err := newOptions(e.opts)
	if err != nil {
		return err
	}
	data, err := marshaler.Marshal(node, marshaler.Settings{Indent: o.indent, Declaration: o.declaration})
	if err != nil {
		return err
	}
	_, err = e.w.Write(data)
	return err
}
