package lxmlbind

import (
	"fmt"
	"io"

	"github.com/beevik/etree"
)

// Decoder reads XML documents from an input stream.
type Decoder struct {
	r    io.Reader
	opts []Option
}

// NewDecoder returns a new decoder that reads from r.
//
// It is the caller's responsibility to call Close on r if required.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	return &Decoder{r: r, opts: opts}
}

// Element reads the whole input and returns its root element.
//
// Note: This is a non-streaming implementation. It reads the entire
// reader into memory first before parsing.
func (d *Decoder) Element() (*etree.Element, error) {
	if d.r == nil {
		return nil, fmt.Errorf("lxmlbind: Decode(nil reader)")
	}
	data, err := io.ReadAll(d.r)
	if err != nil {
		return nil, err
	}
	return Parse(data, d.opts...)
}

// Decode reads the whole input and binds its root element as a typ.
// It is the generic form of Type.Read.
func Decode[T Bound](d *Decoder, typ *Type[T]) (T, error) {
	root, err := d.Element()
	if err != nil {
		var zero T
		return zero, err
	}
	return typ.Wrap(root, nil)
}
