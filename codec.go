package lxmlbind

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/jessemyers/lxmlbind/internal/path"
)

// Codec converts between an element and a field's Go value.
//
// Decode reports ok == false when the element carries no value. Encode must
// validate before it mutates node, so a failed Encode leaves node as it was.
type Codec[T any] interface {
	Decode(node *etree.Element, owner *Object) (v T, ok bool, err error)
	Encode(node *etree.Element, v T, owner *Object) error
}

// TextCodec stores values as the text content of the element. An element
// without text decodes as absent.
type TextCodec[T any] struct {
	Parse  func(string) (T, error)
	Format func(T) (string, error)
}

// Decode implements Codec.
func (c TextCodec[T]) Decode(node *etree.Element, _ *Object) (v T, ok bool, err error) {
	if !path.HasText(node) {
		return v, false, nil
	}
	v, err = c.Parse(node.Text())
	if err != nil {
		return v, false, err
	}
	return v, true, nil
}

// Encode implements Codec.
func (c TextCodec[T]) Encode(node *etree.Element, v T, _ *Object) error {
	s, err := c.Format(v)
	if err != nil {
		return err
	}
	path.SetText(node, s)
	return nil
}

var (
	stringCodec = TextCodec[string]{
		Parse:  func(s string) (string, error) { return s, nil },
		Format: func(s string) (string, error) { return s, nil },
	}
	intCodec = TextCodec[int]{
		Parse: func(s string) (int, error) {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil {
				return 0, conversionError("int", s, err)
			}
			return n, nil
		},
		Format: func(n int) (string, error) { return strconv.Itoa(n), nil },
	}
	longCodec = TextCodec[int64]{
		Parse: func(s string) (int64, error) {
			n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
			if err != nil {
				return 0, conversionError("int64", s, err)
			}
			return n, nil
		},
		Format: func(n int64) (string, error) { return strconv.FormatInt(n, 10), nil },
	}
	floatCodec = TextCodec[float64]{
		Parse: func(s string) (float64, error) {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return 0, conversionError("float64", s, err)
			}
			return f, nil
		},
		Format: func(f float64) (string, error) { return strconv.FormatFloat(f, 'g', -1, 64), nil },
	}
	// Only the literal "false" is false. Empty text is true.
	boolCodec = TextCodec[bool]{
		Parse:  func(s string) (bool, error) { return s != "false", nil },
		Format: func(b bool) (string, error) { return strconv.FormatBool(b), nil },
	}
)

func conversionError(typ, text string, err error) error {
	if ne, ok := err.(*strconv.NumError); ok {
		err = ne.Err
	}
	return &ConversionError{Type: typ, Text: text, Err: err}
}

// String declares a text field.
func String(p string) *Accessor[string] { return NewAccessor[string](p, stringCodec) }

// Int declares an integer field. Malformed text fails with a
// *ConversionError.
func Int(p string) *Accessor[int] { return NewAccessor[int](p, intCodec) }

// Long declares a 64-bit integer field.
func Long(p string) *Accessor[int64] { return NewAccessor[int64](p, longCodec) }

// Float declares a floating point field.
func Float(p string) *Accessor[float64] { return NewAccessor[float64](p, floatCodec) }

// Bool declares a boolean field defaulting to false. Any text other than
// "false" reads as true.
func Bool(p string) *Accessor[bool] {
	return NewAccessor[bool](p, boolCodec).WithDefault(false)
}
