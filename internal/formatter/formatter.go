// Package formatter renders element trees in a canonical, order-insensitive
// text form: attributes sorted by key, children stably sorted by tag and
// text trimmed. Two trees render identically exactly when they are
// structurally equal, which makes the output suitable for line diffs.
package formatter

import (
	"cmp"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/jessemyers/lxmlbind/internal/path"
)

const (
	defaultIndent = 2
)

// Options controls normalization.
type Options struct {
	// Ignore lists attribute keys left out of the rendering.
	Ignore map[string]bool
	// KeepWhitespace keeps text and tails verbatim instead of trimming them.
	KeepWhitespace bool
}

// Formatter writes canonical renderings to an output stream.
type Formatter struct {
	w      io.Writer
	indent string
	depth  int
	opts   Options
}

// New returns a new formatter that writes to w.
func New(w io.Writer, indentSpaces *int, opts Options) *Formatter {
	spaces := defaultIndent
	if indentSpaces != nil {
		spaces = *indentSpaces
	}
	var indentStr string
	if spaces > 0 {
		indentStr = strings.Repeat(" ", spaces)
	}
	return &Formatter{w: w, indent: indentStr, opts: opts}
}

// Format writes the canonical rendering of e, one line per element, text
// or tail.
func (f *Formatter) Format(e *etree.Element) error {
	return f.writeElement(e)
}

// String renders e with the default indent.
func String(e *etree.Element, opts Options) string {
	var b strings.Builder
	// strings.Builder never fails.
	_ = New(&b, nil, opts).Format(e)
	return b.String()
}

func (f *Formatter) write(s string) error {
	_, err := io.WriteString(f.w, s)
	return err
}

func (f *Formatter) writeLine(s string) error {
	if err := f.write(strings.Repeat(f.indent, f.depth)); err != nil {
		return err
	}
	return f.write(s + "\n")
}

func (f *Formatter) writeElement(e *etree.Element) error {
	var open strings.Builder
	open.WriteString("<" + e.FullTag())
	for _, a := range Attrs(e, f.opts.Ignore) {
		open.WriteString(" " + a.FullKey() + "=" + strconv.Quote(a.Value))
	}
	text := Text(e, f.opts.KeepWhitespace)
	children := SortedChildren(e)
	if text == "" && len(children) == 0 {
		open.WriteString("/>")
		if err := f.writeLine(open.String()); err != nil {
			return err
		}
		return f.writeTail(e)
	}
	open.WriteString(">")
	if err := f.writeLine(open.String()); err != nil {
		return err
	}
	f.depth++
	if text != "" {
		if err := f.writeLine(strconv.Quote(text)); err != nil {
			return err
		}
	}
	for _, child := range children {
		if err := f.writeElement(child); err != nil {
			return err
		}
	}
	f.depth--
	if err := f.writeLine("</" + e.FullTag() + ">"); err != nil {
		return err
	}
	return f.writeTail(e)
}

func (f *Formatter) writeTail(e *etree.Element) error {
	tail := Tail(e, f.opts.KeepWhitespace)
	if tail == "" {
		return nil
	}
	return f.writeLine("~" + strconv.Quote(tail))
}

// Attrs returns the attributes of e sorted by key, without the ignored ones.
func Attrs(e *etree.Element, ignore map[string]bool) []etree.Attr {
	attrs := make([]etree.Attr, 0, len(e.Attr))
	for _, a := range e.Attr {
		if ignore[a.Key] || ignore[a.FullKey()] {
			continue
		}
		attrs = append(attrs, a)
	}
	slices.SortFunc(attrs, func(a, b etree.Attr) int {
		return cmp.Compare(a.FullKey(), b.FullKey())
	})
	return attrs
}

// SortedChildren returns the child elements of e stably sorted by tag.
func SortedChildren(e *etree.Element) []*etree.Element {
	children := e.ChildElements()
	slices.SortStableFunc(children, func(a, b *etree.Element) int {
		return cmp.Compare(a.FullTag(), b.FullTag())
	})
	return children
}

// Text returns the normalized text of e. Absent text and text that trims
// to nothing are both "".
func Text(e *etree.Element, keepWhitespace bool) string {
	if !path.HasText(e) {
		return ""
	}
	return normalize(e.Text(), keepWhitespace)
}

// Tail returns the normalized text following e.
func Tail(e *etree.Element, keepWhitespace bool) string {
	return normalize(e.Tail(), keepWhitespace)
}

func normalize(s string, keepWhitespace bool) string {
	if keepWhitespace {
		return s
	}
	return strings.TrimSpace(s)
}
