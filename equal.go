package lxmlbind

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/jessemyers/lxmlbind/internal/formatter"
)

// A Mismatch describes the first structural difference between two trees.
type Mismatch struct {
	// Path locates the differing element, e.g. /person/address/city. A
	// sibling sharing its tag with others carries its position in tag
	// order, e.g. /list/person[1].
	Path   string
	Reason string
	This   string
	That   string
}

func (m *Mismatch) String() string {
	return fmt.Sprintf("%s: %s: %q != %q", m.Path, m.Reason, m.This, m.That)
}

// Equal reports whether a and b are structurally equal: same tags, same
// attribute sets, same text and tail modulo surrounding whitespace, and
// children that pair up when both sides are stably sorted by tag. Sibling
// order, attribute order and formatting whitespace are not significant.
func Equal(a, b *etree.Element, opts ...EqualOption) bool {
	return Compare(a, b, opts...) == nil
}

// Compare returns the first difference between a and b, or nil if they are
// structurally equal.
func Compare(a, b *etree.Element, opts ...EqualOption) *Mismatch {
	o := newEqualOptions(opts)
	if a == nil || b == nil {
		if a == b {
			return nil
		}
		return &Mismatch{Path: "/", Reason: "missing element", This: tagOf(a), That: tagOf(b)}
	}
	m := compare("/"+a.FullTag(), a, b, o)
	if m != nil {
		log().Debug("structural mismatch", "path", m.Path, "reason", m.Reason, "this", m.This, "that", m.That)
	}
	return m
}

func tagOf(e *etree.Element) string {
	if e == nil {
		return ""
	}
	return e.FullTag()
}

// compare checks a and b, the elements found at p on either side.
func compare(p string, a, b *etree.Element, o *equalOptions) *Mismatch {
	if a.FullTag() != b.FullTag() {
		return &Mismatch{Path: p, Reason: "tag", This: a.FullTag(), That: b.FullTag()}
	}
	if m := compareAttrs(p, a, b, o); m != nil {
		return m
	}
	if x, y := formatter.Text(a, o.keepWhitespace), formatter.Text(b, o.keepWhitespace); x != y {
		return &Mismatch{Path: p, Reason: "text", This: x, That: y}
	}
	if x, y := formatter.Tail(a, o.keepWhitespace), formatter.Tail(b, o.keepWhitespace); x != y {
		return &Mismatch{Path: p, Reason: "tail", This: x, That: y}
	}
	as, bs := formatter.SortedChildren(a), formatter.SortedChildren(b)
	if len(as) != len(bs) {
		return &Mismatch{Path: p, Reason: "child count", This: strconv.Itoa(len(as)), That: strconv.Itoa(len(bs))}
	}
	counts := map[string]int{}
	for _, c := range as {
		counts[c.FullTag()]++
	}
	seen := map[string]int{}
	for i, c := range as {
		tag := c.FullTag()
		cp := p + "/" + tag
		if counts[tag] > 1 {
			cp += "[" + strconv.Itoa(seen[tag]) + "]"
			seen[tag]++
		}
		if m := compare(cp, c, bs[i], o); m != nil {
			return m
		}
	}
	return nil
}

func compareAttrs(p string, a, b *etree.Element, o *equalOptions) *Mismatch {
	x, y := formatter.Attrs(a, o.ignore), formatter.Attrs(b, o.ignore)
	for i := 0; i < len(x) || i < len(y); i++ {
		switch {
		case i >= len(x):
			return &Mismatch{Path: p, Reason: "attribute " + y[i].FullKey(), That: y[i].Value}
		case i >= len(y):
			return &Mismatch{Path: p, Reason: "attribute " + x[i].FullKey(), This: x[i].Value}
		case x[i].FullKey() != y[i].FullKey():
			// The smaller key is the one missing on the other side.
			if x[i].FullKey() < y[i].FullKey() {
				return &Mismatch{Path: p, Reason: "attribute " + x[i].FullKey(), This: x[i].Value}
			}
			return &Mismatch{Path: p, Reason: "attribute " + y[i].FullKey(), That: y[i].Value}
		case x[i].Value != y[i].Value:
			return &Mismatch{Path: p, Reason: "attribute " + x[i].FullKey(), This: x[i].Value, That: y[i].Value}
		}
	}
	return nil
}

// Diff returns a line diff of the canonical renderings of a and b, with
// removed lines prefixed by "-" and added lines by "+". It returns "" when
// a and b are structurally equal.
func Diff(a, b *etree.Element, opts ...EqualOption) string {
	if Equal(a, b, opts...) {
		return ""
	}
	o := newEqualOptions(opts)
	fo := formatter.Options{Ignore: o.ignore, KeepWhitespace: o.keepWhitespace}
	var x, y string
	if a != nil {
		x = formatter.String(a, fo)
	}
	if b != nil {
		y = formatter.String(b, fo)
	}

	dmp := diffmatchpatch.New()
	cx, cy, lines := dmp.DiffLinesToChars(x, y)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(cx, cy, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for line := range strings.SplitSeq(strings.TrimSuffix(d.Text, "\n"), "\n") {
			out.WriteString(prefix + line + "\n")
		}
	}
	return out.String()
}
