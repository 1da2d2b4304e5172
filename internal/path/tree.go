package path

import "github.com/beevik/etree"

// Detach removes e from its parent, if it has one.
func Detach(e *etree.Element) {
	if p := e.Parent(); p != nil {
		p.RemoveChild(e)
	}
}

// Replace puts repl at the position old occupies in old's parent and then
// removes old. repl is first detached from wherever it currently lives.
// It reports false if old has no parent.
func Replace(old, repl *etree.Element) bool {
	if old == repl {
		return true
	}
	parent := old.Parent()
	if parent == nil {
		return false
	}
	Detach(repl)
	parent.InsertChildAt(old.Index(), repl)
	parent.RemoveChild(old)
	return true
}

// IsAncestor reports whether a is e or one of e's ancestors.
func IsAncestor(a, e *etree.Element) bool {
	for ; e != nil; e = e.Parent() {
		if e == a {
			return true
		}
	}
	return false
}

// HasText reports whether e carries text content. An element whose first
// token is not character data has no text, which is distinct from having
// empty text.
func HasText(e *etree.Element) bool {
	if len(e.Child) == 0 {
		return false
	}
	_, ok := e.Child[0].(*etree.CharData)
	return ok
}

// ClearText removes the leading character data of e, leaving its child
// elements untouched.
func ClearText(e *etree.Element) {
	for len(e.Child) > 0 {
		if _, ok := e.Child[0].(*etree.CharData); !ok {
			return
		}
		e.RemoveChildAt(0)
	}
}

// SetText replaces the text of e with s. Unlike etree's own SetText, an
// empty s still leaves e with (empty) text.
func SetText(e *etree.Element, s string) {
	ClearText(e)
	e.InsertChildAt(0, etree.NewCharData(s))
}
