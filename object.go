package lxmlbind

import "github.com/beevik/etree"

// Bound is implemented by every type that wraps a bound Object, usually by
// embedding *Object.
type Bound interface {
	Base() *Object
}

// Object wraps exactly one element plus a back-reference to the logical
// object containing it. The back-reference is for navigation only: it
// never owns anything, and structural changes made directly on elements
// do not keep it current.
type Object struct {
	node   *etree.Element
	parent *Object
	class  *Class
}

// Base returns o itself; it makes *Object and every type embedding it a
// Bound.
func (o *Object) Base() *Object { return o }

// Node returns the element o is bound to.
func (o *Object) Node() *etree.Element { return o.node }

// Parent returns the logical parent of o, or nil for a top-level object.
func (o *Object) Parent() *Object { return o.parent }

// Class returns the class o was bound with.
func (o *Object) Class() *Class { return o.class }

// Encode serializes o's element and everything below it.
func (o *Object) Encode(opts ...Option) ([]byte, error) {
	return Marshal(o, opts...)
}

// String returns the compact XML encoding of o.
func (o *Object) String() string {
	b, err := o.Encode()
	if err != nil {
		return "<!-- " + err.Error() + " -->"
	}
	return string(b)
}

// Equal reports whether o and other are structurally equal; see Equal.
// Object identity, not structure, is what distinguishes objects used as
// map keys.
func (o *Object) Equal(other Bound, opts ...EqualOption) bool {
	if other == nil {
		return false
	}
	ob := other.Base()
	if o == nil || ob == nil {
		return o == ob
	}
	return Equal(o.node, ob.node, opts...)
}
