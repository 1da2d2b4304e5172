package lxmlbind

import (
	"fmt"
	"reflect"

	"github.com/beevik/etree"

	"github.com/jessemyers/lxmlbind/internal/path"
)

type nestedCodec[T Bound] struct {
	typ *Type[T]
}

func (c nestedCodec[T]) Decode(node *etree.Element, owner *Object) (T, bool, error) {
	v, err := c.typ.Wrap(node, owner)
	if err != nil {
		return v, false, err
	}
	return v, true, nil
}

// Encode moves v's element into the position of node. A nil v clears the
// text of node instead. It fails with ErrCannotDetachRoot when v's element
// is node or one of its ancestors.
func (c nestedCodec[T]) Encode(node *etree.Element, v T, owner *Object) error {
	if isNil(v) {
		path.ClearText(node)
		return nil
	}
	o := v.Base()
	if o.node.Tag != node.Tag {
		return &TagMismatchError{Class: o.class.name, Expected: node.Tag, Actual: o.node.Tag}
	}
	// An object cannot be moved below itself: its element would have to
	// leave the tree it roots.
	if path.IsAncestor(o.node, node) || !path.Replace(node, o.node) {
		return ErrCannotDetachRoot
	}
	o.parent = owner
	return nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		return rv.IsNil()
	}
	return false
}

// Nested declares a field holding an object of typ, stored at the child
// element carrying typ's tag. The field is auto: the child is created, with
// typ's root attributes, when the owner is constructed.
func Nested[T Bound](typ *Type[T]) *Accessor[T] {
	return NestedAt(typ.Tag(), typ)
}

// NestedAt is like Nested with an explicit path. The path's last segment
// must equal typ's tag.
func NestedAt[T Bound](p string, typ *Type[T]) *Accessor[T] {
	a := NewAccessor[T](p, nestedCodec[T]{typ: typ}).WithAuto()
	a.baseAttrs = typ.class.attributes
	if a.splitErr == nil && a.tags[len(a.tags)-1] != typ.Tag() {
		a.splitErr = fmt.Errorf("path %q does not end in tag %q", p, typ.Tag())
	}
	return a
}
