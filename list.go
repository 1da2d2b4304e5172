package lxmlbind

import (
	"iter"

	"github.com/beevik/etree"

	"github.com/jessemyers/lxmlbind/internal/path"
)

// List is a bound object whose child elements are its items, in document
// order. Embed *List[T] in the type of a list class:
//
//	type PersonList struct{ *lxmlbind.List[*Person] }
//
//	var PersonListType = lxmlbind.MustDefine("PersonList",
//		func(o *lxmlbind.Object) *PersonList {
//			return &PersonList{lxmlbind.NewList(o, lxmlbind.Of(PersonType))}
//		},
//		lxmlbind.Tag("person-list"))
type List[T Bound] struct {
	*Object
	elements Elements[T]
	// members tracks the items added through this wrapper so that removing
	// them can clear their back-reference.
	members map[*etree.Element]*Object
}

// NewList returns the list view of o.
func NewList[T Bound](o *Object, elements Elements[T]) *List[T] {
	return &List[T]{Object: o, elements: elements, members: map[*etree.Element]*Object{}}
}

func (l *List[T]) child(i int) (*etree.Element, error) {
	children := l.node.ChildElements()
	if i < 0 || i >= len(children) {
		return nil, &IndexOutOfRangeError{Index: i, Length: len(children)}
	}
	return children[i], nil
}

func (l *List[T]) adopt(v T) *Object {
	o := v.Base()
	o.parent = l.Object
	l.members[o.node] = o
	return o
}

func (l *List[T]) release(node *etree.Element) {
	if o, ok := l.members[node]; ok {
		o.parent = nil
		delete(l.members, node)
	}
}

// Append adds v's element as the last child. v's element is first removed
// from wherever it lived.
func (l *List[T]) Append(v T) {
	o := l.adopt(v)
	path.Detach(o.node)
	l.node.AddChild(o.node)
}

// Get wraps the i-th item.
func (l *List[T]) Get(i int) (T, error) {
	node, err := l.child(i)
	if err != nil {
		var zero T
		return zero, err
	}
	return l.elements.Wrap(node, l.Object)
}

// Set replaces the i-th item with v, keeping its position.
func (l *List[T]) Set(i int, v T) error {
	node, err := l.child(i)
	if err != nil {
		return err
	}
	o := v.Base()
	if node == o.node {
		l.adopt(v)
		return nil
	}
	l.release(node)
	path.Replace(node, o.node)
	l.adopt(v)
	return nil
}

// Delete removes the i-th item.
func (l *List[T]) Delete(i int) error {
	node, err := l.child(i)
	if err != nil {
		return err
	}
	l.release(node)
	path.Detach(node)
	return nil
}

// Len returns the number of child elements.
func (l *List[T]) Len() int {
	return len(l.node.ChildElements())
}

// All returns an iterator over the items in document order. Each pass
// rereads the tree. Iteration stops after the first error.
func (l *List[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, node := range l.node.ChildElements() {
			v, err := l.elements.Wrap(node, l.Object)
			if !yield(v, err) || err != nil {
				return
			}
		}
	}
}

// Slice wraps every item.
func (l *List[T]) Slice() ([]T, error) {
	var items []T
	for v, err := range l.All() {
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}
