package lxmlbind

import (
	"fmt"
	"maps"
	"reflect"
	"slices"

	"github.com/beevik/etree"
)

// Elements turns the child elements of a collection into bound values.
// *Type[T] is the Elements of a collection holding only T.
type Elements[T Bound] interface {
	Wrap(node *etree.Element, parent *Object) (T, error)
}

// Of returns the Elements of a collection whose children are all of typ.
// A child with another tag fails with a *TagMismatchError when it is read.
func Of[T Bound](typ *Type[T]) Elements[T] {
	return typ
}

// A Case registers one element type with a Dispatch.
type Case[T Bound] struct {
	tag  string
	wrap func(*etree.Element, *Object) (T, error)
	err  error
}

// NewCase returns the Case dispatching typ's tag to typ. The element type E
// must be assignable to the collection's element type T.
//
//	lxmlbind.NewCase[Metadata](MetadataStringType)
func NewCase[T, E Bound](typ *Type[E]) Case[T] {
	c := Case[T]{tag: typ.Tag()}
	if !reflect.TypeFor[E]().AssignableTo(reflect.TypeFor[T]()) {
		c.err = fmt.Errorf("lxmlbind: element type %v of tag %q is not a %v",
			reflect.TypeFor[E](), c.tag, reflect.TypeFor[T]())
		return c
	}
	c.wrap = func(node *etree.Element, parent *Object) (T, error) {
		e, err := typ.Wrap(node, parent)
		if err != nil {
			var zero T
			return zero, err
		}
		return any(e).(T), nil
	}
	return c
}

// Dispatch is a registry from child tag to element type, for collections
// holding more than one type.
type Dispatch[T Bound] struct {
	cases map[string]Case[T]
}

// NewDispatch builds a Dispatch from cases. Two cases sharing a tag fail
// with a *DuplicateTagError.
func NewDispatch[T Bound](cases ...Case[T]) (*Dispatch[T], error) {
	d := &Dispatch[T]{cases: make(map[string]Case[T], len(cases))}
	if err := d.Register(cases...); err != nil {
		return nil, err
	}
	return d, nil
}

// MustDispatch is like NewDispatch but panics on error.
func MustDispatch[T Bound](cases ...Case[T]) *Dispatch[T] {
	d, err := NewDispatch(cases...)
	if err != nil {
		panic(err)
	}
	return d
}

// Register adds cases to d. Recursive schemas, where an element type
// contains a collection of its own kind, register from an init function.
// Either every case is added or none is.
func (d *Dispatch[T]) Register(cases ...Case[T]) error {
	seen := map[string]bool{}
	for _, c := range cases {
		if c.err != nil {
			return c.err
		}
		if _, dup := d.cases[c.tag]; dup || seen[c.tag] {
			return &DuplicateTagError{Tag: c.tag}
		}
		seen[c.tag] = true
	}
	for _, c := range cases {
		d.cases[c.tag] = c
	}
	return nil
}

// Tags returns the registered tags, sorted.
func (d *Dispatch[T]) Tags() []string {
	return slices.Sorted(maps.Keys(d.cases))
}

// Wrap implements Elements.
func (d *Dispatch[T]) Wrap(node *etree.Element, parent *Object) (T, error) {
	c, ok := d.cases[node.Tag]
	if !ok {
		var zero T
		return zero, &UnknownElementTagError{Tag: node.Tag}
	}
	return c.wrap(node, parent)
}
