package lxmlbind

import (
	"errors"
	"fmt"
	"maps"

	"github.com/beevik/etree"

	"github.com/jessemyers/lxmlbind/internal/path"
)

// Field is the untyped view of an Accessor, used by a Class to populate
// defaults and to look fields up by name.
type Field interface {
	// Name identifies the field within its class. It defaults to the path.
	Name() string
	// Path is the '/' delimited tag path, relative to the object's element.
	Path() string
	// Auto reports whether the field is materialized when an object is
	// constructed.
	Auto() bool
	// IsSet reports whether the field's path currently resolves.
	IsSet(b Bound) bool
	// Delete removes the field's element from the tree.
	Delete(b Bound) error

	validate() error
	populate(o *Object) (*etree.Element, error)
}

// Accessor is a declared, path-addressed read/write/delete contract over a
// bound object's element.
//
// Accessors are shared by every instance of the classes declaring them and
// are never modified: the With methods return copies.
type Accessor[T any] struct {
	name     string
	path     string
	tags     []string
	splitErr error
	codec    Codec[T]
	auto     bool
	def      T
	hasDef   bool
	filter   Filter

	// baseAttrs are stamped before attrs; nested fields use the nested
	// class's root attributes.
	baseAttrs map[string]string
	attrs     func(owner *Object) map[string]string
}

// NewAccessor declares a field at path converted by codec. The String,
// Int, Long, Bool, Float and Nested constructors cover the common cases.
func NewAccessor[T any](p string, codec Codec[T]) *Accessor[T] {
	tags, err := path.Split(p)
	return &Accessor[T]{name: p, path: p, tags: tags, codec: codec, splitErr: err}
}

func (a *Accessor[T]) clone() *Accessor[T] {
	c := *a
	return &c
}

// WithName returns a copy of a with a different field name. Two fields
// sharing a path, told apart by a filter, need distinct names.
func (a *Accessor[T]) WithName(name string) *Accessor[T] {
	c := a.clone()
	c.name = name
	return c
}

// WithAuto returns a copy of a that creates its element when an object is
// constructed and whenever it is read.
func (a *Accessor[T]) WithAuto() *Accessor[T] {
	c := a.clone()
	c.auto = true
	return c
}

// WithDefault returns a copy of a whose auto-created element is given v.
func (a *Accessor[T]) WithDefault(v T) *Accessor[T] {
	c := a.clone()
	c.def, c.hasDef = v, true
	return c
}

// WithAttributes returns a copy of a that stamps attrs on its leaf element
// when it creates it.
func (a *Accessor[T]) WithAttributes(attrs map[string]string) *Accessor[T] {
	fixed := maps.Clone(attrs)
	return a.WithAttributesFunc(func(*Object) map[string]string { return fixed })
}

// WithAttributesFunc is like WithAttributes but computes the attributes
// from the owning object at creation time.
func (a *Accessor[T]) WithAttributesFunc(fn func(owner *Object) map[string]string) *Accessor[T] {
	c := a.clone()
	c.attrs = fn
	return c
}

// WithFilter returns a copy of a that picks, among sibling elements with
// its leaf tag, the first one accepted by f.
func (a *Accessor[T]) WithFilter(f Filter) *Accessor[T] {
	c := a.clone()
	c.filter = f
	return c
}

// Name implements Field.
func (a *Accessor[T]) Name() string { return a.name }

// Path implements Field.
func (a *Accessor[T]) Path() string { return a.path }

// Auto implements Field.
func (a *Accessor[T]) Auto() bool { return a.auto }

func (a *Accessor[T]) validate() error {
	if a.splitErr != nil {
		return fmt.Errorf("field %q: %w", a.name, a.splitErr)
	}
	if a.codec == nil {
		return fmt.Errorf("field %q has no codec", a.name)
	}
	return nil
}

func (a *Accessor[T]) resolve(o *Object, create bool) (path.Result, error) {
	var onCreate func(*etree.Element)
	if create {
		onCreate = func(e *etree.Element) {
			for k, v := range sortedAttrs(a.baseAttrs) {
				e.CreateAttr(k, v)
			}
			if a.attrs != nil {
				for k, v := range sortedAttrs(a.attrs(o)) {
					e.CreateAttr(k, v)
				}
			}
		}
	}
	res := path.Resolve(o.node, a.tags, create, path.Filter(a.filter), onCreate)
	if res.Created == nil {
		return res, nil
	}
	// The next lookup must find what this one created.
	if a.filter != nil && !a.filter(res.Node) {
		path.Detach(res.Created)
		return path.Result{}, &DeclarationError{
			Class: o.class.name,
			Err:   fmt.Errorf("field %q: filter rejects the element it creates", a.name),
		}
	}
	log().Debug("created element",
		"class", o.class.name,
		"field", a.name,
		"tag", res.Created.Tag,
		"parent", res.Created.Parent().Tag)
	return res, nil
}

// Get reads the field. ok is false when the field's element (or, for text
// codecs, its text) is absent, which is distinct from a zero value.
// For auto fields, Get creates the element first.
func (a *Accessor[T]) Get(b Bound) (v T, ok bool, err error) {
	o := b.Base()
	res, err := a.resolve(o, a.auto)
	if err != nil || res.Node == nil {
		return v, false, err
	}
	v, ok, err = a.codec.Decode(res.Node, o)
	if err != nil {
		return v, false, a.annotate(err)
	}
	return v, ok, nil
}

// Set writes v, creating the element path as needed. If conversion fails
// the elements created by the call are removed again, leaving the tree as
// it was.
func (a *Accessor[T]) Set(b Bound, v T) error {
	o := b.Base()
	res, err := a.resolve(o, true)
	if err != nil {
		return err
	}
	if err := a.codec.Encode(res.Node, v, o); err != nil {
		if res.Created != nil {
			path.Detach(res.Created)
			log().Debug("rolled back element", "class", o.class.name, "field", a.name, "tag", res.Created.Tag)
		}
		return a.annotate(err)
	}
	return nil
}

// Clear sets the field to absent: the element is created if needed and its
// text removed, but the element itself stays.
func (a *Accessor[T]) Clear(b Bound) error {
	res, err := a.resolve(b.Base(), true)
	if err != nil {
		return err
	}
	path.ClearText(res.Node)
	return nil
}

// Delete removes the field's element from its parent. It fails with an
// *AttributeNotSetError if the path does not resolve.
func (a *Accessor[T]) Delete(b Bound) error {
	o := b.Base()
	res, err := a.resolve(o, false)
	if err != nil {
		return err
	}
	if res.Node == nil {
		return &AttributeNotSetError{Class: o.class.name, Field: a.name}
	}
	path.Detach(res.Node)
	return nil
}

// IsSet reports whether the field's path resolves. It never creates
// elements.
func (a *Accessor[T]) IsSet(b Bound) bool {
	res, _ := a.resolve(b.Base(), false)
	return res.Node != nil
}

// populate materializes an auto field. It returns the topmost element it
// created, if any, so that a failed bind can remove it again.
func (a *Accessor[T]) populate(o *Object) (*etree.Element, error) {
	res, err := a.resolve(o, true)
	if err != nil {
		return nil, err
	}
	_, ok, err := a.codec.Decode(res.Node, o)
	if err != nil {
		return res.Created, a.annotate(err)
	}
	if ok {
		return res.Created, nil
	}
	if !a.hasDef {
		path.ClearText(res.Node)
		return res.Created, nil
	}
	if err := a.codec.Encode(res.Node, a.def, o); err != nil {
		return res.Created, a.annotate(err)
	}
	return res.Created, nil
}

func (a *Accessor[T]) annotate(err error) error {
	var ce *ConversionError
	if errors.As(err, &ce) && ce.Path == "" {
		ce.Path = a.path
	}
	return err
}
