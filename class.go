package lxmlbind

import (
	"fmt"
	"io"
	"iter"
	"maps"
	"slices"
	"unicode"
	"unicode/utf8"

	"github.com/beevik/etree"

	"github.com/jessemyers/lxmlbind/internal/path"
)

// Class is the static declaration shared by every instance of a bound type:
// its root tag, the attributes stamped on newly created roots, an optional
// base class, and the fields declared on it.
//
// A Class is immutable once NewClass returns.
type Class struct {
	name       string
	tag        string
	attributes map[string]string
	base       *Class
	fields     []Field
	byName     map[string]Field
}

// ClassOption configures a Class under construction.
type ClassOption func(*Class) error

// Tag returns a ClassOption overriding the default tag.
func Tag(name string) ClassOption {
	return func(c *Class) error {
		if name == "" {
			return fmt.Errorf("empty tag")
		}
		c.tag = name
		return nil
	}
}

// Attributes returns a ClassOption setting the attributes of newly created
// root elements.
func Attributes(attrs map[string]string) ClassOption {
	return func(c *Class) error {
		c.attributes = maps.Clone(attrs)
		return nil
	}
}

// Extends returns a ClassOption that makes the class inherit every field of
// base. Inherited fields come before the class's own.
func Extends(base *Class) ClassOption {
	return func(c *Class) error {
		if base == nil {
			return fmt.Errorf("nil base class")
		}
		c.base = base
		return nil
	}
}

// Fields returns a ClassOption declaring fields on the class, in order.
func Fields(fields ...Field) ClassOption {
	return func(c *Class) error {
		c.fields = append(c.fields, fields...)
		return nil
	}
}

// NewClass declares a class. Unless overridden with Tag, its tag is name
// with the first letter lower-cased, so "AddressBookEntry" binds
// <addressBookEntry>.
func NewClass(name string, opts ...ClassOption) (*Class, error) {
	c := &Class{name: name, tag: defaultTag(name)}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, &DeclarationError{Class: name, Err: err}
		}
	}
	if c.tag == "" {
		return nil, &DeclarationError{Class: name, Err: fmt.Errorf("empty tag")}
	}
	c.byName = map[string]Field{}
	for _, f := range c.AllFields() {
		if err := f.validate(); err != nil {
			return nil, &DeclarationError{Class: name, Err: err}
		}
		if _, dup := c.byName[f.Name()]; dup {
			return nil, &DeclarationError{Class: name, Err: fmt.Errorf("field %q declared twice", f.Name())}
		}
		c.byName[f.Name()] = f
	}
	return c, nil
}

func defaultTag(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToLower(r)) + name[size:]
}

// Name returns the declared class name.
func (c *Class) Name() string { return c.name }

// Tag returns the tag of the class's root element.
func (c *Class) Tag() string { return c.tag }

// Attributes returns a copy of the attributes stamped on new root elements.
func (c *Class) Attributes() map[string]string { return maps.Clone(c.attributes) }

// Base returns the class this class extends, or nil.
func (c *Class) Base() *Class { return c.base }

// AllFields returns the fields of the class and its ancestors, ancestors
// first, each in declaration order.
func (c *Class) AllFields() []Field {
	if c.base == nil {
		return slices.Clone(c.fields)
	}
	return slices.Concat(c.base.AllFields(), c.fields)
}

// Field looks up a field by name, including inherited fields.
func (c *Class) Field(name string) (Field, bool) {
	f, ok := c.byName[name]
	return f, ok
}

// New allocates a fresh root element for the class and binds it.
func (c *Class) New() (*Object, error) {
	node := etree.NewElement(c.tag)
	for k, v := range sortedAttrs(c.attributes) {
		node.CreateAttr(k, v)
	}
	return c.bind(node, nil)
}

// Wrap binds an existing element, which must carry the class's tag. The
// returned object's back-reference is parent.
func (c *Class) Wrap(node *etree.Element, parent *Object) (*Object, error) {
	if node.Tag != c.tag {
		return nil, &TagMismatchError{Class: c.name, Expected: c.tag, Actual: node.Tag}
	}
	return c.bind(node, parent)
}

// Decode parses data and binds its root element.
func (c *Class) Decode(data []byte, opts ...Option) (*Object, error) {
	root, err := Parse(data, opts...)
	if err != nil {
		return nil, err
	}
	return c.Wrap(root, nil)
}

func (c *Class) bind(node *etree.Element, parent *Object) (*Object, error) {
	o := &Object{node: node, parent: parent, class: c}
	var created []*etree.Element
	for _, f := range c.AllFields() {
		if !f.Auto() {
			continue
		}
		e, err := f.populate(o)
		if e != nil {
			created = append(created, e)
		}
		if err != nil {
			for _, e := range slices.Backward(created) {
				path.Detach(e)
			}
			return nil, err
		}
	}
	return o, nil
}

// Type pairs a Class with the Go type that wraps its objects.
type Type[T Bound] struct {
	class *Class
	wrap  func(*Object) T
}

// Define declares a class and the Go type bound to it. wrap turns a bound
// Object into a T, typically by embedding it:
//
//	type Person struct{ *lxmlbind.Object }
//
//	var PersonType = lxmlbind.MustDefine("Person",
//		func(o *lxmlbind.Object) *Person { return &Person{o} },
//		lxmlbind.Fields(first, last))
func Define[T Bound](name string, wrap func(*Object) T, opts ...ClassOption) (*Type[T], error) {
	c, err := NewClass(name, opts...)
	if err != nil {
		return nil, err
	}
	return &Type[T]{class: c, wrap: wrap}, nil
}

// MustDefine is like Define but panics if the declaration is invalid. It
// simplifies the initialization of package-level types.
func MustDefine[T Bound](name string, wrap func(*Object) T, opts ...ClassOption) *Type[T] {
	t, err := Define(name, wrap, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Class returns the type's class.
func (t *Type[T]) Class() *Class { return t.class }

// Tag returns the tag of the type's root element.
func (t *Type[T]) Tag() string { return t.class.tag }

// New returns a fresh instance with every auto field populated.
func (t *Type[T]) New() (T, error) {
	o, err := t.class.New()
	if err != nil {
		var zero T
		return zero, err
	}
	return t.wrap(o), nil
}

// Wrap binds an existing element. See Class.Wrap.
func (t *Type[T]) Wrap(node *etree.Element, parent *Object) (T, error) {
	o, err := t.class.Wrap(node, parent)
	if err != nil {
		var zero T
		return zero, err
	}
	return t.wrap(o), nil
}

// Decode parses data and binds its root element.
func (t *Type[T]) Decode(data []byte, opts ...Option) (T, error) {
	o, err := t.class.Decode(data, opts...)
	if err != nil {
		var zero T
		return zero, err
	}
	return t.wrap(o), nil
}

// Read reads a whole document from r and binds its root element.
func (t *Type[T]) Read(r io.Reader, opts ...Option) (T, error) {
	root, err := NewDecoder(r, opts...).Element()
	if err != nil {
		var zero T
		return zero, err
	}
	return t.Wrap(root, nil)
}

// sortedAttrs yields attributes in key order so new elements serialize
// deterministically.
func sortedAttrs(attrs map[string]string) iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, k := range slices.Sorted(maps.Keys(attrs)) {
			if !yield(k, attrs[k]) {
				return
			}
		}
	}
}
