package lxmlbind

import (
	"iter"

	"github.com/beevik/etree"

	"github.com/jessemyers/lxmlbind/internal/path"
)

// KeyFunc derives the key of a dict item. ok == false leaves the item
// unkeyed: it counts toward Len but is never looked up or enumerated.
type KeyFunc[T Bound] func(v T) (key string, ok bool, err error)

// ByTag keys items by their element's tag.
func ByTag[T Bound]() KeyFunc[T] {
	return func(v T) (string, bool, error) {
		return v.Base().node.Tag, true, nil
	}
}

// ByField keys items by the value of a text field. Items without the
// field, including items of other types, are unkeyed. f should not be
// auto, or reading the key would create the field.
func ByField[T Bound](f *Accessor[string]) KeyFunc[T] {
	return func(v T) (string, bool, error) {
		return f.Get(v)
	}
}

// Item is a key and the dict item it maps to.
type Item[T Bound] struct {
	Key   string
	Value T
}

// Dict is a bound object whose child elements are its items, addressed by
// a key derived from each item. Lookups scan the children in document
// order.
type Dict[T Bound] struct {
	*Object
	elements Elements[T]
	key      KeyFunc[T]
	members  map[*etree.Element]*Object
}

// NewDict returns the dict view of o. A nil key keys items by tag.
func NewDict[T Bound](o *Object, elements Elements[T], key KeyFunc[T]) *Dict[T] {
	if key == nil {
		key = ByTag[T]()
	}
	return &Dict[T]{Object: o, elements: elements, key: key, members: map[*etree.Element]*Object{}}
}

type entry[T Bound] struct {
	node  *etree.Element
	value T
	key   string
	keyed bool
}

// scan yields every child with its derived key, stopping at the first
// error.
func (d *Dict[T]) scan() iter.Seq2[entry[T], error] {
	return func(yield func(entry[T], error) bool) {
		for _, node := range d.node.ChildElements() {
			v, err := d.elements.Wrap(node, d.Object)
			if err != nil {
				yield(entry[T]{}, err)
				return
			}
			k, ok, err := d.key(v)
			if err != nil {
				yield(entry[T]{}, err)
				return
			}
			if !yield(entry[T]{node: node, value: v, key: k, keyed: ok}, nil) {
				return
			}
		}
	}
}

func (d *Dict[T]) find(key string) (entry[T], bool, error) {
	for e, err := range d.scan() {
		if err != nil {
			return entry[T]{}, false, err
		}
		if e.keyed && e.key == key {
			return e, true, nil
		}
	}
	return entry[T]{}, false, nil
}

func (d *Dict[T]) adopt(v T) *Object {
	o := v.Base()
	o.parent = d.Object
	d.members[o.node] = o
	return o
}

func (d *Dict[T]) release(node *etree.Element) {
	if o, ok := d.members[node]; ok {
		o.parent = nil
		delete(d.members, node)
	}
}

// Add stores v. If an item with v's key exists, the first such item is
// replaced in place; otherwise v is appended.
func (d *Dict[T]) Add(v T) error {
	k, ok, err := d.key(v)
	if err != nil {
		return err
	}
	o := v.Base()
	if ok {
		old, found, err := d.find(k)
		if err != nil {
			return err
		}
		if found {
			if old.node != o.node {
				d.release(old.node)
				path.Replace(old.node, o.node)
			}
			d.adopt(v)
			log().Debug("replaced dict item", "class", d.class.name, "key", k)
			return nil
		}
	}
	path.Detach(o.node)
	d.node.AddChild(o.node)
	d.adopt(v)
	return nil
}

// Set stores v under key, which must be v's derived key.
func (d *Dict[T]) Set(key string, v T) error {
	k, ok, err := d.key(v)
	if err != nil {
		return err
	}
	if !ok || k != key {
		return &KeyMismatchError{Key: key, Derived: k, Keyed: ok}
	}
	return d.Add(v)
}

// Get returns the first item with key.
func (d *Dict[T]) Get(key string) (T, error) {
	e, found, err := d.find(key)
	if err != nil {
		return e.value, err
	}
	if !found {
		return e.value, &KeyNotFoundError{Key: key}
	}
	return e.value, nil
}

// Delete removes the first item with key.
func (d *Dict[T]) Delete(key string) error {
	e, found, err := d.find(key)
	if err != nil {
		return err
	}
	if !found {
		return &KeyNotFoundError{Key: key}
	}
	d.release(e.node)
	path.Detach(e.node)
	return nil
}

// Contains reports whether an item has key.
func (d *Dict[T]) Contains(key string) (bool, error) {
	_, found, err := d.find(key)
	return found, err
}

// Len returns the number of child elements, keyed or not.
func (d *Dict[T]) Len() int {
	return len(d.node.ChildElements())
}

// All returns an iterator over the keyed items in document order.
func (d *Dict[T]) All() iter.Seq2[Item[T], error] {
	return func(yield func(Item[T], error) bool) {
		for e, err := range d.scan() {
			if err != nil {
				yield(Item[T]{}, err)
				return
			}
			if !e.keyed {
				continue
			}
			if !yield(Item[T]{Key: e.key, Value: e.value}, nil) {
				return
			}
		}
	}
}

// Items returns the keyed items in document order.
func (d *Dict[T]) Items() ([]Item[T], error) {
	var items []Item[T]
	for item, err := range d.All() {
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Keys returns the keys of the keyed items in document order.
func (d *Dict[T]) Keys() ([]string, error) {
	items, err := d.Items()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(items))
	for _, item := range items {
		keys = append(keys, item.Key)
	}
	return keys, nil
}

// Values returns the keyed items in document order.
func (d *Dict[T]) Values() ([]T, error) {
	items, err := d.Items()
	if err != nil {
		return nil, err
	}
	values := make([]T, 0, len(items))
	for _, item := range items {
		values = append(values, item.Value)
	}
	return values, nil
}
