/*
Package lxmlbind binds typed Go objects to elements of an XML tree without
hand-written parse and serialize code per type. The tree itself is held by
github.com/beevik/etree; this package adds declarations on top of it.

A bound type declares accessors, each naming a '/' delimited path of tags
below the type's own element. Reading an accessor resolves the path and
converts the text it finds; writing creates whatever elements are missing
and stores the converted value. Whole documents round-trip between a typed
object and XML bytes.

Declaring a type:

	type Person struct{ *lxmlbind.Object }

	var (
		first = lxmlbind.String("first")
		last  = lxmlbind.String("last")
	)

	var PersonType = lxmlbind.MustDefine("Person",
		func(o *lxmlbind.Object) *Person { return &Person{o} },
		lxmlbind.Attributes(map[string]string{"type": "object"}),
		lxmlbind.Fields(first, last))

	func (p *Person) First() (string, bool, error) { return first.Get(p) }
	func (p *Person) SetFirst(v string) error      { return first.Set(p, v) }

Using it:

	p, err := PersonType.New()
	if err != nil {
		// handle error
	}
	_ = p.SetFirst("John")
	out, _ := lxmlbind.Marshal(p)
	// out is <person type="object"><first>John</first></person>

	q, err := PersonType.Decode(out)
	// q.Equal(p) is true

Reads distinguish an absent field from a zero value: Get returns ok ==
false when the path does not resolve or the element has no text.

Fields marked WithAuto are materialized, with their default, whenever an
object is constructed. Nested declares a field holding another bound type,
and List and Dict treat the children of an element as a sequence or a keyed
mapping of bound values, dispatched by tag through a Dispatch.

Equal, Compare and Diff compare trees structurally: sibling order,
attribute order and whitespace around text are not significant.
*/
package lxmlbind
