package lxmlbind_test

import (
	"github.com/jessemyers/lxmlbind"
)

type Trivial struct{ *lxmlbind.Object }

var TrivialType = lxmlbind.MustDefine("Trivial",
	func(o *lxmlbind.Object) *Trivial { return &Trivial{o} })

var (
	personFirst = lxmlbind.String("first")
	personLast  = lxmlbind.String("last")
)

type Person struct{ *lxmlbind.Object }

var PersonType = lxmlbind.MustDefine("Person",
	func(o *lxmlbind.Object) *Person { return &Person{o} },
	lxmlbind.Tag("person"),
	lxmlbind.Attributes(map[string]string{"type": "object"}),
	lxmlbind.Fields(personFirst, personLast))

func (p *Person) First() (string, bool, error) { return personFirst.Get(p) }
func (p *Person) Last() (string, bool, error) { return personLast.Get(p) }
func (p *Person) SetFirst(v string) error { return personFirst.Set(p, v) }
func (p *Person) SetLast(v string) error { return personLast.Set(p, v) }

// newPerson builds a Person with the given names; empty names stay unset.
func newPerson(first, last string) *Person {
	p, err := PersonType.New()
	if err != nil {
		panic(err)
	}
	if first != "" {
		if err := p.SetFirst(first); err != nil {
			panic(err)
		}
	}
	if last != "" {
		if err := p.SetLast(last); err != nil {
			panic(err)
		}
	}
	return p
}

type PersonList struct{ *lxmlbind.List[*Person] }

var PersonListType = lxmlbind.MustDefine("PersonList",
	func(o *lxmlbind.Object) *PersonList {
		return &PersonList{lxmlbind.NewList(o, lxmlbind.Of(PersonType))}
	},
	lxmlbind.Tag("person-list"))

var (
	addressStreetNumber = lxmlbind.Int("street/number").WithName("streetNumber")
	addressStreetName   = lxmlbind.String("street/name").WithName("streetName")
	addressCity         = lxmlbind.String("city")
	addressState        = lxmlbind.String("state")
	addressZipCode      = lxmlbind.Int("zipCode")
)

type Address struct{ *lxmlbind.Object }

var AddressType = lxmlbind.MustDefine("Address",
	func(o *lxmlbind.Object) *Address { return &Address{o} },
	lxmlbind.Fields(addressStreetNumber, addressStreetName, addressCity, addressState, addressZipCode))

var (
	entryPerson  = lxmlbind.Nested(PersonType)
	entryAddress = lxmlbind.Nested(AddressType)
)

type AddressBookEntry struct{ *lxmlbind.Object }

var AddressBookEntryType = lxmlbind.MustDefine("AddressBookEntry",
	func(o *lxmlbind.Object) *AddressBookEntry { return &AddressBookEntry{o} },
	lxmlbind.Fields(entryPerson, entryAddress))

func (e *AddressBookEntry) Person() *Person {
	p, _, err := entryPerson.Get(e)
	if err != nil {
		panic(err)
	}
	return p
}

func (e *AddressBookEntry) Address() *Address {
	a, _, err := entryAddress.Get(e)
	if err != nil {
		panic(err)
	}
	return a
}

var (
	filteredFoo = lxmlbind.String("value").WithName("foo").
			WithFilter(lxmlbind.AttrEquals("type", "foo")).
			WithAttributes(map[string]string{"type": "foo"})
	filteredBar = lxmlbind.String("value").WithName("bar").
			WithFilter(lxmlbind.MustExpr(`attr["type"] == "bar"`)).
			WithAttributes(map[string]string{"type": "bar"})
)

type Filtered struct{ *lxmlbind.Object }

var FilteredType = lxmlbind.MustDefine("Filtered",
	func(o *lxmlbind.Object) *Filtered { return &Filtered{o} },
	lxmlbind.Fields(filteredFoo, filteredBar))

type Ignore struct{ *lxmlbind.Object }

var IgnoreType = lxmlbind.MustDefine("Ignore",
	func(o *lxmlbind.Object) *Ignore { return &Ignore{o} })

type KeyDict struct{ *lxmlbind.Dict[lxmlbind.Bound] }

var keyDictElements = lxmlbind.MustDispatch(
	lxmlbind.NewCase[lxmlbind.Bound](PersonType),
	lxmlbind.NewCase[lxmlbind.Bound](IgnoreType))

var KeyDictType = lxmlbind.MustDefine("KeyDict",
	func(o *lxmlbind.Object) *KeyDict {
		return &KeyDict{lxmlbind.NewDict[lxmlbind.Bound](o, keyDictElements, lxmlbind.ByField[lxmlbind.Bound](personFirst))}
	},
	lxmlbind.Tag("dict"))

type PersonAddressDict struct{ *lxmlbind.Dict[lxmlbind.Bound] }

var personAddressElements = lxmlbind.MustDispatch(
	lxmlbind.NewCase[lxmlbind.Bound](AddressType),
	lxmlbind.NewCase[lxmlbind.Bound](PersonType))

var PersonAddressDictType = lxmlbind.MustDefine("PersonAddressDict",
	func(o *lxmlbind.Object) *PersonAddressDict {
		return &PersonAddressDict{lxmlbind.NewDict[lxmlbind.Bound](o, personAddressElements, nil)}
	},
	lxmlbind.Tag("dict"))
