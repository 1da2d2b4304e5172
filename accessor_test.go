package lxmlbind_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/jessemyers/lxmlbind"
)

const addressXML = `
<address>
  <street>
    <number>1600</number>
    <name>Pennsylvania Ave</name>
  </street>
  <city>Washington</city>
  <state>DC</state>
  <zipCode>20500</zipCode>
</address>`

func TestAddress(t *testing.T) {
	address1, err := AddressType.New()
	require.NoError(t, err)
	require.NoError(t, addressStreetNumber.Set(address1, 1600))
	require.NoError(t, addressStreetName.Set(address1, "Pennsylvania Ave"))
	require.NoError(t, addressCity.Set(address1, "Washington"))
	require.NoError(t, addressState.Set(address1, "DC"))
	require.NoError(t, addressZipCode.Set(address1, 20500))

	address2, err := AddressType.Decode([]byte(addressXML))
	require.NoError(t, err)

	number, ok, err := addressStreetNumber.Get(address2)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1600, number)

	zip, ok, err := addressZipCode.Get(address2)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 20500, zip)

	require.True(t, address1.Equal(address2), lxmlbind.Diff(address1.Node(), address2.Node()))
}

func TestConversionError(t *testing.T) {
	address, err := AddressType.Decode([]byte("<address><zipCode>DC 20500</zipCode></address>"))
	require.NoError(t, err)

	_, ok, err := addressZipCode.Get(address)
	require.False(t, ok)
	require.ErrorIs(t, err, lxmlbind.ErrConversion)

	var ce *lxmlbind.ConversionError
	require.True(t, errors.As(err, &ce))
	require.Equal(t, "zipCode", ce.Path)
	require.Equal(t, "int", ce.Type)
	require.Equal(t, "DC 20500", ce.Text)
	require.EqualError(t, err, `lxmlbind: cannot convert "DC 20500" to int at "zipCode": invalid syntax`)
}

func TestNumericCodecs(t *testing.T) {
	n, err := lxmlbind.Define("Numbers",
		func(o *lxmlbind.Object) *Trivial { return &Trivial{o} })
	require.NoError(t, err)
	obj, err := n.New()
	require.NoError(t, err)

	long := lxmlbind.Long("long")
	require.NoError(t, long.Set(obj, 1385409911044))
	lv, ok, err := long.Get(obj)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(1385409911044), lv)

	float := lxmlbind.Float("float")
	require.NoError(t, float.Set(obj, 2.5))
	fv, ok, err := float.Get(obj)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2.5, fv)

	require.Equal(t, "<numbers><long>1385409911044</long><float>2.5</float></numbers>", obj.String())

	padded, err := n.Decode([]byte("<numbers><long> 42 </long></numbers>"))
	require.NoError(t, err)
	lv, _, err = long.Get(padded)
	require.NoError(t, err)
	require.Equal(t, int64(42), lv)
}

func TestBool(t *testing.T) {
	flag := lxmlbind.Bool("flag")
	testCases := []struct {
		input    string
		expected bool
		ok       bool
	}{
		{"<trivial><flag>false</flag></trivial>", false, true},
		{"<trivial><flag>true</flag></trivial>", true, true},
		{"<trivial><flag>no</flag></trivial>", true, true},
		{"<trivial><flag>False</flag></trivial>", true, true},
		{"<trivial><flag></flag></trivial>", false, false},
		{"<trivial/>", false, false},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			obj, err := TrivialType.Decode([]byte(tc.input))
			require.NoError(t, err)
			v, ok, err := flag.Get(obj)
			require.NoError(t, err)
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.expected, v)
		})
	}

	obj, err := TrivialType.New()
	require.NoError(t, err)
	require.NoError(t, flag.Set(obj, false))
	require.Equal(t, "<trivial><flag>false</flag></trivial>", obj.String())
	require.NoError(t, flag.Set(obj, true))
	require.Equal(t, "<trivial><flag>true</flag></trivial>", obj.String())
}

func TestBool_EmptyTextIsTrue(t *testing.T) {
	// Decoding drops empty text, so build the element directly.
	node := etree.NewElement("trivial")
	node.CreateElement("flag").AddChild(etree.NewCharData(""))
	obj, err := TrivialType.Wrap(node, nil)
	require.NoError(t, err)

	v, ok, err := lxmlbind.Bool("flag").Get(obj)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, v)
}

// failingCodec refuses to encode negative numbers.
type failingCodec struct{}

func (failingCodec) Decode(node *etree.Element, _ *lxmlbind.Object) (int, bool, error) {
	return 0, false, nil
}

func (failingCodec) Encode(node *etree.Element, v int, _ *lxmlbind.Object) error {
	if v < 0 {
		return &lxmlbind.ConversionError{Type: "unsigned", Text: fmt.Sprint(v)}
	}
	node.SetText(fmt.Sprint(v))
	return nil
}

func TestSet_RollsBackOnConversionError(t *testing.T) {
	deep := lxmlbind.NewAccessor[int]("a/b/c", failingCodec{}).
		WithAttributes(map[string]string{"kind": "leaf"})

	obj, err := TrivialType.Decode([]byte("<trivial><a><x/></a></trivial>"))
	require.NoError(t, err)
	before := obj.String()

	err = deep.Set(obj, -1)
	require.ErrorIs(t, err, lxmlbind.ErrConversion)
	var ce *lxmlbind.ConversionError
	require.True(t, errors.As(err, &ce))
	require.Equal(t, "a/b/c", ce.Path)
	require.Equal(t, before, obj.String())

	require.NoError(t, deep.Set(obj, 7))
	require.Equal(t, `<trivial><a><x/><b><c kind="leaf">7</c></b></a></trivial>`, obj.String())
}

func TestCreationAttributes(t *testing.T) {
	tagged := lxmlbind.String("a/b").WithAttributes(map[string]string{"z": "1", "y": "2"})

	obj, err := TrivialType.New()
	require.NoError(t, err)
	require.NoError(t, tagged.Set(obj, "x"))
	// Only the leaf is stamped, attributes in key order.
	require.Equal(t, `<trivial><a><b y="2" z="1">x</b></a></trivial>`, obj.String())

	existing, err := TrivialType.Decode([]byte(`<trivial><a><b/></a></trivial>`))
	require.NoError(t, err)
	require.NoError(t, tagged.Set(existing, "x"))
	require.Equal(t, `<trivial><a><b>x</b></a></trivial>`, existing.String())
}

func TestAuto_Idempotent(t *testing.T) {
	auto := lxmlbind.String("a/b").WithAuto()
	typ, err := lxmlbind.Define("Auto",
		func(o *lxmlbind.Object) *Trivial { return &Trivial{o} },
		lxmlbind.Fields(auto))
	require.NoError(t, err)

	obj, err := typ.New()
	require.NoError(t, err)
	require.Equal(t, "<auto><a><b/></a></auto>", obj.String())

	for range 2 {
		_, ok, err := auto.Get(obj)
		require.NoError(t, err)
		require.False(t, ok)
	}
	require.Equal(t, "<auto><a><b/></a></auto>", obj.String())

	// Wrapping an existing element populates auto fields too.
	bare, err := typ.Wrap(etree.NewElement("auto"), nil)
	require.NoError(t, err)
	require.Equal(t, "<auto><a><b/></a></auto>", bare.String())
}

func TestFilterRejectsCreatedElement(t *testing.T) {
	// Nothing stamps type="foo", so a created <value/> never matches.
	unmatched := lxmlbind.String("value").WithFilter(lxmlbind.AttrEquals("type", "foo"))

	obj, err := TrivialType.New()
	require.NoError(t, err)
	for range 2 {
		require.ErrorIs(t, unmatched.Set(obj, "x"), lxmlbind.ErrInvalidDeclaration)
		require.ErrorIs(t, unmatched.Clear(obj), lxmlbind.ErrInvalidDeclaration)
	}
	require.Equal(t, "<trivial/>", obj.String())
	_, ok, err := unmatched.Get(obj)
	require.NoError(t, err)
	require.False(t, ok)

	auto := unmatched.WithAuto()
	typ, err := lxmlbind.Define("Rejecting",
		func(o *lxmlbind.Object) *Trivial { return &Trivial{o} },
		lxmlbind.Fields(auto))
	require.NoError(t, err)
	_, err = typ.New()
	var de *lxmlbind.DeclarationError
	require.True(t, errors.As(err, &de))
	require.Equal(t, "Rejecting", de.Class)

	// A matching element is still found.
	decoded, err := typ.Decode([]byte(`<rejecting><value type="foo">x</value></rejecting>`))
	require.NoError(t, err)
	for range 2 {
		v, ok, err := auto.Get(decoded)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "x", v)
	}
	require.Equal(t, `<rejecting><value type="foo">x</value></rejecting>`, decoded.String())

	// Stamping what the filter asks for makes creation idempotent.
	stamped := unmatched.WithAttributes(map[string]string{"type": "foo"})
	for _, v := range []string{"x", "y"} {
		require.NoError(t, stamped.Set(obj, v))
	}
	require.Equal(t, `<trivial><value type="foo">y</value></trivial>`, obj.String())
}

func TestBind_RollsBackOnPopulateError(t *testing.T) {
	typ, err := lxmlbind.Define("Rollback",
		func(o *lxmlbind.Object) *Trivial { return &Trivial{o} },
		lxmlbind.Fields(
			lxmlbind.String("a/b").WithAuto(),
			lxmlbind.NewAccessor[int]("c", failingCodec{}).WithAuto().WithDefault(-1)))
	require.NoError(t, err)

	_, err = typ.New()
	require.ErrorIs(t, err, lxmlbind.ErrConversion)

	node := etree.NewElement("rollback")
	node.CreateElement("x")
	_, err = typ.Wrap(node, nil)
	require.ErrorIs(t, err, lxmlbind.ErrConversion)
	require.Len(t, node.ChildElements(), 1)
	require.Equal(t, "x", node.ChildElements()[0].Tag)
}

func TestAuto_Defaults(t *testing.T) {
	count := lxmlbind.Int("count").WithAuto().WithDefault(3)
	label := lxmlbind.String("label").WithAuto().WithDefault("none")
	typ, err := lxmlbind.Define("Defaults",
		func(o *lxmlbind.Object) *Trivial { return &Trivial{o} },
		lxmlbind.Fields(count, label))
	require.NoError(t, err)

	obj, err := typ.New()
	require.NoError(t, err)
	require.Equal(t, "<defaults><count>3</count><label>none</label></defaults>", obj.String())

	// Present values are kept.
	decoded, err := typ.Decode([]byte("<defaults><label>set</label></defaults>"))
	require.NoError(t, err)
	v, _, err := label.Get(decoded)
	require.NoError(t, err)
	require.Equal(t, "set", v)
	require.Equal(t, "<defaults><label>set</label><count>3</count></defaults>", decoded.String())
}

func TestAccessorBuildersCopy(t *testing.T) {
	base := lxmlbind.String("value")
	named := base.WithName("other").WithAuto()
	require.Equal(t, "value", base.Name())
	require.False(t, base.Auto())
	require.Equal(t, "other", named.Name())
	require.Equal(t, "value", named.Path())
	require.True(t, named.Auto())
}

func TestFiltered(t *testing.T) {
	filtered1, err := FilteredType.New()
	require.NoError(t, err)

	_, ok, err := filteredFoo.Get(filtered1)
	require.NoError(t, err)
	require.False(t, ok)
	_, ok, err = filteredBar.Get(filtered1)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, filteredFoo.Set(filtered1, "foo"))
	require.NoError(t, filteredBar.Set(filtered1, "bar"))

	foo, _, err := filteredFoo.Get(filtered1)
	require.NoError(t, err)
	require.Equal(t, "foo", foo)
	bar, _, err := filteredBar.Get(filtered1)
	require.NoError(t, err)
	require.Equal(t, "bar", bar)

	filtered2, err := FilteredType.Decode([]byte(`
<filtered>
  <value type="foo">foo</value>
  <value type="bar">bar</value>
</filtered>`))
	require.NoError(t, err)
	foo, _, err = filteredFoo.Get(filtered2)
	require.NoError(t, err)
	require.Equal(t, "foo", foo)
	bar, _, err = filteredBar.Get(filtered2)
	require.NoError(t, err)
	require.Equal(t, "bar", bar)

	require.True(t, filtered1.Equal(filtered2))

	// Without a filter the first sibling wins.
	first, _, err := lxmlbind.String("value").Get(filtered2)
	require.NoError(t, err)
	require.Equal(t, "foo", first)
}

func TestFilters(t *testing.T) {
	root, err := lxmlbind.Parse([]byte(`<r><v type="a">1</v><v>2</v><v type="b" extra="x">3</v></r>`))
	require.NoError(t, err)

	matches := func(f lxmlbind.Filter) []string {
		var out []string
		for _, c := range root.ChildElements() {
			if f(c) {
				out = append(out, c.Text())
			}
		}
		return out
	}

	testCases := []struct {
		name     string
		filter   lxmlbind.Filter
		expected []string
	}{
		{"AttrEquals", lxmlbind.AttrEquals("type", "b"), []string{"3"}},
		{"HasAttr", lxmlbind.HasAttr("type"), []string{"1", "3"}},
		{"Expr text", lxmlbind.MustExpr(`text == "2"`), []string{"2"}},
		{"Expr hasAttr", lxmlbind.MustExpr(`hasAttr(attr, "extra")`), []string{"3"}},
		{"Expr attr", lxmlbind.MustExpr(`attr["type"] == "a" || tag != "v"`), []string{"1"}},
		{"Expr set", lxmlbind.MustExpr(`set && len(attr) == 0`), []string{"2"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.expected, matches(tc.filter)); diff != "" {
				t.Errorf("matches mismatch (-want +got):\n%s", diff)
			}
		})
	}

	_, err = lxmlbind.Expr(`text +`)
	require.Error(t, err)
	require.True(t, strings.HasPrefix(err.Error(), "lxmlbind: cannot compile filter"))

	_, err = lxmlbind.Expr(`text`)
	require.Error(t, err, "non-boolean expressions are rejected")

	require.Panics(t, func() { lxmlbind.MustExpr(`)`) })
}
