package path_test

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/jessemyers/lxmlbind/internal/path"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, s string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(s))
	return doc.Root()
}

func write(t *testing.T, e *etree.Element) string {
	t.Helper()
	doc := etree.NewDocument()
	doc.SetRoot(e.Copy())
	s, err := doc.WriteToString()
	require.NoError(t, err)
	return s
}

func TestSplit(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		expected    []string
		expectedErr string
	}{
		{name: "single", input: "first", expected: []string{"first"}},
		{name: "nested", input: "street/number", expected: []string{"street", "number"}},
		{name: "empty", input: "", expectedErr: "empty path"},
		{name: "empty segment", input: "a//b", expectedErr: `path "a//b" has an empty segment`},
		{name: "trailing slash", input: "a/", expectedErr: `path "a/" has an empty segment`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tags, err := path.Split(tc.input)
			if tc.expectedErr != "" {
				require.EqualError(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, tags)

			// A second call is served from the cache.
			again, err := path.Split(tc.input)
			require.NoError(t, err)
			require.Equal(t, tags, again)
		})
	}
}

func TestResolve_Find(t *testing.T) {
	root := parse(t, `<address><street><number>1600</number></street><city>DC</city></address>`)

	res := path.Resolve(root, []string{"street", "number"}, false, nil, nil)
	require.NotNil(t, res.Node)
	require.Nil(t, res.Created)
	require.Equal(t, "1600", res.Node.Text())

	res = path.Resolve(root, []string{"street", "name"}, false, nil, nil)
	require.Nil(t, res.Node)

	res = path.Resolve(root, []string{"zip", "code"}, false, nil, nil)
	require.Nil(t, res.Node, "a missing intermediate short-circuits the walk")
}

func TestResolve_FirstMatchWins(t *testing.T) {
	root := parse(t, `<r><value type="foo">a</value><value type="bar">b</value></r>`)

	res := path.Resolve(root, []string{"value"}, false, nil, nil)
	require.Equal(t, "a", res.Node.Text())

	isBar := func(e *etree.Element) bool { return e.SelectAttrValue("type", "") == "bar" }
	res = path.Resolve(root, []string{"value"}, false, isBar, nil)
	require.Equal(t, "b", res.Node.Text())
}

func TestResolve_FilterOnlyAppliesToLeaf(t *testing.T) {
	root := parse(t, `<r><a><b x="1"/></a></r>`)
	hasX := func(e *etree.Element) bool { return e.SelectAttr("x") != nil }

	res := path.Resolve(root, []string{"a", "b"}, false, hasX, nil)
	require.NotNil(t, res.Node, "the intermediate <a> has no x attribute but is still traversed")
}

func TestResolve_Create(t *testing.T) {
	root := etree.NewElement("address")
	var stamped []string
	onCreate := func(e *etree.Element) {
		stamped = append(stamped, e.Tag)
		e.CreateAttr("kind", "leaf")
	}

	res := path.Resolve(root, []string{"street", "number"}, true, nil, onCreate)
	require.NotNil(t, res.Node)
	require.Equal(t, "street", res.Created.Tag)
	require.Equal(t, []string{"number"}, stamped)
	require.Equal(t, `<address><street><number kind="leaf"/></street></address>`, write(t, root))

	// Idempotent: the second call finds what the first created.
	again := path.Resolve(root, []string{"street", "number"}, true, nil, onCreate)
	require.Same(t, res.Node, again.Node)
	require.Nil(t, again.Created)
	require.Equal(t, []string{"number"}, stamped)
	require.Equal(t, `<address><street><number kind="leaf"/></street></address>`, write(t, root))

	// Creating a sibling under an existing parent reports only the new leaf.
	name := path.Resolve(root, []string{"street", "name"}, true, nil, nil)
	require.Same(t, name.Node, name.Created)
	require.Equal(t, `<address><street><number kind="leaf"/><name/></street></address>`, write(t, root))
}

func TestReplace(t *testing.T) {
	root := parse(t, `<r><a/><placeholder/><c/></r>`)
	placeholder := root.SelectElement("placeholder")
	repl := etree.NewElement("b")

	require.True(t, path.Replace(placeholder, repl))
	require.Nil(t, placeholder.Parent())
	require.Same(t, root, repl.Parent())
	require.Equal(t, `<r><a/><b/><c/></r>`, write(t, root))

	require.False(t, path.Replace(etree.NewElement("orphan"), repl))
}

func TestReplace_MovesWithinSameParent(t *testing.T) {
	root := parse(t, `<r><a/><b/><c/></r>`)
	a := root.SelectElement("a")
	c := root.SelectElement("c")

	require.True(t, path.Replace(c, a))
	require.Equal(t, `<r><b/><a/></r>`, write(t, root))
}

func TestIsAncestor(t *testing.T) {
	root := parse(t, `<r><a><b/></a><c/></r>`)
	a := root.SelectElement("a")
	b := a.SelectElement("b")
	c := root.SelectElement("c")

	require.True(t, path.IsAncestor(root, b))
	require.True(t, path.IsAncestor(a, b))
	require.True(t, path.IsAncestor(b, b))
	require.False(t, path.IsAncestor(b, a))
	require.False(t, path.IsAncestor(c, b))
}

func TestText(t *testing.T) {
	root := parse(t, `<r><empty></empty><full>x<child/></full></r>`)
	empty := root.SelectElement("empty")
	full := root.SelectElement("full")

	require.False(t, path.HasText(empty))
	require.True(t, path.HasText(full))

	path.SetText(empty, "")
	require.True(t, path.HasText(empty), "empty text is still text")

	path.ClearText(full)
	require.False(t, path.HasText(full))
	require.NotNil(t, full.SelectElement("child"))

	path.Detach(full)
	require.Nil(t, full.Parent())
	require.Nil(t, root.SelectElement("full"))
}
