package lxmlbind

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/expr-lang/expr"

	"github.com/jessemyers/lxmlbind/internal/path"
)

// Filter picks among sibling elements sharing a field's leaf tag.
type Filter func(*etree.Element) bool

// AttrEquals matches elements whose attribute key has exactly value.
func AttrEquals(key, value string) Filter {
	return func(e *etree.Element) bool {
		a := e.SelectAttr(key)
		return a != nil && a.Value == value
	}
}

// HasAttr matches elements carrying attribute key.
func HasAttr(key string) Filter {
	return func(e *etree.Element) bool {
		return e.SelectAttr(key) != nil
	}
}

type exprEnv struct {
	Tag  string            `expr:"tag"`
	Text string            `expr:"text"`
	Attr map[string]string `expr:"attr"`
	// Set reports whether the element has text at all.
	Set bool `expr:"set"`
}

func newExprEnv(e *etree.Element) exprEnv {
	env := exprEnv{
		Tag:  e.Tag,
		Text: e.Text(),
		Attr: make(map[string]string, len(e.Attr)),
		Set:  path.HasText(e),
	}
	for _, a := range e.Attr {
		env.Attr[a.Key] = a.Value
	}
	return env
}

// Expr compiles a boolean expression into a Filter. The expression sees the
// candidate element as tag, text, set and attr, plus hasAttr(attr, key):
//
//	attr["type"] == "foo" && text != ""
//
// A run time failure, such as a type error on a missing attribute, counts
// as no match.
func Expr(source string) (Filter, error) {
	program, err := expr.Compile(source,
		expr.Env(exprEnv{}),
		expr.AsBool(),
		expr.Function("hasAttr", func(params ...any) (any, error) {
			m, _ := params[0].(map[string]string)
			_, ok := m[params[1].(string)]
			return ok, nil
		}, new(func(map[string]string, string) bool)),
	)
	if err != nil {
		return nil, fmt.Errorf("lxmlbind: cannot compile filter %q: %w", source, err)
	}
	return func(e *etree.Element) bool {
		out, err := expr.Run(program, newExprEnv(e))
		if err != nil {
			log().Debug("filter failed", "source", source, "tag", e.Tag, "error", err)
			return false
		}
		ok, _ := out.(bool)
		return ok
	}, nil
}

// MustExpr is like Expr but panics if source does not compile.
func MustExpr(source string) Filter {
	f, err := Expr(source)
	if err != nil {
		panic(err)
	}
	return f
}
