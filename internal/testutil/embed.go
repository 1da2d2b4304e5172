// Package testutil loads the embedded XML fixtures shared by tests and
// benchmarks.
package testutil

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/beevik/etree"
)

//go:embed testdata/*.xml
var fixtures embed.FS

// Names lists the embedded fixtures in lexical order.
func Names() []string {
	matches, _ := fs.Glob(fixtures, "testdata/*.xml")
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = strings.TrimPrefix(m, "testdata/")
	}
	return names
}

// Read returns the content of fixture name. Unknown names yield an error
// matching fs.ErrNotExist.
func Read(name string) ([]byte, error) {
	data, err := fs.ReadFile(fixtures, "testdata/"+name)
	if err != nil {
		return nil, fmt.Errorf("fixture %q: %w", name, err)
	}
	return data, nil
}

// Load is like Read but fails tb instead of returning an error.
func Load(tb testing.TB, name string) []byte {
	tb.Helper()
	data, err := Read(name)
	if err != nil {
		tb.Fatal(err)
	}
	return data
}

// Root parses fixture name and returns its root element, detached from
// the document it was read into.
func Root(tb testing.TB, name string) *etree.Element {
	tb.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(Load(tb, name)); err != nil {
		tb.Fatalf("fixture %q: %v", name, err)
	}
	root := doc.Root()
	if root == nil {
		tb.Fatalf("fixture %q has no root element", name)
	}
	doc.RemoveChild(root)
	return root
}
