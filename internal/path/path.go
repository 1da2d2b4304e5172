// Package path resolves slash-separated tag paths against an etree element,
// optionally creating the elements it does not find.
package path

import (
	"fmt"
	"strings"
	"sync"

	"github.com/beevik/etree"
)

// Filter reports whether a candidate element matches. It is applied to
// the final segment of a path only.
type Filter func(*etree.Element) bool

// Result is the outcome of a Resolve call.
type Result struct {
	// Node is the element at the end of the path, or nil if absent.
	Node *etree.Element
	// Created is the topmost element created by the call, or nil if
	// nothing was created. Removing it undoes the call.
	Created *etree.Element
}

// Resolve walks tags one segment at a time starting at root.
//
// At each step the first child (in document order) whose tag equals the
// segment is chosen; for the last segment the child must also satisfy
// filter when one is given. When no child matches, Resolve returns an
// empty Result unless create is set, in which case a new child is appended
// and onCreate is called if the new child is the leaf.
func Resolve(root *etree.Element, tags []string, create bool, filter Filter, onCreate func(*etree.Element)) Result {
	var res Result
	current := root
	for i, tag := range tags {
		leaf := i == len(tags)-1
		var f Filter
		if leaf {
			f = filter
		}
		child := find(current, tag, f)
		if child == nil {
			if !create {
				return Result{}
			}
			child = current.CreateElement(tag)
			if res.Created == nil {
				res.Created = child
			}
			if leaf && onCreate != nil {
				onCreate(child)
			}
		}
		current = child
	}
	res.Node = current
	return res
}

func find(parent *etree.Element, tag string, filter Filter) *etree.Element {
	for _, child := range parent.ChildElements() {
		if child.Tag != tag {
			continue
		}
		if filter != nil && !filter(child) {
			continue
		}
		return child
	}
	return nil
}

// splitCache caches the segments of every path seen by Split.
var splitCache sync.Map // map[string][]string

// Split breaks a '/' delimited path into its tags. Empty paths and empty
// segments are rejected.
func Split(path string) ([]string, error) {
	if tags, ok := splitCache.Load(path); ok {
		if t, ok := tags.([]string); ok {
			return t, nil
		}
	}
	if path == "" {
		return nil, fmt.Errorf("empty path")
	}
	tags := strings.Split(path, "/")
	for _, tag := range tags {
		if tag == "" {
			return nil, fmt.Errorf("path %q has an empty segment", path)
		}
	}
	splitCache.Store(path, tags)
	return tags, nil
}
