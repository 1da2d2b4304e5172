package lxmlbind

import "fmt"

// Option configures how documents are encoded and decoded.
type Option func(*options) error

type options struct {
	indent      int
	declaration bool
	permissive  bool
}

func newOptions(opts []Option) (*options, error) {
	o := &options{indent: -1}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Indent returns an Option that pretty-prints encoded output, indenting
// each nesting level by n spaces. Indentation is presentation only; it
// never affects structural equality.
//
// The number of spaces n must not be negative.
func Indent(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return fmt.Errorf("lxmlbind: indent spaces cannot be negative")
		}
		o.indent = n
		return nil
	}
}

// XMLDeclaration returns an Option that prefixes encoded output with an
// <?xml ...?> declaration.
func XMLDeclaration() Option {
	return func(o *options) error {
		o.declaration = true
		return nil
	}
}

// Permissive returns an Option that lets decoding accept common mistakes
// such as unclosed tags.
func Permissive() Option {
	return func(o *options) error {
		o.permissive = true
		return nil
	}
}

// EqualOption configures structural comparison.
type EqualOption func(*equalOptions)

type equalOptions struct {
	ignore         map[string]bool
	keepWhitespace bool
}

func newEqualOptions(opts []EqualOption) *equalOptions {
	o := &equalOptions{ignore: map[string]bool{}}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// IgnoreAttributes returns an EqualOption that leaves the named attributes
// out of the comparison.
func IgnoreAttributes(keys ...string) EqualOption {
	return func(o *equalOptions) {
		for _, k := range keys {
			o.ignore[k] = true
		}
	}
}

// KeepWhitespace returns an EqualOption that compares text and tails
// verbatim instead of trimming surrounding whitespace.
func KeepWhitespace() EqualOption {
	return func(o *equalOptions) {
		o.keepWhitespace = true
	}
}
