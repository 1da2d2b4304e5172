package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joeshaw/envdecode"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/jessemyers/lxmlbind"
)

// Env holds defaults taken from the environment. Command line options win.
type Env struct {
	Indent int    `env:"XMLBIND_INDENT,default=2"`
	Ignore string `env:"XMLBIND_IGNORE"`
	Color  string `env:"XMLBIND_COLOR,default=auto"`
}

func loadEnv() (Env, error) {
	env := Env{Indent: 2, Color: "auto"}
	if err := envdecode.Decode(&env); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return env, fmt.Errorf("reading environment: %w", err)
	}
	switch env.Color {
	case "auto", "always", "never":
	default:
		return env, fmt.Errorf("XMLBIND_COLOR must be one of auto, always, never, not %q", env.Color)
	}
	return env, nil
}

type MainConfig struct {
	Permissive bool `cli:"name=p aliases=permissive desc='accept common mistakes such as unclosed tags'"`
	Verbose    bool `cli:"name=v desc='log debug records to stderr'"`

	env Env

	Main *cli.Command
}

func (cfg *MainConfig) decodeOpts() []lxmlbind.Option {
	if cfg.Permissive {
		return []lxmlbind.Option{lxmlbind.Permissive()}
	}
	return nil
}

// ignored merges the -ignore option with XMLBIND_IGNORE.
func (cfg *MainConfig) ignored(opt string) []string {
	var keys []string
	for _, list := range []string{cfg.env.Ignore, opt} {
		for k := range strings.SplitSeq(list, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}
	}
	return keys
}

type EqConfig struct {
	*MainConfig
	Ignore     string `cli:"name=ignore desc='comma separated attribute keys left out of the comparison'"`
	Whitespace bool   `cli:"name=ws desc='compare text and tails verbatim'"`

	Eq *cli.Command
}

func (cfg *EqConfig) equalOpts() []lxmlbind.EqualOption {
	opts := []lxmlbind.EqualOption{lxmlbind.IgnoreAttributes(cfg.ignored(cfg.Ignore)...)}
	if cfg.Whitespace {
		opts = append(opts, lxmlbind.KeepWhitespace())
	}
	return opts
}

type DiffConfig struct {
	*MainConfig
	Ignore string `cli:"name=ignore desc='comma separated attribute keys left out of the comparison'"`
	Color  bool   `cli:"name=color desc='color the diff'"`

	Diff *cli.Command
}

// colored reports whether the diff written to w gets colors: always with
// -color, otherwise as XMLBIND_COLOR says, auto meaning w is a terminal.
func (cfg *DiffConfig) colored(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	switch cfg.env.Color {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

type FmtConfig struct {
	*MainConfig
	Indent    int  `cli:"name=indent desc='spaces per nesting level'"`
	Canonical bool `cli:"name=c aliases=canonical desc='print the order insensitive canonical form'"`

	Fmt *cli.Command
}
