package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/fatih/color"
	"github.com/scott-cotton/cli"

	"github.com/jessemyers/lxmlbind"
	"github.com/jessemyers/lxmlbind/internal/formatter"
)

func xmlbindMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	logger := verboseLogger(cfg, os.Stderr, args[0])
	if logger != nil {
		lxmlbind.SetLogger(logger)
		defer lxmlbind.SetLogger(nil)
	}
	start := time.Now()
	err = sub.Run(cc, args[1:])
	if logger != nil {
		logger.Debug("command finished", "args", args[1:], "elapsed", time.Since(start), "err", err)
	}
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		return cli.ExitCodeErr(sub.Exit(cc, err))
	}
	return err
}

// verboseLogger returns the debug logger installed by -v, tagged with the
// command being run, or nil when -v is not set.
func verboseLogger(cfg *MainConfig, w io.Writer, command string) *slog.Logger {
	if !cfg.Verbose {
		return nil
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(h).With("command", command)
}

func eq(cfg *EqConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Eq.Parse(cc, args)
	if err != nil {
		cfg.Eq.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: eq requires 2 args, got %v", cli.ErrUsage, args)
	}
	a, b, err := readPair(args, cfg.decodeOpts())
	if err != nil {
		return err
	}
	equal, err := writeMismatch(cc.Out, a, b, cfg.equalOpts()...)
	if err != nil {
		return err
	}
	if !equal {
		return cli.ExitCodeErr(1)
	}
	return nil
}

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	a, b, err := readPair(args, cfg.decodeOpts())
	if err != nil {
		return err
	}
	d := lxmlbind.Diff(a, b, lxmlbind.IgnoreAttributes(cfg.ignored(cfg.Ignore)...))
	if d == "" {
		return nil
	}
	if err := writeDiff(cc.Out, d, cfg.colored(cc.Out)); err != nil {
		return err
	}
	return cli.ExitCodeErr(1)
}

func format(cfg *FmtConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Fmt.Parse(cc, args)
	if err != nil {
		cfg.Fmt.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if cfg.Indent < 0 {
		return fmt.Errorf("%w: -indent cannot be negative, got %d", cli.ErrUsage, cfg.Indent)
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, name := range args {
		root, err := readFile(name, cfg.decodeOpts())
		if err != nil {
			return err
		}
		if err := writeFormatted(cc.Out, root, cfg.Indent, cfg.Canonical); err != nil {
			return fmt.Errorf("error formatting %s: %w", name, err)
		}
	}
	return nil
}

// readFile parses the named document, "-" being stdin.
func readFile(name string, opts []lxmlbind.Option) (*etree.Element, error) {
	var r io.Reader = os.Stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	root, err := lxmlbind.NewDecoder(r, opts...).Element()
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", name, err)
	}
	return root, nil
}

func readPair(args []string, opts []lxmlbind.Option) (*etree.Element, *etree.Element, error) {
	a, err := readFile(args[0], opts)
	if err != nil {
		return nil, nil, err
	}
	b, err := readFile(args[1], opts)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// writeMismatch reports whether a and b are equal, writing the first
// difference to w when they are not.
func writeMismatch(w io.Writer, a, b *etree.Element, opts ...lxmlbind.EqualOption) (bool, error) {
	m := lxmlbind.Compare(a, b, opts...)
	if m == nil {
		return true, nil
	}
	_, err := fmt.Fprintln(w, m)
	return false, err
}

func writeDiff(w io.Writer, d string, colored bool) error {
	del, ins := color.New(color.FgRed), color.New(color.FgGreen)
	if colored {
		del.EnableColor()
		ins.EnableColor()
	} else {
		del.DisableColor()
		ins.DisableColor()
	}
	for line := range strings.SplitSeq(strings.TrimSuffix(d, "\n"), "\n") {
		var err error
		switch {
		case strings.HasPrefix(line, "-"):
			_, err = del.Fprintln(w, line)
		case strings.HasPrefix(line, "+"):
			_, err = ins.Fprintln(w, line)
		default:
			_, err = fmt.Fprintln(w, line)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func writeFormatted(w io.Writer, root *etree.Element, indent int, canonical bool) error {
	if canonical {
		return formatter.New(w, &indent, formatter.Options{}).Format(root)
	}
	if err := lxmlbind.NewEncoder(w, lxmlbind.Indent(indent)).EncodeElement(root); err != nil {
		return err
	}
	return nil
}
