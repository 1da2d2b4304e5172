package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	env, err := loadEnv()
	if err != nil {
		panic(err)
	}
	cfg := &MainConfig{env: env}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}

	return cli.NewCommandAt(&cfg.Main, "xmlbind").
		WithSynopsis("xmlbind [opts] command [opts]").
		WithDescription("xmlbind compares and formats XML documents structurally.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return xmlbindMain(cfg, cc, args)
		}).
		WithSubs(
			EqCommand(cfg),
			DiffCommand(cfg),
			FmtCommand(cfg))
}

func EqCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &EqConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("eq").
		WithAliases("equal").
		WithOpts(opts...).
		WithSynopsis("eq [-ignore a,b] [-ws] a.xml b.xml").
		WithDescription("exit 0 when two documents are structurally equal, else print the first mismatch").
		WithRun(func(cc *cli.Context, args []string) error {
			return eq(cfg, cc, args)
		})
	cfg.Eq = cmd
	return cmd
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("diff").
		WithAliases("d", "di").
		WithOpts(opts...).
		WithSynopsis("diff [-ignore a,b] [-color] a.xml b.xml").
		WithDescription("print a line diff of the canonical forms of two documents").
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
	cfg.Diff = cmd
	return cmd
}

func FmtCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &FmtConfig{MainConfig: mainCfg, Indent: mainCfg.env.Indent}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("fmt").
		WithAliases("f").
		WithOpts(opts...).
		WithSynopsis("fmt [-indent n] [-c] [files]").
		WithDescription("re-indent documents, reading stdin when no files are given").
		WithRun(func(cc *cli.Context, args []string) error {
			return format(cfg, cc, args)
		})
	cfg.Fmt = cmd
	return cmd
}
