package main

import (
	"github.com/alecthomas/kong"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/binop/manifest"
)

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("binop"),
		kong.Description("Binary operator resolution engine."),
		kong.UsageOnError(),
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

type CLI struct {
	Globals

	Eval    EvalCmd    `cmd:"" help:"Evaluate LEFT OP RIGHT and print the result."`
	Table   TableCmd   `cmd:"" help:"List the primitive fast-path table."`
	Trace   TraceCmd   `cmd:"" help:"Print a recorded dispatch trace."`
	Version VersionCmd `cmd:"" help:"Show version."`
}

// Globals are the flags shared by every command.
type Globals struct {
	Config  string `help:"Path to binop.toml. Searched for upward from the working directory by default." type:"path"`
	Verbose int    `help:"Increase log verbosity." short:"v" type:"counter"`
}

// load reads the configuration and sets up logging.
func (g *Globals) load() (*manifest.Manifest, error) {
	var (
		m   *manifest.Manifest
		err error
	)
	if g.Config != "" {
		m, err = manifest.LoadFile(g.Config)
	} else {
		m, err = manifest.FindAndLoad(".")
	}
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = manifest.Default()
	}

	verbosity := m.Log.Verbosity
	if g.Verbose > verbosity {
		verbosity = g.Verbose
	}
	commonlog.Configure(verbosity, m.LogFile())
	return m, nil
}
