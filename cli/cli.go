package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/cfgtree/cli/cmd"
	"github.com/ardnew/cfgtree/pkg"
)

// CLI is the top-level command-line interface for cfgtree.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Parse  cmd.Parse  `cmd:"" default:"withargs" help:"Print the node registry of a document."`
	Tokens cmd.Tokens `cmd:""                    help:"Print the significant tokens of a document."`
	Fmt    cmd.Fmt    `cmd:""                    help:"Convert a document to another format."`
	Check  cmd.Check  `cmd:""                    help:"Report syntax errors in documents."`
	Query  cmd.Query  `cmd:""                    help:"Evaluate an expression against a document."`
	Repl   cmd.Repl   `cmd:""                    help:"Query a document interactively."`
	Init   cmd.Init   `cmd:""                    help:"Initialize configuration file."`
}

// Run executes the cfgtree CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier:  configFilePath,
		cmd.CacheIdentifier:   pkg.CacheDir(),
		cmd.HistoryIdentifier: pkg.HistoryFile(),
		"version":             pkg.Version,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Logger flags are applied before parsing so that parse errors are
	// reported in the requested format.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		// The provider reads ctx when a command runs, after it has been
		// extended with the kong context below.
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(ctx, baseConfig), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	defer cli.Log.start(ctx)()

	// No-op unless built with tag pprof and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx)
}
