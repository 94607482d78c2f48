package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

// Context represents the global context for commands
type Context struct {
	Config  string
	Grammar string
	Verbose bool
	Quiet   bool
	Stdout  io.Writer
}

// CLI represents the command-line interface
var CLI struct {
	Config  string     `help:"Configuration file path" default:"snapparse.yaml"`
	Grammar string     `help:"Grammar file, overrides the configuration" short:"g" type:"path"`
	Verbose bool       `help:"Enable verbose output and parser tracing" short:"v"`
	Quiet   bool       `help:"Suppress output" short:"q"`
	Tokens  TokensCmd  `cmd:"" help:"Print the tokens of a file"`
	Parse   ParseCmd   `cmd:"" help:"Parse a file and print its syntax tree"`
	Check   CheckCmd   `cmd:"" help:"Load and compile grammar files"`
	Gen     GenCmd     `cmd:"" help:"Generate Go declarations for a grammar"`
	LSP     LSPCmd     `cmd:"" name:"lsp" help:"Serve diagnostics over the language server protocol on stdio"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run(ctx *Context) error {
	fmt.Fprintf(ctx.Stdout, "snapparse v%s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("snapparse"),
		kong.Description("Regex lexer and ordered choice parser toolkit"),
	)

	configureLogging(CLI.Verbose, CLI.Quiet)

	appCtx := &Context{
		Config:  CLI.Config,
		Grammar: CLI.Grammar,
		Verbose: CLI.Verbose,
		Quiet:   CLI.Quiet,
		Stdout:  os.Stdout,
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// configureLogging sends log output to stderr; stdout carries command output
// and the language server protocol.
func configureLogging(verbose, quiet bool) {
	verbosity := 1

	switch {
	case quiet:
		verbosity = -1
	case verbose:
		verbosity = 4
	}

	commonlog.Configure(verbosity, nil)
}
