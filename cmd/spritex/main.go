package main

import (
	"io"
	"log"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ironsheep/spritex/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const description = `Find and extract sprites from captured game frames.

Without a command spritex runs as an MCP server on stdin/stdout.`

// Globals are flags shared by every command.
type Globals struct {
	LogLevel string `name:"log-level" env:"SPRITEX_LOG_LEVEL" enum:"info,debug" default:"info" help:"Log verbosity (info, debug)."`
}

func (g *Globals) debug() bool {
	return g.LogLevel == "debug"
}

// CLI is the command-line grammar.
type CLI struct {
	Globals

	Serve     ServeCmd     `cmd:"" default:"1" help:"Run the MCP server on stdin/stdout."`
	Sprite    SpriteCmd    `cmd:"" help:"Save the selected region as a PNG next to the frame."`
	Unique    UniqueCmd    `cmd:"" help:"List the colors found only inside the region."`
	Highlight HighlightCmd `cmd:"" help:"Save a mask of the pixels whose color is unique to the region."`
	Extract   ExtractCmd   `cmd:"" help:"Build a transparent sprite from the frame and its sibling frames."`
	Compare   CompareCmd   `cmd:"" help:"Report which pixels of the region differ between two frames."`
	Region    RegionCmd    `cmd:"" help:"Print a region as a capture-script tuple, optionally nudged."`
	Version   VersionCmd   `cmd:"" help:"Print version information."`
}

// newParser builds the kong parser. Command output goes to out.
func newParser(cli *CLI, out io.Writer, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("spritex"),
		kong.Description(description),
		kong.UsageOnError(),
		kong.BindTo(out, (*io.Writer)(nil)),
	}, options...)
	return kong.New(cli, options...)
}

func main() {
	var cli CLI
	parser, err := newParser(&cli, os.Stdout)
	if err != nil {
		log.Fatalf("CLI error: %v", err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	server.Version = Version
	if cli.debug() {
		log.Printf("spritex v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	ctx.FatalIfErrorf(ctx.Run(&cli.Globals))
}
