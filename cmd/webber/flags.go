package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// ErrUnexpectedArgs is returned when positional arguments are given.
var ErrUnexpectedArgs = errors.New("unexpected arguments")

// commonFlags holds flags controlling configuration and output.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
	noColor bool
}

// pathFlags holds input and output location overrides.
type pathFlags struct {
	snippets    string
	staticParts string
	tags        string
	output      string
	styleSource string
	styleOutput string
}

// buildFlags holds pipeline switches.
type buildFlags struct {
	noMinify bool
	force    bool
	watch    bool
}

// cliFlags holds every flag of the webber command.
type cliFlags struct {
	common  commonFlags
	paths   pathFlags
	build   buildFlags
	version bool
	help    bool
}

// addCommonFlags adds configuration and output flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show GOMAXPROCS and config details")
	fs.BoolVar(&f.noColor, "no-color", false, "disable colored output")
}

// addPathFlags adds input and output location flags to a FlagSet.
func addPathFlags(fs *flag.FlagSet, f *pathFlags) {
	fs.StringVar(&f.snippets, "snippets", "", "snippets directory")
	fs.StringVar(&f.staticParts, "static-parts", "", "directory holding the header and footer parts")
	fs.StringVar(&f.tags, "tags", "", "tag source (text, .yaml, .toml, .json, .db)")
	fs.StringVarP(&f.output, "output", "o", "", "generated HTML page")
	fs.StringVar(&f.styleSource, "style-source", "", "SCSS entry point")
	fs.StringVar(&f.styleOutput, "style-output", "", "generated CSS file")
}

// addBuildFlags adds pipeline switches to a FlagSet.
func addBuildFlags(fs *flag.FlagSet, f *buildFlags) {
	fs.BoolVar(&f.noMinify, "no-minify", false, "write the page without minification")
	fs.BoolVar(&f.force, "force", false, "build even for self-triggered CI commits")
	fs.BoolVarP(&f.watch, "watch", "w", false, "rebuild when inputs change")
}

// parseFlags parses command line arguments, without the program name.
func parseFlags(args []string) (*cliFlags, error) {
	fs := flag.NewFlagSet("webber", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &cliFlags{}

	addCommonFlags(fs, &f.common)
	addPathFlags(fs, &f.paths)
	addBuildFlags(fs, &f.build)
	fs.BoolVar(&f.version, "version", false, "show version information")
	fs.BoolVarP(&f.help, "help", "h", false, "show this help")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedArgs, strings.Join(fs.Args(), " "))
	}

	return f, nil
}
