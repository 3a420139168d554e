package main

import (
	"fmt"
	"io"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: webber [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build the snippet documentation page and its stylesheet.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Configuration:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path (default: webber.yaml if present)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Inputs/Outputs:")
	fmt.Fprintln(w, "      --snippets <dir>      Snippets directory (default: snippets)")
	fmt.Fprintln(w, "      --static-parts <dir>  Header and footer directory (default: static-parts)")
	fmt.Fprintln(w, "      --tags <path>         Tag source: text, .yaml, .toml, .json, .db (default: tag_database)")
	fmt.Fprintln(w, "  -o, --output <path>       Generated page (default: docs/index.html)")
	fmt.Fprintln(w, "      --style-source <path> SCSS entry point (default: docs/mini/flavor.scss)")
	fmt.Fprintln(w, "      --style-output <path> Generated CSS (default: docs/mini.css)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build:")
	fmt.Fprintln(w, "      --no-minify           Write the page without minification")
	fmt.Fprintln(w, "      --force               Build even for self-triggered CI commits")
	fmt.Fprintln(w, "  -w, --watch               Rebuild when inputs change")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show GOMAXPROCS and config details")
	fmt.Fprintln(w, "      --no-color            Disable colored output")
	fmt.Fprintln(w, "      --version             Show version information")
	fmt.Fprintln(w, "  -h, --help                Show this help")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  WEBBER_CONFIG, WEBBER_SNIPPETS_DIR, WEBBER_STATIC_DIR, WEBBER_TAGS,")
	fmt.Fprintln(w, "  WEBBER_OUTPUT, WEBBER_STYLE_SOURCE, WEBBER_STYLE_OUTPUT, WEBBER_SASS_BINARY")
	fmt.Fprintln(w, "  override the config file; flags override both. A .env file is read if present.")
}
