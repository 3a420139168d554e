// Package report prints the human-readable status lines of a build.
// Lines are not a stable interface; they are meant for a terminal or CI log.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
)

// Printer writes colored status lines to an io.Writer.
// A nil *Printer discards everything, so callers can skip nil checks.
type Printer struct {
	out     io.Writer
	success *color.Color
	failure *color.Color
	warning *color.Color
	skip    *color.Color
}

// New creates a Printer writing to w. noColor forces plain output;
// otherwise fatih/color decides (TTY detection, NO_COLOR).
func New(w io.Writer, noColor bool) *Printer {
	p := &Printer{
		out:     w,
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		warning: color.New(color.FgYellow),
		skip:    color.New(color.FgGreen),
	}
	if noColor {
		for _, c := range []*color.Color{p.success, p.failure, p.warning, p.skip} {
			c.DisableColor()
		}
	}
	return p
}

// Success prints "SUCCESS! <message>".
func (p *Printer) Success(format string, args ...any) {
	if p == nil {
		return
	}
	p.line(p.success, "SUCCESS!", fmt.Sprintf(format, args...))
}

// Error prints "ERROR! During <stage>: <err>".
func (p *Printer) Error(stage string, err error) {
	if p == nil {
		return
	}
	p.line(p.failure, "ERROR!", fmt.Sprintf("During %s: %v", stage, err))
}

// Warn prints "WARNING! <message>".
func (p *Printer) Warn(format string, args ...any) {
	if p == nil {
		return
	}
	p.line(p.warning, "WARNING!", fmt.Sprintf(format, args...))
}

// NoBuild prints "NOBUILD <message>".
func (p *Printer) NoBuild(format string, args ...any) {
	if p == nil {
		return
	}
	p.line(p.skip, "NOBUILD", fmt.Sprintf(format, args...))
}

// Info prints an unlabeled line.
func (p *Printer) Info(format string, args ...any) {
	if p == nil || p.out == nil {
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Timing prints "<label>: <duration>" in the style of console.timeEnd.
func (p *Printer) Timing(label string, d time.Duration) {
	if p == nil || p.out == nil {
		return
	}
	fmt.Fprintf(p.out, "%s: %s\n", label, d.Round(time.Microsecond))
}

func (p *Printer) line(c *color.Color, label, message string) {
	if p.out == nil {
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", c.Sprint(label), message)
}
