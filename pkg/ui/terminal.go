package ui

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Banner printed at startup
const Banner = `
    ┌───────────────────────────────────────────┐
    │  reviewimg :: review export image fetcher │
    └───────────────────────────────────────────┘
`

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		return fmt.Sprintf(colorString, text)
	}
}

// Console writes human-readable progress to a terminal or plain writer
type Console struct {
	out   io.Writer
	color bool
}

// NewConsole writes to f, with colours only when f is a terminal
func NewConsole(f *os.File) *Console {
	return &Console{out: f, color: term.IsTerminal(int(f.Fd()))}
}

// NewPlainConsole writes uncoloured output to w
func NewPlainConsole(w io.Writer) *Console {
	return &Console{out: w}
}

func (c *Console) paint(fn func(string) string, s string) string {
	if !c.color {
		return s
	}
	return fn(s)
}

// PrintBanner prints the startup banner
func (c *Console) PrintBanner() {
	fmt.Fprint(c.out, c.paint(Cyan, Banner))
}

// PrintSection prints a heading before a category run
func (c *Console) PrintSection(name, source, dest string) {
	fmt.Fprintf(c.out, "\n%s %s -> %s\n", c.paint(Magenta, "["+name+"]"), source, dest)
}

// PrintDownloading prints the per-item download notice
func (c *Console) PrintDownloading(position, url string) {
	fmt.Fprintf(c.out, "%s %s %s\n", c.paint(Dim, position), c.paint(Cyan, "Downloading"), url)
}

// PrintSummary prints the four-line end of run summary
func (c *Console) PrintSummary(total, downloaded, skipped, errored int) {
	fmt.Fprintf(c.out, "%s %d\n", c.paint(Cyan, "Total reviews:"), total)
	fmt.Fprintf(c.out, "%s    %s\n", c.paint(Cyan, "Downloaded:"), c.paint(Green, fmt.Sprint(downloaded)))
	fmt.Fprintf(c.out, "%s       %s\n", c.paint(Cyan, "Skipped:"), c.paint(Yellow, fmt.Sprint(skipped)))
	fmt.Fprintf(c.out, "%s       %s\n", c.paint(Cyan, "Errored:"), c.paint(Red, fmt.Sprint(errored)))
}

// PrintError prints an error message in red
func (c *Console) PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	fmt.Fprintln(c.out, c.paint(Red, msg))
}

// PrintWarning prints a warning message in yellow
func (c *Console) PrintWarning(msg string) {
	fmt.Fprintln(c.out, c.paint(Yellow, msg))
}

var std = NewConsole(os.Stdout)

// Default returns the stdout console
func Default() *Console {
	return std
}

// PrintError prints an error message on the stdout console
func PrintError(msg string, args ...interface{}) {
	std.PrintError(msg, args...)
}
