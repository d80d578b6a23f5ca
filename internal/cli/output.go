package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	infoTag  = color.New(color.FgGreen).SprintFunc()
	warnTag  = color.New(color.FgYellow).SprintFunc()
	titleTag = color.New(color.FgRed).SprintFunc()
	groupTag = color.New(color.FgYellow).SprintFunc()
)

// Output writes status lines such as "[I] Template: create templates.".
// A quiet Output writes nothing.
type Output struct {
	w     io.Writer
	quiet bool
}

// NewOutput creates an Output writing to w.
func NewOutput(w io.Writer, quiet bool) *Output {
	return &Output{w: w, quiet: quiet}
}

// Info writes an informational status line.
func (o *Output) Info(title, message string) {
	o.line(infoTag("I"), title, message)
}

// Warn writes a warning status line.
func (o *Output) Warn(title, message string) {
	o.line(warnTag("W"), title, message)
}

// Quiet reports whether output is suppressed.
func (o *Output) Quiet() bool {
	return o.quiet
}

func (o *Output) line(tag, title, message string) {
	if o.quiet {
		return
	}
	fmt.Fprintf(o.w, "[%s] %s %s.\n", tag, titleTag(title+":"), message)
}
