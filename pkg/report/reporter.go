package report

import (
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/envsync/pkg/errors"
)

// Reporter receives the user-facing events of a run.
type Reporter interface {
	// Creating announces a new link at dest.
	Creating(name, dest string)
	// Overwriting announces that dest is being replaced by force.
	Overwriting(name, dest string)
	// Skipped announces that dest was left untouched.
	Skipped(name, dest, reason string)
	// Failed reports a non-fatal error.
	Failed(err error)
	// Setting announces a desktop setting write.
	Setting(key, value string)
}

// Skip reasons
const (
	ReasonExists     = "destination already exists"
	ReasonUpdateOnly = "update only, not overwriting"
)

// Nop discards every event.
type Nop struct{}

func (Nop) Creating(string, string)        {}
func (Nop) Overwriting(string, string)     {}
func (Nop) Skipped(string, string, string) {}
func (Nop) Failed(error)                   {}
func (Nop) Setting(string, string)         {}

// Console writes events as single lines.
type Console struct {
	out    io.Writer
	errOut io.Writer
	format Format
	styles Styles
}

// NewConsole creates a console reporter. FormatAuto is resolved against
// os.Stdout.
func NewConsole(out, errOut io.Writer, format Format) *Console {
	return &Console{
		out:    out,
		errOut: errOut,
		format: format.Resolve(os.Stdout),
		styles: DefaultStyles(),
	}
}

// Format returns the effective output format.
func (c *Console) Format() Format {
	return c.format
}

func (c *Console) Creating(name, dest string) {
	c.line(c.out, "Created", "[#]", fmt.Sprintf("Creating symlink %s -> %s", c.style("Name", name), c.style("Path", dest)))
}

func (c *Console) Overwriting(name, dest string) {
	c.line(c.out, "Replaced", "[#]", fmt.Sprintf("Overwriting %s -> %s", c.style("Name", name), c.style("Path", dest)))
}

func (c *Console) Skipped(name, dest, reason string) {
	c.line(c.errOut, "Skipped", "[!]", fmt.Sprintf("Skipping %s -> %s: %s", c.style("Name", name), c.style("Path", dest), c.style("Reason", reason)))
}

func (c *Console) Failed(err error) {
	c.line(c.errOut, "Failed", "[x]", errors.Describe(err))
}

func (c *Console) Setting(key, value string) {
	c.line(c.out, "Setting", "[#]", fmt.Sprintf("Setting %s to %s", c.style("Name", key), c.style("Path", value)))
}

func (c *Console) line(w io.Writer, marker, prefix, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", c.style(marker, prefix), msg)
}

func (c *Console) style(name, s string) string {
	if c.format != FormatTerminal {
		return s
	}
	return c.styles.Get(name).Render(s)
}
