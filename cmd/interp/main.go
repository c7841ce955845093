// Command interp compiles and runs a single script file, reporting
// success or failure through the process exit code rather than any
// in-band value (spec.md §6).
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/mna/mainer"

	"interp/internal/chunk"
	"interp/internal/compiler"
	"interp/internal/vm"
)

const binName = "interp"

// Exit codes follow the sysexits.h convention spec.md §6 mandates: success,
// a command-line usage error, a compile-time error, and a runtime error.
const (
	exitOK      mainer.ExitCode = 0
	exitUsage   mainer.ExitCode = 64
	exitCompile mainer.ExitCode = 65
	exitRuntime mainer.ExitCode = 70
)

var shortUsage = fmt.Sprintf("usage: %s [--disassembly] <path>\n", binName)

// Cmd is the interp command, driven through github.com/mna/mainer so its
// flag parsing and exit-code mapping are testable independent of os.Args
// and os.Exit.
type Cmd struct {
	BuildVersion string

	Help        bool `flag:"h,help"`
	Version     bool `flag:"v,version"`
	Disassembly bool `flag:"disassembly"`

	args []string
}

func (c *Cmd) SetArgs(args []string)          { c.args = args }
func (c *Cmd) SetFlags(flags map[string]bool) {}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) != 1 {
		return fmt.Errorf("expected exactly one script path, got %d", len(c.args))
	}
	return nil
}

// Main parses args, compiles and runs the named script, and returns the
// exit code the caller should propagate.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{EnvVars: false}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return exitUsage
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, shortUsage)
		return exitOK
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s\n", binName, c.BuildVersion)
		return exitOK
	}

	path := c.args[0]
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "reading %s: %s\n", path, err)
		return exitUsage
	}

	if f, ok := stdio.Stdout.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		fmt.Fprintf(stdio.Stdout, "compiling %s...\r", path)
	}

	fn, err := compiler.Compile(string(source))
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return exitCompile
	}

	if c.Disassembly {
		if ch, ok := fn.Chunk.(*chunk.Chunk); ok {
			fmt.Fprint(stdio.Stdout, ch.DisassembleAll(fn.Name))
		}
	}

	machine := vm.New(stdio.Stdout)
	if _, err := machine.Interpret(fn); err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return exitRuntime
	}
	return exitOK
}

func main() {
	c := &Cmd{BuildVersion: "1.0.0"}
	os.Exit(int(c.Main(os.Args, mainer.CurrentStdio())))
}
