package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Mode selects which package manager command is run.
type Mode int

const (
	// ModeInstall installs the dependencies of a new project.
	ModeInstall Mode = iota
	// ModeUpdate updates the dependencies of an existing project.
	ModeUpdate
)

func (m Mode) String() string {
	if m == ModeUpdate {
		return "update"
	}
	return "install"
}

// Default package manager invocation.
var (
	DefaultCommand     = []string{"npm"}
	DefaultInstallArgs = []string{"install"}
	DefaultUpdateArgs  = []string{"update", "--save"}
)

// ExitError reports a process that started but did not exit cleanly.
type ExitError struct {
	Command  string
	ExitCode int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
}

// Installer runs the external dependency installation step.
type Installer interface {
	Run(ctx context.Context, mode Mode) error
}

// PackageManager runs the project package manager in Dir.
type PackageManager struct {
	// Command is the program and its leading arguments, e.g. ["npm"].
	Command     []string
	InstallArgs []string
	UpdateArgs  []string
	Dir         string

	// Stdin, Stdout and Stderr default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewPackageManager returns a PackageManager running npm in dir.
func NewPackageManager(dir string) *PackageManager {
	return &PackageManager{
		Command:     DefaultCommand,
		InstallArgs: DefaultInstallArgs,
		UpdateArgs:  DefaultUpdateArgs,
		Dir:         dir,
	}
}

// Args returns the full command line for mode.
func (p *PackageManager) Args(mode Mode) []string {
	command := p.Command
	if len(command) == 0 {
		command = DefaultCommand
	}
	args := append([]string(nil), command...)
	if mode == ModeUpdate {
		return append(args, orDefault(p.UpdateArgs, DefaultUpdateArgs)...)
	}
	return append(args, orDefault(p.InstallArgs, DefaultInstallArgs)...)
}

// Run executes the package manager and waits for it. A launch failure or a
// non-zero exit is returned as an error.
func (p *PackageManager) Run(ctx context.Context, mode Mode) error {
	args := p.Args(mode)
	bin, err := exec.LookPath(args[0])
	if err != nil {
		return fmt.Errorf("locating %s: %w", args[0], err)
	}

	cmd := exec.CommandContext(ctx, bin, args[1:]...)
	cmd.Dir = p.Dir
	cmd.Stdin = orReader(p.Stdin, os.Stdin)
	cmd.Stdout = orWriter(p.Stdout, os.Stdout)
	cmd.Stderr = orWriter(p.Stderr, os.Stderr)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Command: strings.Join(args, " "), ExitCode: exitErr.ExitCode()}
		}
		return fmt.Errorf("running %s: %w", strings.Join(args, " "), err)
	}
	return nil
}

func orDefault(args, def []string) []string {
	if len(args) == 0 {
		return def
	}
	return args
}

func orReader(r, def io.Reader) io.Reader {
	if r == nil {
		return def
	}
	return r
}

func orWriter(w, def io.Writer) io.Writer {
	if w == nil {
		return def
	}
	return w
}
