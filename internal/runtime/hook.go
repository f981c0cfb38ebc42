package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/mebibou/allons-y/internal/branding"
)

// HookCommand is an external command declared by a feature manifest.
type HookCommand struct {
	// Run is the program followed by its arguments.
	Run []string
	// Dir is the working directory, usually the directory of the manifest.
	Dir string
	// Env holds extra KEY=VALUE pairs added to the inherited environment.
	Env []string
	// Stderr receives the hook diagnostics; defaults to os.Stderr.
	Stderr io.Writer
}

// RunHook starts the hook with payload on stdin and returns what it wrote to
// stdout. Stderr is streamed as the hook runs. A non-zero exit is an
// *ExitError.
func RunHook(ctx context.Context, hook HookCommand, payload []byte) ([]byte, error) {
	if len(hook.Run) == 0 {
		return nil, fmt.Errorf("hook has no command")
	}

	bin := hook.Run[0]
	if !strings.ContainsRune(bin, os.PathSeparator) {
		path, err := exec.LookPath(bin)
		if err != nil {
			return nil, fmt.Errorf("locating %s: %w", bin, err)
		}
		bin = path
	}

	cmd := exec.CommandContext(ctx, bin, hook.Run[1:]...)
	cmd.Dir = hook.Dir
	cmd.Env = hookEnv(hook)
	cmd.Stdin = bytes.NewReader(payload)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = io.MultiWriter(orWriter(hook.Stderr, os.Stderr), &stderr)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &ExitError{Command: strings.Join(hook.Run, " "), ExitCode: exitErr.ExitCode()}
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("running %s: %w: %s", hook.Run[0], err, msg)
		}
		return nil, fmt.Errorf("running %s: %w", hook.Run[0], err)
	}
	return stdout.Bytes(), nil
}

// hookEnv builds the hook environment: the process environment, the hook's
// own variables, and the feature directory under <PREFIX>_FEATURE_DIR.
func hookEnv(hook HookCommand) []string {
	env := os.Environ()
	for _, kv := range hook.Env {
		key, value, _ := strings.Cut(kv, "=")
		env = setEnv(env, key, value)
	}
	if hook.Dir != "" {
		env = setEnv(env, branding.EnvVar("FEATURE_DIR"), hook.Dir)
	}
	return env
}

// setEnv sets or replaces an environment variable in the env slice.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}
