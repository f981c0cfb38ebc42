package runtime

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"testing"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if goruntime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestPackageManager_Args(t *testing.T) {
	tests := []struct {
		name string
		pm   PackageManager
		mode Mode
		want string
	}{
		{"defaults install", PackageManager{}, ModeInstall, "npm install"},
		{"defaults update", PackageManager{}, ModeUpdate, "npm update --save"},
		{"custom", PackageManager{Command: []string{"pnpm"}, InstallArgs: []string{"i", "--frozen-lockfile"}}, ModeInstall, "pnpm i --frozen-lockfile"},
		{"custom command default update", PackageManager{Command: []string{"yarn"}}, ModeUpdate, "yarn update --save"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := strings.Join(tt.pm.Args(tt.mode), " "); got != tt.want {
				t.Errorf("Args() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPackageManager_RunSuccess(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	var out bytes.Buffer

	pm := &PackageManager{
		Command:     []string{"sh", "-c"},
		InstallArgs: []string{"pwd > ran.txt; echo installed"},
		Dir:         dir,
		Stdout:      &out,
	}
	if err := pm.Run(context.Background(), ModeInstall); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !strings.Contains(out.String(), "installed") {
		t.Errorf("stdout = %q, want it to contain %q", out.String(), "installed")
	}
	if _, err := os.Stat(filepath.Join(dir, "ran.txt")); err != nil {
		t.Errorf("command did not run in %s: %v", dir, err)
	}
}

func TestPackageManager_NonZeroExit(t *testing.T) {
	skipOnWindows(t)
	pm := &PackageManager{
		Command:    []string{"sh", "-c"},
		UpdateArgs: []string{"exit 3"},
		Dir:        t.TempDir(),
		Stderr:     &bytes.Buffer{},
	}
	err := pm.Run(context.Background(), ModeUpdate)

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Run() error = %v, want *ExitError", err)
	}
	if exitErr.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", exitErr.ExitCode)
	}
}

func TestPackageManager_MissingBinary(t *testing.T) {
	pm := &PackageManager{Command: []string{"allons-y-no-such-binary"}, Dir: t.TempDir()}
	err := pm.Run(context.Background(), ModeInstall)
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		t.Errorf("launch failure reported as exit error: %v", err)
	}
}

func TestRunHook_PayloadAndOutput(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()

	out, err := RunHook(context.Background(), HookCommand{
		Run: []string{"sh", "-c", `cat; printf '|%s|%s' "$GREETING" "$(basename "$ALLONSY_FEATURE_DIR")"`},
		Dir: dir,
		Env: []string{"GREETING=bonjour"},
	}, []byte(`{"install":{}}`))
	if err != nil {
		t.Fatalf("RunHook() error: %v", err)
	}

	want := `{"install":{}}|bonjour|` + filepath.Base(dir)
	if string(out) != want {
		t.Errorf("RunHook() = %q, want %q", out, want)
	}
}

func TestRunHook_Failure(t *testing.T) {
	skipOnWindows(t)
	var stderr bytes.Buffer

	_, err := RunHook(context.Background(), HookCommand{
		Run:    []string{"sh", "-c", "echo broken >&2; exit 1"},
		Dir:    t.TempDir(),
		Stderr: &stderr,
	}, nil)

	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode != 1 {
		t.Fatalf("RunHook() error = %v, want exit code 1", err)
	}
	if !strings.Contains(stderr.String(), "broken") {
		t.Errorf("stderr not streamed: %q", stderr.String())
	}
}

func TestRunHook_EmptyCommand(t *testing.T) {
	if _, err := RunHook(context.Background(), HookCommand{}, nil); err == nil {
		t.Fatal("expected error for empty command")
	}
}

func TestRunHook_CancelledContext(t *testing.T) {
	skipOnWindows(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := RunHook(ctx, HookCommand{Run: []string{"sh", "-c", "sleep 5"}}, nil); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
