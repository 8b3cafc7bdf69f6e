package format

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jsvensson/luafmt/internal/configuration"
	"github.com/jsvensson/luafmt/internal/plugin"
)

func writeTempLua(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func defaultConfig(t *testing.T) plugin.Configuration {
	t.Helper()
	cfg, diags := plugin.ResolveConfig(configuration.NewConfigKeyMap(), configuration.GlobalConfiguration{})
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	return cfg
}

func newRunner(t *testing.T, opts Options) (*Runner, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	opts.Stdout = &stdout
	opts.Stderr = &stderr
	return &Runner{Config: defaultConfig(t), Options: opts}, &stdout, &stderr
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestRunCheck(t *testing.T) {
	dir := t.TempDir()
	messy := writeTempLua(t, dir, "a.lua", "local x=1\n")
	writeTempLua(t, dir, "b.lua", "local y = 2\n")
	writeTempLua(t, dir, "notes.txt", "local z=3\n")
	writeTempLua(t, dir, ".git/hook.lua", "local z=3\n")

	r, stdout, stderr := newRunner(t, Options{Check: true})
	summary, err := r.Run(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if diff := cmp.Diff(Summary{Files: 2, Changed: 1}, summary); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
	if got, want := stdout.String(), messy+"\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
	if stderr.Len() != 0 {
		t.Errorf("stderr = %q, want empty", stderr.String())
	}
	if got := readFile(t, messy); got != "local x=1\n" {
		t.Errorf("check mode modified %s: %q", messy, got)
	}
}

func TestRunWrite(t *testing.T) {
	dir := t.TempDir()
	messy := writeTempLua(t, dir, "a.lua", "local x=1\n")
	clean := writeTempLua(t, dir, "b.lua", "local y = 2\n")

	r, stdout, _ := newRunner(t, Options{Write: true})
	summary, err := r.Run(context.Background(), []string{messy, clean})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.Changed != 1 {
		t.Errorf("Changed = %d, want 1", summary.Changed)
	}
	if got := readFile(t, messy); got != "local x = 1\n" {
		t.Errorf("%s = %q, want %q", messy, got, "local x = 1\n")
	}
	if got := readFile(t, clean); got != "local y = 2\n" {
		t.Errorf("%s = %q, want unchanged", clean, got)
	}
	if got, want := stdout.String(), messy+"\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestRunDiff(t *testing.T) {
	dir := t.TempDir()
	messy := writeTempLua(t, dir, "a.lua", "local x=1\n")

	r, stdout, _ := newRunner(t, Options{Diff: true})
	if _, err := r.Run(context.Background(), []string{messy}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	out := stdout.String()
	for _, want := range []string{
		"--- " + messy + "\n",
		"+++ " + messy + " (formatted)\n",
		"-local x=1\n",
		"+local x = 1\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("diff output missing %q:\n%s", want, out)
		}
	}
	if got := readFile(t, messy); got != "local x=1\n" {
		t.Errorf("diff mode modified %s: %q", messy, got)
	}
}

func TestRunPrintsInInputOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	var want strings.Builder
	for _, name := range []string{"c", "a", "d", "b", "e"} {
		paths = append(paths, writeTempLua(t, dir, name+".lua", "local "+name+"=1\n"))
		want.WriteString("local " + name + " = 1\n")
	}

	r, stdout, _ := newRunner(t, Options{Jobs: 3})
	summary, err := r.Run(context.Background(), paths)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.Files != 5 || summary.Changed != 5 {
		t.Errorf("summary = %+v, want 5 files, 5 changed", summary)
	}
	if got := stdout.String(); got != want.String() {
		t.Errorf("stdout = %q, want %q", got, want.String())
	}
}

func TestRunReportsFailures(t *testing.T) {
	dir := t.TempDir()
	broken := writeTempLua(t, dir, "broken.lua", "local = = 1\n")
	fine := writeTempLua(t, dir, "fine.lua", "local x=1\n")

	r, stdout, stderr := newRunner(t, Options{Check: true})
	summary, err := r.Run(context.Background(), []string{broken, fine})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if diff := cmp.Diff(Summary{Files: 2, Changed: 1, Failed: 1}, summary); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(stderr.String(), broken) {
		t.Errorf("stderr = %q, want mention of %s", stderr.String(), broken)
	}
	if got, want := stdout.String(), fine+"\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestRunMissingPath(t *testing.T) {
	r, _, _ := newRunner(t, Options{})
	_, err := r.Run(context.Background(), []string{filepath.Join(t.TempDir(), "nope.lua")})
	if err == nil {
		t.Fatal("Run() expected error for missing path")
	}
	if !strings.Contains(err.Error(), "collecting files") {
		t.Errorf("error = %q, want it to mention collecting files", err)
	}
}

func TestRunCancelled(t *testing.T) {
	path := writeTempLua(t, t.TempDir(), "a.lua", "local x=1\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, _, _ := newRunner(t, Options{})
	if _, err := r.Run(ctx, []string{path}); err == nil {
		t.Fatal("Run() expected error for cancelled context")
	}
}

func TestRunStdin(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		input   string
		want    string
		changed int
	}{
		{
			name:    "prints formatted text",
			input:   "local x=1\n",
			want:    "local x = 1\n",
			changed: 1,
		},
		{
			name:  "unchanged input echoed",
			input: "local x = 1\n",
			want:  "local x = 1\n",
		},
		{
			name:    "check prints path",
			opts:    Options{Check: true},
			input:   "local x=1\n",
			want:    "main.lua\n",
			changed: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Runner{Config: defaultConfig(t), Options: tt.opts}
			var out bytes.Buffer
			summary, err := r.RunStdin(strings.NewReader(tt.input), &out, "main.lua")
			if err != nil {
				t.Fatalf("RunStdin() error = %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
			if summary.Changed != tt.changed {
				t.Errorf("Changed = %d, want %d", summary.Changed, tt.changed)
			}
		})
	}
}

func TestRunStdinSyntaxError(t *testing.T) {
	r := &Runner{Config: defaultConfig(t)}
	var out bytes.Buffer
	summary, err := r.RunStdin(strings.NewReader("if then\n"), &out, "")
	if err == nil {
		t.Fatal("RunStdin() expected error")
	}
	if !strings.Contains(err.Error(), "<stdin>") {
		t.Errorf("error = %q, want it to name <stdin>", err)
	}
	if summary.Failed != 1 {
		t.Errorf("Failed = %d, want 1", summary.Failed)
	}
	if out.Len() != 0 {
		t.Errorf("output = %q, want empty", out.String())
	}
}
