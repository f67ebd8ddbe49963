package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/idelchi/sz/internal/report"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := New("v1.2.3").Command()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.ExecuteContext(context.Background())

	return stdout.String(), stderr.String(), err
}

func fixture(t *testing.T) (root, configPath string) {
	t.Helper()

	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	for name, size := range map[string]int{"a": 100, "b": 200, "sub/c": 300, "zero/": 0} {
		path := filepath.Join(root, filepath.FromSlash(name))
		if strings.HasSuffix(name, "/") {
			if err := os.MkdirAll(path, 0o755); err != nil {
				t.Fatal(err)
			}

			continue
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}

		if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	configPath = filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("workers: 3\nzeroes: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	return root, configPath
}

func TestCommandJSON(t *testing.T) {
	root, configPath := fixture(t)

	stdout, stderr, err := run(t, "--config", configPath, "-o", "json", root)
	if err != nil {
		t.Fatalf("%v\n%s", err, stderr)
	}

	var summary report.Summary
	if err := json.Unmarshal([]byte(stdout), &summary); err != nil {
		t.Fatalf("%v\n%s", err, stdout)
	}

	if summary.Root != root || summary.Total != 600 || summary.RootSize != 300 {
		t.Errorf("summary = %+v", summary)
	}

	// zeroes from the config file keeps the empty directory
	if len(summary.Entries) != 3 {
		t.Errorf("entries = %+v, want 3 including the empty directory", summary.Entries)
	}
}

func TestCommandFlagsOverrideConfig(t *testing.T) {
	root, configPath := fixture(t)

	stdout, stderr, err := run(t, "--config", configPath, "--zeroes=false", "-o", "plain", root)
	if err != nil {
		t.Fatalf("%v\n%s", err, stderr)
	}

	want := "300\t" + root + "\n300\t" + filepath.Join(root, "sub") + "\n"
	if stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestCommandTable(t *testing.T) {
	root, configPath := fixture(t)

	stdout, stderr, err := run(t, "--config", configPath, "-H", "--verify", "--debug", root)
	if err != nil {
		t.Fatalf("%v\n%s", err, stderr)
	}

	if !strings.Contains(stdout, root+" total size:") || !strings.Contains(stdout, "600 B") {
		t.Errorf("unexpected table:\n%s", stdout)
	}

	if !strings.Contains(stderr, "verified total") {
		t.Errorf("verification not logged:\n%s", stderr)
	}
}

func TestCommandErrors(t *testing.T) {
	root, configPath := fixture(t)

	for _, test := range []struct {
		Name  string
		Args  []string
		Error string
	}{
		{Name: "missing root", Args: []string{"--config", configPath, filepath.Join(root, "nope")}, Error: "does not exist"},
		{Name: "bad output", Args: []string{"--config", configPath, "-o", "xml", root}, Error: "invalid output format"},
		{Name: "bad threads", Args: []string{"--config", configPath, "-t", "0", root}, Error: "workers must be positive"},
		{Name: "missing config", Args: []string{"--config", filepath.Join(root, "none.yaml"), root}, Error: "accessing config"},
		{Name: "too many args", Args: []string{"--config", configPath, root, root}, Error: "accepts at most 1 arg"},
	} {
		t.Run(test.Name, func(t *testing.T) {
			_, _, err := run(t, test.Args...)
			if err == nil || !strings.Contains(err.Error(), test.Error) {
				t.Errorf("err = %v, want %q", err, test.Error)
			}
		})
	}
}

func TestCommandVersion(t *testing.T) {
	stdout, _, err := run(t, "--version")
	if err != nil {
		t.Fatal(err)
	}

	if strings.TrimSpace(stdout) != "v1.2.3" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestCommandRelativeBlacklist(t *testing.T) {
	root, configPath := fixture(t)
	chdir(t, root)

	stdout, stderr, err := run(t, "--config", configPath, "-b", "sub", "-o", "json", ".")
	if err != nil {
		t.Fatalf("%v\n%s", err, stderr)
	}

	var summary report.Summary
	if err := json.Unmarshal([]byte(stdout), &summary); err != nil {
		t.Fatalf("%v\n%s", err, stdout)
	}

	if summary.Blacklisted != 1 || summary.Total != 300 {
		t.Errorf("summary = %+v, want sub excluded", summary)
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()

	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
