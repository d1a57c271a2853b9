package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cosmicscale/pkg/core/scale"
	errs "github.com/matzehuels/cosmicscale/pkg/errors"
	"github.com/matzehuels/cosmicscale/pkg/hud"
	"github.com/matzehuels/cosmicscale/pkg/viewer"
)

// isolate points the config and cache directories at a temp dir so tests
// never read the user's files.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	return dir
}

// execute runs the root command with args and returns its data output.
func execute(t *testing.T, c *CLI, args ...string) (string, error) {
	t.Helper()
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func newTestCLI() *CLI {
	return New(io.Discard, log.InfoLevel)
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newTestCLI().RootCommand()

	want := []string{"evaluate", "explore", "view", "ladder", "catalog", "serve", "mirror", "cache", "config", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Errorf("subcommand %q not registered", name)
		}
	}

	for _, flag := range []string{"config", "catalog"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag --%s missing", flag)
		}
	}
}

func TestEvaluateJSON(t *testing.T) {
	isolate(t)

	out, err := execute(t, newTestCLI(), "evaluate", "7.1", "--json")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	var report hud.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if report.Active != "The Earth" {
		t.Errorf("Active = %q, want The Earth", report.Active)
	}
	if report.Title != "The Earth" {
		t.Errorf("Title = %q, want The Earth", report.Title)
	}
	if report.Readout != "10^7.1 meters" {
		t.Errorf("Readout = %q", report.Readout)
	}
	if len(report.States) != 10 {
		t.Errorf("got %d states, want 10", len(report.States))
	}
}

func TestEvaluateNegativeExponent(t *testing.T) {
	isolate(t)

	out, err := execute(t, newTestCLI(), "evaluate", "--json", "--", "-10")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	var report hud.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatal(err)
	}
	if report.Active != "Hydrogen Atom" {
		t.Errorf("Active = %q, want Hydrogen Atom", report.Active)
	}
}

func TestEvaluateEmptySpace(t *testing.T) {
	isolate(t)

	// 3.5 is 3.6 decades from the Earth and 3.8 from the Beach Ball.
	out, err := execute(t, newTestCLI(), "evaluate", "3.5", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var report hud.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatal(err)
	}
	if report.Active != "" || report.Title != hud.EmptyTitle {
		t.Errorf("got active %q title %q, want empty space", report.Active, report.Title)
	}
	if report.Closest != "The Earth" {
		t.Errorf("Closest = %q, want The Earth", report.Closest)
	}
}

func TestEvaluateTable(t *testing.T) {
	isolate(t)

	out, err := execute(t, newTestCLI(), "evaluate", "0", "--visible")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Beach Ball") {
		t.Errorf("table should list the Beach Ball:\n%s", out)
	}
	if strings.Contains(out, "Observable Universe") {
		t.Errorf("--visible table should omit hidden entities:\n%s", out)
	}
}

func TestEvaluateRejectsBadExponent(t *testing.T) {
	isolate(t)

	for _, arg := range []string{"abc", "NaN", "+Inf"} {
		_, err := execute(t, newTestCLI(), "evaluate", arg)
		if !errs.Is(err, errs.ErrCodeInvalidInput) {
			t.Errorf("evaluate %q: got %v, want INVALID_INPUT", arg, err)
		}
	}
}

func TestEvaluateCustomCatalog(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, filepath.Join(dir, "tour.yaml"), `objects:
  - name: Grain of Sand
    exponent: -3.3
    description: A grain of sand.
`)

	out, err := execute(t, newTestCLI(), "--catalog", path, "evaluate", "--json", "--", "-3")
	if err != nil {
		t.Fatal(err)
	}
	var report hud.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatal(err)
	}
	if report.Active != "Grain of Sand" || len(report.States) != 1 {
		t.Errorf("got active %q with %d states", report.Active, len(report.States))
	}
}

func TestCatalogList(t *testing.T) {
	isolate(t)

	out, err := execute(t, newTestCLI(), "catalog", "list")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"Proton", "The Sun", "Observable Universe"} {
		if !strings.Contains(out, name) {
			t.Errorf("list missing %q", name)
		}
	}

	out, err = execute(t, newTestCLI(), "catalog", "list", "--format", "yaml")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "objects:") {
		t.Errorf("yaml dump should start with objects:, got %q", out[:min(len(out), 40)])
	}
}

func TestCatalogValidate(t *testing.T) {
	dir := isolate(t)
	good := writeFile(t, filepath.Join(dir, "good.toml"), `[[object]]
name = "Moon"
exponent = 6.5
kind = "earth"
color = "#aaaaaa"
`)
	bad := writeFile(t, filepath.Join(dir, "bad.toml"), `[[object]]
name = "Moon"
exponent = 6.5
kind = "cheese"
`)

	if _, err := execute(t, newTestCLI(), "catalog", "validate", good); err != nil {
		t.Errorf("validate good: %v", err)
	}
	_, err := execute(t, newTestCLI(), "catalog", "validate", bad)
	if !errs.Is(err, errs.ErrCodeInvalidCatalog) {
		t.Errorf("validate bad: got %v, want INVALID_CATALOG", err)
	}
	_, err = execute(t, newTestCLI(), "catalog", "validate")
	if !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("validate without file: got %v, want INVALID_INPUT", err)
	}
}

func TestLadderDOT(t *testing.T) {
	dir := isolate(t)
	out := filepath.Join(dir, "ladder.dot")

	if _, err := execute(t, newTestCLI(), "ladder", "7.1", "-o", out); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "digraph ladder {") {
		t.Errorf("unexpected DOT output: %q", data)
	}
}

func TestLadderRejectsUnknownExtension(t *testing.T) {
	isolate(t)

	_, err := execute(t, newTestCLI(), "ladder", "-o", "ladder.gif")
	if !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("got %v, want INVALID_FORMAT", err)
	}
}

func TestConfigShowAndPath(t *testing.T) {
	dir := isolate(t)

	out, err := execute(t, newTestCLI(), "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "[mirror]") || !strings.Contains(out, "cosmic-scale-v1") {
		t.Errorf("config show output missing mirror section:\n%s", out)
	}

	out, err = execute(t, newTestCLI(), "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "config", appName, "config.toml")
	if strings.TrimSpace(out) != want {
		t.Errorf("config path = %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestExplicitConfigMissing(t *testing.T) {
	dir := isolate(t)

	_, err := execute(t, newTestCLI(), "--config", filepath.Join(dir, "nope.toml"), "evaluate")
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("got %v, want FILE_NOT_FOUND", err)
	}
}

func TestViewWithoutViewer(t *testing.T) {
	isolate(t)

	_, err := execute(t, newTestCLI(), "view")
	if !errs.Is(err, errs.ErrCodeUnsupported) {
		t.Errorf("got %v, want UNSUPPORTED", err)
	}
}

func TestViewPassesOptions(t *testing.T) {
	isolate(t)

	var got viewer.Options
	var entities int
	c := newTestCLI()
	c.Viewer = func(ctx context.Context, frame *scale.Frame, opts viewer.Options) error {
		got = opts
		entities = len(frame.Entities())
		return nil
	}

	if _, err := execute(t, c, "view", "--start", "5", "--width", "400"); err != nil {
		t.Fatal(err)
	}
	if got.Start != 5 || got.Width != 400 || got.Height != 640 {
		t.Errorf("got options %+v", got)
	}
	if got.Zoom.Speed != 0.1 || got.Zoom.Min != -16 || got.Zoom.Max != 27 {
		t.Errorf("got zoom %+v", got.Zoom)
	}
	if entities != 10 {
		t.Errorf("frame has %d entities, want 10", entities)
	}
}

func TestMirrorInstallActivateStatus(t *testing.T) {
	dir := isolate(t)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.js" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, "asset %s", r.URL.Path)
	}))
	defer upstream.Close()

	cacheDir := filepath.Join(dir, "mirror")
	cfgPath := writeFile(t, filepath.Join(dir, "cosmicscale.toml"), fmt.Sprintf(`[mirror]
origin = %q
dir = %q
assets = ["/", "/index.html"]
attempts = 1
`, upstream.URL, cacheDir))

	if _, err := execute(t, newTestCLI(), "--config", cfgPath, "mirror", "install"); err != nil {
		t.Fatalf("install: %v", err)
	}
	if _, err := execute(t, newTestCLI(), "--config", cfgPath, "mirror", "status"); err != nil {
		t.Fatalf("status: %v", err)
	}

	// A second version evicts the first on activate.
	v2 := writeFile(t, filepath.Join(dir, "v2.toml"), fmt.Sprintf(`[mirror]
version = "cosmic-scale-v2"
origin = %q
dir = %q
assets = ["/"]
attempts = 1
`, upstream.URL, cacheDir))
	if _, err := execute(t, newTestCLI(), "--config", v2, "mirror", "install"); err != nil {
		t.Fatalf("install v2: %v", err)
	}
	if _, err := execute(t, newTestCLI(), "--config", v2, "mirror", "activate"); err != nil {
		t.Fatalf("activate: %v", err)
	}

	entries := countFiles(t, cacheDir)
	if entries != 1 {
		t.Errorf("got %d cache files after activate, want 1", entries)
	}
}

func TestMirrorInstallReportsFailures(t *testing.T) {
	dir := isolate(t)

	upstream := httptest.NewServer(http.NotFoundHandler())
	defer upstream.Close()

	cfgPath := writeFile(t, filepath.Join(dir, "cosmicscale.toml"), fmt.Sprintf(`[mirror]
origin = %q
dir = %q
assets = ["/missing.js"]
attempts = 1
`, upstream.URL, filepath.Join(dir, "mirror")))

	_, err := execute(t, newTestCLI(), "--config", cfgPath, "mirror", "install")
	if !errs.Is(err, errs.ErrCodeNetwork) {
		t.Errorf("got %v, want NETWORK_ERROR", err)
	}
}

func TestDisplayURL(t *testing.T) {
	tests := map[string]string{
		":8080":          "http://localhost:8080",
		"127.0.0.1:9000": "http://127.0.0.1:9000",
	}
	for addr, want := range tests {
		if got := displayURL(addr); got != want {
			t.Errorf("displayURL(%q) = %q, want %q", addr, got, want)
		}
	}
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return n
}
