package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/staticpress/lektorexport/internal/config"
	"github.com/staticpress/lektorexport/internal/db"
	"github.com/staticpress/lektorexport/internal/ops"
)

// setupTestSite creates a seeded content database and returns its path.
func setupTestSite(t *testing.T) (dbPath string, cfg *config.Config) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath = filepath.Join(tmpDir, "content.db")

	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	defer database.Close()

	if err := db.SetOption(database, "siteurl", "http://example.org"); err != nil {
		t.Fatalf("seed option: %v", err)
	}
	if err := db.SetOption(database, "blogname", "Test Blog"); err != nil {
		t.Fatalf("seed option: %v", err)
	}
	if err := db.InsertUser(database, 1, "Tester"); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := db.InsertPost(database, &db.Post{
		ID: 12, Type: "post", Status: "publish", Title: "Test Post",
		Body: "This is a test post.", Slug: "test-post", AuthorID: 1,
		Date: time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("seed post: %v", err)
	}

	cfg = config.DefaultConfig()
	cfg.DBPath = dbPath
	cfg.ExportsDir = filepath.Join(tmpDir, "exports")
	return dbPath, cfg
}

// captureStdout runs fn and returns what it wrote to stdout.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := fn()

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout

	return buf.String(), err
}

// TestCLIExport tests the export command.
func TestCLIExport(t *testing.T) {
	_, cfg := setupTestSite(t)
	app := newCLIApp(cfg)

	out, err := captureStdout(t, func() error {
		return app.Run([]string{"lektorexport", "export"})
	})
	if err != nil {
		t.Fatalf("export command failed: %v", err)
	}

	var output ops.ExportOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}

	if output.Exported != 1 {
		t.Errorf("exported = %d, want 1", output.Exported)
	}
	if output.Path == "" {
		t.Fatal("expected a run path")
	}
	if _, err := os.Stat(filepath.Join(output.Path, "blog", "test-post", "contents.lr")); err != nil {
		t.Errorf("post contents missing: %v", err)
	}
}

// TestCLIExportZip tests export with packaging.
func TestCLIExportZip(t *testing.T) {
	_, cfg := setupTestSite(t)
	app := newCLIApp(cfg)

	out, err := captureStdout(t, func() error {
		return app.Run([]string{"lektorexport", "export", "--zip"})
	})
	if err != nil {
		t.Fatalf("export command failed: %v", err)
	}

	var output ops.ExportOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}

	if output.Archive == "" {
		t.Fatal("expected an archive path")
	}
	if _, err := os.Stat(output.Archive); err != nil {
		t.Errorf("archive missing: %v", err)
	}
	if output.Path != "" {
		t.Error("run dir should be removed after packaging")
	}
}

// TestCLIExportTypeFilter tests the --types flag.
func TestCLIExportTypeFilter(t *testing.T) {
	_, cfg := setupTestSite(t)
	app := newCLIApp(cfg)

	out, err := captureStdout(t, func() error {
		return app.Run([]string{"lektorexport", "export", "--types=page"})
	})
	if err != nil {
		t.Fatalf("export command failed: %v", err)
	}

	var output ops.ExportOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}
	if output.Exported != 0 {
		t.Errorf("exported = %d, want 0 (no pages seeded)", output.Exported)
	}
}

// TestCLICleanup tests the cleanup command.
func TestCLICleanup(t *testing.T) {
	_, cfg := setupTestSite(t)
	app := newCLIApp(cfg)

	exportOut, err := captureStdout(t, func() error {
		return app.Run([]string{"lektorexport", "export", "--zip", "--keep"})
	})
	if err != nil {
		t.Fatalf("export command failed: %v", err)
	}

	var output ops.ExportOutput
	if err := json.Unmarshal([]byte(exportOut), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}

	if _, err := captureStdout(t, func() error {
		return app.Run([]string{"lektorexport", "cleanup", output.RunID})
	}); err != nil {
		t.Fatalf("cleanup command failed: %v", err)
	}

	if _, err := os.Stat(output.Archive); !os.IsNotExist(err) {
		t.Error("expected archive to be removed")
	}
	if _, err := os.Stat(output.Path); !os.IsNotExist(err) {
		t.Error("expected run dir to be removed")
	}
}

// TestCLICleanupMissingArg tests cleanup without a run id.
func TestCLICleanupMissingArg(t *testing.T) {
	_, cfg := setupTestSite(t)
	app := newCLIApp(cfg)

	_, err := captureStdout(t, func() error {
		return app.Run([]string{"lektorexport", "cleanup"})
	})
	if err == nil {
		t.Fatal("expected error for missing run id")
	}
	if !strings.Contains(err.Error(), "INVALID_REQUEST") {
		t.Errorf("error = %v, want INVALID_REQUEST", err)
	}
}

// TestCLISiteConfig tests the site-config command.
func TestCLISiteConfig(t *testing.T) {
	_, cfg := setupTestSite(t)
	app := newCLIApp(cfg)

	out, err := captureStdout(t, func() error {
		return app.Run([]string{"lektorexport", "site-config"})
	})
	if err != nil {
		t.Fatalf("site-config command failed: %v", err)
	}

	if !strings.Contains(out, "name: Test Blog") {
		t.Errorf("output missing site name:\n%s", out)
	}
	if !strings.Contains(out, "url: http://example.org") {
		t.Errorf("output missing site url:\n%s", out)
	}
}

// TestParseList tests the parseList helper function.
func TestParseList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "single type",
			input:    "post",
			expected: []string{"post"},
		},
		{
			name:     "multiple types",
			input:    "post,page,recipe",
			expected: []string{"post", "page", "recipe"},
		},
		{
			name:     "types with spaces",
			input:    " post , page ",
			expected: []string{"post", "page"},
		},
		{
			name:     "empty entries filtered",
			input:    "post,,page,",
			expected: []string{"post", "page"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseList(tt.input)
			if len(result) != len(tt.expected) {
				t.Errorf("expected %d values, got %d", len(tt.expected), len(result))
				return
			}
			for i, v := range result {
				if v != tt.expected[i] {
					t.Errorf("expected [%d]=%q, got %q", i, tt.expected[i], v)
				}
			}
		})
	}
}

// TestIsCLIMode tests CLI vs MCP mode dispatch.
func TestIsCLIMode(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want bool
	}{
		{"no args", []string{"lektorexport"}, false},
		{"export subcommand", []string{"lektorexport", "export"}, true},
		{"cleanup subcommand", []string{"lektorexport", "cleanup", "abc"}, true},
		{"site-config subcommand", []string{"lektorexport", "site-config"}, true},
		{"serve subcommand", []string{"lektorexport", "serve"}, true},
		{"help flag", []string{"lektorexport", "--help"}, true},
		{"version flag", []string{"lektorexport", "--version"}, true},
		{"unknown arg", []string{"lektorexport", "bogus"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			os.Args = tt.args
			defer func() { os.Args = oldArgs }()

			if got := isCLIMode(); got != tt.want {
				t.Errorf("isCLIMode() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestIsHelpOrVersion tests help/version detection.
func TestIsHelpOrVersion(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want bool
	}{
		{"no args", []string{"lektorexport"}, false},
		{"help flag", []string{"lektorexport", "--help"}, true},
		{"short help", []string{"lektorexport", "-h"}, true},
		{"version flag", []string{"lektorexport", "--version"}, true},
		{"help subcommand", []string{"lektorexport", "help"}, true},
		{"export subcommand", []string{"lektorexport", "export"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			os.Args = tt.args
			defer func() { os.Args = oldArgs }()

			if got := isHelpOrVersion(); got != tt.want {
				t.Errorf("isHelpOrVersion() = %v, want %v", got, tt.want)
			}
		})
	}
}
