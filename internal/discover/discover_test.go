package discover

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiscoverTypeScriptFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "main.ts", "class Main {}")
	writeFile(t, dir, "lib/view.tsx", "class View {}")
	writeFile(t, dir, "lib/types.d.ts", "declare class T {}")
	// Non-TypeScript file should be ignored
	writeFile(t, dir, "readme.txt", "hello")
	// Hidden file should be ignored
	writeFile(t, dir, ".hidden.ts", "secret")

	entries, err := Files(dir, Options{})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(entries), paths)
	}

	// Should be sorted
	if entries[0].Path != filepath.Join("lib", "view.tsx") || entries[0].Language != "tsx" {
		t.Errorf("entry 0: got %+v", entries[0])
	}
	if entries[1].Path != "main.ts" || entries[1].Language != "typescript" {
		t.Errorf("entry 1: got %+v", entries[1])
	}
}

func TestDiscoverSkipDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "main.ts", "")
	writeFile(t, dir, "node_modules/pkg/index.ts", "")
	writeFile(t, dir, "dist/main.ts", "")
	writeFile(t, dir, ".hidden/secret.ts", "")

	entries, err := Files(dir, Options{})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Path != "main.ts" {
		t.Errorf("expected main.ts, got %q", entries[0].Path)
	}
}

func TestDiscoverLanguageFilter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "main.ts", "")
	writeFile(t, dir, "view.tsx", "")

	entries, err := Files(dir, Options{Languages: []string{"typescript"}})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != "main.ts" {
		t.Fatalf("expected only main.ts for typescript filter, got %v", entries)
	}

	entries, err = Files(dir, Options{Languages: []string{"python"}})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected 0 entries for python filter, got %d", len(entries))
	}
}

func TestDiscoverGitignore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, ".gitignore", "generated/\n")
	writeFile(t, dir, "main.ts", "")
	writeFile(t, dir, "generated/api.ts", "")

	entries, err := Files(dir, Options{})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != "main.ts" {
		t.Fatalf("expected only main.ts, got %v", entries)
	}
}

func TestDiscoverExclude(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "src/app.ts", "")
	writeFile(t, dir, "src/legacy/old.ts", "")
	writeFile(t, dir, "src/legacy/deep/older.ts", "")

	entries, err := Files(dir, Options{Exclude: []string{"src/legacy/**"}})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != filepath.Join("src", "app.ts") {
		t.Fatalf("expected only src/app.ts, got %v", entries)
	}

	entries, err = Files(dir, Options{Exclude: []string{"src/*/old.ts"}})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %v", entries)
	}

	if _, err := Files(dir, Options{Exclude: []string{"src/[a"}}); err == nil {
		t.Fatal("expected error for malformed pattern")
	}
}

func TestDiscoverMaxFileSize(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "small.ts", "class A {}")
	writeFile(t, dir, "large.ts", strings.Repeat("// padding\n", 100))

	entries, err := Files(dir, Options{MaxFileSize: 64})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != "small.ts" {
		t.Fatalf("expected only small.ts, got %v", entries)
	}
}

func TestDiscoverSkipTests(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "app.ts", "")
	writeFile(t, dir, "app.spec.ts", "")
	writeFile(t, dir, "__tests__/app.ts", "")

	entries, err := Files(dir, Options{SkipTests: true})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != "app.ts" {
		t.Fatalf("expected only app.ts, got %v", entries)
	}

	entries, err = Files(dir, Options{})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries without SkipTests, got %v", entries)
	}
}

func TestDiscoverSymlinksSkipped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "real.ts", "")

	// Create symlink
	err := os.Symlink(filepath.Join(dir, "real.ts"), filepath.Join(dir, "link.ts"))
	if err != nil {
		t.Skip("symlinks not supported")
	}

	entries, err := Files(dir, Options{})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry (no symlink), got %d", len(entries))
	}
	if entries[0].Path != "real.ts" {
		t.Errorf("expected real.ts, got %q", entries[0].Path)
	}
}

func TestIsTestFile(t *testing.T) {
	t.Parallel()
	cases := []struct {
		path string
		want bool
	}{
		// Test directory components
		{"src/__tests__/foo.ts", true},
		{"test/helpers.ts", true},
		{"e2e/login.ts", true},
		// Filename patterns
		{"foo.test.ts", true},
		{"foo.spec.tsx", true},
		{"src/app/user.service.spec.ts", true},
		// Production files
		{"src/app/user.service.ts", false},
		{"src/testing/fixtures.ts", false},
		{"latest.ts", false},
		{"spec.ts", false},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			t.Parallel()
			got := IsTestFile(tc.path)
			if got != tc.want {
				t.Errorf("IsTestFile(%q) = %v, want %v", tc.path, got, tc.want)
			}
		})
	}
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
