package fsoutput

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/aalvaropc/prebundle/internal/domain"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

func TestMatch(t *testing.T) {
	cases := []struct {
		patterns []string
		rel      string
		want     bool
	}{
		{[]string{"vendor/**"}, "vendor/dll.dll.js", true},
		{[]string{"vendor/**"}, "vendor", true},
		{[]string{"vendor/*.manifest.json"}, "vendor/dll.manifest.json", true},
		{[]string{"vendor/*.manifest.json"}, "other/dll.manifest.json", false},
		{[]string{"*.js"}, "deep/nested/app.js", true},
		{[]string{"*.js"}, "app.json", false},
		{[]string{"./index.html"}, "index.html", true},
		{nil, "anything", false},
	}
	for _, tc := range cases {
		if got := Match(tc.patterns, tc.rel); got != tc.want {
			t.Fatalf("Match(%v, %q) = %v, want %v", tc.patterns, tc.rel, got, tc.want)
		}
	}
}

func TestClean_KeepsIgnored(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dist")
	writeTree(t, dir, map[string]string{
		"index.html":               "x",
		"js/app.js":                "x",
		"vendor/dll.dll.js":        "x",
		"vendor/dll.manifest.json": "{}",
		"keep.txt":                 "x",
	})

	if err := New().Clean(dir, []string{"vendor/**", "keep.txt"}); err != nil {
		t.Fatalf("Clean error: %v", err)
	}

	if exists(filepath.Join(dir, "index.html")) || exists(filepath.Join(dir, "js")) {
		t.Fatalf("expected unignored files and empty dirs removed")
	}
	for _, rel := range []string{"vendor/dll.dll.js", "vendor/dll.manifest.json", "keep.txt"} {
		if !exists(filepath.Join(dir, filepath.FromSlash(rel))) {
			t.Fatalf("expected %s kept", rel)
		}
	}
}

func TestClean_MissingDirIsNoop(t *testing.T) {
	if err := New().Clean(filepath.Join(t.TempDir(), "nope"), nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestClean_RefusesRoot(t *testing.T) {
	for _, dir := range []string{"", ".", "/"} {
		if err := New().Clean(dir, nil); !domain.IsKind(err, domain.KindInvalidConfig) {
			t.Fatalf("Clean(%q): expected KindInvalidConfig, got %v", dir, err)
		}
	}
}

func TestCopy_HonoursIgnore(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"public/index.html":                   "<html></html>",
		"public/favicon.ico":                  "x",
		"public/vendor/dll.dll.js":            "x",
		"public/vendor/dll.manifest.json":     "{}",
		"public/vendor/dll/img/logo.1234.png": "x",
		"public/vendor/dll/css/dll.abcd.css":  "x",
	})
	out := filepath.Join(root, "dist")

	rules := []domain.CopyRule{
		{From: "public", ToDir: true, Ignore: []string{"index.html", "vendor/**", "vendor/*.manifest.json"}},
		{From: "public/vendor", ToDir: true, Ignore: []string{"*.js", "*.css", "*.manifest.json"}},
		{From: "missing", ToDir: true},
	}
	written, err := New().Copy(root, out, rules)
	if err != nil {
		t.Fatalf("Copy error: %v", err)
	}

	want := []string{"dll/img/logo.1234.png", "favicon.ico"}
	if !reflect.DeepEqual(written, want) {
		t.Fatalf("expected %v, got %v", want, written)
	}
	if exists(filepath.Join(out, "vendor")) {
		t.Fatalf("expected vendor dir not bulk copied")
	}
}

func TestGlob(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"public/vendor/b.dll.js":               "x",
		"public/vendor/a.dll.js":               "x",
		"public/vendor/a.manifest.json":        "{}",
		"public/vendor/dll/css/a.1234abcd.css": "x",
	})

	got, err := Glob(root, "public/vendor/*.dll.js")
	if err != nil {
		t.Fatalf("Glob error: %v", err)
	}
	want := []string{
		filepath.Join(root, "public", "vendor", "a.dll.js"),
		filepath.Join(root, "public", "vendor", "b.dll.js"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	css, err := Glob(root, "public/vendor/dll/css/*.*.css")
	if err != nil || len(css) != 1 {
		t.Fatalf("expected one css file, got %v (%v)", css, err)
	}
}

func TestWriteFile_Atomic(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a", "b", "out.js")
	if err := WriteFile(p, []byte("ok")); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil || string(b) != "ok" {
		t.Fatalf("unexpected content %q (%v)", b, err)
	}
	if exists(p + ".tmp") {
		t.Fatalf("expected temp file removed")
	}
}

func TestRemove_SkipsMissing(t *testing.T) {
	dir := t.TempDir()
	kept := filepath.Join(dir, "ui.manifest.json")
	gone := filepath.Join(dir, "vendor.manifest.json")
	for _, p := range []string{kept, gone} {
		if err := os.WriteFile(p, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if err := New().Remove(gone, filepath.Join(dir, "never.manifest.json")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(gone); !os.IsNotExist(err) {
		t.Fatalf("expected %s removed", gone)
	}
	if _, err := os.Stat(kept); err != nil {
		t.Fatalf("expected %s kept: %v", kept, err)
	}
}
