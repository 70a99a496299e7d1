package usecase

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/aalvaropc/prebundle/internal/domain"
)

func TestLocate_MissingFileWarnsOnce(t *testing.T) {
	h := &recordHandler{}
	loc := NewLocator(&memReader{}, WithLocatorLogger(slog.New(h)))

	d := loc.Locate("dll", "public/vendor")
	if d.Present() {
		t.Fatalf("expected absent content")
	}
	if d.FilePath != filepath.Join("public/vendor", "dll.manifest.json") {
		t.Fatalf("unexpected path %q", d.FilePath)
	}
	if got := h.count(slog.LevelWarn); got != 1 {
		t.Fatalf("expected exactly one warning, got %d: %v", got, h.messages())
	}
	if h.records[0].Message != "manifest.missing" {
		t.Fatalf("unexpected event %q", h.records[0].Message)
	}
}

func TestLocate_InvalidDocuments(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", "module.exports = {}"},
		{"no name", `{"content":{}}`},
		{"empty name", `{"name":"","content":{}}`},
		{"no content", `{"name":"dll_library"}`},
		{"content not object", `{"name":"dll_library","content":[]}`},
		{"module ref malformed", `{"name":"dll_library","content":{"vue":{"id":7}}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			root := "vendor"
			reader := &memReader{files: map[string][]byte{
				domain.ManifestPath(root, "dll"): []byte(tc.body),
			}}
			h := &recordHandler{}
			loc := NewLocator(reader, WithLocatorLogger(slog.New(h)))

			d := loc.Locate("dll", root)
			if d.Present() {
				t.Fatalf("expected absent content")
			}
			if got := h.count(slog.LevelWarn); got != 1 {
				t.Fatalf("expected one warning, got %d", got)
			}
			if h.records[0].Message != "manifest.invalid" {
				t.Fatalf("unexpected event %q", h.records[0].Message)
			}
		})
	}
}

func TestLocate_ValidManifest(t *testing.T) {
	root := "vendor"
	reader := &memReader{files: map[string][]byte{
		domain.ManifestPath(root, "dll"): manifestJSON("dll_library", "vue", "vue-router"),
	}}
	h := &recordHandler{}
	loc := NewLocator(reader, WithLocatorLogger(slog.New(h)))

	d := loc.Locate("dll", root)
	if !d.Present() {
		t.Fatalf("expected content")
	}
	if d.Content.Name != "dll_library" || len(d.Content.Content) != 2 {
		t.Fatalf("unexpected manifest %+v", d.Content)
	}
	if len(h.records) != 0 {
		t.Fatalf("expected no logs, got %v", h.messages())
	}
}

func TestLocate_NilLoggerIsSilent(t *testing.T) {
	loc := NewLocator(&memReader{}, WithLocatorLogger(nil))
	if d := loc.Locate("dll", t.TempDir()); d.Present() {
		t.Fatalf("expected absent content")
	}
}

func TestLocateAll_PreservesOrder(t *testing.T) {
	root := "vendor"
	reader := &memReader{files: map[string][]byte{
		domain.ManifestPath(root, "b"): manifestJSON("b_library", "b"),
	}}
	loc := NewLocator(reader)

	got := loc.LocateAll([]domain.CanonicalName{"c", "a", "b"}, root)
	if len(got) != 3 {
		t.Fatalf("expected 3 descriptors, got %d", len(got))
	}
	for i, want := range []domain.CanonicalName{"c", "a", "b"} {
		if got[i].Name != want {
			t.Fatalf("descriptor %d: expected %q, got %q", i, want, got[i].Name)
		}
	}
	if got[0].Present() || got[1].Present() || !got[2].Present() {
		t.Fatalf("unexpected presence: %+v", got)
	}
}
