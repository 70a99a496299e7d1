package domain

import (
	"path/filepath"
	"testing"
)

func TestManifestPath(t *testing.T) {
	got := ManifestPath(filepath.Join("public", "vendor"), "vendor")
	want := filepath.Join("public", "vendor", "vendor.manifest.json")
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestReferenceDescriptorPluginID(t *testing.T) {
	withContent := ReferenceDescriptor{Manifest: ManifestDescriptor{
		Name:    "vendor",
		Content: &Manifest{Name: "vendor_library"},
	}}
	if got := withContent.PluginID(); got != "dll-reference-vendor_library" {
		t.Fatalf("unexpected id %q", got)
	}

	bare := ReferenceDescriptor{Manifest: ManifestDescriptor{Name: "vendor", Content: &Manifest{}}}
	if got := bare.PluginID(); got != "dll-reference-vendor" {
		t.Fatalf("unexpected fallback id %q", got)
	}
}

func TestOutputDescriptorLibraryName(t *testing.T) {
	var o OutputDescriptor
	if got := o.LibraryName("dll"); got != "dll_library" {
		t.Fatalf("unexpected default library %q", got)
	}
	o.Library = "lib_[name]"
	if got := o.LibraryName("ui"); got != "lib_ui" {
		t.Fatalf("unexpected library %q", got)
	}
}

func TestClassifyExt(t *testing.T) {
	cases := map[string]AssetClass{
		".js":   AssetScript,
		"CSS":   AssetStyle,
		"svg":   AssetImage,
		"woff2": AssetFont,
		".mp4":  AssetMedia,
	}
	for ext, want := range cases {
		got, ok := ClassifyExt(ext)
		if !ok || got != want {
			t.Fatalf("ClassifyExt(%q) = %q, %v; want %q", ext, got, ok, want)
		}
	}
	if _, ok := ClassifyExt("json"); ok {
		t.Fatalf("json must not be classified")
	}
}

func TestPrebundleConfigEntriesUsesRawKeys(t *testing.T) {
	cfg := PrebundleConfig{Entry: EntryMap{
		"vendor":   {"vue"},
		"dll":      {"lodash"},
		"dll_ui":   {"element-ui"},
		"not-name": {"x"},
	}}

	got := Canonicalize(cfg.Entries())
	if len(got) != 3 {
		t.Fatalf("expected 3 canonical entries, got %v", got)
	}
	for _, n := range []CanonicalName{"vendor", "dll", "ui"} {
		if _, ok := got[n]; !ok {
			t.Fatalf("missing canonical entry %q in %v", n, got)
		}
	}
}

func TestPrebundleConfigManifestRoot(t *testing.T) {
	cfg := DefaultConfig().Prebundle
	if cfg.ManifestRoot() != "public/vendor" {
		t.Fatalf("unexpected root %q", cfg.ManifestRoot())
	}
	cfg.ManifestDir = "manifests"
	if cfg.ManifestRoot() != "manifests" {
		t.Fatalf("unexpected override %q", cfg.ManifestRoot())
	}
}
