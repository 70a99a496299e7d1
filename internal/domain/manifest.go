package domain

import "path/filepath"

// ManifestSuffix is appended to a canonical name to form its manifest file name.
const ManifestSuffix = ".manifest.json"

// ModuleRef is one module exposed by a pre-bundle.
type ModuleRef struct {
	ID      string   `json:"id"`
	Request string   `json:"request,omitempty"`
	Inputs  []string `json:"inputs,omitempty"`
}

// Manifest is the JSON artifact written next to a pre-bundle. Name is the
// global library the bundle assigns; Content maps module requests to the ids
// a referencing build resolves them to.
type Manifest struct {
	Name    string               `json:"name"`
	Content map[string]ModuleRef `json:"content"`
	Files   []string             `json:"files,omitempty"`
}

// ManifestFileName returns "<name>.manifest.json".
func ManifestFileName(name CanonicalName) string {
	return string(name) + ManifestSuffix
}

// ManifestPath joins the manifest root and the manifest file name.
func ManifestPath(root string, name CanonicalName) string {
	return filepath.Join(root, ManifestFileName(name))
}

// ManifestDescriptor is the result of locating a manifest. A nil Content is
// the normal state before the pre-bundle has ever been produced.
type ManifestDescriptor struct {
	Name     CanonicalName
	FilePath string
	Content  *Manifest
}

// Present reports whether the manifest was found and parsed.
func (d ManifestDescriptor) Present() bool {
	return d.Content != nil
}

// ReferenceDescriptor wires one present manifest into a referencing build.
type ReferenceDescriptor struct {
	Manifest ManifestDescriptor
}

// PluginID is the registration id of the reference plugin for this descriptor.
func (r ReferenceDescriptor) PluginID() string {
	name := string(r.Manifest.Name)
	if r.Manifest.Content != nil && r.Manifest.Content.Name != "" {
		name = r.Manifest.Content.Name
	}
	return "dll-reference-" + name
}
