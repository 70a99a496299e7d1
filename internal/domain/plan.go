package domain

// AssetInjection is one group of files injected into the generated document.
type AssetInjection struct {
	// Glob selects the files, e.g. "public/vendor/*.dll.js".
	Glob  string
	Class AssetClass
	// OutputDir is where matched files are copied inside the main output.
	OutputDir string
	// PublicPath is the url prefix of the injected tag, relative to the
	// main build's public path.
	PublicPath string
}

// CopyRule copies a directory into the build output.
type CopyRule struct {
	From string
	// To is relative to the output directory; empty means the output root.
	To     string
	ToDir  bool
	Ignore []string
}

// Clone returns a copy that does not share the ignore slice.
func (r CopyRule) Clone() CopyRule {
	out := r
	out.Ignore = append([]string(nil), r.Ignore...)
	return out
}

// InjectionPlan is what the main build needs to serve pre-bundle assets.
type InjectionPlan struct {
	Assets         []AssetInjection
	IgnorePatterns []string
	Copy           CopyRule
}

// Empty reports whether the plan injects nothing.
func (p InjectionPlan) Empty() bool {
	return len(p.Assets) == 0 && len(p.IgnorePatterns) == 0
}

// DocumentTag is one asset reference added to the generated document.
type DocumentTag struct {
	URL   string
	Class AssetClass
	// Module marks scripts loaded as ES modules.
	Module bool
}
