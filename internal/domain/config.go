package domain

import "strings"

// Config represents the project configuration loaded from prebundle.yaml.
type Config struct {
	Prebundle PrebundleConfig
	Build     BuildConfig
}

// PrebundleConfig holds the pre-bundle options.
type PrebundleConfig struct {
	// Open switches the whole feature on or off.
	Open bool
	// Inject adds the pre-bundle assets to the generated document.
	Inject bool
	// Entry holds canonical names mapped to module requests.
	Entry  EntryMap
	Output OutputDescriptor
	// ManifestDir overrides where manifests are read and written. Empty means
	// Output.Directory.
	ManifestDir string
}

// ManifestRoot returns the directory holding the manifests.
func (c PrebundleConfig) ManifestRoot() string {
	if strings.TrimSpace(c.ManifestDir) != "" {
		return c.ManifestDir
	}
	return c.Output.Directory
}

// Entries returns the raw entry map with every canonical name turned back into
// its raw key, so it can pass through Canonicalize like build entries do.
// When two keys name the same pre-bundle the first in sorted order wins.
func (c PrebundleConfig) Entries() EntryMap {
	out := EntryMap{}
	for _, k := range c.Entry.Names() {
		v := c.Entry[k]
		key := k
		if _, ok := ParseCanonical(k); !ok && ValidCanonicalName(CanonicalName(k)) {
			key = RawKeyFor(CanonicalName(k))
		}
		if _, taken := out[key]; taken {
			continue
		}
		out[key] = append([]string(nil), v...)
	}
	return out
}

// BuildConfig describes the main build that pre-bundle mode inherits from.
type BuildConfig struct {
	Entry        EntryMap
	OutputDir    string
	PublicDir    string
	PublicPath   string
	HTMLTemplate string
	SourceMap    bool
	Splitting    bool
	Define       map[string]string
	Filenames    map[AssetClass]string
}

// DefaultConfig provides sane defaults if prebundle.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Prebundle: PrebundleConfig{
			Open:   true,
			Inject: true,
			Entry:  EntryMap{"vendor": {"vue", "vue-router"}},
			Output: OutputDescriptor{
				Directory:   "public/vendor",
				PublicPath:  "/",
				AssetSubdir: "dll",
				Filenames: map[AssetClass]string{
					AssetScript: "[name].dll.js",
				},
				Library: "[name]_library",
			},
		},
		Build: BuildConfig{
			Entry:        EntryMap{"app": {"./src/main.js"}},
			OutputDir:    "dist",
			PublicDir:    "public",
			PublicPath:   "/",
			HTMLTemplate: "public/index.html",
			SourceMap:    true,
			Define:       map[string]string{},
			Filenames:    DefaultBuildFilenames(),
		},
	}
}
