package usecase

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/prebundle/internal/domain"
)

// Registration ids of the plugins every main build carries.
const (
	LoaderPluginID       = "loader"
	DefinePluginID       = "define"
	DiagnosticsPluginID  = "diagnostics"
	ProgressPluginID     = "progress"
	ChunkNamingPluginID  = "chunk-naming"
	HTMLPluginID         = "html"
	StyleExtractPluginID = "style-extract"
)

// DefaultLoaders maps source extensions to the loader compiling them.
func DefaultLoaders() map[string]string {
	loaders := map[string]string{
		".js":   "js",
		".mjs":  "js",
		".cjs":  "js",
		".jsx":  "jsx",
		".ts":   "ts",
		".tsx":  "tsx",
		".css":  "css",
		".json": "json",
	}
	for _, ext := range domain.StaticExtensions() {
		loaders["."+ext] = "file"
	}
	return loaders
}

// BasePipeline derives the main build's pipeline from the project config.
// Produce mode starts from the same pipeline and strips what it cannot use.
func BasePipeline(root string, cfg domain.Config) domain.Pipeline {
	b := cfg.Build

	filenames := domain.DefaultBuildFilenames()
	for k, v := range b.Filenames {
		filenames[k] = v
	}

	define := make(map[string]string, len(b.Define))
	for k, v := range b.Define {
		define[k] = v
	}

	p := domain.Pipeline{
		Mode:  domain.ModeReference,
		Root:  root,
		Entry: b.Entry.Clone(),
		Output: domain.OutputDescriptor{
			Directory:  b.OutputDir,
			PublicPath: b.PublicPath,
			Filenames:  filenames,
		},
		Optimization: domain.Optimization{
			SplitChunks:  b.Splitting,
			RuntimeChunk: b.Splitting,
		},
		SourceMap: b.SourceMap,
		Clean:     domain.CleanRule{Enabled: true},
	}

	p.Plugins = append(p.Plugins,
		domain.Plugin{ID: LoaderPluginID, Tag: domain.TagLoader, Options: domain.LoaderOptions{Extensions: DefaultLoaders()}},
		domain.Plugin{ID: DefinePluginID, Tag: domain.TagDefine, Options: domain.DefineOptions{Values: define}},
		domain.Plugin{ID: DiagnosticsPluginID, Tag: domain.TagDiagnostics, Options: domain.DiagnosticsOptions{ShowLocation: true}},
		domain.Plugin{ID: ProgressPluginID, Tag: domain.TagProgress, Options: domain.ProgressOptions{}},
	)

	if b.Splitting {
		p.Plugins = append(p.Plugins, domain.Plugin{
			ID:      ChunkNamingPluginID,
			Tag:     domain.TagChunkNaming,
			Options: domain.ChunkNamingOptions{Template: path.Join(path.Dir(filenames[domain.AssetScript]), "[name]-[hash]")},
		})
	}

	if strings.TrimSpace(b.HTMLTemplate) != "" {
		p.Plugins = append(p.Plugins, domain.Plugin{
			ID:      HTMLPluginID,
			Tag:     domain.TagHTML,
			Options: domain.HTMLOptions{Template: b.HTMLTemplate, Filename: "index.html"},
		})
	}

	if strings.TrimSpace(b.PublicDir) != "" {
		rule := domain.CopyRule{From: b.PublicDir, ToDir: true}
		// The template is rendered, not copied verbatim.
		if rel, ok := within(b.PublicDir, b.HTMLTemplate); ok {
			rule.Ignore = []string{rel}
		}
		p.Plugins = append(p.Plugins, domain.Plugin{
			ID:      PrimaryCopyPluginID,
			Tag:     domain.TagCopy,
			Options: domain.CopyOptions{Rules: []domain.CopyRule{rule}},
		})
	}

	p.Plugins = append(p.Plugins, domain.Plugin{
		ID:      StyleExtractPluginID,
		Tag:     domain.TagStyleExtract,
		Options: domain.StyleExtractOptions{
			Filename:      filenames[domain.AssetStyle],
			ChunkFilename: filenames[domain.AssetStyle],
		},
	})

	return p
}

// within reports whether file lies inside dir and returns its slash-separated
// path relative to dir.
func within(dir, file string) (string, bool) {
	if strings.TrimSpace(dir) == "" || strings.TrimSpace(file) == "" {
		return "", false
	}
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(file))
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// resolve joins a configured path onto the project root unless it is absolute.
func resolve(root, p string) string {
	if filepath.IsAbs(p) || root == "" {
		return p
	}
	return filepath.Join(root, p)
}
