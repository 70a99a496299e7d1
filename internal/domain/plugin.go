package domain

// PluginTag is the capability a plugin registration provides. Filtering
// matches tags, never registration ids or option types.
type PluginTag string

const (
	TagLoader       PluginTag = "loader"
	TagDefine       PluginTag = "define"
	TagDiagnostics  PluginTag = "diagnostics"
	TagProgress     PluginTag = "progress"
	TagChunkNaming  PluginTag = "chunk-naming"
	TagHTML         PluginTag = "html"
	TagCopy         PluginTag = "copy"
	TagStyleExtract PluginTag = "style-extract"
	TagPrebundle    PluginTag = "prebundle"
	TagFileList     PluginTag = "file-list"
	TagReference    PluginTag = "reference"
	TagAssetInject  PluginTag = "asset-inject"
)

// Plugin is one registration in a pipeline. Options holds the typed payload
// for the tag (DefineOptions, CopyOptions, ReferenceDescriptor, ...).
type Plugin struct {
	ID      string
	Tag     PluginTag
	Options any
}

// LoaderOptions maps file extensions (".vue", ".svg") to a bundler loader name.
type LoaderOptions struct {
	Extensions map[string]string
}

// DefineOptions replaces global identifiers with constant expressions.
type DefineOptions struct {
	Values map[string]string
}

// DiagnosticsOptions controls how compiler messages are formatted.
type DiagnosticsOptions struct {
	ShowLocation bool
}

// ProgressOptions enables per-artifact progress events.
type ProgressOptions struct{}

// ChunkNamingOptions names split chunks.
type ChunkNamingOptions struct {
	Template string
}

// HTMLOptions generates the document the main build serves.
type HTMLOptions struct {
	Template string
	Filename string
}

// CopyOptions copies static directories into the output.
type CopyOptions struct {
	Rules []CopyRule
}

// StyleExtractOptions extracts styles into standalone files.
type StyleExtractOptions struct {
	Filename      string
	ChunkFilename string
	// PublicPath prefixes asset urls written into extracted styles.
	PublicPath string
}

// PrebundleOptions makes a compile emit one manifest per entry.
type PrebundleOptions struct {
	ManifestDir string
}

// FileListOptions records the emitted file names in each manifest.
type FileListOptions struct{}

// AssetInjectOptions adds pre-bundle assets to the generated document.
type AssetInjectOptions struct {
	Assets []AssetInjection
}
