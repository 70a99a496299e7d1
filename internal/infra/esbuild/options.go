package esbuild

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/prebundle/internal/app/template"
	"github.com/aalvaropc/prebundle/internal/domain"
	"github.com/evanw/esbuild/pkg/api"
)

var loaderNames = map[string]api.Loader{
	"js":      api.LoaderJS,
	"jsx":     api.LoaderJSX,
	"ts":      api.LoaderTS,
	"tsx":     api.LoaderTSX,
	"css":     api.LoaderCSS,
	"json":    api.LoaderJSON,
	"text":    api.LoaderText,
	"file":    api.LoaderFile,
	"dataurl": api.LoaderDataURL,
	"base64":  api.LoaderBase64,
	"binary":  api.LoaderBinary,
	"copy":    api.LoaderCopy,
	"empty":   api.LoaderEmpty,
}

// compileOptions is the pipeline translated once and shared by every unit.
type compileOptions struct {
	outDir string

	loaders  map[string]api.Loader
	define   map[string]string
	location bool
	progress bool

	// styleName names extracted styles; stylePrefix prefixes asset urls
	// written into them.
	styleName   string
	stylePrefix string
	chunkNames  string

	library    string
	references map[string]reference
}

type reference struct {
	library string
	id      string
}

func optionsFor(p domain.Pipeline) (compileOptions, error) {
	o := compileOptions{
		outDir:  resolve(p.Root, p.Output.Directory),
		loaders: map[string]api.Loader{},
		define:  map[string]string{},
		library: p.Output.Library,
	}

	for _, pl := range p.PluginsByTag(domain.TagLoader) {
		opts, _ := pl.Options.(domain.LoaderOptions)
		for ext, name := range opts.Extensions {
			l, ok := loaderNames[name]
			if !ok {
				return o, &domain.OpError{
					Op:   "esbuild.options",
					Kind: domain.KindInvalidConfig,
					Err:  fmt.Errorf("unknown loader %q for %s", name, ext),
				}
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			o.loaders[ext] = l
		}
	}

	for _, pl := range p.PluginsByTag(domain.TagDefine) {
		opts, _ := pl.Options.(domain.DefineOptions)
		for k, v := range opts.Values {
			o.define[k] = v
		}
	}

	for _, pl := range p.PluginsByTag(domain.TagDiagnostics) {
		if opts, ok := pl.Options.(domain.DiagnosticsOptions); ok && opts.ShowLocation {
			o.location = true
		}
	}
	o.progress = len(p.PluginsByTag(domain.TagProgress)) > 0

	o.styleName = p.Output.Filename(domain.AssetStyle)
	for _, pl := range p.PluginsByTag(domain.TagStyleExtract) {
		if opts, ok := pl.Options.(domain.StyleExtractOptions); ok {
			if opts.Filename != "" {
				o.styleName = opts.Filename
			}
			o.stylePrefix = opts.PublicPath
		}
	}
	if o.styleName == "" {
		o.styleName = "[name].css"
	}
	if o.stylePrefix == "" {
		o.stylePrefix = upward(path.Dir(o.styleName))
	}

	o.chunkNames = "chunks/[name]-[hash]"
	for _, pl := range p.PluginsByTag(domain.TagChunkNaming) {
		if opts, ok := pl.Options.(domain.ChunkNamingOptions); ok && opts.Template != "" {
			o.chunkNames = template.ToEsbuild(opts.Template)
		}
	}

	for _, pl := range p.PluginsByTag(domain.TagReference) {
		ref, ok := pl.Options.(domain.ReferenceDescriptor)
		if !ok || ref.Manifest.Content == nil {
			continue
		}
		if o.references == nil {
			o.references = map[string]reference{}
		}
		m := ref.Manifest.Content
		for req, mod := range m.Content {
			if _, taken := o.references[req]; taken {
				continue
			}
			id := mod.ID
			if id == "" {
				id = req
			}
			o.references[req] = reference{library: m.Name, id: id}
		}
	}

	return o, nil
}

// upward returns the relative prefix leading from dir back to the output
// root, e.g. "../" for "css".
func upward(dir string) string {
	dir = strings.Trim(path.Clean(dir), "/")
	if dir == "." || dir == "" {
		return ""
	}
	return strings.Repeat("../", strings.Count(dir, "/")+1)
}

// joinURL prefixes rel with a public path.
func joinURL(prefix, rel string) string {
	if prefix == "" {
		return rel
	}
	if strings.HasSuffix(prefix, "/") {
		return prefix + rel
	}
	return prefix + "/" + rel
}

func resolve(root, p string) string {
	if filepath.IsAbs(p) || root == "" {
		return p
	}
	return filepath.Join(root, p)
}
