package esbuild

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/aalvaropc/prebundle/internal/domain"
	"github.com/aalvaropc/prebundle/internal/infra/fsoutput"
)

const fallbackDocument = "<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"></head>\n<body></body>\n</html>\n"

// writeManifests writes one manifest per compiled entry when the pipeline
// produces pre-bundles.
func (b *Bundler) writeManifests(p domain.Pipeline, results []unitResult, out *emitter) error {
	plugins := p.PluginsByTag(domain.TagPrebundle)
	if len(plugins) == 0 {
		return nil
	}
	opts, _ := plugins[0].Options.(domain.PrebundleOptions)
	dir := opts.ManifestDir
	if dir == "" {
		dir = p.Output.Directory
	}
	dir = resolve(p.Root, dir)
	withFiles := len(p.PluginsByTag(domain.TagFileList)) > 0

	for _, r := range results {
		for _, name := range r.names {
			canonical := domain.CanonicalName(name)
			m := domain.Manifest{
				Name:    p.Output.LibraryName(canonical),
				Content: map[string]domain.ModuleRef{},
			}
			for _, req := range exposed(p.Entry[name]) {
				m.Content[req] = domain.ModuleRef{
					ID:      req,
					Request: req,
					Inputs:  r.inputs[req],
				}
			}
			if withFiles {
				m.Files = append([]string(nil), out.files[name]...)
				sort.Strings(m.Files)
			}

			target := domain.ManifestPath(dir, canonical)
			if err := b.manifests.WriteManifest(target, m); err != nil {
				return err
			}
			out.manifests = append(out.manifests, target)
			b.log.Debug("manifest.written", "name", name, "path", target, "modules", len(m.Content))
		}
	}
	return nil
}

// runCopy applies the copy rules of the pipeline.
func (b *Bundler) runCopy(p domain.Pipeline, out *emitter) error {
	var rules []domain.CopyRule
	for _, pl := range p.PluginsByTag(domain.TagCopy) {
		if opts, ok := pl.Options.(domain.CopyOptions); ok {
			rules = append(rules, opts.Rules...)
		}
	}
	if len(rules) == 0 {
		return nil
	}
	written, err := b.copier.Copy(p.Root, out.outDir, rules)
	if err != nil {
		return err
	}
	out.written = append(out.written, written...)
	return nil
}

// injectAssets copies every file the asset-inject globs match into the main
// output and returns the tags the document should reference.
func (b *Bundler) injectAssets(p domain.Pipeline, out *emitter) ([]domain.DocumentTag, error) {
	var tags []domain.DocumentTag
	for _, pl := range p.PluginsByTag(domain.TagAssetInject) {
		opts, _ := pl.Options.(domain.AssetInjectOptions)
		for _, a := range opts.Assets {
			matches, err := fsoutput.Glob(p.Root, a.Glob)
			if err != nil {
				return nil, err
			}
			for _, m := range matches {
				rel := path.Join(a.OutputDir, filepath.Base(m))
				if err := fsoutput.CopyFile(m, filepath.Join(out.outDir, filepath.FromSlash(rel))); err != nil {
					return nil, writeErr(rel, err)
				}
				out.written = append(out.written, rel)
				tags = append(tags, domain.DocumentTag{
					URL:   joinURL(p.Output.PublicPath, a.PublicPath+filepath.Base(m)),
					Class: a.Class,
				})
			}
			b.log.Debug("asset.injected", "glob", a.Glob, "matches", len(matches))
		}
	}
	return tags, nil
}

// renderDocument writes the generated HTML document. Pre-bundle styles come
// before the main styles and pre-bundle scripts before the main scripts.
func (b *Bundler) renderDocument(p domain.Pipeline, results []unitResult, injected []domain.DocumentTag, out *emitter) error {
	plugins := p.PluginsByTag(domain.TagHTML)
	if len(plugins) == 0 {
		return nil
	}
	opts, _ := plugins[0].Options.(domain.HTMLOptions)
	filename := opts.Filename
	if filename == "" {
		filename = "index.html"
	}

	doc := []byte(fallbackDocument)
	if opts.Template != "" {
		src := resolve(p.Root, opts.Template)
		raw, err := os.ReadFile(src)
		switch {
		case err == nil:
			doc = raw
		case errors.Is(err, fs.ErrNotExist):
			b.log.Warn("html.template_missing", "path", src)
		default:
			return &domain.OpError{Op: "esbuild.html", Kind: domain.KindExecution, Path: src, Err: err}
		}
	}

	var names []string
	for _, r := range results {
		names = append(names, r.names...)
	}
	sort.Strings(names)

	var tags []domain.DocumentTag
	for _, class := range []domain.AssetClass{domain.AssetStyle, domain.AssetScript} {
		for _, t := range injected {
			if t.Class == class {
				tags = append(tags, t)
			}
		}
		for _, rel := range out.entryFiles(names, class) {
			tags = append(tags, domain.DocumentTag{
				URL:    joinURL(p.Output.PublicPath, rel),
				Class:  class,
				Module: class == domain.AssetScript && p.Optimization.SplitChunks,
			})
		}
	}

	rendered, err := b.docs.Inject(doc, tags)
	if err != nil {
		return err
	}
	return out.write(filename, rendered)
}
