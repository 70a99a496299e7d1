package esbuild

import (
	"bytes"
	"path"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/prebundle/internal/app/template"
	"github.com/aalvaropc/prebundle/internal/domain"
	"github.com/aalvaropc/prebundle/internal/infra/fsoutput"
)

// artifact is one compiled file as written to the output directory.
type artifact struct {
	rel   string
	class domain.AssetClass
}

// emitter writes compile results and keeps track of what went where.
type emitter struct {
	root      string
	outDir    string
	output    domain.OutputDescriptor
	styleName string
	// split keeps esbuild's entry script names; entries import shared
	// chunks relative to where esbuild placed them.
	split bool

	written   []string
	manifests []string
	// entries maps an entry name to its script and style artifacts.
	entries map[string][]artifact
	// files maps an entry name to everything its unit wrote.
	files map[string][]string
}

func newEmitter(root string, p domain.Pipeline, o compileOptions) *emitter {
	return &emitter{
		root:      root,
		outDir:    o.outDir,
		output:    p.Output,
		styleName: o.styleName,
		split:     p.Optimization.SplitChunks,
		entries:   map[string][]artifact{},
		files:     map[string][]string{},
	}
}

// writeUnit renames entry outputs with the filename templates and writes
// them, their source maps, chunks and static assets.
func (e *emitter) writeUnit(r unitResult) error {
	isEntry := make(map[string]bool, len(r.names))
	for _, n := range r.names {
		isEntry[n] = true
	}

	type pending struct {
		from, to string
		data     []byte
	}
	var files []pending
	renamed := map[string]string{}

	for _, f := range r.outputs {
		rel := relTo(e.outDir, f.Path)
		if strings.HasSuffix(rel, ".map") {
			continue
		}
		ext := path.Ext(rel)
		stem := strings.TrimSuffix(rel, ext)
		to := rel

		if isEntry[stem] {
			class, ok := domain.ClassifyExt(ext)
			tpl := ""
			if ok && class == domain.AssetScript && !e.split {
				tpl = e.output.Filename(domain.AssetScript)
			} else if ok && class == domain.AssetStyle {
				tpl = e.styleName
			}
			if tpl != "" {
				h := contentHash(f.Contents)
				name, err := template.Render(tpl, template.Values{
					Name:        stem,
					Ext:         strings.TrimPrefix(ext, "."),
					Hash:        h,
					ContentHash: h,
				})
				if err != nil {
					return err
				}
				to = name
			}
			if ok {
				e.entries[stem] = append(e.entries[stem], artifact{rel: to, class: class})
			}
		}

		renamed[rel] = to
		files = append(files, pending{from: rel, to: to, data: f.Contents})
	}

	for _, f := range r.outputs {
		rel := relTo(e.outDir, f.Path)
		if !strings.HasSuffix(rel, ".map") {
			continue
		}
		to := rel
		if target, ok := renamed[strings.TrimSuffix(rel, ".map")]; ok {
			to = target + ".map"
		}
		files = append(files, pending{from: rel, to: to, data: f.Contents})
	}

	var unitFiles []string
	for _, f := range files {
		data := f.data
		if f.from != f.to && !strings.HasSuffix(f.to, ".map") {
			data = bytes.Replace(data,
				[]byte("sourceMappingURL="+path.Base(f.from)+".map"),
				[]byte("sourceMappingURL="+path.Base(f.to)+".map"), 1)
		}
		if err := e.write(f.to, data); err != nil {
			return err
		}
		unitFiles = append(unitFiles, f.to)
	}

	for _, a := range r.assets {
		if err := fsoutput.CopyFile(a.src, filepath.Join(e.outDir, filepath.FromSlash(a.rel))); err != nil {
			return writeErr(a.rel, err)
		}
		e.written = append(e.written, a.rel)
		unitFiles = append(unitFiles, a.rel)
	}

	for _, n := range r.names {
		e.files[n] = append(e.files[n], unitFiles...)
	}
	return nil
}

func (e *emitter) write(rel string, data []byte) error {
	if err := fsoutput.WriteFile(filepath.Join(e.outDir, filepath.FromSlash(rel)), data); err != nil {
		return writeErr(rel, err)
	}
	e.written = append(e.written, rel)
	return nil
}

// entryFiles returns the artifacts of the given class for the named entries.
func (e *emitter) entryFiles(names []string, class domain.AssetClass) []string {
	var out []string
	for _, n := range names {
		for _, a := range e.entries[n] {
			if a.class == class {
				out = append(out, a.rel)
			}
		}
	}
	return out
}

func writeErr(rel string, err error) error {
	return &domain.OpError{Op: "esbuild.write", Kind: domain.KindExecution, Path: rel, Err: err}
}
