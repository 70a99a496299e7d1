package esbuild

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/aalvaropc/prebundle/internal/domain"
	"github.com/evanw/esbuild/pkg/api"
)

// unitResult is what one esbuild invocation produced.
type unitResult struct {
	names    []string
	outputs  []api.OutputFile
	assets   []emittedAsset
	inputs   map[string][]string
	errors   []string
	warnings []string
}

// session is the state plugins of one compile share.
type session struct {
	mu     sync.Mutex
	assets map[string]emittedAsset
	inputs map[string][]string
}

func newSession() *session {
	return &session{
		assets: map[string]emittedAsset{},
		inputs: map[string][]string{},
	}
}

func (s *session) addAsset(a emittedAsset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[a.src] = a
}

func (s *session) addInput(request, input string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs[request] = append(s.inputs[request], input)
}

func (b *Bundler) compile(p domain.Pipeline, o compileOptions, names []string) unitResult {
	s := newSession()
	res := unitResult{names: names}

	var entries []api.EntryPoint
	for _, n := range names {
		entries = append(entries, api.EntryPoint{InputPath: entryPrefix + n, OutputPath: n})
	}

	plugins := []api.Plugin{
		entryPlugin(p, o, s),
		assetPlugin(p, o, s),
	}
	if len(o.references) > 0 {
		plugins = append(plugins, referencePlugin(o.references))
	}
	if o.progress {
		plugins = append(plugins, progressPlugin(b.log, names))
	}

	opts := api.BuildOptions{
		EntryPointsAdvanced: entries,
		AbsWorkingDir:       p.Root,
		Outdir:              o.outDir,
		Bundle:              true,
		Write:               false,
		Format:              api.FormatIIFE,
		Platform:            api.PlatformBrowser,
		Target:              api.ES2020,
		LogLevel:            api.LogLevelSilent,
		Loader:              o.loaders,
		Define:              o.define,
		Plugins:             plugins,
	}
	if p.SourceMap {
		opts.Sourcemap = api.SourceMapLinked
	}
	if p.Mode == domain.ModeProduce {
		opts.MinifySyntax = true
		opts.MinifyWhitespace = true
	}
	if p.Optimization.SplitChunks {
		opts.Format = api.FormatESModule
		opts.Splitting = true
		opts.ChunkNames = o.chunkNames
	}

	result := api.Build(opts)

	res.errors = messages(result.Errors, o.location)
	res.warnings = messages(result.Warnings, o.location)
	if len(res.errors) > 0 {
		return res
	}

	res.outputs = result.OutputFiles
	res.inputs = s.inputs
	for _, a := range s.assets {
		res.assets = append(res.assets, a)
	}
	return res
}

func messages(msgs []api.Message, location bool) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		text := m.Text
		if m.PluginName != "" {
			text = fmt.Sprintf("[%s] %s", m.PluginName, text)
		}
		if location && m.Location != nil {
			text = fmt.Sprintf("%s:%d:%d: %s", filepath.ToSlash(m.Location.File), m.Location.Line, m.Location.Column, text)
		}
		out = append(out, text)
	}
	return out
}
