// Package esbuild compiles a pipeline with esbuild. Plugins registered on the
// pipeline are translated into build options and esbuild plugins; everything
// esbuild does not cover (manifests, copy rules, document injection) runs
// after a successful compile.
package esbuild

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/aalvaropc/prebundle/internal/domain"
	"github.com/aalvaropc/prebundle/internal/infra/fsoutput"
	"github.com/aalvaropc/prebundle/internal/infra/htmldoc"
	"github.com/aalvaropc/prebundle/internal/infra/manifeststore"
	"github.com/aalvaropc/prebundle/internal/ports"
	"golang.org/x/sync/errgroup"
)

// Bundler is the esbuild implementation of ports.Bundler.
type Bundler struct {
	manifests ports.ManifestWriter
	copier    ports.OutputCopier
	docs      ports.DocumentInjector
	log       *slog.Logger
	limit     int
	now       func() time.Time
}

var _ ports.Bundler = (*Bundler)(nil)

type Option func(*Bundler)

func WithManifestWriter(w ports.ManifestWriter) Option {
	return func(b *Bundler) { b.manifests = w }
}

func WithCopier(c ports.OutputCopier) Option {
	return func(b *Bundler) { b.copier = c }
}

func WithDocumentInjector(d ports.DocumentInjector) Option {
	return func(b *Bundler) { b.docs = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(b *Bundler) {
		if l != nil {
			b.log = l
		}
	}
}

// WithParallelism bounds how many entry compiles run at once.
func WithParallelism(n int) Option {
	return func(b *Bundler) {
		if n > 0 {
			b.limit = n
		}
	}
}

func New(opts ...Option) *Bundler {
	b := &Bundler{
		manifests: manifeststore.NewJSONStore(),
		copier:    fsoutput.New(),
		docs:      htmldoc.New(),
		log:       slog.New(slog.DiscardHandler),
		limit:     runtime.NumCPU(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build compiles p. Compiler errors of every unit are collected into one
// *domain.CompileError; nothing is written unless every unit compiled.
func (b *Bundler) Build(ctx context.Context, p domain.Pipeline) (domain.BuildResult, error) {
	res := domain.BuildResult{Mode: p.Mode, StartedAt: b.now()}

	if len(p.Entry) == 0 {
		return res, &domain.OpError{
			Op:   "esbuild.build",
			Kind: domain.KindInvalidConfig,
			Err:  errors.New("pipeline has no entries"),
		}
	}

	root, err := filepath.Abs(p.Root)
	if err != nil {
		return res, &domain.OpError{Op: "esbuild.build", Kind: domain.KindExecution, Path: p.Root, Err: err}
	}
	p.Root = root

	opts, err := optionsFor(p)
	if err != nil {
		return res, err
	}

	units := b.units(p)
	results := make([]unitResult, len(units))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.limit)
	for i, names := range units {
		i, names := i, names
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = b.compile(p, opts, names)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, &domain.OpError{Op: "esbuild.build", Kind: domain.KindExecution, Err: err}
	}

	var failed []string
	for _, r := range results {
		failed = append(failed, r.errors...)
		res.Warnings = append(res.Warnings, r.warnings...)
	}
	if len(failed) > 0 {
		return res, &domain.CompileError{Messages: failed}
	}

	out := newEmitter(root, p, opts)
	for _, r := range results {
		if err := out.writeUnit(r); err != nil {
			return res, err
		}
	}

	if err := b.writeManifests(p, results, out); err != nil {
		return res, err
	}
	if err := b.runCopy(p, out); err != nil {
		return res, err
	}
	tags, err := b.injectAssets(p, out)
	if err != nil {
		return res, err
	}
	if err := b.renderDocument(p, results, tags, out); err != nil {
		return res, err
	}

	sort.Strings(out.written)
	res.Outputs = out.written
	res.Manifests = out.manifests
	res.FinishedAt = b.now()
	return res, nil
}

// units groups entry names into independent compiles. Code splitting shares
// chunks across entries, so it needs a single compile.
func (b *Bundler) units(p domain.Pipeline) [][]string {
	names := p.Entry.Names()
	if p.Optimization.SplitChunks {
		return [][]string{names}
	}
	out := make([][]string, 0, len(names))
	for _, n := range names {
		out = append(out, []string{n})
	}
	return out
}
