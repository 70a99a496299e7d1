package usecase

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aalvaropc/prebundle/internal/domain"
	"github.com/aalvaropc/prebundle/internal/ports"
)

// ProducePrebundle compiles the pre-bundle: configure, clear the output
// directory, compile once.
type ProducePrebundle struct {
	bundler ports.Bundler
	cleaner ports.OutputCleaner
	log     *slog.Logger
	now     func() time.Time
}

type ProduceOption func(*ProducePrebundle)

func WithProduceLogger(l *slog.Logger) ProduceOption {
	return func(uc *ProducePrebundle) {
		if l != nil {
			uc.log = l
		}
	}
}

// WithProduceNow is useful for tests.
func WithProduceNow(now func() time.Time) ProduceOption {
	return func(uc *ProducePrebundle) { uc.now = now }
}

func NewProducePrebundle(b ports.Bundler, c ports.OutputCleaner, opts ...ProduceOption) *ProducePrebundle {
	uc := &ProducePrebundle{
		bundler: b,
		cleaner: c,
		log:     slog.New(slog.DiscardHandler),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *ProducePrebundle) Execute(ctx context.Context, root string, cfg domain.Config) (domain.BuildResult, error) {
	p, err := ConfigureProduce(BasePipeline(root, cfg), cfg)
	if err != nil {
		return domain.BuildResult{}, err
	}

	uc.log.Info("dll.start",
		"entries", p.Entry.Names(),
		"output", p.Output.Directory,
	)

	outDir := resolve(root, p.Output.Directory)
	if p.Clean.Enabled {
		if err := uc.cleaner.Clean(outDir, p.Clean.Ignore); err != nil {
			return domain.BuildResult{}, &domain.OpError{
				Op:   "usecase.produce.clean",
				Kind: domain.KindExecution,
				Path: outDir,
				Err:  err,
			}
		}
	}

	if err := uc.dropStaleManifests(root, outDir, cfg); err != nil {
		return domain.BuildResult{}, err
	}

	start := uc.now()
	res, err := uc.bundler.Build(ctx, p)
	if err != nil {
		uc.log.Error("dll.failed", "error", err.Error())
		return res, compileFailure("usecase.produce.build", outDir, err)
	}
	if res.StartedAt.IsZero() {
		res.StartedAt = start
	}
	if res.FinishedAt.IsZero() {
		res.FinishedAt = uc.now()
	}
	res.Mode = domain.ModeProduce

	uc.log.Info("dll.complete",
		"outputs", len(res.Outputs),
		"manifests", res.Manifests,
		"duration_ms", res.Duration().Milliseconds(),
	)
	return res, nil
}

// dropStaleManifests removes the previous manifests when they live outside
// the cleaned output directory. A failed compile must not leave a manifest
// pointing at a bundle that no longer exists.
func (uc *ProducePrebundle) dropStaleManifests(root, outDir string, cfg domain.Config) error {
	dir := resolve(root, cfg.Prebundle.ManifestRoot())
	if filepath.Clean(dir) == filepath.Clean(outDir) {
		return nil
	}

	var stale []string
	for _, name := range PrebundleEntries(cfg).Names() {
		stale = append(stale, domain.ManifestPath(dir, name))
	}
	uc.log.Debug("dll.manifests.drop", "dir", dir, "count", len(stale))
	if err := uc.cleaner.Remove(stale...); err != nil {
		return &domain.OpError{
			Op:   "usecase.produce.clean",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}
	return nil
}

// compileFailure classifies a bundler error. Aggregated compiler messages
// become KindCompilation; errors that already carry a kind pass through.
func compileFailure(op, path string, err error) error {
	var ce *domain.CompileError
	if errors.As(err, &ce) {
		if domain.IsKind(err, domain.KindCompilation) {
			return err
		}
		return &domain.OpError{Op: op, Kind: domain.KindCompilation, Path: path, Err: err}
	}
	var oe *domain.OpError
	if errors.As(err, &oe) {
		return err
	}
	return &domain.OpError{Op: op, Kind: domain.KindExecution, Path: path, Err: err}
}
