package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/aalvaropc/prebundle/internal/domain"
	"github.com/aalvaropc/prebundle/internal/ports"
)

// ReferenceBuild runs the main build against whatever pre-bundles exist.
type ReferenceBuild struct {
	bundler ports.Bundler
	cleaner ports.OutputCleaner
	locator ManifestLocator
	log     *slog.Logger
	now     func() time.Time
}

type ReferenceOption func(*ReferenceBuild)

func WithReferenceLogger(l *slog.Logger) ReferenceOption {
	return func(uc *ReferenceBuild) {
		if l != nil {
			uc.log = l
		}
	}
}

func NewReferenceBuild(b ports.Bundler, c ports.OutputCleaner, loc ManifestLocator, opts ...ReferenceOption) *ReferenceBuild {
	uc := &ReferenceBuild{
		bundler: b,
		cleaner: c,
		locator: loc,
		log:     slog.New(slog.DiscardHandler),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *ReferenceBuild) Execute(ctx context.Context, root string, cfg domain.Config) (domain.BuildResult, ReferenceReport, error) {
	p, report := ConfigureReference(BasePipeline(root, cfg), cfg, uc.locator)

	uc.log.Info("build.start",
		"entries", p.Entry.Names(),
		"references", len(report.References),
		"inject", report.Injection != nil,
	)

	outDir := resolve(root, p.Output.Directory)
	if p.Clean.Enabled {
		if err := uc.cleaner.Clean(outDir, p.Clean.Ignore); err != nil {
			return domain.BuildResult{}, report, &domain.OpError{
				Op:   "usecase.build.clean",
				Kind: domain.KindExecution,
				Path: outDir,
				Err:  err,
			}
		}
	}

	start := uc.now()
	res, err := uc.bundler.Build(ctx, p)
	if err != nil {
		uc.log.Error("build.failed", "error", err.Error())
		return res, report, compileFailure("usecase.build.build", outDir, err)
	}
	if res.StartedAt.IsZero() {
		res.StartedAt = start
	}
	if res.FinishedAt.IsZero() {
		res.FinishedAt = uc.now()
	}
	res.Mode = domain.ModeReference

	uc.log.Info("build.complete",
		"outputs", len(res.Outputs),
		"duration_ms", res.Duration().Milliseconds(),
	)
	return res, report, nil
}
