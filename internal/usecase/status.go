package usecase

import "github.com/aalvaropc/prebundle/internal/domain"

// StatusReport describes the pre-bundles of a project without compiling.
type StatusReport struct {
	Root   string
	Open   bool
	Report ReferenceReport
	// Plugins are the registrations the main build would run with.
	Plugins []domain.Plugin
}

type Status struct {
	locator ManifestLocator
}

func NewStatus(loc ManifestLocator) *Status {
	return &Status{locator: loc}
}

func (uc *Status) Execute(root string, cfg domain.Config) StatusReport {
	p, report := ConfigureReference(BasePipeline(root, cfg), cfg, uc.locator)
	if !cfg.Prebundle.Open {
		report.Entries = PrebundleEntries(cfg)
		report.ManifestRoot = resolve(root, cfg.Prebundle.ManifestRoot())
	}
	return StatusReport{
		Root:    root,
		Open:    cfg.Prebundle.Open,
		Report:  report,
		Plugins: p.Plugins,
	}
}
