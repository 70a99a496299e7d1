package usecase

import "github.com/aalvaropc/prebundle/internal/domain"

// PlanReferences keeps the descriptors whose manifest is present, in input
// order and at most one per canonical name.
func PlanReferences(manifests []domain.ManifestDescriptor) []domain.ReferenceDescriptor {
	out := make([]domain.ReferenceDescriptor, 0, len(manifests))
	seen := map[domain.CanonicalName]bool{}
	for _, m := range manifests {
		if !m.Present() || seen[m.Name] {
			continue
		}
		seen[m.Name] = true
		out = append(out, domain.ReferenceDescriptor{Manifest: m})
	}
	return out
}

// ShouldAutoInject depends on configuration only, never on manifests.
func ShouldAutoInject(cfg domain.PrebundleConfig) bool {
	return cfg.Inject
}
