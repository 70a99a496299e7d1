package usecase

import (
	"testing"

	"github.com/aalvaropc/prebundle/internal/domain"
)

func present(name domain.CanonicalName) domain.ManifestDescriptor {
	return domain.ManifestDescriptor{
		Name:    name,
		Content: &domain.Manifest{Name: string(name) + "_library"},
	}
}

func absent(name domain.CanonicalName) domain.ManifestDescriptor {
	return domain.ManifestDescriptor{Name: name}
}

func TestPlanReferences(t *testing.T) {
	cases := []struct {
		name string
		in   []domain.ManifestDescriptor
		want []domain.CanonicalName
	}{
		{"empty", nil, nil},
		{"all absent", []domain.ManifestDescriptor{absent("dll"), absent("ui")}, nil},
		{"keeps order", []domain.ManifestDescriptor{present("ui"), absent("x"), present("dll")}, []domain.CanonicalName{"ui", "dll"}},
		{"one per name", []domain.ManifestDescriptor{present("dll"), present("dll")}, []domain.CanonicalName{"dll"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := PlanReferences(tc.in)
			if len(got) > len(tc.in) {
				t.Fatalf("more references than descriptors")
			}
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d references, got %d", len(tc.want), len(got))
			}
			for i, w := range tc.want {
				if got[i].Manifest.Name != w {
					t.Fatalf("reference %d: expected %q, got %q", i, w, got[i].Manifest.Name)
				}
			}
		})
	}
}

func TestPlanReferencesCountsPresentDescriptors(t *testing.T) {
	in := []domain.ManifestDescriptor{present("a"), absent("b"), present("c"), absent("d")}
	presentCount := 0
	for _, d := range in {
		if d.Present() {
			presentCount++
		}
	}
	if got := len(PlanReferences(in)); got != presentCount {
		t.Fatalf("expected %d references, got %d", presentCount, got)
	}
}

func TestShouldAutoInjectIgnoresManifests(t *testing.T) {
	cfg := domain.DefaultConfig().Prebundle
	if !ShouldAutoInject(cfg) {
		t.Fatalf("expected injection on by default")
	}
	cfg.Inject = false
	if ShouldAutoInject(cfg) {
		t.Fatalf("expected injection off")
	}
}
