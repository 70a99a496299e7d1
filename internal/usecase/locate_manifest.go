package usecase

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/PaesslerAG/jsonpath"
	"github.com/aalvaropc/prebundle/internal/domain"
	"github.com/aalvaropc/prebundle/internal/ports"
)

// ManifestLocator resolves manifests for a set of canonical names.
type ManifestLocator interface {
	LocateAll(names []domain.CanonicalName, root string) []domain.ManifestDescriptor
}

// Locator loads manifests produced by a previous pre-bundle pass. It never
// fails: a manifest that cannot be read or validated is reported as absent
// together with one warning.
type Locator struct {
	reader ports.ManifestReader
	log    *slog.Logger
}

type LocatorOption func(*Locator)

// WithLocatorLogger sets the logger receiving absence warnings.
func WithLocatorLogger(l *slog.Logger) LocatorOption {
	return func(loc *Locator) {
		if l != nil {
			loc.log = l
		}
	}
}

func NewLocator(r ports.ManifestReader, opts ...LocatorOption) *Locator {
	loc := &Locator{
		reader: r,
		log:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(loc)
	}
	return loc
}

var _ ManifestLocator = (*Locator)(nil)

// Locate reads <root>/<name>.manifest.json.
func (l *Locator) Locate(name domain.CanonicalName, root string) domain.ManifestDescriptor {
	d := domain.ManifestDescriptor{
		Name:     name,
		FilePath: domain.ManifestPath(root, name),
	}

	b, err := l.reader.ReadManifest(d.FilePath)
	if err != nil {
		event := "manifest.unreadable"
		if domain.IsKind(err, domain.KindNotFound) {
			event = "manifest.missing"
		}
		l.warn(event, d, err)
		return d
	}

	m, err := decodeManifest(b)
	if err != nil {
		l.warn("manifest.invalid", d, err)
		return d
	}

	d.Content = &m
	return d
}

// LocateAll locates every name in the given order.
func (l *Locator) LocateAll(names []domain.CanonicalName, root string) []domain.ManifestDescriptor {
	out := make([]domain.ManifestDescriptor, 0, len(names))
	for _, n := range names {
		out = append(out, l.Locate(n, root))
	}
	return out
}

func (l *Locator) warn(event string, d domain.ManifestDescriptor, err error) {
	l.log.Warn(event,
		"name", string(d.Name),
		"path", d.FilePath,
		"error", err.Error(),
		"hint", "run `prebundle dll` to produce it",
	)
}

// decodeManifest checks the document shape with JSONPath before decoding it
// into the typed manifest.
func decodeManifest(b []byte) (domain.Manifest, error) {
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return domain.Manifest{}, fmt.Errorf("manifest is not valid JSON: %w", err)
	}

	name, err := jsonpath.Get("$.name", doc)
	if err != nil {
		return domain.Manifest{}, fmt.Errorf("manifest has no name: %w", err)
	}
	if s, ok := name.(string); !ok || s == "" {
		return domain.Manifest{}, fmt.Errorf("manifest name must be a non-empty string")
	}

	content, err := jsonpath.Get("$.content", doc)
	if err != nil {
		return domain.Manifest{}, fmt.Errorf("manifest has no content: %w", err)
	}
	if _, ok := content.(map[string]any); !ok {
		return domain.Manifest{}, fmt.Errorf("manifest content must be an object")
	}

	var m domain.Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return domain.Manifest{}, fmt.Errorf("manifest content is malformed: %w", err)
	}
	return m, nil
}
