package ports

import "github.com/aalvaropc/prebundle/internal/domain"

// ManifestReader reads a manifest document from a source (e.g., filesystem).
type ManifestReader interface {
	ReadManifest(path string) ([]byte, error)
}

// ManifestWriter persists manifests produced by a pre-bundle compile.
type ManifestWriter interface {
	WriteManifest(path string, m domain.Manifest) error
}
