package ports

import "github.com/aalvaropc/prebundle/internal/domain"

// ProjectLocator finds a project root starting from an arbitrary directory.
type ProjectLocator interface {
	FindRoot(startDir string) (string, error)
}

type ProjectInitializer interface {
	Init(spec domain.ProjectSpec, force bool) error
}
