package tui

import (
	"context"
	"log/slog"

	"github.com/aalvaropc/prebundle/internal/domain"
	"github.com/aalvaropc/prebundle/internal/ports"
	"github.com/aalvaropc/prebundle/internal/usecase"
)

// Producer compiles the pre-bundles of a project.
type Producer interface {
	Execute(ctx context.Context, root string, cfg domain.Config) (domain.BuildResult, error)
}

type Deps struct {
	ProjectLocator     ports.ProjectLocator
	ProjectInitializer ports.ProjectInitializer
	ConfigLoader       func(root string) (domain.Config, error)
	Locator            usecase.ManifestLocator
	// NewProducer is called per run so the producer logs through the
	// current logger.
	NewProducer func() Producer

	// Root pins the project; empty means search from the working directory.
	Root string

	Logger *slog.Logger
	Debug  bool
}
