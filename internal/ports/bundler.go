package ports

import (
	"context"

	"github.com/aalvaropc/prebundle/internal/domain"
)

// Bundler compiles a pipeline. It is called once per invocation.
type Bundler interface {
	Build(ctx context.Context, p domain.Pipeline) (domain.BuildResult, error)
}
