package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/prebundle/internal/domain"
	"github.com/aalvaropc/prebundle/internal/infra/esbuild"
	"github.com/aalvaropc/prebundle/internal/infra/fsoutput"
	"github.com/aalvaropc/prebundle/internal/infra/logger"
	"github.com/aalvaropc/prebundle/internal/infra/manifeststore"
	"github.com/aalvaropc/prebundle/internal/infra/workspacefinder"
	"github.com/aalvaropc/prebundle/internal/usecase"
)

type projectCtx struct {
	root string
	cfg  domain.Config

	manifests *manifeststore.JSONStore
	output    *fsoutput.FS
}

func loadProject(projectFlag string) (*projectCtx, error) {
	root, err := resolveProjectRoot(projectFlag)
	if err != nil {
		return nil, err
	}

	cfg, err := workspacefinder.LoadConfig(root)
	if err != nil {
		return nil, err
	}

	return &projectCtx{
		root:      root,
		cfg:       cfg,
		manifests: manifeststore.NewJSONStore(),
		output:    fsoutput.New(),
	}, nil
}

func (p *projectCtx) bundler() *esbuild.Bundler {
	return esbuild.New(
		esbuild.WithManifestWriter(p.manifests),
		esbuild.WithCopier(p.output),
		esbuild.WithLogger(logger.L()),
	)
}

func (p *projectCtx) locator() *usecase.Locator {
	return usecase.NewLocator(p.manifests, usecase.WithLocatorLogger(logger.L()))
}

func resolveProjectRoot(projectFlag string) (string, error) {
	w := strings.TrimSpace(projectFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", fmt.Errorf("invalid project path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	root, err := workspacefinder.NewFinder().FindRoot(wd)
	if err != nil {
		return "", fmt.Errorf("project not found from %q (tip: run `prebundle init`): %w", wd, err)
	}
	return root, nil
}

// startLogging writes the log under root and mirrors records to console.
// The returned func never fails the command.
func startLogging(root string, debug bool, console io.Writer) func() {
	cleanup, err := logger.Setup(logger.Config{Root: root, Debug: debug, Console: console})
	if err != nil || cleanup == nil {
		return func() {}
	}
	return func() { _ = cleanup() }
}
