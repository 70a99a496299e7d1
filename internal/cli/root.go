package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/prebundle/internal/infra/fsoutput"
	"github.com/aalvaropc/prebundle/internal/infra/fsworkspace"
	"github.com/aalvaropc/prebundle/internal/infra/logger"
	"github.com/aalvaropc/prebundle/internal/infra/manifeststore"
	"github.com/aalvaropc/prebundle/internal/infra/workspacefinder"
	"github.com/aalvaropc/prebundle/internal/ui/tui"
	"github.com/aalvaropc/prebundle/internal/usecase"
)

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// rootFlags are the persistent flags every subcommand reads.
type rootFlags struct {
	debug   bool
	project string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:          "prebundle",
		Short:        "Compile vendor libraries once and reference them from every build",
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			wd, err := os.Getwd()
			if err != nil {
				wd = "."
			}
			wd, _ = filepath.Abs(wd)

			finder := workspacefinder.NewFinder()

			logRoot := wd
			if flags.project != "" {
				if root, rerr := resolveProjectRoot(flags.project); rerr == nil {
					logRoot = root
				}
			} else if root, ferr := finder.FindRoot(wd); ferr == nil && root != "" {
				logRoot = root
			}

			stopLogging := startLogging(logRoot, flags.debug, nil)
			defer stopLogging()

			store := manifeststore.NewJSONStore()
			deps := tui.Deps{
				ProjectLocator:     finder,
				ProjectInitializer: fsworkspace.NewInitializer(),
				ConfigLoader:       workspacefinder.LoadConfig,
				Locator:            usecase.NewLocator(store, usecase.WithLocatorLogger(logger.L())),
				NewProducer: func() tui.Producer {
					p := &projectCtx{manifests: store, output: fsoutput.New()}
					return usecase.NewProducePrebundle(p.bundler(), p.output, usecase.WithProduceLogger(logger.L()))
				},
				Logger: logger.L(),
				Debug:  flags.debug,
			}
			if flags.project != "" {
				deps.Root = logRoot
			}

			return tui.Run(deps)
		},
	}

	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable verbose logging to .prebundle/logs/prebundle.log")
	cmd.PersistentFlags().StringVarP(&flags.project, "project", "p", "", "Project root (optional; autodetected if omitted)")

	cmd.AddCommand(
		dllCmd(flags),
		buildCmd(flags),
		statusCmd(flags),
		inspectCmd(flags),
		initCmd(flags),
		versionCmd(),
	)
	return cmd
}
