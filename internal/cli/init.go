package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/prebundle/internal/infra/fsworkspace"
	"github.com/aalvaropc/prebundle/internal/usecase"
)

func initCmd(flags *rootFlags) *cobra.Command {
	var path string
	var force bool

	c := &cobra.Command{
		Use:   "init",
		Short: "Create prebundle.yaml and the project scaffolding",
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := strings.TrimSpace(path)
			if target == "" {
				target = flags.project
			}
			if target == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("get working directory: %w", err)
				}
				target = wd
			}
			root, err := filepath.Abs(target)
			if err != nil {
				return fmt.Errorf("invalid path: %w", err)
			}

			uc := usecase.NewInitProject(fsworkspace.NewInitializer())
			if err := uc.Execute(root, force); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Initialized prebundle project in %s\n", root)
			return nil
		},
	}

	c.Flags().StringVar(&path, "path", "", "Directory to initialize (defaults to --project or the working directory)")
	c.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	return c
}
