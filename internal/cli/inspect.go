package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/prebundle/internal/usecase"
)

func inspectCmd(flags *rootFlags) *cobra.Command {
	var query string

	c := &cobra.Command{
		Use:   "inspect <name>",
		Short: "Print a manifest, or a JSONPath query over it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadProject(flags.project)
			if err != nil {
				return err
			}

			val, err := usecase.NewInspectManifest(ws.manifests).Execute(ws.root, ws.cfg, args[0], query)
			if err != nil {
				return err
			}

			if s, ok := val.(string); ok {
				fmt.Fprintln(cmd.OutOrStdout(), s)
				return nil
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(val)
		},
	}

	c.Flags().StringVarP(&query, "query", "q", "", "JSONPath expression, e.g. $.content")
	return c
}
