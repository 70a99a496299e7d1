package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/prebundle/internal/domain"
	"github.com/aalvaropc/prebundle/internal/infra/logger"
	"github.com/aalvaropc/prebundle/internal/usecase"
)

func dllCmd(flags *rootFlags) *cobra.Command {
	var format string

	c := &cobra.Command{
		Use:   "dll",
		Short: "Produce the pre-bundles and their manifests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadProject(flags.project)
			if err != nil {
				return err
			}
			defer startLogging(ws.root, flags.debug, cmd.ErrOrStderr())()

			uc := usecase.NewProducePrebundle(ws.bundler(), ws.output, usecase.WithProduceLogger(logger.L()))
			res, err := uc.Execute(cmd.Context(), ws.root, ws.cfg)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), ws.root, res, format)
		},
	}

	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}

func buildCmd(flags *rootFlags) *cobra.Command {
	var format string

	c := &cobra.Command{
		Use:   "build",
		Short: "Run the main build, referencing every produced pre-bundle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadProject(flags.project)
			if err != nil {
				return err
			}
			defer startLogging(ws.root, flags.debug, cmd.ErrOrStderr())()

			uc := usecase.NewReferenceBuild(ws.bundler(), ws.output, ws.locator(), usecase.WithReferenceLogger(logger.L()))
			res, report, err := uc.Execute(cmd.Context(), ws.root, ws.cfg)
			if err != nil {
				return err
			}
			if format != "json" && len(report.References) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Referenced: %d pre-bundle(s)\n", len(report.References))
			}
			return printResult(cmd.OutOrStdout(), ws.root, res, format)
		},
	}

	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}

type resultJSON struct {
	Mode       domain.Mode `json:"mode"`
	Outputs    []string    `json:"outputs"`
	Manifests  []string    `json:"manifests,omitempty"`
	Warnings   []string    `json:"warnings,omitempty"`
	DurationMS int64       `json:"duration_ms"`
}

func printResult(w io.Writer, root string, res domain.BuildResult, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resultJSON{
			Mode:       res.Mode,
			Outputs:    res.Outputs,
			Manifests:  relAll(root, res.Manifests),
			Warnings:   res.Warnings,
			DurationMS: res.Duration().Milliseconds(),
		})
	case "pretty", "":
		printPrettyResult(w, root, res)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func printPrettyResult(w io.Writer, root string, res domain.BuildResult) {
	fmt.Fprintf(w, "Mode:      %s\n", res.Mode)
	fmt.Fprintf(w, "Duration:  %s\n", res.Duration())
	fmt.Fprintf(w, "Outputs:   %d file(s)\n", len(res.Outputs))
	for _, m := range relAll(root, res.Manifests) {
		fmt.Fprintf(w, "Manifest:  %s\n", m)
	}
	if len(res.Warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Warnings (%d):\n", len(res.Warnings))
		for _, warn := range res.Warnings {
			fmt.Fprintf(w, "  - %s\n", warn)
		}
	}
}

func relAll(root string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if rel, err := filepath.Rel(root, p); err == nil {
			p = filepath.ToSlash(rel)
		}
		out = append(out, p)
	}
	return out
}
