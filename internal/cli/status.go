package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/aalvaropc/prebundle/internal/domain"
	"github.com/aalvaropc/prebundle/internal/usecase"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	missingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func statusCmd(flags *rootFlags) *cobra.Command {
	var format string

	c := &cobra.Command{
		Use:   "status",
		Short: "Show pre-bundle entries, manifest presence and the reference plan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadProject(flags.project)
			if err != nil {
				return err
			}
			defer startLogging(ws.root, flags.debug, nil)()

			report := usecase.NewStatus(ws.locator()).Execute(ws.root, ws.cfg)
			return printStatus(cmd.OutOrStdout(), report, format)
		},
	}

	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}

type statusEntryJSON struct {
	Name     string   `json:"name"`
	Requests []string `json:"requests"`
	Manifest string   `json:"manifest"`
	Present  bool     `json:"present"`
	Library  string   `json:"library,omitempty"`
}

type statusJSON struct {
	Root         string            `json:"root"`
	Open         bool              `json:"open"`
	ManifestRoot string            `json:"manifest_root"`
	AutoInject   bool              `json:"auto_inject"`
	Entries      []statusEntryJSON `json:"entries"`
	References   []string          `json:"references"`
	Injection    []string          `json:"injection,omitempty"`
	Plugins      []string          `json:"plugins"`
}

func statusPayload(s usecase.StatusReport) statusJSON {
	r := s.Report
	out := statusJSON{
		Root:         s.Root,
		Open:         s.Open,
		ManifestRoot: r.ManifestRoot,
		AutoInject:   r.AutoInject,
		Entries:      []statusEntryJSON{},
		References:   []string{},
		Plugins:      []string{},
	}

	byName := map[domain.CanonicalName]domain.ManifestDescriptor{}
	for _, d := range r.Manifests {
		byName[d.Name] = d
	}
	for _, name := range r.Entries.Names() {
		d, ok := byName[name]
		if !ok {
			d = domain.ManifestDescriptor{Name: name, FilePath: domain.ManifestPath(r.ManifestRoot, name)}
		}
		e := statusEntryJSON{
			Name:     string(name),
			Requests: r.Entries[name],
			Manifest: d.FilePath,
			Present:  d.Present(),
		}
		if d.Content != nil {
			e.Library = d.Content.Name
		}
		out.Entries = append(out.Entries, e)
	}

	for _, ref := range r.References {
		out.References = append(out.References, ref.PluginID())
	}
	if r.Injection != nil {
		for _, a := range r.Injection.Assets {
			out.Injection = append(out.Injection, a.Glob)
		}
	}
	for _, pl := range s.Plugins {
		out.Plugins = append(out.Plugins, pl.ID)
	}
	return out
}

func printStatus(w io.Writer, s usecase.StatusReport, format string) error {
	payload := statusPayload(s)

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	case "pretty", "":
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}

	fmt.Fprintln(w, headingStyle.Render("Project: "+payload.Root))
	if !payload.Open {
		fmt.Fprintln(w, missingStyle.Render("pre-bundling is switched off (prebundle.open: false)"))
	}
	fmt.Fprintf(w, "Manifests: %s\n\n", payload.ManifestRoot)

	if len(payload.Entries) == 0 {
		fmt.Fprintln(w, "(no pre-bundle entries)")
	}
	for _, e := range payload.Entries {
		mark := missingStyle.Render("missing")
		if e.Present {
			mark = okStyle.Render("ok")
		}
		fmt.Fprintf(w, "- %s [%s] %s\n", e.Name, mark, strings.Join(e.Requests, ", "))
	}

	if payload.Open {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "References:  %d\n", len(payload.References))
		inject := "off"
		if len(payload.Injection) > 0 {
			inject = strings.Join(payload.Injection, ", ")
		} else if payload.AutoInject && len(payload.References) == 0 {
			inject = "on (nothing to inject yet)"
		}
		fmt.Fprintf(w, "Inject:      %s\n", inject)
	}
	fmt.Fprintf(w, "Plugins:     %s\n", strings.Join(payload.Plugins, ", "))
	return nil
}
