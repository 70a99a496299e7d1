package fsworkspace

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aalvaropc/prebundle/internal/domain"
	"github.com/aalvaropc/prebundle/internal/infra/fsoutput"
)

// scaffold is one starter file. Documents the user edits by hand are never
// replaced, even when forcing.
type scaffold struct {
	rel      string
	userOwns bool
}

var scaffolds = []scaffold{
	{rel: domain.ConfigFileName},
	{rel: "public/index.html", userOwns: true},
}

// Initializer writes a starter prebundle.yaml and document template into a
// project.
type Initializer struct{}

func NewInitializer() *Initializer {
	return &Initializer{}
}

func (i *Initializer) Init(spec domain.ProjectSpec, force bool) error {
	root := filepath.Clean(spec.Root)

	if err := os.MkdirAll(filepath.Join(root, domain.StateDir, "logs"), 0o755); err != nil {
		return initErr(root, err)
	}
	for _, s := range scaffolds {
		if err := writeScaffold(root, s, force); err != nil {
			return initErr(root, err)
		}
	}
	if err := ensureGitignore(root, gitignoreEntries()); err != nil {
		return initErr(root, err)
	}
	return nil
}

func writeScaffold(root string, s scaffold, force bool) error {
	dst := filepath.Join(root, filepath.FromSlash(s.rel))
	if _, err := os.Stat(dst); err == nil && (!force || s.userOwns) {
		return nil
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	b, err := fs.ReadFile(templatesFS, path.Join("templates", s.rel))
	if err != nil {
		return err
	}
	return fsoutput.WriteFile(dst, b)
}

// gitignoreEntries lists local state and the default build output.
func gitignoreEntries() []string {
	return []string{
		domain.StateDir + "/",
		strings.TrimSuffix(domain.DefaultConfig().Build.OutputDir, "/") + "/",
	}
}

func initErr(root string, err error) error {
	return &domain.OpError{
		Op:   "fsworkspace.init",
		Kind: domain.KindExecution,
		Path: root,
		Err:  err,
	}
}

const gitignoreHeader = "# prebundle"

// ensureGitignore appends the entries .gitignore does not list yet, under a
// single header block.
func ensureGitignore(root string, entries []string) error {
	p := filepath.Join(root, ".gitignore")

	b, err := os.ReadFile(p)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	existing := string(b)

	var lines []string
	for _, l := range strings.Split(existing, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	var missing []string
	for _, e := range entries {
		if !slices.Contains(lines, e) {
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	if !slices.Contains(lines, gitignoreHeader) {
		missing = append([]string{gitignoreHeader}, missing...)
	}

	switch {
	case existing == "":
	case strings.HasSuffix(existing, "\n"):
		existing += "\n"
	default:
		existing += "\n\n"
	}
	return fsoutput.WriteFile(p, []byte(existing+strings.Join(missing, "\n")+"\n"))
}
