package workspacefinder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aalvaropc/prebundle/internal/domain"
)

// Finder walks upward from a directory looking for prebundle.yaml. The walk
// stops at the first repository boundary (a directory holding .git) so a
// configuration belonging to an enclosing checkout is never picked up.
type Finder struct {
	ConfigFile string
	Boundary   string
}

func NewFinder() *Finder {
	return &Finder{ConfigFile: domain.ConfigFileName, Boundary: ".git"}
}

func (f *Finder) FindRoot(startDir string) (string, error) {
	if startDir == "" {
		return "", findErr(domain.KindInvalidConfig, "", errors.New("start directory is empty"))
	}

	dir, err := startingDir(startDir)
	if err != nil {
		return "", findErr(domain.KindExecution, startDir, err)
	}

	var pkgDir string
	for cur := dir; ; {
		if exists(filepath.Join(cur, f.ConfigFile)) {
			return cur, nil
		}
		if pkgDir == "" && exists(filepath.Join(cur, "package.json")) {
			pkgDir = cur
		}

		parent := filepath.Dir(cur)
		if parent == cur || (f.Boundary != "" && exists(filepath.Join(cur, f.Boundary))) {
			break
		}
		cur = parent
	}

	err = fmt.Errorf("no %s in %s or any parent: %w", f.ConfigFile, dir, domain.ErrNotFound)
	if pkgDir != "" {
		err = fmt.Errorf("%w (package.json found in %s)", err, pkgDir)
	}
	return "", findErr(domain.KindNotFound, dir, err)
}

// startingDir makes p absolute; a file path is replaced by its directory.
func startingDir(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}
	return filepath.Clean(abs), nil
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

func findErr(kind domain.ErrorKind, path string, err error) error {
	return &domain.OpError{
		Op:   "workspacefinder.findroot",
		Kind: kind,
		Path: path,
		Err:  err,
	}
}
