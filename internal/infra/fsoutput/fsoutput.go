// Package fsoutput implements the output directory primitives the build
// relies on: clearing with ignore globs, copying with ignore globs and atomic
// writes.
package fsoutput

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aalvaropc/prebundle/internal/domain"
	"github.com/aalvaropc/prebundle/internal/ports"
	"github.com/bmatcuk/doublestar/v4"
)

// FS works on the local filesystem.
type FS struct{}

func New() *FS {
	return &FS{}
}

var (
	_ ports.OutputCleaner = (*FS)(nil)
	_ ports.OutputCopier  = (*FS)(nil)
)

// Clean removes everything under dir except paths matched by ignore. Patterns
// are slash-separated and relative to dir; a pattern without a slash also
// matches base names at any depth.
func (f *FS) Clean(dir string, ignore []string) error {
	if err := guardDir(dir); err != nil {
		return err
	}

	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	var dirs []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == dir {
			return nil
		}
		rel, err := relSlash(dir, p)
		if err != nil {
			return err
		}
		if Match(ignore, rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			dirs = append(dirs, p)
			return nil
		}
		return os.Remove(p)
	})
	if err != nil {
		return &domain.OpError{
			Op:   "fsoutput.clean",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	// Deepest first; directories still holding kept files stay.
	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })
	for _, d := range dirs {
		_ = os.Remove(d)
	}
	return nil
}

// Remove deletes the given files. Paths that do not exist are skipped.
func (f *FS) Remove(paths ...string) error {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return &domain.OpError{
				Op:   "fsoutput.remove",
				Kind: domain.KindExecution,
				Path: p,
				Err:  err,
			}
		}
	}
	return nil
}

// Copy applies rules, copying files from each rule's source (relative to
// root) into outDir. It returns the written paths relative to outDir.
// Missing sources are skipped.
func (f *FS) Copy(root, outDir string, rules []domain.CopyRule) ([]string, error) {
	var written []string
	for _, r := range rules {
		src := r.From
		if !filepath.IsAbs(src) {
			src = filepath.Join(root, src)
		}
		info, err := os.Stat(src)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return written, copyErr(src, err)
		}

		if !info.IsDir() {
			dst := filepath.Join(outDir, filepath.FromSlash(r.To))
			if r.ToDir || r.To == "" {
				dst = filepath.Join(dst, filepath.Base(src))
			}
			if err := CopyFile(src, dst); err != nil {
				return written, copyErr(src, err)
			}
			written = append(written, mustRel(outDir, dst))
			continue
		}

		err = filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if p == src {
				return nil
			}
			rel, err := relSlash(src, p)
			if err != nil {
				return err
			}
			if Match(r.Ignore, rel) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			dst := filepath.Join(outDir, filepath.FromSlash(r.To), filepath.FromSlash(rel))
			if err := CopyFile(p, dst); err != nil {
				return err
			}
			written = append(written, mustRel(outDir, dst))
			return nil
		})
		if err != nil {
			return written, copyErr(src, err)
		}
	}
	sort.Strings(written)
	return written, nil
}

// Match reports whether rel matches any pattern.
func Match(patterns []string, rel string) bool {
	rel = path.Clean(filepath.ToSlash(rel))
	for _, p := range patterns {
		p = strings.TrimPrefix(filepath.ToSlash(strings.TrimSpace(p)), "./")
		if p == "" {
			continue
		}
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
		if dir, ok := strings.CutSuffix(p, "/**"); ok && dir == rel {
			return true
		}
		if !strings.Contains(p, "/") {
			if ok, err := doublestar.Match(p, path.Base(rel)); err == nil && ok {
				return true
			}
		}
	}
	return false
}

// Glob expands a slash-separated pattern relative to root. Results are sorted
// and only regular files are returned.
func Glob(root, pattern string) ([]string, error) {
	full := filepath.FromSlash(pattern)
	if !filepath.IsAbs(full) {
		full = filepath.Join(root, full)
	}
	hits, err := doublestar.FilepathGlob(full)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "fsoutput.glob",
			Kind: domain.KindInvalidConfig,
			Path: pattern,
			Err:  err,
		}
	}
	out := hits[:0]
	for _, h := range hits {
		if info, err := os.Stat(h); err == nil && info.Mode().IsRegular() {
			out = append(out, h)
		}
	}
	sort.Strings(out)
	return out, nil
}

// WriteFile writes b to p through a temporary file and a rename, creating
// parent directories as needed.
func WriteFile(p string, b []byte) error {
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// CopyFile copies a regular file, creating parent directories as needed.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func guardDir(dir string) error {
	clean := filepath.Clean(dir)
	if strings.TrimSpace(dir) == "" || clean == "." || clean == string(filepath.Separator) || clean == filepath.VolumeName(clean)+string(filepath.Separator) {
		return &domain.OpError{
			Op:   "fsoutput.clean",
			Kind: domain.KindInvalidConfig,
			Path: dir,
			Err:  errors.New("refusing to clean an empty or root directory"),
		}
	}
	return nil
}

func relSlash(base, p string) (string, error) {
	rel, err := filepath.Rel(base, p)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

func mustRel(base, p string) string {
	rel, err := relSlash(base, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return rel
}

func copyErr(p string, err error) error {
	return &domain.OpError{
		Op:   "fsoutput.copy",
		Kind: domain.KindExecution,
		Path: p,
		Err:  err,
	}
}
