package manifeststore

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aalvaropc/prebundle/internal/domain"
	"github.com/aalvaropc/prebundle/internal/ports"
)

// JSONStore reads and writes manifest files on the local filesystem.
type JSONStore struct {
	perm   fs.FileMode
	indent string
}

type Option func(*JSONStore)

// WithFileMode sets the permission bits of written manifests.
func WithFileMode(perm fs.FileMode) Option {
	return func(s *JSONStore) { s.perm = perm }
}

// WithCompact writes manifests without indentation.
func WithCompact() Option {
	return func(s *JSONStore) { s.indent = "" }
}

func NewJSONStore(opts ...Option) *JSONStore {
	s := &JSONStore{
		perm:   0o644,
		indent: "  ",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	_ ports.ManifestReader = (*JSONStore)(nil)
	_ ports.ManifestWriter = (*JSONStore)(nil)
)

func (s *JSONStore) ReadManifest(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		kind := domain.KindExecution
		if errors.Is(err, fs.ErrNotExist) {
			kind = domain.KindNotFound
		}
		return nil, &domain.OpError{
			Op:   "manifeststore.read",
			Kind: kind,
			Path: path,
			Err:  err,
		}
	}
	return b, nil
}

func (s *JSONStore) WriteManifest(path string, m domain.Manifest) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &domain.OpError{
			Op:   "manifeststore.mkdir",
			Kind: domain.KindExecution,
			Path: filepath.Dir(path),
			Err:  err,
		}
	}

	if m.Content == nil {
		m.Content = map[string]domain.ModuleRef{}
	}

	var (
		b   []byte
		err error
	)
	if s.indent != "" {
		b, err = json.MarshalIndent(m, "", s.indent)
	} else {
		b, err = json.Marshal(m)
	}
	if err != nil {
		return &domain.OpError{
			Op:   "manifeststore.marshal",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	// Atomic-ish write: tmp then rename.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(b, '\n'), s.perm); err != nil {
		return &domain.OpError{
			Op:   "manifeststore.write",
			Kind: domain.KindExecution,
			Path: tmp,
			Err:  err,
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &domain.OpError{
			Op:   "manifeststore.rename",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	return nil
}
