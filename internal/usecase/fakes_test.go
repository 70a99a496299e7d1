package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/aalvaropc/prebundle/internal/domain"
)

// --- fakes shared by the usecase tests ---

// memReader serves manifests from memory keyed by path.
type memReader struct {
	files map[string][]byte
	reads []string
}

func (r *memReader) ReadManifest(path string) ([]byte, error) {
	r.reads = append(r.reads, path)
	b, ok := r.files[path]
	if !ok {
		return nil, &domain.OpError{
			Op:   "memreader.read",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  fs.ErrNotExist,
		}
	}
	return b, nil
}

func manifestJSON(name string, requests ...string) []byte {
	m := domain.Manifest{Name: name, Content: map[string]domain.ModuleRef{}}
	for _, r := range requests {
		m.Content[r] = domain.ModuleRef{ID: r, Request: r}
	}
	b, err := json.Marshal(m)
	if err != nil {
		panic(err)
	}
	return b
}

type fakeBundler struct {
	calls  []domain.Pipeline
	result domain.BuildResult
	err    error
}

func (b *fakeBundler) Build(_ context.Context, p domain.Pipeline) (domain.BuildResult, error) {
	b.calls = append(b.calls, p)
	return b.result, b.err
}

type cleanCall struct {
	dir    string
	ignore []string
}

type fakeCleaner struct {
	calls   []cleanCall
	removed []string
	err     error
}

func (c *fakeCleaner) Remove(paths ...string) error {
	c.removed = append(c.removed, paths...)
	return c.err
}

func (c *fakeCleaner) Clean(dir string, ignore []string) error {
	c.calls = append(c.calls, cleanCall{dir: dir, ignore: append([]string(nil), ignore...)})
	return c.err
}

// recordHandler captures log records so tests can count warnings.
type recordHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *recordHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordHandler) WithGroup(string) slog.Handler      { return h }

func (h *recordHandler) count(level slog.Level) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, r := range h.records {
		if r.Level == level {
			n++
		}
	}
	return n
}

func (h *recordHandler) messages() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.records))
	for _, r := range h.records {
		out = append(out, fmt.Sprintf("%s %s", r.Level, r.Message))
	}
	return out
}
