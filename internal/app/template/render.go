package template

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aalvaropc/prebundle/internal/domain"
)

// Values fills the placeholders of a filename template.
type Values struct {
	Name string
	// Ext is the extension without the leading dot.
	Ext         string
	Hash        string
	ContentHash string
}

// Render replaces [name], [ext], [hash], [hash:N], [contenthash] and
// [contenthash:N] placeholders. It returns an error if a placeholder is
// unknown or malformed.
func Render(tpl string, v Values) (string, error) {
	if tpl == "" {
		return "", nil
	}

	var out strings.Builder
	rest := tpl
	for {
		start := strings.IndexByte(rest, '[')
		if start == -1 {
			out.WriteString(rest)
			return out.String(), nil
		}

		out.WriteString(rest[:start])
		rest = rest[start+1:]

		end := strings.IndexByte(rest, ']')
		if end == -1 {
			return "", invalid(tpl, "unclosed placeholder")
		}

		value, err := placeholder(rest[:end], v)
		if err != nil {
			return "", invalid(tpl, err.Error())
		}

		out.WriteString(value)
		rest = rest[end+1:]
	}
}

// Validate reports whether every placeholder in tpl is known.
func Validate(tpl string) error {
	_, err := Render(tpl, Values{Name: "x", Ext: "x", Hash: "x", ContentHash: "x"})
	return err
}

// Glob turns a template into a glob pattern by replacing every placeholder
// with "*".
func Glob(tpl string) string {
	var out strings.Builder
	rest := tpl
	for {
		start := strings.IndexByte(rest, '[')
		if start == -1 {
			out.WriteString(rest)
			return out.String()
		}
		end := strings.IndexByte(rest[start:], ']')
		if end == -1 {
			out.WriteString(rest)
			return out.String()
		}
		out.WriteString(rest[:start])
		out.WriteByte('*')
		rest = rest[start+end+1:]
	}
}

func placeholder(expr string, v Values) (string, error) {
	key, size, hasSize := strings.Cut(strings.TrimSpace(expr), ":")
	n := 0
	if hasSize {
		var err error
		n, err = strconv.Atoi(size)
		if err != nil || n <= 0 {
			return "", fmt.Errorf("invalid length in [%s]", expr)
		}
	}

	switch key {
	case "name":
		if hasSize {
			return "", fmt.Errorf("[name] takes no length")
		}
		return v.Name, nil
	case "ext":
		if hasSize {
			return "", fmt.Errorf("[ext] takes no length")
		}
		return v.Ext, nil
	case "hash":
		return truncate(v.Hash, n), nil
	case "contenthash":
		return truncate(v.ContentHash, n), nil
	case "":
		return "", fmt.Errorf("empty placeholder")
	default:
		return "", fmt.Errorf("unknown placeholder [%s]", expr)
	}
}

func truncate(s string, n int) string {
	if n > 0 && n < len(s) {
		return s[:n]
	}
	return s
}

func invalid(tpl, msg string) error {
	return &domain.OpError{
		Op:   "template.render",
		Kind: domain.KindInvalidConfig,
		Err:  fmt.Errorf("filename %q: %s: %w", tpl, msg, domain.ErrInvalidConfig),
	}
}

// ToEsbuild rewrites a template into esbuild's naming syntax. Hash
// placeholders of any length become [hash] and a trailing extension is
// dropped, since esbuild appends the extension itself.
func ToEsbuild(tpl string) string {
	var out strings.Builder
	rest := tpl
	for {
		start := strings.IndexByte(rest, '[')
		if start == -1 {
			out.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[start:], ']')
		if end == -1 {
			out.WriteString(rest)
			break
		}
		out.WriteString(rest[:start])
		key, _, _ := strings.Cut(rest[start+1:start+end], ":")
		switch key {
		case "hash", "contenthash":
			out.WriteString("[hash]")
		default:
			out.WriteString(rest[start : start+end+1])
		}
		rest = rest[start+end+1:]
	}

	s := out.String()
	if strings.HasSuffix(s, ".[ext]") {
		return strings.TrimSuffix(s, ".[ext]")
	}
	if i := strings.LastIndexByte(s, '.'); i > strings.LastIndexByte(s, '/') && !strings.Contains(s[i:], "[") {
		return s[:i]
	}
	return s
}
