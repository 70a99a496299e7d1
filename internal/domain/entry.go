package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// DefaultCanonicalName is the canonical name used when the entry option is a
// bare request or list instead of a mapping.
const DefaultCanonicalName CanonicalName = "dll"

const rawKeyPrefix = "dll_"

// Group 1 matches the literal key "dll", group 2 captures <name> from "dll_<name>".
var canonicalKeyRE = regexp.MustCompile(`^(?:(dll)|dll_([A-Za-z]+))$`)

// EntryMap maps a logical bundle name to its ordered module requests.
// Every value is non-empty once it went through NormalizeEntry.
type EntryMap map[string][]string

// Names returns the entry names in sorted order.
func (m EntryMap) Names() []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy.
func (m EntryMap) Clone() EntryMap {
	if m == nil {
		return nil
	}
	out := make(EntryMap, len(m))
	for k, v := range m {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// CanonicalName identifies a pre-bundle shared by its entry, manifest and reference.
type CanonicalName string

// CanonicalEntries is the pre-bundle subset of an EntryMap keyed by canonical name.
type CanonicalEntries map[CanonicalName][]string

// Names returns the canonical names in sorted order.
func (c CanonicalEntries) Names() []CanonicalName {
	names := make([]CanonicalName, 0, len(c))
	for k := range c {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// EntryMap converts the canonical entries into a plain EntryMap keyed by
// canonical name, the shape a produce-mode pipeline compiles.
func (c CanonicalEntries) EntryMap() EntryMap {
	out := make(EntryMap, len(c))
	for k, v := range c {
		out[string(k)] = append([]string(nil), v...)
	}
	return out
}

// ParseCanonical maps a raw entry key to its canonical name. Keys that do not
// follow the "dll" / "dll_<name>" convention report false.
func ParseCanonical(key string) (CanonicalName, bool) {
	m := canonicalKeyRE.FindStringSubmatch(key)
	if m == nil {
		return "", false
	}
	if m[1] != "" {
		return DefaultCanonicalName, true
	}
	// "dll_dll" would collide with the plain "dll" key.
	if m[2] == string(DefaultCanonicalName) {
		return "", false
	}
	return CanonicalName(m[2]), true
}

// RawKeyFor is the inverse of ParseCanonical.
func RawKeyFor(name CanonicalName) string {
	if name == DefaultCanonicalName {
		return string(name)
	}
	return rawKeyPrefix + string(name)
}

// ValidCanonicalName reports whether name can round-trip through RawKeyFor.
func ValidCanonicalName(name CanonicalName) bool {
	got, ok := ParseCanonical(RawKeyFor(name))
	return ok && got == name
}

// Canonicalize extracts the pre-bundle entries from a raw entry map. Keys that
// do not match the naming convention belong to the main build and are dropped.
func Canonicalize(raw EntryMap) CanonicalEntries {
	out := CanonicalEntries{}
	for key, requests := range raw {
		name, ok := ParseCanonical(key)
		if !ok || len(requests) == 0 {
			continue
		}
		out[name] = append([]string(nil), requests...)
	}
	return out
}

// MainEntries returns the complement of Canonicalize: the entries the main
// build compiles itself.
func MainEntries(raw EntryMap) EntryMap {
	out := EntryMap{}
	for key, requests := range raw {
		if _, ok := ParseCanonical(key); ok {
			continue
		}
		out[key] = append([]string(nil), requests...)
	}
	return out
}

// NormalizeEntry coerces a loosely typed entry option into an EntryMap.
// A bare request or list becomes the "dll" entry; bare string values become
// one-element sequences; blank requests and empty sequences are dropped.
func NormalizeEntry(v any) EntryMap {
	out := EntryMap{}
	switch t := v.(type) {
	case nil:
	case string, []string, []any:
		if reqs := toRequests(t); len(reqs) > 0 {
			out[string(DefaultCanonicalName)] = reqs
		}
	case EntryMap:
		for k, val := range t {
			if reqs := toRequests(val); len(reqs) > 0 {
				out[k] = reqs
			}
		}
	case map[string][]string:
		for k, val := range t {
			if reqs := toRequests(val); len(reqs) > 0 {
				out[k] = reqs
			}
		}
	case map[string]string:
		for k, val := range t {
			if reqs := toRequests(val); len(reqs) > 0 {
				out[k] = reqs
			}
		}
	case map[string]any:
		for k, val := range t {
			if reqs := toRequests(val); len(reqs) > 0 {
				out[k] = reqs
			}
		}
	}
	return out
}

func toRequests(v any) []string {
	var raw []string
	switch t := v.(type) {
	case string:
		raw = []string{t}
	case []string:
		raw = t
	case []any:
		for _, item := range t {
			if item == nil {
				continue
			}
			raw = append(raw, fmt.Sprint(item))
		}
	default:
		return nil
	}

	out := make([]string, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r != "" {
			out = append(out, r)
		}
	}
	return out
}
