package tui

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

func renderEntryDetails(e entryItem) string {
	var b strings.Builder

	b.WriteString("Requests:\n")
	for _, r := range e.requests {
		b.WriteString("  - ")
		b.WriteString(r)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("Manifest: ")
	b.WriteString(e.manifest.FilePath)
	b.WriteString("\n")

	m := e.manifest.Content
	if m == nil {
		b.WriteString("  (missing; press d to produce)\n")
		return b.String()
	}

	b.WriteString("  library: ")
	b.WriteString(m.Name)
	b.WriteString("\n  modules: ")
	b.WriteString(strconv.Itoa(len(m.Content)))
	b.WriteString("\n")

	if len(m.Files) > 0 {
		b.WriteString("\nFiles:\n")
		for _, f := range m.Files {
			b.WriteString("  - ")
			b.WriteString(f)
			b.WriteString("\n")
		}
	}
	return b.String()
}
