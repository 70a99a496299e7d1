// Package htmldoc adds asset tags to the generated HTML document.
package htmldoc

import (
	"bytes"
	"errors"
	"strings"

	"github.com/aalvaropc/prebundle/internal/domain"
	"github.com/aalvaropc/prebundle/internal/ports"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Injector appends stylesheet links to <head> and script tags to <body>.
type Injector struct{}

func New() *Injector {
	return &Injector{}
}

var _ ports.DocumentInjector = (*Injector)(nil)

// Inject returns doc with one tag per entry of tags. Styles go to the head and
// scripts to the end of the body, both in the given order. URLs the document
// already references are skipped.
func (i *Injector) Inject(doc []byte, tags []domain.DocumentTag) ([]byte, error) {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, &domain.OpError{Op: "htmldoc.inject", Kind: domain.KindInvalidConfig, Err: err}
	}

	head := find(root, atom.Head)
	body := find(root, atom.Body)
	if head == nil || body == nil {
		return nil, &domain.OpError{
			Op:   "htmldoc.inject",
			Kind: domain.KindInvalidConfig,
			Err:  errors.New("document has no head or body"),
		}
	}

	seen := referenced(root)
	for _, t := range tags {
		if t.URL == "" || seen[t.URL] {
			continue
		}
		seen[t.URL] = true

		switch t.Class {
		case domain.AssetStyle:
			head.AppendChild(element(atom.Link, []html.Attribute{
				{Key: "rel", Val: "stylesheet"},
				{Key: "href", Val: t.URL},
			}))
		case domain.AssetScript:
			attrs := []html.Attribute{}
			if t.Module {
				attrs = append(attrs, html.Attribute{Key: "type", Val: "module"})
			}
			attrs = append(attrs, html.Attribute{Key: "src", Val: t.URL})
			body.AppendChild(element(atom.Script, attrs))
		}
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return nil, &domain.OpError{Op: "htmldoc.render", Kind: domain.KindExecution, Err: err}
	}
	return buf.Bytes(), nil
}

func element(a atom.Atom, attrs []html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

func find(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if hit := find(c, a); hit != nil {
			return hit
		}
	}
	return nil
}

// referenced collects every href of link tags and src of script tags.
func referenced(n *html.Node) map[string]bool {
	out := map[string]bool{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			key := ""
			switch n.DataAtom {
			case atom.Link:
				key = "href"
			case atom.Script:
				key = "src"
			}
			for _, a := range n.Attr {
				if key != "" && strings.EqualFold(a.Key, key) && a.Val != "" {
					out[a.Val] = true
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}
