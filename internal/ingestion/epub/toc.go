package epub

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"path"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	apperr "github.com/CazadorHJT/MCAT-Prep-App/internal/pkg/errors"
)

// TOCNode is one entry of the table of contents. Nodes with children are groups.
type TOCNode struct {
	Title    string
	Href     string
	Children []TOCNode
}

// Flatten returns the leaves of nodes depth-first, left to right. Groups are not emitted.
func Flatten(nodes []TOCNode) []TOCNode {
	var out []TOCNode
	var walk func([]TOCNode)
	walk = func(ns []TOCNode) {
		for _, n := range ns {
			if len(n.Children) > 0 {
				walk(n.Children)
				continue
			}
			out = append(out, n)
		}
	}
	walk(nodes)
	return out
}

// TOC reads the EPUB 3 navigation document when the manifest declares one,
// otherwise the EPUB 2 NCX. Hrefs are returned as archive paths.
func (b *Book) TOC() ([]TOCNode, error) {
	if nav := b.itemWhere(func(it manifestItem) bool { return hasProperty(it.Properties, "nav") }); nav != nil {
		raw, ok, err := b.read(nav.Href)
		if err != nil {
			return nil, err
		}
		if ok {
			if nodes := parseNav(raw, path.Dir(nav.Href)); len(nodes) > 0 {
				return nodes, nil
			}
		}
	}

	ncx := b.itemWhere(func(it manifestItem) bool { return b.tocID != "" && it.ID == b.tocID })
	if ncx == nil {
		ncx = b.itemWhere(func(it manifestItem) bool { return it.MediaType == mediaTypeNCX })
	}
	if ncx == nil {
		return nil, nil
	}
	raw, ok, err := b.read(ncx.Href)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("missing ncx %s: %w", ncx.Href, apperr.ErrParse)
	}
	return parseNCX(raw, path.Dir(ncx.Href))
}

// ReadTOC opens the book at p and returns its raw nested table of contents.
func ReadTOC(p string) ([]TOCNode, error) {
	b, closeFn, err := Open(p)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	return b.TOC()
}

func (b *Book) itemWhere(pred func(manifestItem) bool) *manifestItem {
	for i := range b.manifest {
		if pred(b.manifest[i]) {
			return &b.manifest[i]
		}
	}
	return nil
}

func hasProperty(props, want string) bool {
	for _, p := range strings.Fields(props) {
		if p == want {
			return true
		}
	}
	return false
}

type ncxPoint struct {
	Label   string     `xml:"navLabel>text"`
	Content ncxContent `xml:"content"`
	Points  []ncxPoint `xml:"navPoint"`
}

type ncxContent struct {
	Src string `xml:"src,attr"`
}

func parseNCX(raw []byte, base string) ([]TOCNode, error) {
	var doc struct {
		Points []ncxPoint `xml:"navMap>navPoint"`
	}
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("ncx: %v: %w", err, apperr.ErrParse)
	}
	var convert func([]ncxPoint) []TOCNode
	convert = func(points []ncxPoint) []TOCNode {
		out := make([]TOCNode, 0, len(points))
		for _, p := range points {
			out = append(out, TOCNode{
				Title:    strings.TrimSpace(p.Label),
				Href:     resolve(base, p.Content.Src),
				Children: convert(p.Points),
			})
		}
		return out
	}
	return convert(doc.Points), nil
}

func parseNav(raw []byte, base string) []TOCNode {
	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil
	}
	var navs []*html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Nav {
			navs = append(navs, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(doc)
	if len(navs) == 0 {
		return nil
	}
	nav := navs[0]
	for _, n := range navs {
		if epubType(n) == "toc" {
			nav = n
			break
		}
	}
	list := firstChild(nav, atom.Ol)
	if list == nil {
		return nil
	}
	return navList(list, base)
}

func navList(ol *html.Node, base string) []TOCNode {
	var out []TOCNode
	for li := ol.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.DataAtom != atom.Li {
			continue
		}
		var node TOCNode
		for c := li.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.A:
				node.Title = strings.TrimSpace(nodeText(c))
				node.Href = resolve(base, attr(c, "href"))
			case atom.Span:
				if node.Title == "" {
					node.Title = strings.TrimSpace(nodeText(c))
				}
			case atom.Ol:
				node.Children = navList(c, base)
			}
		}
		out = append(out, node)
	}
	return out
}

func firstChild(n *html.Node, a atom.Atom) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if c.DataAtom == a {
			return c
		}
		if found := firstChild(c, a); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func epubType(n *html.Node) string {
	for _, a := range n.Attr {
		if a.Key == "epub:type" || (a.Namespace == "epub" && a.Key == "type") {
			return a.Val
		}
	}
	return ""
}
