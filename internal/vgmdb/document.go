package vgmdb

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ErrUnparsable reports injected markup that could not be turned into a
// usable document tree. Network fetches never return it: transport
// failures are replaced by a synthetic error document instead.
var ErrUnparsable = errors.New("vgmdb: unparsable content")

// Document wraps the parsed page behind a narrow query surface so the
// extractors never touch the parsing library's object model directly.
// A Document is read-only after parse and owned by one extraction pass.
type Document struct {
	doc *goquery.Document
}

// Node is one element of the document tree.
type Node struct {
	sel *goquery.Selection
}

// ParseDocument builds a Document from raw markup. Markup that yields
// an empty tree (nothing in <body>) is rejected as unparsable; this is
// the injection path's programmer-facing failure, not a soft default.
func ParseDocument(markup string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparsable, err)
	}
	body := doc.Find("body")
	if body.Length() == 0 || (body.Children().Length() == 0 && strings.TrimSpace(body.Text()) == "") {
		return nil, fmt.Errorf("%w: empty document", ErrUnparsable)
	}
	return &Document{doc: doc}, nil
}

// First returns the first node matching the selector.
func (d *Document) First(selector string) (*Node, bool) {
	sel := d.doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil, false
	}
	return &Node{sel: sel}, true
}

// All returns every node matching the selector, in document order.
func (d *Document) All(selector string) []*Node {
	return collect(d.doc.Find(selector))
}

func (n *Node) First(selector string) (*Node, bool) {
	sel := n.sel.Find(selector).First()
	if sel.Length() == 0 {
		return nil, false
	}
	return &Node{sel: sel}, true
}

func (n *Node) All(selector string) []*Node {
	return collect(n.sel.Find(selector))
}

func (n *Node) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}

func (n *Node) HasAttr(name string) bool {
	_, ok := n.sel.Attr(name)
	return ok
}

// Text returns the node's combined text content.
func (n *Node) Text() string {
	return n.sel.Text()
}

// StrippedStrings returns the node's text tokens in document order,
// whitespace-trimmed, with empty tokens dropped.
func (n *Node) StrippedStrings() []string {
	raw := n.RawStrings()
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// RawStrings returns every text node under this node as-is, including
// whitespace-only ones. The track extractor keys its row heuristics off
// these, so they must not be trimmed or filtered here.
func (n *Node) RawStrings() []string {
	var out []string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			out = append(out, node.Data)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, node := range n.sel.Nodes {
		walk(node)
	}
	return out
}

func collect(sel *goquery.Selection) []*Node {
	out := make([]*Node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, &Node{sel: s})
	})
	return out
}
