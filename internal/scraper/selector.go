package scraper

import (
	"strings"

	"golang.org/x/net/html"
)

// selector is a parsed "tag.class" expression. Either part may be
// empty: ".price" matches any tag with the class, "span" matches any
// span regardless of class.
type selector struct {
	tag   string
	class string
}

// parseSelector splits a "tag.class" expression at the first dot.
func parseSelector(expr string) selector {
	expr = strings.TrimSpace(expr)
	tag, class, found := strings.Cut(expr, ".")
	if !found {
		return selector{tag: expr}
	}
	return selector{tag: tag, class: class}
}

// isZero reports whether the selector matches nothing (empty expression).
func (s selector) isZero() bool {
	return s.tag == "" && s.class == ""
}

// matches reports whether an element node satisfies the selector.
func (s selector) matches(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if s.tag != "" && n.Data != s.tag {
		return false
	}
	if s.class != "" {
		for _, class := range strings.Fields(getAttr(n, "class")) {
			if class == s.class {
				return true
			}
		}
		return false
	}
	return true
}

// findAll walks the tree depth-first and collects every node matching
// the selector. Matching nodes' subtrees are not descended into, so
// nested containers yield one result, not two.
func findAll(n *html.Node, s selector) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if s.matches(n) {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// findFirst returns the first node matching the selector, or nil.
func findFirst(n *html.Node, s selector) *html.Node {
	if s.matches(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, s); found != nil {
			return found
		}
	}
	return nil
}

// textContent returns the concatenated text of a subtree with
// whitespace collapsed.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// getAttr returns the value of the named attribute, or "".
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
