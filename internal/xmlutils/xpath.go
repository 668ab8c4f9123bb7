// Package xmlutils wraps gopkg.in/xmlpath.v2 for reading ISO 20022 documents.
package xmlutils

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/xmlpath.v2"
)

// Load parses an XML document.
func Load(r io.Reader) (*xmlpath.Node, error) {
	root, err := xmlpath.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	return root, nil
}

// Nodes returns every node matched by path under node.
func Nodes(node *xmlpath.Node, path *xmlpath.Path) []*xmlpath.Node {
	var nodes []*xmlpath.Node
	iter := path.Iter(node)
	for iter.Next() {
		nodes = append(nodes, iter.Node())
	}
	return nodes
}

// Values returns the cleaned text of every node matched by path.
func Values(node *xmlpath.Node, path *xmlpath.Path) []string {
	var values []string
	for _, n := range Nodes(node, path) {
		if v := CleanText(n.String()); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// First returns the cleaned text of the first non-empty match among paths,
// tried in order.
func First(node *xmlpath.Node, paths ...*xmlpath.Path) string {
	for _, p := range paths {
		if v, ok := p.String(node); ok {
			if v = CleanText(v); v != "" {
				return v
			}
		}
	}
	return ""
}

// CleanText collapses the whitespace and line breaks of XML text content.
func CleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
