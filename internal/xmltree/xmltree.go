// Package xmltree parses an XML document into the plain (tag, value or
// children) node tree the ingestion layer descends. Attributes, comments
// and processing instructions are discarded; the configuration dialect
// carries everything in element names and character data.
package xmltree

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Node is one XML element. Text is the trimmed character data directly
// inside the element; Children preserves document order.
type Node struct {
	Tag      string
	Text     string
	Children []*Node
}

// Parse decodes data and checks that the document root carries rootTag.
func Parse(data []byte, rootTag string) (*Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var root *Node
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed document: %w", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			root, err = decodeElement(dec, start)
			if err != nil {
				return nil, err
			}
			break
		}
	}
	if root == nil {
		return nil, fmt.Errorf("document has no root element")
	}
	if root.Tag != rootTag {
		return nil, fmt.Errorf("root element is %q, expected %q", root.Tag, rootTag)
	}
	return root, nil
}

func decodeElement(dec *xml.Decoder, start xml.StartElement) (*Node, error) {
	node := &Node{Tag: start.Name.Local}
	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("malformed document: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := decodeElement(dec, t)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			node.Text = strings.TrimSpace(text.String())
			return node, nil
		}
	}
}

// Child returns the first direct child with the given tag, or nil.
func (n *Node) Child(tag string) *Node {
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// HasChild reports whether a direct child with the given tag exists.
func (n *Node) HasChild(tag string) bool {
	return n.Child(tag) != nil
}
