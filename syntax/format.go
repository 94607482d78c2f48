package syntax

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"github.com/goccy/go-yaml"
)

// ErrUnknownFormat is returned for an output format name that is not supported.
var ErrUnknownFormat = errors.New("unknown output format")

// Format selects the AST serialization.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXML  Format = "xml"
	FormatTree Format = "tree"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatYAML, FormatXML, FormatTree}

// ParseFormat converts a format name, case insensitively.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, name)
}

// Options controls encoding.
type Options struct {
	// Source is written as the document source name when set.
	Source string
	// Positions adds line, column and offset of every leaf.
	Positions bool
	// Pretty indents JSON output.
	Pretty bool
}

// Document is the serializable form of a parse result.
type Document struct {
	Source string   `json:"source,omitempty" yaml:"source,omitempty"`
	AST    *Element `json:"ast" yaml:"ast"`
}

// Element is the serializable form of a Node. Pos holds line, column and
// offset of the matched text.
type Element struct {
	Kind     string    `json:"kind" yaml:"kind"`
	Symbol   string    `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	Value    any       `json:"value,omitempty" yaml:"value,omitempty"`
	Pos      *[3]int   `json:"pos,omitempty" yaml:"pos,omitempty,flow"`
	Children []Element `json:"children,omitempty" yaml:"children,omitempty"`
}

// NewDocument converts node.
func NewDocument(node *Node, opts Options) *Document {
	doc := &Document{Source: opts.Source}
	if node != nil {
		element := convertNode(node, opts)
		doc.AST = &element
	}

	return doc
}

func convertNode(node *Node, opts Options) Element {
	element := Element{
		Kind:  node.Kind,
		Value: node.Value,
	}

	if tok, ok := node.Token(); ok {
		element.Symbol = tok.Symbol
		if opts.Positions {
			at := tok.Location.At
			element.Pos = &[3]int{at.Line, at.Column, at.Offset}
		}
	}

	for _, child := range node.Children {
		if child == nil {
			continue
		}

		element.Children = append(element.Children, convertNode(child, opts))
	}

	return element
}

// Encode writes node to w in the given format.
func Encode(w io.Writer, node *Node, format Format, opts Options) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, NewDocument(node, opts), opts.Pretty)
	case FormatYAML:
		return writeYAML(w, NewDocument(node, opts))
	case FormatXML:
		return writeXML(w, node, opts)
	case FormatTree:
		return writeTree(w, node, opts)
	}

	return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}

func writeJSON(w io.Writer, doc *Document, pretty bool) error {
	encoder := json.NewEncoder(w)
	if pretty {
		encoder.SetIndent("", "  ")
	}

	return encoder.Encode(doc)
}

func writeYAML(w io.Writer, doc *Document) error {
	data, err := yaml.MarshalWithOptions(doc, yaml.Indent(2), yaml.IndentSequence(true))
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

func writeXML(w io.Writer, node *Node, opts Options) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("ast")
	if opts.Source != "" {
		root.CreateAttr("source", opts.Source)
	}

	if node != nil {
		appendXML(root, node, opts)
	}

	doc.Indent(2)
	_, err := doc.WriteTo(w)

	return err
}

func appendXML(parent *etree.Element, node *Node, opts Options) {
	if tok, ok := node.Token(); ok {
		el := parent.CreateElement("token")
		el.CreateAttr("name", tok.Name)

		if opts.Positions {
			at := tok.Location.At
			el.CreateAttr("line", fmt.Sprint(at.Line))
			el.CreateAttr("column", fmt.Sprint(at.Column))
			el.CreateAttr("offset", fmt.Sprint(at.Offset))
		}

		el.SetText(tok.Symbol)

		return
	}

	el := parent.CreateElement("node")
	el.CreateAttr("kind", node.Kind)

	if node.Value != nil {
		el.CreateAttr("value", fmt.Sprint(node.Value))
	}

	for _, child := range node.Children {
		if child != nil {
			appendXML(el, child, opts)
		}
	}
}

func writeTree(w io.Writer, node *Node, opts Options) error {
	var b strings.Builder

	node.Walk(func(n *Node, depth int) bool {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(n.Kind)

		if tok, ok := n.Token(); ok {
			fmt.Fprintf(&b, " %q", tok.Symbol)

			if opts.Positions {
				fmt.Fprintf(&b, " @%s", tok.Location.At)
			}
		} else if n.Value != nil {
			fmt.Fprintf(&b, " = %v", n.Value)
		}

		b.WriteByte('\n')

		return true
	})

	_, err := io.WriteString(w, b.String())

	return err
}
