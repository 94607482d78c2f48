package grammar

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// ParseMarkdown reads a literate grammar: the first fenced code block tagged
// "grammar" (text format) or "yaml" is the definition. When the definition
// has no name, the first level one heading is used.
func ParseMarkdown(source string, content []byte) (*Definition, error) {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
	)

	doc := md.Parser().Parse(text.NewReader(content))

	var (
		title string
		block *ast.FencedCodeBlock
		info  string
	)

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			if node.Level == 1 && title == "" {
				title = headingText(node, content)
			}
		case *ast.FencedCodeBlock:
			lang := strings.ToLower(strings.TrimSpace(codeBlockInfo(node, content)))
			if lang == "grammar" || lang == "yaml" {
				block = node
				info = lang

				return ast.WalkStop, nil
			}
		}

		return ast.WalkContinue, nil
	})

	if block == nil {
		return nil, ErrNoGrammarBlock
	}

	body := codeBlockContent(block, content)

	var (
		def *Definition
		err error
	)

	if info == "yaml" {
		def, err = ParseYAML([]byte(body))
	} else {
		def, err = ParseDSL(source, body)
	}

	if err != nil {
		return nil, err
	}

	if def.Name == "" {
		def.Name = title
	}

	return def, nil
}

func codeBlockInfo(block *ast.FencedCodeBlock, content []byte) string {
	if block.Info != nil {
		segment := block.Info.Segment
		info := string(content[segment.Start:segment.Stop])

		// "grammar title=..." keeps only the language
		if i := strings.IndexAny(info, " \t"); i >= 0 {
			info = info[:i]
		}

		return info
	}

	return ""
}

func codeBlockContent(block ast.Node, content []byte) string {
	var result strings.Builder

	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		result.Write(content[line.Start:line.Stop])
	}

	return result.String()
}

func headingText(heading ast.Node, content []byte) string {
	var result strings.Builder

	ast.Walk(heading, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		if t, ok := n.(*ast.Text); ok {
			result.Write(t.Segment.Value(content))
		}

		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(result.String())
}
