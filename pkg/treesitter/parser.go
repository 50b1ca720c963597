package treesitter

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// Parse builds a syntax tree for content. A fresh parser is created per
// call; sitter.Parser instances are not safe for concurrent use.
func Parse(ctx context.Context, content []byte, lang *sitter.Language) (*sitter.Tree, error) {
	if lang == nil {
		return nil, fmt.Errorf("no grammar provided")
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	return tree, nil
}

// ParseNamed is like Parse but looks the grammar up by name.
func ParseNamed(ctx context.Context, content []byte, language string) (*sitter.Tree, error) {
	lang := GetLanguage(language)
	if lang == nil {
		return nil, fmt.Errorf("unsupported language: %s", language)
	}
	return Parse(ctx, content, lang)
}
