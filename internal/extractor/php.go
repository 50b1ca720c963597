package extractor

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/dpolishuk/repograph/pkg/treesitter"
)

type phpGrammar struct{}

func (phpGrammar) sitterLanguage() *sitter.Language {
	return treesitter.GetLanguage("php")
}

func (g phpGrammar) collectSymbols(node *sitter.Node, src []byte, scope string, out *[]Symbol) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "function_definition":
			if sym := buildSymbol(g, child, src, "function", scope, nil); sym != nil {
				*out = append(*out, *sym)
			}
		case "method_declaration":
			if sym := buildSymbol(g, child, src, "method", scope, nil); sym != nil {
				*out = append(*out, *sym)
			}
		case "class_declaration", "interface_declaration", "trait_declaration":
			name := nodeText(child.ChildByFieldName("name"), src)
			if sym := buildSymbol(g, child, src, "class", scope, nil); sym != nil {
				sym.Bases = heritageBases(child, src)
				*out = append(*out, *sym)
			}
			if name != "" {
				g.collectSymbols(child, src, name, out)
			}
		default:
			g.collectSymbols(child, src, scope, out)
		}
	}
}

func (phpGrammar) docstring(node *sitter.Node, src []byte) string {
	return precedingComment(node, src)
}

func (phpGrammar) visibility(node *sitter.Node, src []byte) string {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if c := node.NamedChild(i); c.Type() == "visibility_modifier" {
			return nodeText(c, src)
		}
	}
	return ""
}

func (phpGrammar) importPattern() string {
	return "(namespace_use_declaration) @imp"
}

func (phpGrammar) splitImport(raw string) (string, []string) {
	// No module source; the raw statement stays on the File node only.
	return "", []string{raw}
}

func (phpGrammar) exports(root *sitter.Node, src []byte) []string {
	return []string{}
}

func (phpGrammar) callPattern() string {
	return ""
}
