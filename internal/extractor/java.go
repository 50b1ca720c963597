package extractor

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/dpolishuk/repograph/pkg/treesitter"
)

type javaGrammar struct{}

func (javaGrammar) sitterLanguage() *sitter.Language {
	return treesitter.GetLanguage("java")
}

func (g javaGrammar) collectSymbols(node *sitter.Node, src []byte, scope string, out *[]Symbol) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "class_declaration", "interface_declaration", "enum_declaration", "record_declaration":
			if sym := buildSymbol(g, child, src, "class", scope, nil); sym != nil {
				sym.Bases = heritageBases(child, src)
				*out = append(*out, *sym)
			}
			if name := nodeText(child.ChildByFieldName("name"), src); name != "" {
				g.collectSymbols(child, src, name, out)
			}
		case "method_declaration", "constructor_declaration":
			if sym := buildSymbol(g, child, src, "method", scope, nil); sym != nil {
				*out = append(*out, *sym)
			}
		default:
			g.collectSymbols(child, src, scope, out)
		}
	}
}

func (javaGrammar) docstring(node *sitter.Node, src []byte) string {
	return precedingComment(node, src)
}

func (javaGrammar) visibility(node *sitter.Node, src []byte) string {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if c := node.NamedChild(i); c.Type() == "modifiers" {
			return nodeText(c, src)
		}
	}
	return ""
}

func (javaGrammar) importPattern() string {
	return "(import_declaration) @imp"
}

func (javaGrammar) splitImport(raw string) (string, []string) {
	// No module source; the raw statement stays on the File node only.
	return "", []string{raw}
}

func (javaGrammar) exports(root *sitter.Node, src []byte) []string {
	return []string{}
}

func (javaGrammar) callPattern() string {
	return "(method_declaration name: (identifier) @fn_name body: (block) @body)"
}
