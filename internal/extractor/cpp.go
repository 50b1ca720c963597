package extractor

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/dpolishuk/repograph/pkg/treesitter"
)

type cppGrammar struct{}

func (cppGrammar) sitterLanguage() *sitter.Language {
	return treesitter.GetLanguage("cpp")
}

func (g cppGrammar) collectSymbols(node *sitter.Node, src []byte, scope string, out *[]Symbol) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "function_definition":
			kind := "function"
			if scope != "" {
				kind = "method"
			}
			if sym := buildSymbol(g, child, src, kind, scope, nil); sym != nil {
				*out = append(*out, *sym)
			}
		case "class_specifier", "struct_specifier":
			name := nodeText(child.ChildByFieldName("name"), src)
			if name == "" {
				continue
			}
			if sym := buildSymbol(g, child, src, "class", scope, nil); sym != nil {
				*out = append(*out, *sym)
			}
			g.collectSymbols(child, src, name, out)
		default:
			g.collectSymbols(child, src, scope, out)
		}
	}
}

func (cppGrammar) docstring(node *sitter.Node, src []byte) string {
	return precedingComment(node, src)
}

func (cppGrammar) visibility(node *sitter.Node, src []byte) string {
	// Nearest access specifier above the declaration inside a class body.
	for s := node.PrevNamedSibling(); s != nil; s = s.PrevNamedSibling() {
		if s.Type() == "access_specifier" {
			return nodeText(s, src)
		}
	}
	return ""
}

func (cppGrammar) importPattern() string {
	return "(preproc_include) @imp"
}

func (cppGrammar) splitImport(raw string) (string, []string) {
	// No module source; the raw statement stays on the File node only.
	return "", []string{raw}
}

func (cppGrammar) exports(root *sitter.Node, src []byte) []string {
	return []string{}
}

func (cppGrammar) callPattern() string {
	return ""
}
