package extractor

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/dpolishuk/repograph/pkg/treesitter"
)

type rubyGrammar struct{}

func (rubyGrammar) sitterLanguage() *sitter.Language {
	return treesitter.GetLanguage("ruby")
}

func (g rubyGrammar) collectSymbols(node *sitter.Node, src []byte, scope string, out *[]Symbol) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "method", "singleton_method":
			kind := "function"
			if scope != "" {
				kind = "method"
			}
			if sym := buildSymbol(g, child, src, kind, scope, nil); sym != nil {
				*out = append(*out, *sym)
			}
		case "class", "module":
			name := nodeText(child.ChildByFieldName("name"), src)
			if sym := buildSymbol(g, child, src, "class", scope, nil); sym != nil {
				if sup := child.ChildByFieldName("superclass"); sup != nil && sup.NamedChildCount() > 0 {
					sym.Bases = []string{nodeText(sup.NamedChild(0), src)}
				}
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

func (rubyGrammar) docstring(node *sitter.Node, src []byte) string {
	return precedingComment(node, src)
}

func (rubyGrammar) visibility(node *sitter.Node, src []byte) string {
	return ""
}

func (rubyGrammar) importPattern() string {
	return `(call method: (identifier) @method (#eq? @method "require")) @imp`
}

func (rubyGrammar) splitImport(raw string) (string, []string) {
	// No module source; the raw statement stays on the File node only.
	return "", []string{raw}
}

func (rubyGrammar) exports(root *sitter.Node, src []byte) []string {
	return []string{}
}

func (rubyGrammar) callPattern() string {
	return ""
}
