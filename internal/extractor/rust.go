package extractor

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/dpolishuk/repograph/pkg/treesitter"
)

type rustGrammar struct{}

func (rustGrammar) sitterLanguage() *sitter.Language {
	return treesitter.GetLanguage("rust")
}

func (g rustGrammar) collectSymbols(node *sitter.Node, src []byte, scope string, out *[]Symbol) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "function_item":
			if sym := buildSymbol(g, child, src, "function", scope, nil); sym != nil {
				*out = append(*out, *sym)
			}
		case "struct_item", "enum_item", "trait_item":
			if sym := buildSymbol(g, child, src, "class", scope, nil); sym != nil {
				*out = append(*out, *sym)
			}
			if child.Type() == "trait_item" {
				if name := nodeText(child.ChildByFieldName("name"), src); name != "" {
					g.collectSymbols(child, src, name, out)
				}
			}
		case "impl_item":
			implType := nodeText(child.ChildByFieldName("type"), src)
			if implType == "" {
				implType = scope
			}
			g.collectSymbols(child, src, implType, out)
		default:
			g.collectSymbols(child, src, scope, out)
		}
	}
}

// docstring joins the contiguous run of doc comments directly above the
// item, top to bottom.
func (rustGrammar) docstring(node *sitter.Node, src []byte) string {
	var lines []string
	for s := node.PrevNamedSibling(); s != nil; s = s.PrevNamedSibling() {
		t := s.Type()
		if t != "line_comment" && t != "block_comment" {
			break
		}
		text := nodeText(s, src)
		text = strings.TrimPrefix(text, "///")
		text = strings.TrimPrefix(text, "//!")
		text = strings.TrimPrefix(text, "//")
		text = strings.TrimPrefix(text, "/*")
		text = strings.TrimSuffix(text, "*/")
		lines = append(lines, strings.TrimSpace(text))
	}
	if len(lines) == 0 {
		return ""
	}
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return strings.Join(lines, "\n")
}

func (rustGrammar) visibility(node *sitter.Node, src []byte) string {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if c := node.NamedChild(i); c.Type() == "visibility_modifier" {
			return nodeText(c, src)
		}
	}
	return ""
}

func (rustGrammar) importPattern() string {
	return "(use_declaration) @imp"
}

func (rustGrammar) splitImport(raw string) (string, []string) {
	// No module source; the raw statement stays on the File node only.
	return "", []string{raw}
}

func (g rustGrammar) exports(root *sitter.Node, src []byte) []string {
	exports := []string{}
	for _, node := range queryCaptures("(visibility_modifier) @exp", g.sitterLanguage(), root, src, "exp") {
		if parent := node.Parent(); parent != nil {
			if name := nodeText(parent.ChildByFieldName("name"), src); name != "" {
				exports = append(exports, name)
				continue
			}
		}
		exports = append(exports, nodeText(node, src))
	}
	return exports
}

func (rustGrammar) callPattern() string {
	return "(function_item name: (identifier) @fn_name body: (block) @body)"
}
