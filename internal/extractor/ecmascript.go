package extractor

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/dpolishuk/repograph/pkg/treesitter"
)

// ecmaGrammar covers JavaScript and TypeScript; the two grammars share
// their statement-level shapes.
type ecmaGrammar struct {
	typescript bool
}

func (g ecmaGrammar) sitterLanguage() *sitter.Language {
	if g.typescript {
		return treesitter.GetLanguage("typescript")
	}
	return treesitter.GetLanguage("javascript")
}

func (g ecmaGrammar) collectSymbols(node *sitter.Node, src []byte, scope string, out *[]Symbol) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "function_declaration", "generator_function_declaration":
			if sym := buildSymbol(g, child, src, "function", scope, nil); sym != nil {
				*out = append(*out, *sym)
			}
		case "method_definition":
			if sym := buildSymbol(g, child, src, "method", scope, nil); sym != nil {
				*out = append(*out, *sym)
			}
		case "class_declaration":
			if sym := buildSymbol(g, child, src, "class", scope, nil); sym != nil {
				sym.Bases = heritageBases(child, src)
				*out = append(*out, *sym)
			}
			if name := nodeText(child.ChildByFieldName("name"), src); name != "" {
				g.collectSymbols(child, src, name, out)
			} else {
				g.collectSymbols(child, src, scope, out)
			}
		case "lexical_declaration", "variable_declaration":
			// const f = () => {} and friends count as functions.
			for j := 0; j < int(child.NamedChildCount()); j++ {
				decl := child.NamedChild(j)
				if decl.Type() != "variable_declarator" {
					continue
				}
				value := decl.ChildByFieldName("value")
				if value == nil {
					continue
				}
				switch value.Type() {
				case "arrow_function", "function_expression", "function":
					if sym := buildSymbol(g, decl, src, "function", scope, nil); sym != nil {
						*out = append(*out, *sym)
					}
				}
			}
		case "interface_declaration", "type_alias_declaration":
			if !g.typescript {
				continue
			}
			if sym := buildSymbol(g, child, src, "class", scope, nil); sym != nil {
				*out = append(*out, *sym)
			}
		default:
			g.collectSymbols(child, src, scope, out)
		}
	}
}

func (ecmaGrammar) docstring(node *sitter.Node, src []byte) string {
	return precedingComment(node, src)
}

func (ecmaGrammar) visibility(node *sitter.Node, src []byte) string {
	if p := node.Parent(); p != nil && p.Type() == "export_statement" {
		return "export"
	}
	return ""
}

func (ecmaGrammar) importPattern() string {
	return "(import_statement) @imp"
}

// splitImport decomposes `import { a, b } from 'mod'` into its module
// source and the imported names.
func (ecmaGrammar) splitImport(raw string) (string, []string) {
	text := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), ";"))
	rest, ok := strings.CutPrefix(text, "import ")
	if !ok {
		return "", []string{raw}
	}
	namesPart, source, found := strings.Cut(rest, " from ")
	if !found {
		// Side-effect import: no module source to resolve.
		return "", []string{raw}
	}
	source = strings.Trim(strings.TrimSpace(source), "'\"")

	var names []string
	for _, n := range strings.Split(namesPart, ",") {
		n = strings.Trim(n, "{} \t\r\n")
		if alias, ok := stripAlias(n); ok {
			n = alias
		}
		if n != "" {
			names = append(names, n)
		}
	}
	return source, names
}

func (g ecmaGrammar) exports(root *sitter.Node, src []byte) []string {
	exports := []string{}
	for _, node := range queryCaptures("(export_statement) @exp", g.sitterLanguage(), root, src, "exp") {
		exports = append(exports, previewText(node, src))
	}
	return exports
}

func (ecmaGrammar) callPattern() string {
	return `[
  (function_declaration name: (identifier) @fn_name body: (statement_block) @body)
  (method_definition name: (property_identifier) @fn_name body: (statement_block) @body)
]`
}
