package extractor

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/dpolishuk/repograph/pkg/treesitter"
)

type pythonGrammar struct{}

func (pythonGrammar) sitterLanguage() *sitter.Language {
	return treesitter.GetLanguage("python")
}

func (g pythonGrammar) collectSymbols(node *sitter.Node, src []byte, scope string, out *[]Symbol) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "function_definition", "decorated_definition":
			def := child
			var decorators []string
			if child.Type() == "decorated_definition" {
				decorators = decoratorList(child, src)
				if d := child.ChildByFieldName("definition"); d != nil {
					def = d
				}
			}
			if def.Type() == "class_definition" {
				g.collectClass(def, src, scope, decorators, out)
				continue
			}
			kind := "function"
			if scope != "" {
				kind = "method"
			}
			if sym := buildSymbol(g, def, src, kind, scope, decorators); sym != nil {
				*out = append(*out, *sym)
			}
		case "class_definition":
			g.collectClass(child, src, scope, nil, out)
		default:
			g.collectSymbols(child, src, scope, out)
		}
	}
}

func (g pythonGrammar) collectClass(node *sitter.Node, src []byte, scope string, decorators []string, out *[]Symbol) {
	if sym := buildSymbol(g, node, src, "class", scope, decorators); sym != nil {
		sym.Bases = pythonBases(node, src)
		*out = append(*out, *sym)
	}
	if name := nodeText(node.ChildByFieldName("name"), src); name != "" {
		g.collectSymbols(node, src, name, out)
	}
}

// docstring prefers the PEP 257 string literal at the top of the body, then
// falls back to a comment right above the definition.
func (pythonGrammar) docstring(node *sitter.Node, src []byte) string {
	if body := node.ChildByFieldName("body"); body != nil && body.NamedChildCount() > 0 {
		first := body.NamedChild(0)
		if first.Type() == "expression_statement" && first.NamedChildCount() > 0 {
			if inner := first.NamedChild(0); inner.Type() == "string" {
				s := nodeText(inner, src)
				return strings.TrimSpace(strings.Trim(s, "\"'"))
			}
		}
	}
	return precedingComment(node, src)
}

func (pythonGrammar) visibility(node *sitter.Node, src []byte) string {
	name := nodeText(node.ChildByFieldName("name"), src)
	switch {
	case strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__"):
		return "dunder"
	case strings.HasPrefix(name, "_"):
		return "private"
	default:
		return "public"
	}
}

func (pythonGrammar) importPattern() string {
	return "(import_statement) @imp\n(import_from_statement) @imp"
}

func (pythonGrammar) splitImport(raw string) (string, []string) {
	text := strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(text, "from "); ok {
		source, namesPart, found := strings.Cut(rest, " import ")
		if !found {
			return strings.TrimSpace(rest), nil
		}
		var names []string
		for _, n := range strings.Split(namesPart, ",") {
			n = strings.Trim(n, "() \t\r\n")
			if alias, ok := stripAlias(n); ok {
				n = alias
			}
			if n != "" {
				names = append(names, n)
			}
		}
		return strings.TrimSpace(source), names
	}
	if rest, ok := strings.CutPrefix(text, "import "); ok {
		// Plain imports carry no source; only from-imports name a module.
		return "", []string{strings.TrimSpace(rest)}
	}
	return "", []string{raw}
}

// stripAlias drops an "as alias" suffix, keeping the original name.
func stripAlias(s string) (string, bool) {
	if name, _, found := strings.Cut(s, " as "); found {
		return strings.TrimSpace(name), true
	}
	return s, false
}

func (pythonGrammar) exports(root *sitter.Node, src []byte) []string {
	return []string{}
}

func (pythonGrammar) callPattern() string {
	return "(function_definition name: (identifier) @fn_name body: (block) @body)"
}

func pythonBases(node *sitter.Node, src []byte) []string {
	bases := []string{}
	supers := node.ChildByFieldName("superclasses")
	if supers == nil {
		return bases
	}
	for i := 0; i < int(supers.NamedChildCount()); i++ {
		if b := nodeText(supers.NamedChild(i), src); b != "" {
			bases = append(bases, b)
		}
	}
	return bases
}

func decoratorList(node *sitter.Node, src []byte) []string {
	decorators := []string{}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if c := node.NamedChild(i); c.Type() == "decorator" {
			decorators = append(decorators, nodeText(c, src))
		}
	}
	return decorators
}
