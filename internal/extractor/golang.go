package extractor

import (
	"unicode"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/dpolishuk/repograph/pkg/treesitter"
)

type goGrammar struct{}

func (goGrammar) sitterLanguage() *sitter.Language {
	return treesitter.GetLanguage("go")
}

func (g goGrammar) collectSymbols(node *sitter.Node, src []byte, scope string, out *[]Symbol) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "function_declaration":
			if sym := buildSymbol(g, child, src, "function", scope, nil); sym != nil {
				*out = append(*out, *sym)
			}
		case "method_declaration":
			sym := buildSymbol(g, child, src, "method", scope, nil)
			if sym != nil {
				if recv := receiverType(child, src); recv != "" {
					sym.ParentClass = recv
				}
				*out = append(*out, *sym)
			}
		case "type_declaration":
			// One declaration can hold several type specs.
			for j := 0; j < int(child.NamedChildCount()); j++ {
				spec := child.NamedChild(j)
				if spec.Type() != "type_spec" {
					continue
				}
				if sym := buildSymbol(g, spec, src, "class", scope, nil); sym != nil {
					if doc := precedingComment(child, src); doc != "" {
						sym.Docstring = doc
					}
					*out = append(*out, *sym)
				}
			}
		default:
			g.collectSymbols(child, src, scope, out)
		}
	}
}

// receiverType reads the receiver's base type name off a method declaration.
func receiverType(node *sitter.Node, src []byte) string {
	recv := node.ChildByFieldName("receiver")
	if recv == nil || recv.NamedChildCount() == 0 {
		return ""
	}
	decl := recv.NamedChild(0)
	typ := decl.ChildByFieldName("type")
	if typ == nil {
		return ""
	}
	if typ.Type() == "pointer_type" && typ.NamedChildCount() > 0 {
		typ = typ.NamedChild(0)
	}
	if typ.Type() == "generic_type" {
		if base := typ.ChildByFieldName("type"); base != nil {
			typ = base
		}
	}
	return nodeText(typ, src)
}

func (goGrammar) docstring(node *sitter.Node, src []byte) string {
	return precedingComment(node, src)
}

func (goGrammar) visibility(node *sitter.Node, src []byte) string {
	return ""
}

func (goGrammar) importPattern() string {
	return "(import_declaration) @imp"
}

func (goGrammar) splitImport(raw string) (string, []string) {
	// No module source; the raw statement stays on the File node only.
	return "", []string{raw}
}

// exports lists capitalized top-level identifiers, following the language's
// export-by-case convention.
func (g goGrammar) exports(root *sitter.Node, src []byte) []string {
	exports := []string{}
	add := func(name string) {
		if name == "" {
			return
		}
		r, _ := utf8.DecodeRuneInString(name)
		if unicode.IsUpper(r) {
			exports = append(exports, name)
		}
	}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "function_declaration", "method_declaration":
			add(nodeText(child.ChildByFieldName("name"), src))
		case "type_declaration":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				if spec := child.NamedChild(j); spec.Type() == "type_spec" {
					add(nodeText(spec.ChildByFieldName("name"), src))
				}
			}
		}
	}
	return exports
}

func (goGrammar) callPattern() string {
	return `[
  (function_declaration name: (identifier) @fn_name body: (block) @body)
  (method_declaration name: (field_identifier) @fn_name body: (block) @body)
]`
}
