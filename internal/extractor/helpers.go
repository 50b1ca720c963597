package extractor

import (
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
)

const (
	signatureWindow = 300
	previewWindow   = 120
)

func nodeText(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return n.Content(src)
}

// buildSymbol assembles a Symbol from a declaration node. The name comes
// from the "name" field, falling back to the "declarator" chain for C++
// style declarations. Returns nil when no name can be resolved.
func buildSymbol(g grammar, node *sitter.Node, src []byte, kind, scope string, decorators []string) *Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		nameNode = node.ChildByFieldName("declarator")
	}
	if nameNode == nil {
		return nil
	}
	if inner := nameNode.ChildByFieldName("declarator"); inner != nil {
		nameNode = inner
	}
	name := nodeText(nameNode, src)
	if name == "" {
		return nil
	}
	if decorators == nil {
		decorators = []string{}
	}

	return &Symbol{
		Name:        name,
		Kind:        kind,
		StartLine:   int(node.StartPoint().Row) + 1,
		EndLine:     int(node.EndPoint().Row) + 1,
		Preview:     previewText(node, src),
		Docstring:   g.docstring(node, src),
		Signature:   signatureText(node, src),
		Params:      paramList(node, src),
		ReturnType:  returnTypeText(node, src),
		Visibility:  g.visibility(node, src),
		ParentClass: scope,
		Decorators:  decorators,
		Bases:       []string{},
		Calls:       []string{},
	}
}

// signatureText is the declaration header: everything up to the body, or a
// bounded window when the node has no body field.
func signatureText(node *sitter.Node, src []byte) string {
	start := int(node.StartByte())
	end := int(node.EndByte())
	if body := node.ChildByFieldName("body"); body != nil {
		end = int(body.StartByte())
	} else if start+signatureWindow < end {
		end = runeBoundary(src, start+signatureWindow)
	}
	sig := strings.TrimRight(string(src[start:end]), " \t\r\n")
	sig = strings.TrimRight(sig, "{")
	sig = strings.TrimRight(sig, ":")
	return strings.TrimSpace(sig)
}

// previewText is the first line of the declaration, capped at a small
// window and never cut inside a multi-byte rune.
func previewText(node *sitter.Node, src []byte) string {
	start := int(node.StartByte())
	end := start + previewWindow
	if nodeEnd := int(node.EndByte()); end > nodeEnd {
		end = nodeEnd
	} else {
		end = runeBoundary(src, end)
	}
	window := string(src[start:end])
	if i := strings.IndexByte(window, '\n'); i >= 0 {
		window = window[:i]
	}
	return window
}

func runeBoundary(src []byte, i int) int {
	for i < len(src) && !utf8.RuneStart(src[i]) {
		i++
	}
	return i
}

// paramList reads the declared parameters, skipping receivers spelled as
// self or cls.
func paramList(node *sitter.Node, src []byte) []Param {
	params := []Param{}
	list := node.ChildByFieldName("parameters")
	if list == nil {
		list = node.ChildByFieldName("formal_parameters")
	}
	if list == nil {
		return params
	}
	for i := 0; i < int(list.NamedChildCount()); i++ {
		p := list.NamedChild(i)
		if p.Type() == "comment" {
			continue
		}
		name := nodeText(p.ChildByFieldName("name"), src)
		if name == "" {
			name = nodeText(p.ChildByFieldName("pattern"), src)
		}
		if name == "" {
			name = nodeText(p, src)
		}
		if name == "" || name == "self" || name == "cls" {
			continue
		}
		def := nodeText(p.ChildByFieldName("value"), src)
		if def == "" {
			def = nodeText(p.ChildByFieldName("default_value"), src)
		}
		params = append(params, Param{
			Name:    name,
			Type:    nodeText(p.ChildByFieldName("type"), src),
			Default: def,
		})
	}
	return params
}

func returnTypeText(node *sitter.Node, src []byte) string {
	ret := node.ChildByFieldName("return_type")
	if ret == nil {
		ret = node.ChildByFieldName("result")
	}
	if ret == nil {
		return ""
	}
	text := nodeText(ret, src)
	text = strings.TrimPrefix(text, "->")
	text = strings.TrimPrefix(text, ":")
	return strings.TrimSpace(text)
}

// precedingComment returns the comment immediately above a declaration,
// stripped of comment markers.
func precedingComment(node *sitter.Node, src []byte) string {
	prev := node.PrevNamedSibling()
	if prev == nil {
		return ""
	}
	switch prev.Type() {
	case "comment", "line_comment", "block_comment":
		text := nodeText(prev, src)
		text = strings.TrimPrefix(text, "//")
		text = strings.TrimPrefix(text, "/*")
		text = strings.TrimSuffix(text, "*/")
		text = strings.TrimPrefix(text, "#")
		return strings.TrimSpace(text)
	}
	return ""
}

// heritageBases reads extends/implements style clauses off a class-like
// declaration and returns the referenced type names.
func heritageBases(node *sitter.Node, src []byte) []string {
	bases := []string{}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		c := node.NamedChild(i)
		switch c.Type() {
		case "class_heritage", "extends_clause", "implements_clause", "superclass", "super_interfaces":
			text := nodeText(c, src)
			text = strings.ReplaceAll(text, "extends", "")
			text = strings.ReplaceAll(text, "implements", "")
			for _, b := range strings.Split(text, ",") {
				if b = strings.TrimSpace(b); b != "" {
					bases = append(bases, b)
				}
			}
		}
	}
	return bases
}
