package extractor

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// grammar is the per-language capability surface. Symbol collection is a
// manual tree walk with explicit scope threading; imports, exports and
// the call graph run as tree-sitter queries.
type grammar interface {
	sitterLanguage() *sitter.Language

	// collectSymbols appends the declarations found under node. scope is
	// the name of the enclosing class-like declaration, empty at top level.
	collectSymbols(node *sitter.Node, src []byte, scope string, out *[]Symbol)

	// importPattern returns a query whose "imp" captures are import
	// statements, or "" when the language has none worth tracking.
	importPattern() string

	// splitImport decomposes a raw import statement into its source module
	// and imported names. Languages without a meaningful split return the
	// raw text as source and no names.
	splitImport(raw string) (source string, names []string)

	// exports lists exported identifiers, empty where the language has no
	// explicit export construct.
	exports(root *sitter.Node, src []byte) []string

	// callPattern returns a query capturing function definitions as
	// "fn_name" plus "body", or "" to skip call-graph extraction.
	callPattern() string

	docstring(node *sitter.Node, src []byte) string
	visibility(node *sitter.Node, src []byte) string
}

var grammars = map[Language]grammar{
	Python:     pythonGrammar{},
	TypeScript: ecmaGrammar{typescript: true},
	JavaScript: ecmaGrammar{},
	Rust:       rustGrammar{},
	Go:         goGrammar{},
	Java:       javaGrammar{},
	Cpp:        cppGrammar{},
	Ruby:       rubyGrammar{},
	Php:        phpGrammar{},
}

// queryCaptures runs pattern against root and returns the nodes captured
// under the given capture name, in document order. Query errors yield nil;
// patterns are fixed per grammar and validated by tests.
func queryCaptures(pattern string, lang *sitter.Language, root *sitter.Node, src []byte, capture string) []*sitter.Node {
	q, err := sitter.NewQuery([]byte(pattern), lang)
	if err != nil {
		return nil
	}
	defer q.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, root)

	var nodes []*sitter.Node
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		m = qc.FilterPredicates(m, src)
		for _, c := range m.Captures {
			if q.CaptureNameForId(c.Index) == capture {
				nodes = append(nodes, c.Node)
			}
		}
	}
	return nodes
}

func collectImports(g grammar, root *sitter.Node, src []byte) []Import {
	imports := []Import{}
	pattern := g.importPattern()
	if pattern == "" {
		return imports
	}
	for _, node := range queryCaptures(pattern, g.sitterLanguage(), root, src, "imp") {
		raw := node.Content(src)
		source, names := g.splitImport(raw)
		if names == nil {
			names = []string{}
		}
		imports = append(imports, Import{Raw: raw, Source: source, Names: names})
	}
	return imports
}
