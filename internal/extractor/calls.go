package extractor

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// collectCallGraph maps function names to the names they call, keyed by the
// definition's own name. Callees are matched later purely by name, so two
// functions that share a name also share a call list.
func collectCallGraph(g grammar, root *sitter.Node, src []byte) map[string][]string {
	pattern := g.callPattern()
	if pattern == "" {
		return nil
	}
	q, err := sitter.NewQuery([]byte(pattern), g.sitterLanguage())
	if err != nil {
		return nil
	}
	defer q.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, root)

	calls := map[string][]string{}
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		m = qc.FilterPredicates(m, src)

		var name string
		var body *sitter.Node
		for _, c := range m.Captures {
			switch q.CaptureNameForId(c.Index) {
			case "fn_name":
				name = c.Node.Content(src)
			case "body":
				body = c.Node
			}
		}
		if name == "" || body == nil {
			continue
		}
		if callees := calleeNames(body, src); len(callees) > 0 {
			calls[name] = callees
		}
	}
	return calls
}

// calleeNames walks a function body and collects called names in document
// order, deduplicated. Method calls keep only the segment after the last
// dot, which makes the later name match deliberately coarse.
func calleeNames(body *sitter.Node, src []byte) []string {
	var names []string
	seen := map[string]bool{}

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "call", "call_expression", "method_invocation":
			target := n.ChildByFieldName("function")
			if target == nil {
				target = n.ChildByFieldName("name")
			}
			if target != nil {
				callee := target.Content(src)
				if i := strings.LastIndex(callee, "."); i >= 0 {
					callee = callee[i+1:]
				}
				if callee != "" && !seen[callee] {
					seen[callee] = true
					names = append(names, callee)
				}
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(body)
	return names
}
