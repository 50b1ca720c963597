package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/dpolishuk/repograph/internal/extractor"
)

// GraphWriter ingests extraction results into Neo4j. All node identities
// are deterministic, so re-ingesting the same input is a no-op.
type GraphWriter struct {
	client *Neo4jClient
}

func NewGraphWriter(client *Neo4jClient) *GraphWriter {
	return &GraphWriter{client: client}
}

// FileID is the stable identity of a file node: repo name and relative
// path joined with a double colon.
func FileID(repoName, filePath string) string {
	return repoName + "::" + filePath
}

func symbolID(fileID string, s *extractor.Symbol) string {
	return fmt.Sprintf("%s::%s:%d", fileID, s.Name, s.StartLine)
}

// labelFor picks the node label for a symbol kind. Anything outside the
// known kinds lands on the generic Symbol label.
func labelFor(kind string) string {
	switch kind {
	case "class":
		return "Class"
	case "function", "method":
		return "Function"
	default:
		return "Symbol"
	}
}

var symbolLabels = []string{"Class", "Function", "Symbol"}

var schemaStatements = []string{
	"CREATE CONSTRAINT IF NOT EXISTS FOR (f:File) REQUIRE f.id IS UNIQUE",
	"CREATE CONSTRAINT IF NOT EXISTS FOR (c:Class) REQUIRE c.id IS UNIQUE",
	"CREATE CONSTRAINT IF NOT EXISTS FOR (fn:Function) REQUIRE fn.id IS UNIQUE",
	"CREATE INDEX IF NOT EXISTS FOR (fn:Function) ON (fn.name)",
	"CREATE INDEX IF NOT EXISTS FOR (c:Class) ON (c.name)",
}

// EnsureSchema creates the uniqueness constraints and name indexes the
// ingestion queries depend on. Safe to call on every startup.
func (w *GraphWriter) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if err := w.client.Run(ctx, stmt, nil); err != nil {
			return &StoreOperationError{Op: "ensure schema", Err: err}
		}
	}
	return nil
}

// IngestFile upserts one file's extraction result in a single write
// transaction: file node, module imports, symbol batches, then call and
// inheritance edges. Call and inheritance targets are matched by name
// within the repo, which can over-link same-named symbols.
func (w *GraphWriter) IngestFile(ctx context.Context, repoName, filePath string, res *extractor.Result) error {
	fileID := FileID(repoName, filePath)

	_, err := w.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := upsertFile(ctx, tx, fileID, repoName, filePath, res); err != nil {
			return nil, err
		}
		if err := upsertImports(ctx, tx, fileID, repoName, res.Imports); err != nil {
			return nil, err
		}
		if err := upsertSymbols(ctx, tx, fileID, res.Symbols); err != nil {
			return nil, err
		}
		if err := linkCalls(ctx, tx, fileID, repoName, res.Symbols); err != nil {
			return nil, err
		}
		if err := linkInheritance(ctx, tx, fileID, repoName, res.Symbols); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return &StoreOperationError{Op: "ingest " + filePath, Err: err}
	}
	return nil
}

func upsertFile(ctx context.Context, tx neo4j.ManagedTransaction, fileID, repoName, filePath string, res *extractor.Result) error {
	rawImports := make([]any, 0, len(res.Imports))
	for _, imp := range res.Imports {
		rawImports = append(rawImports, imp.Raw)
	}

	query := `
		MERGE (f:File {id: $id})
		SET f.path = $path,
		    f.repo = $repo,
		    f.language = $language,
		    f.imports = $imports,
		    f.exports = $exports
	`
	_, err := tx.Run(ctx, query, map[string]any{
		"id":       fileID,
		"path":     filePath,
		"repo":     repoName,
		"language": string(res.Language),
		"imports":  rawImports,
		"exports":  toAnySlice(res.Exports),
	})
	return err
}

// upsertImports merges one Module node per import source, scoped to the
// repo, with a dotted python path normalized to slashes.
func upsertImports(ctx context.Context, tx neo4j.ManagedTransaction, fileID, repoName string, imports []extractor.Import) error {
	batch := make([]any, 0, len(imports))
	for _, imp := range imports {
		if imp.Source == "" {
			continue
		}
		batch = append(batch, map[string]any{
			"mod_name": strings.ReplaceAll(imp.Source, ".", "/"),
			"names":    toAnySlice(imp.Names),
		})
	}
	if len(batch) == 0 {
		return nil
	}

	query := `
		UNWIND $batch AS imp
		MATCH (f:File {id: $fid})
		MERGE (m:Module {name: imp.mod_name, repo: $repo})
		MERGE (f)-[r:IMPORTS_FROM]->(m)
		SET r.names = imp.names
	`
	_, err := tx.Run(ctx, query, map[string]any{
		"batch": batch,
		"fid":   fileID,
		"repo":  repoName,
	})
	return err
}

// upsertSymbols batches symbols per label group through UNWIND. Params are
// stored as a JSON string, decorators as a comma-joined string.
func upsertSymbols(ctx context.Context, tx neo4j.ManagedTransaction, fileID string, symbols []extractor.Symbol) error {
	batches := map[string][]any{}
	for i := range symbols {
		s := &symbols[i]
		params, err := json.Marshal(s.Params)
		if err != nil {
			return err
		}
		label := labelFor(s.Kind)
		batches[label] = append(batches[label], map[string]any{
			"id":      symbolID(fileID, s),
			"name":    s.Name,
			"kind":    s.Kind,
			"preview": s.Preview,
			"doc":     s.Docstring,
			"sig":     s.Signature,
			"ret":     s.ReturnType,
			"vis":     s.Visibility,
			"parent":  s.ParentClass,
			"params":  string(params),
			"decos":   strings.Join(s.Decorators, ", "),
			"ls":      s.StartLine,
			"le":      s.EndLine,
		})
	}

	for _, label := range symbolLabels {
		batch := batches[label]
		if len(batch) == 0 {
			continue
		}
		query := fmt.Sprintf(`
			UNWIND $batch AS s
			MERGE (n:%s {id: s.id})
			SET n.name = s.name,
			    n.kind = s.kind,
			    n.preview = s.preview,
			    n.docstring = s.doc,
			    n.signature = s.sig,
			    n.return_type = s.ret,
			    n.visibility = s.vis,
			    n.parent_class = s.parent,
			    n.params = s.params,
			    n.decorators = s.decos,
			    n.line_start = s.ls,
			    n.line_end = s.le
			WITH n
			MATCH (f:File {id: $fid})
			MERGE (f)-[:CONTAINS]->(n)
		`, label)
		if _, err := tx.Run(ctx, query, map[string]any{"batch": batch, "fid": fileID}); err != nil {
			return err
		}
	}
	return nil
}

func linkCalls(ctx context.Context, tx neo4j.ManagedTransaction, fileID, repoName string, symbols []extractor.Symbol) error {
	batch := []any{}
	for i := range symbols {
		s := &symbols[i]
		if labelFor(s.Kind) != "Function" {
			continue
		}
		for _, callee := range s.Calls {
			batch = append(batch, map[string]any{
				"cid":  symbolID(fileID, s),
				"name": callee,
			})
		}
	}
	if len(batch) == 0 {
		return nil
	}

	query := `
		UNWIND $batch AS c
		MATCH (caller:Function {id: c.cid})
		MATCH (callee:Function {name: c.name})<-[:CONTAINS]-(:File {repo: $repo})
		MERGE (caller)-[:CALLS]->(callee)
	`
	_, err := tx.Run(ctx, query, map[string]any{"batch": batch, "repo": repoName})
	return err
}

func linkInheritance(ctx context.Context, tx neo4j.ManagedTransaction, fileID, repoName string, symbols []extractor.Symbol) error {
	batch := []any{}
	for i := range symbols {
		s := &symbols[i]
		if s.Kind != "class" {
			continue
		}
		for _, base := range s.Bases {
			batch = append(batch, map[string]any{
				"cid":  symbolID(fileID, s),
				"name": base,
			})
		}
	}
	if len(batch) == 0 {
		return nil
	}

	query := `
		UNWIND $batch AS c
		MATCH (child:Class {id: c.cid})
		MATCH (parent:Class {name: c.name})<-[:CONTAINS]-(:File {repo: $repo})
		MERGE (child)-[:INHERITS]->(parent)
	`
	_, err := tx.Run(ctx, query, map[string]any{"batch": batch, "repo": repoName})
	return err
}

func toAnySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
