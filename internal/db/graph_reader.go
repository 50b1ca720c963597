package db

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// GraphReader serves the read queries the API and the classifier run
// against an indexed repo. All reads are scoped by repo name.
type GraphReader struct {
	client *Neo4jClient
}

func NewGraphReader(client *Neo4jClient) *GraphReader {
	return &GraphReader{client: client}
}

type SymbolRecord struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Docstring   string `json:"docstring"`
	Signature   string `json:"signature"`
	ReturnType  string `json:"return_type"`
	Visibility  string `json:"visibility"`
	ParentClass string `json:"parent_class"`
	Params      string `json:"params"`
	Decorators  string `json:"decorators"`
	File        string `json:"file"`
	LineStart   int    `json:"line_start"`
	LineEnd     int    `json:"line_end"`
}

type FileRecord struct {
	Path     string `json:"path"`
	Language string `json:"language"`
}

type SymbolSummary struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Signature   string `json:"signature"`
	Docstring   string `json:"docstring"`
	ReturnType  string `json:"return_type"`
	Visibility  string `json:"visibility"`
	ParentClass string `json:"parent_class"`
	Params      string `json:"params"`
	Decorators  string `json:"decorators"`
}

type FileStructure struct {
	Path     string          `json:"path"`
	Language string          `json:"language"`
	Symbols  []SymbolSummary `json:"symbols"`
}

// GetAllSymbols returns every symbol in the repo with its containing file.
func (r *GraphReader) GetAllSymbols(ctx context.Context, repoName string) ([]SymbolRecord, error) {
	result, err := r.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (f:File {repo: $repo})-[:CONTAINS]->(s)
			RETURN s.name AS name,
			       s.kind AS kind,
			       s.docstring AS docstring,
			       s.signature AS signature,
			       s.return_type AS return_type,
			       s.visibility AS visibility,
			       s.parent_class AS parent_class,
			       s.params AS params,
			       s.decorators AS decorators,
			       f.path AS file,
			       s.line_start AS line_start,
			       s.line_end AS line_end
			ORDER BY f.path, s.line_start
		`
		records, err := tx.Run(ctx, query, map[string]any{"repo": repoName})
		if err != nil {
			return nil, err
		}

		symbols := []SymbolRecord{}
		for records.Next(ctx) {
			rec := records.Record()
			symbols = append(symbols, SymbolRecord{
				Name:        stringValue(rec, "name"),
				Kind:        stringValue(rec, "kind"),
				Docstring:   stringValue(rec, "docstring"),
				Signature:   stringValue(rec, "signature"),
				ReturnType:  stringValue(rec, "return_type"),
				Visibility:  stringValue(rec, "visibility"),
				ParentClass: stringValue(rec, "parent_class"),
				Params:      stringValue(rec, "params"),
				Decorators:  stringValue(rec, "decorators"),
				File:        stringValue(rec, "file"),
				LineStart:   intValue(rec, "line_start"),
				LineEnd:     intValue(rec, "line_end"),
			})
		}
		return symbols, records.Err()
	})
	if err != nil {
		return nil, &StoreOperationError{Op: "get all symbols", Err: err}
	}
	return result.([]SymbolRecord), nil
}

// GetAllFiles returns path and language for every file in the repo.
func (r *GraphReader) GetAllFiles(ctx context.Context, repoName string) ([]FileRecord, error) {
	result, err := r.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (f:File {repo: $repo})
			RETURN f.path AS path, f.language AS language
			ORDER BY f.path
		`
		records, err := tx.Run(ctx, query, map[string]any{"repo": repoName})
		if err != nil {
			return nil, err
		}

		files := []FileRecord{}
		for records.Next(ctx) {
			rec := records.Record()
			files = append(files, FileRecord{
				Path:     stringValue(rec, "path"),
				Language: stringValue(rec, "language"),
			})
		}
		return files, records.Err()
	})
	if err != nil {
		return nil, &StoreOperationError{Op: "get all files", Err: err}
	}
	return result.([]FileRecord), nil
}

// GetRepoStructure returns files with their contained symbols grouped per
// file. Files without symbols come back with an empty symbol list.
func (r *GraphReader) GetRepoStructure(ctx context.Context, repoName string) ([]FileStructure, error) {
	result, err := r.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (f:File {repo: $repo})
			OPTIONAL MATCH (f)-[:CONTAINS]->(s)
			WITH f, s ORDER BY f.path, s.line_start
			WITH f, collect({
				name: s.name,
				kind: s.kind,
				signature: s.signature,
				docstring: s.docstring,
				return_type: s.return_type,
				visibility: s.visibility,
				parent_class: s.parent_class,
				params: s.params,
				decorators: s.decorators
			}) AS symbols
			RETURN f.path AS path, f.language AS language, symbols
			ORDER BY f.path
		`
		records, err := tx.Run(ctx, query, map[string]any{"repo": repoName})
		if err != nil {
			return nil, err
		}

		structure := []FileStructure{}
		for records.Next(ctx) {
			rec := records.Record()
			fs := FileStructure{
				Path:     stringValue(rec, "path"),
				Language: stringValue(rec, "language"),
				Symbols:  []SymbolSummary{},
			}
			if raw, ok := rec.Get("symbols"); ok {
				if list, ok := raw.([]any); ok {
					for _, item := range list {
						m, ok := item.(map[string]any)
						if !ok || m["name"] == nil {
							// OPTIONAL MATCH yields one null entry for empty files.
							continue
						}
						fs.Symbols = append(fs.Symbols, SymbolSummary{
							Name:        mapString(m, "name"),
							Kind:        mapString(m, "kind"),
							Signature:   mapString(m, "signature"),
							Docstring:   mapString(m, "docstring"),
							ReturnType:  mapString(m, "return_type"),
							Visibility:  mapString(m, "visibility"),
							ParentClass: mapString(m, "parent_class"),
							Params:      mapString(m, "params"),
							Decorators:  mapString(m, "decorators"),
						})
					}
				}
			}
			structure = append(structure, fs)
		}
		return structure, records.Err()
	})
	if err != nil {
		return nil, &StoreOperationError{Op: "get repo structure", Err: err}
	}
	return result.([]FileStructure), nil
}

// CountByKind aggregates symbol counts per kind for the repo.
func (r *GraphReader) CountByKind(ctx context.Context, repoName string) (map[string]int64, error) {
	result, err := r.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (:File {repo: $repo})-[:CONTAINS]->(s)
			RETURN s.kind AS kind, count(s) AS n
		`
		records, err := tx.Run(ctx, query, map[string]any{"repo": repoName})
		if err != nil {
			return nil, err
		}

		counts := map[string]int64{}
		for records.Next(ctx) {
			rec := records.Record()
			counts[stringValue(rec, "kind")] = int64Value(rec, "n")
		}
		return counts, records.Err()
	})
	if err != nil {
		return nil, &StoreOperationError{Op: "count by kind", Err: err}
	}
	return result.(map[string]int64), nil
}

// CountFileLanguages aggregates file counts per language for the repo.
func (r *GraphReader) CountFileLanguages(ctx context.Context, repoName string) (map[string]int64, error) {
	result, err := r.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (f:File {repo: $repo})
			RETURN f.language AS language, count(f) AS n
		`
		records, err := tx.Run(ctx, query, map[string]any{"repo": repoName})
		if err != nil {
			return nil, err
		}

		counts := map[string]int64{}
		for records.Next(ctx) {
			rec := records.Record()
			counts[stringValue(rec, "language")] = int64Value(rec, "n")
		}
		return counts, records.Err()
	})
	if err != nil {
		return nil, &StoreOperationError{Op: "count file languages", Err: err}
	}
	return result.(map[string]int64), nil
}

func stringValue(rec *neo4j.Record, key string) string {
	v, _ := rec.Get(key)
	s, _ := v.(string)
	return s
}

func intValue(rec *neo4j.Record, key string) int {
	return int(int64Value(rec, key))
}

func int64Value(rec *neo4j.Record, key string) int64 {
	v, _ := rec.Get(key)
	n, _ := v.(int64)
	return n
}

func mapString(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
