// Package extractor turns source files into structural facts: symbols,
// imports, exports and an intra-file call graph. Parsing is done with
// tree-sitter; each supported language plugs in through the grammar
// interface.
package extractor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dpolishuk/repograph/pkg/treesitter"
)

// Language identifies a supported source language. The string values are
// stored verbatim on File nodes and matched by the classifier, so they
// must stay stable.
type Language string

const (
	Python     Language = "Python"
	TypeScript Language = "TypeScript"
	JavaScript Language = "JavaScript"
	Rust       Language = "Rust"
	Go         Language = "Go"
	Java       Language = "Java"
	Cpp        Language = "Cpp"
	Ruby       Language = "Ruby"
	Php        Language = "Php"
	Unknown    Language = "Unknown"
)

// DetectLanguage maps a file name to a Language by extension.
func DetectLanguage(path string) Language {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	switch ext {
	case "py", "pyw":
		return Python
	case "ts", "tsx":
		return TypeScript
	case "js", "jsx", "mjs", "cjs":
		return JavaScript
	case "rs":
		return Rust
	case "go":
		return Go
	case "java":
		return Java
	case "cpp", "cxx", "hpp", "h":
		return Cpp
	case "rb":
		return Ruby
	case "php":
		return Php
	default:
		return Unknown
	}
}

// Param is a single declared parameter of a function or method.
type Param struct {
	Name    string `json:"name"`
	Type    string `json:"type_annotation,omitempty"`
	Default string `json:"default,omitempty"`
}

// Import is one import statement, decomposed where the language grammar
// allows it. Raw always holds the full statement text.
type Import struct {
	Raw    string   `json:"raw"`
	Source string   `json:"source,omitempty"`
	Names  []string `json:"names"`
}

// Symbol is a named declaration found in a file. Name plus StartLine is
// unique within a file and is the basis for graph node identity.
type Symbol struct {
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	StartLine   int      `json:"start_line"`
	EndLine     int      `json:"end_line"`
	Preview     string   `json:"preview"`
	Docstring   string   `json:"docstring,omitempty"`
	Signature   string   `json:"signature"`
	Params      []Param  `json:"params"`
	ReturnType  string   `json:"return_type,omitempty"`
	Visibility  string   `json:"visibility,omitempty"`
	ParentClass string   `json:"parent_class,omitempty"`
	Decorators  []string `json:"decorators"`
	Bases       []string `json:"bases"`
	Calls       []string `json:"calls"`
}

// Result is everything extracted from one file.
type Result struct {
	Language Language `json:"language"`
	Symbols  []Symbol `json:"symbols"`
	Imports  []Import `json:"imports"`
	Exports  []string `json:"exports"`
}

// ExtractionError marks a file whose content could not be parsed at all.
// An unsupported extension is not an error; it yields an empty Result.
type ExtractionError struct {
	File string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for %s: %v", e.File, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Parse extracts structural facts from a single file. The same input
// always yields the same Result.
func Parse(ctx context.Context, filename string, content []byte) (*Result, error) {
	lang := DetectLanguage(filename)
	res := &Result{
		Language: lang,
		Symbols:  []Symbol{},
		Imports:  []Import{},
		Exports:  []string{},
	}

	g, ok := grammars[lang]
	if !ok {
		return res, nil
	}

	tree, err := treesitter.Parse(ctx, content, g.sitterLanguage())
	if err != nil {
		return nil, &ExtractionError{File: filename, Err: err}
	}
	defer tree.Close()
	root := tree.RootNode()

	g.collectSymbols(root, content, "", &res.Symbols)
	res.Imports = collectImports(g, root, content)
	res.Exports = g.exports(root, content)
	mergeCalls(res.Symbols, collectCallGraph(g, root, content))

	return res, nil
}

func mergeCalls(symbols []Symbol, calls map[string][]string) {
	if len(calls) == 0 {
		return
	}
	for i := range symbols {
		if c, ok := calls[symbols[i].Name]; ok {
			symbols[i].Calls = c
		}
	}
}
