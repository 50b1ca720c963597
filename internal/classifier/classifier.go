// Package classifier guesses the documentation audience of an indexed
// repo from aggregate graph facts. Scores are additive per signal; the
// winning side's share of the total becomes the confidence.
package classifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/dpolishuk/repograph/internal/db"
)

// Graph is the read surface the classifier needs, satisfied by
// db.GraphReader.
type Graph interface {
	CountByKind(ctx context.Context, repoName string) (map[string]int64, error)
	CountFileLanguages(ctx context.Context, repoName string) (map[string]int64, error)
	GetAllFiles(ctx context.Context, repoName string) ([]db.FileRecord, error)
	GetAllSymbols(ctx context.Context, repoName string) ([]db.SymbolRecord, error)
}

type Result struct {
	DocType    string   `json:"doc_type"`
	Confidence float64  `json:"confidence"`
	Signals    []string `json:"signals"`
}

// Classify weighs developer-documentation evidence against consumer
// evidence. Failed reads contribute nothing; a repo with no evidence at
// all defaults to devdocs at half confidence.
func Classify(ctx context.Context, g Graph, repoName string) Result {
	signals := []string{}
	var consumer, devdocs float64

	if counts, err := g.CountByKind(ctx, repoName); err == nil {
		funcs := counts["function"]
		classes := counts["class"]
		methods := counts["method"]

		if methods > funcs {
			signals = append(signals, "more methods than functions -> likely OOP/API")
			devdocs += 1.0
		}
		if classes > 5 {
			signals = append(signals, fmt.Sprintf("%d classes detected -> structured codebase", classes))
			devdocs += 0.5
		}
		if funcs > 20 {
			signals = append(signals, fmt.Sprintf("%d functions -> large API surface", funcs))
			devdocs += 0.5
		}
	}

	if langs, err := g.CountFileLanguages(ctx, repoName); err == nil {
		if langs["Python"] > 0 {
			signals = append(signals, "Python detected -> check for FastAPI/Flask routes")
			devdocs += 0.5
		}
		if langs["JavaScript"] > 0 || langs["TypeScript"] > 0 {
			signals = append(signals, "JS/TS detected -> check for React components")
			consumer += 0.5
		}
		if langs["Cpp"] > 0 {
			signals = append(signals, "C++ detected -> likely library/system docs")
			devdocs += 1.0
		}
	}

	if files, err := g.GetAllFiles(ctx, repoName); err == nil {
		var hasRoutes, hasComponents, hasCLI, hasClient bool
		for _, f := range files {
			path := strings.ToLower(f.Path)
			hasRoutes = hasRoutes || strings.Contains(path, "route") ||
				strings.Contains(path, "endpoint") || strings.Contains(path, "api")
			hasComponents = hasComponents || strings.Contains(path, "component") ||
				strings.Contains(path, "pages") || strings.Contains(path, "views")
			hasCLI = hasCLI || strings.Contains(path, "cli") || strings.Contains(path, "command")
			hasClient = hasClient || strings.Contains(path, "client") || strings.Contains(path, "sdk")
		}
		if hasRoutes {
			signals = append(signals, "route/api files found")
			devdocs += 2.0
		}
		if hasComponents {
			signals = append(signals, "component/page files found")
			consumer += 2.0
		}
		if hasCLI {
			signals = append(signals, "CLI files found")
			devdocs += 1.5
		}
		if hasClient {
			signals = append(signals, "SDK/client files found")
			devdocs += 1.5
		}
	}

	if symbols, err := g.GetAllSymbols(ctx, repoName); err == nil {
		for _, s := range symbols {
			sig := s.Signature + " " + s.Decorators
			if strings.Contains(sig, "@app.") || strings.Contains(sig, "@router.") ||
				strings.Contains(sig, "app.get") || strings.Contains(sig, "app.post") {
				signals = append(signals, "route decorators found -> API")
				devdocs += 2.0
				break
			}
		}
	}

	total := consumer + devdocs
	switch {
	case total == 0:
		return Result{DocType: "devdocs", Confidence: 0.5, Signals: signals}
	case devdocs > consumer:
		return Result{DocType: "devdocs", Confidence: devdocs / total, Signals: signals}
	default:
		return Result{DocType: "consumer", Confidence: consumer / total, Signals: signals}
	}
}
