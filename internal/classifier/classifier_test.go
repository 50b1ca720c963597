package classifier

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/dpolishuk/repograph/internal/db"
)

type fakeGraph struct {
	kinds   map[string]int64
	langs   map[string]int64
	files   []db.FileRecord
	symbols []db.SymbolRecord
	err     error
}

func (g *fakeGraph) CountByKind(ctx context.Context, repo string) (map[string]int64, error) {
	return g.kinds, g.err
}

func (g *fakeGraph) CountFileLanguages(ctx context.Context, repo string) (map[string]int64, error) {
	return g.langs, g.err
}

func (g *fakeGraph) GetAllFiles(ctx context.Context, repo string) ([]db.FileRecord, error) {
	return g.files, g.err
}

func (g *fakeGraph) GetAllSymbols(ctx context.Context, repo string) ([]db.SymbolRecord, error) {
	return g.symbols, g.err
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestClassifyNoEvidence(t *testing.T) {
	res := Classify(context.Background(), &fakeGraph{}, "empty")

	if res.DocType != "devdocs" {
		t.Errorf("DocType = %s, want devdocs", res.DocType)
	}
	if !almostEqual(res.Confidence, 0.5) {
		t.Errorf("Confidence = %f, want 0.5", res.Confidence)
	}
	if len(res.Signals) != 0 {
		t.Errorf("Signals = %v, want none", res.Signals)
	}
}

func TestClassifyReadErrorsIgnored(t *testing.T) {
	g := &fakeGraph{err: errors.New("store down")}
	res := Classify(context.Background(), g, "broken")

	if res.DocType != "devdocs" || !almostEqual(res.Confidence, 0.5) {
		t.Errorf("got %+v, want neutral default", res)
	}
}

func TestClassifyDevdocs(t *testing.T) {
	g := &fakeGraph{
		kinds: map[string]int64{"function": 30, "class": 8, "method": 40},
		langs: map[string]int64{"Python": 12},
		files: []db.FileRecord{
			{Path: "src/api/routes.py", Language: "Python"},
		},
		symbols: []db.SymbolRecord{
			{Name: "list_items", Decorators: `@app.get("/items")`},
		},
	}
	res := Classify(context.Background(), g, "service")

	if res.DocType != "devdocs" {
		t.Fatalf("DocType = %s, want devdocs", res.DocType)
	}
	// methods>funcs 1.0, classes>5 0.5, funcs>20 0.5, Python 0.5,
	// route files 2.0, route decorators 2.0 -> 6.5 of 6.5 total.
	if !almostEqual(res.Confidence, 1.0) {
		t.Errorf("Confidence = %f, want 1.0", res.Confidence)
	}
	wantSignals := []string{
		"more methods than functions -> likely OOP/API",
		"8 classes detected -> structured codebase",
		"30 functions -> large API surface",
		"Python detected -> check for FastAPI/Flask routes",
		"route/api files found",
		"route decorators found -> API",
	}
	if !reflect.DeepEqual(res.Signals, wantSignals) {
		t.Errorf("Signals = %v, want %v", res.Signals, wantSignals)
	}
}

func TestClassifyConsumer(t *testing.T) {
	g := &fakeGraph{
		langs: map[string]int64{"TypeScript": 20},
		files: []db.FileRecord{
			{Path: "src/components/Button.tsx", Language: "TypeScript"},
			{Path: "src/pages/Home.tsx", Language: "TypeScript"},
		},
	}
	res := Classify(context.Background(), g, "webapp")

	if res.DocType != "consumer" {
		t.Fatalf("DocType = %s, want consumer", res.DocType)
	}
	// JS/TS 0.5 + component files 2.0 consumer, nothing for devdocs.
	if !almostEqual(res.Confidence, 1.0) {
		t.Errorf("Confidence = %f, want 1.0", res.Confidence)
	}
	wantSignals := []string{
		"JS/TS detected -> check for React components",
		"component/page files found",
	}
	if !reflect.DeepEqual(res.Signals, wantSignals) {
		t.Errorf("Signals = %v, want %v", res.Signals, wantSignals)
	}
}

func TestClassifyConfidenceIsWinnerShare(t *testing.T) {
	g := &fakeGraph{
		langs: map[string]int64{"TypeScript": 5},
		files: []db.FileRecord{
			{Path: "src/components/App.tsx", Language: "TypeScript"},
			{Path: "src/api/client.ts", Language: "TypeScript"},
		},
	}
	res := Classify(context.Background(), g, "mixed")

	// consumer: 0.5 (JS/TS) + 2.0 (components) = 2.5
	// devdocs: 2.0 (api paths) + 1.5 (client paths) + 1.5 because
	// "client" also matches the cli substring = 5.0
	if res.DocType != "devdocs" {
		t.Fatalf("DocType = %s, want devdocs", res.DocType)
	}
	if !almostEqual(res.Confidence, 5.0/7.5) {
		t.Errorf("Confidence = %f, want %f", res.Confidence, 5.0/7.5)
	}
}

func TestClassifyTieGoesToConsumer(t *testing.T) {
	g := &fakeGraph{
		langs: map[string]int64{"JavaScript": 3, "Python": 3},
	}
	res := Classify(context.Background(), g, "tied")

	// 0.5 each side; ties resolve toward consumer.
	if res.DocType != "consumer" {
		t.Errorf("DocType = %s, want consumer", res.DocType)
	}
	if !almostEqual(res.Confidence, 0.5) {
		t.Errorf("Confidence = %f, want 0.5", res.Confidence)
	}
}
