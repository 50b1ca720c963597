// Package indexer walks a repository on disk, extracts every recognized
// source file and fans the results out to the graph store.
package indexer

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
	gitignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/sync/errgroup"

	"github.com/dpolishuk/repograph/internal/extractor"
)

// ingestFanOut caps concurrent writes against the graph store.
const ingestFanOut = 32

// Writer is the sink for extraction results.
type Writer interface {
	IngestFile(ctx context.Context, repoName, filePath string, res *extractor.Result) error
}

type IndexStats struct {
	FilesProcessed int `json:"files_processed"`
	FilesSkipped   int `json:"files_skipped"`
	NodesCreated   int `json:"nodes_created"`
}

// Pipeline runs the full index flow: walk, parse, ingest. A nil writer
// parses only, which is how the service runs without a graph store.
type Pipeline struct {
	writer Writer
}

func NewPipeline(writer Writer) *Pipeline {
	return &Pipeline{writer: writer}
}

type parsedFile struct {
	relPath string
	result  *extractor.Result
}

// IndexRepository indexes the repository rooted at repoPath under the
// given repo name. Extraction runs first across all files, ingestion
// second; a file that fails either stage is skipped, never fatal.
func (p *Pipeline) IndexRepository(ctx context.Context, repoPath, repoName string) IndexStats {
	runID := uuid.New().String()
	slog.Info("index run started", "run", runID, "repo", repoName, "path", repoPath)

	accepted, skipped := collectFiles(repoPath)
	parsed := parseAll(ctx, repoPath, accepted)

	stats := IndexStats{
		FilesProcessed: len(parsed),
		FilesSkipped:   skipped + (len(accepted) - len(parsed)),
	}

	if p.writer == nil {
		slog.Info("index run finished without graph store",
			"run", runID, "processed", stats.FilesProcessed, "skipped", stats.FilesSkipped)
		return stats
	}

	nodes := make([]int, len(parsed))
	var g errgroup.Group
	g.SetLimit(ingestFanOut)
	for i, pf := range parsed {
		g.Go(func() error {
			if err := p.writer.IngestFile(ctx, repoName, pf.relPath, pf.result); err != nil {
				slog.Warn("ingestion failed", "run", runID, "file", pf.relPath, "error", err)
				return nil
			}
			// One file node plus one node per symbol.
			nodes[i] = len(pf.result.Symbols) + 1
			return nil
		})
	}
	_ = g.Wait()

	for _, n := range nodes {
		stats.NodesCreated += n
	}
	slog.Info("index run finished",
		"run", runID,
		"processed", stats.FilesProcessed,
		"skipped", stats.FilesSkipped,
		"nodes", stats.NodesCreated)
	return stats
}

// collectFiles walks the repo and returns relative paths of recognized
// source files plus the count of regular files that were skipped. The
// .git directory and .gitignore matches never reach the walk output;
// hidden files otherwise stay visible.
func collectFiles(repoPath string) (accepted []string, skipped int) {
	var ign *gitignore.GitIgnore
	if matcher, err := gitignore.CompileIgnoreFile(filepath.Join(repoPath, ".gitignore")); err == nil {
		ign = matcher
	}

	_ = filepath.WalkDir(repoPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, rerr := filepath.Rel(repoPath, path)
		if rerr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			if ign != nil && ign.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if ign != nil && ign.MatchesPath(rel) {
			return nil
		}
		if extractor.DetectLanguage(rel) == extractor.Unknown {
			skipped++
			return nil
		}
		accepted = append(accepted, rel)
		return nil
	})
	return accepted, skipped
}

// parseAll extracts the accepted files on a CPU-bounded pool. Files that
// cannot be read or parsed are dropped here and show up as skipped.
func parseAll(ctx context.Context, repoPath string, relPaths []string) []parsedFile {
	results := make([]*extractor.Result, len(relPaths))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, rel := range relPaths {
		g.Go(func() error {
			content, err := os.ReadFile(filepath.Join(repoPath, filepath.FromSlash(rel)))
			if err != nil {
				slog.Warn("read failed", "file", rel, "error", err)
				return nil
			}
			res, err := extractor.Parse(ctx, rel, content)
			if err != nil {
				slog.Warn("extraction failed", "file", rel, "error", err)
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	parsed := make([]parsedFile, 0, len(relPaths))
	for i, rel := range relPaths {
		if results[i] != nil {
			parsed = append(parsed, parsedFile{relPath: rel, result: results[i]})
		}
	}
	return parsed
}
