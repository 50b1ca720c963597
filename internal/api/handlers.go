package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/dpolishuk/repograph/internal/classifier"
	"github.com/dpolishuk/repograph/internal/config"
	"github.com/dpolishuk/repograph/internal/db"
	"github.com/dpolishuk/repograph/internal/extractor"
	"github.com/dpolishuk/repograph/internal/git"
	"github.com/dpolishuk/repograph/internal/indexer"
)

// Handler serves the HTTP surface. client may be nil when the graph
// store was unreachable at startup; every endpoint then degrades to its
// store-less behavior.
type Handler struct {
	client   *db.Neo4jClient
	writer   *db.GraphWriter
	reader   *db.GraphReader
	pipeline *indexer.Pipeline
	gitSvc   *git.GitService
}

func NewHandler(cfg *config.Config, client *db.Neo4jClient) *Handler {
	h := &Handler{
		client: client,
		gitSvc: git.NewGitService(cfg.ReposPath),
	}
	var w indexer.Writer
	if client != nil {
		h.writer = db.NewGraphWriter(client)
		h.reader = db.NewGraphReader(client)
		w = h.writer
	}
	h.pipeline = indexer.NewPipeline(w)
	return h
}

// Health reports service liveness and graph store reachability.
func (h *Handler) Health(c fiber.Ctx) error {
	database := "disconnected"
	if h.client != nil && h.client.Ping(c.Context()) == nil {
		database = "connected"
	}
	return c.JSON(fiber.Map{
		"status":   "ok",
		"service":  "repograph",
		"database": database,
	})
}

type indexRequest struct {
	RepoPath string `json:"repo_path"`
	RepoURL  string `json:"repo_url"`
	Branch   string `json:"branch"`
	RepoName string `json:"repo_name"`
}

// IndexRepository runs a full index and returns the run stats. The repo
// comes either from a path on disk or, when repo_url is set instead,
// from a fresh clone.
func (h *Handler) IndexRepository(c fiber.Ctx) error {
	var req indexRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.RepoPath == "" && req.RepoURL != "" {
		path, err := h.gitSvc.Clone(c.Context(), req.RepoURL, req.Branch)
		if err != nil {
			return c.Status(502).JSON(fiber.Map{"error": err.Error()})
		}
		req.RepoPath = path
		if req.RepoName == "" {
			req.RepoName = git.ExtractRepoName(req.RepoURL)
		}
	}
	if req.RepoPath == "" || req.RepoName == "" {
		return c.Status(400).JSON(fiber.Map{"error": "repo_path and repo_name are required"})
	}

	stats := h.pipeline.IndexRepository(c.Context(), req.RepoPath, req.RepoName)
	return c.JSON(stats)
}

type parseRequest struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
	RepoName string `json:"repo_name"`
}

// ParseFile extracts a single file from inline content and, when a repo
// name is given and the store is up, ingests the result too.
func (h *Handler) ParseFile(c fiber.Ctx) error {
	var req parseRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Filename == "" {
		return c.Status(400).JSON(fiber.Map{"error": "filename is required"})
	}

	res, err := extractor.Parse(c.Context(), req.Filename, []byte(req.Content))
	if err != nil {
		return c.Status(422).JSON(fiber.Map{"error": err.Error()})
	}

	ingested := false
	if h.writer != nil && req.RepoName != "" {
		if err := h.writer.IngestFile(c.Context(), req.RepoName, req.Filename, res); err != nil {
			slog.Warn("parse ingestion failed", "file", req.Filename, "error", err)
		} else {
			ingested = true
		}
	}

	return c.JSON(fiber.Map{
		"parsing":  res,
		"ingested": ingested,
	})
}

type classifyRequest struct {
	RepoName string `json:"repo_name"`
}

// ClassifyRepo guesses the documentation audience of an indexed repo.
// Without a store it returns the neutral default.
func (h *Handler) ClassifyRepo(c fiber.Ctx) error {
	var req classifyRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.RepoName == "" {
		return c.Status(400).JSON(fiber.Map{"error": "repo_name is required"})
	}

	if h.reader == nil {
		return c.JSON(classifier.Result{DocType: "devdocs", Confidence: 0.0, Signals: []string{}})
	}
	return c.JSON(classifier.Classify(c.Context(), h.reader, req.RepoName))
}

type queryRequest struct {
	RepoName  string `json:"repo_name"`
	QueryType string `json:"query_type"`
}

// QueryGraph serves the canned read queries over an indexed repo. Read
// failures degrade to empty results rather than 500s.
func (h *Handler) QueryGraph(c fiber.Ctx) error {
	var req queryRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if h.reader == nil {
		return c.Status(503).JSON(fiber.Map{"error": "no database connection"})
	}

	switch req.QueryType {
	case "symbols":
		symbols, err := h.reader.GetAllSymbols(c.Context(), req.RepoName)
		if err != nil {
			slog.Warn("symbol query failed", "repo", req.RepoName, "error", err)
			symbols = []db.SymbolRecord{}
		}
		return c.JSON(fiber.Map{"symbols": symbols})
	case "files":
		files, err := h.reader.GetAllFiles(c.Context(), req.RepoName)
		if err != nil {
			slog.Warn("file query failed", "repo", req.RepoName, "error", err)
			files = []db.FileRecord{}
		}
		return c.JSON(fiber.Map{"files": files})
	case "structure":
		structure, err := h.reader.GetRepoStructure(c.Context(), req.RepoName)
		if err != nil {
			slog.Warn("structure query failed", "repo", req.RepoName, "error", err)
			structure = []db.FileStructure{}
		}
		return c.JSON(fiber.Map{"structure": structure})
	default:
		return c.Status(400).JSON(fiber.Map{"error": "unknown query_type: " + req.QueryType})
	}
}
