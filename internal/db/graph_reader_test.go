package db

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpolishuk/repograph/internal/extractor"
)

func setupTestNeo4j(t *testing.T) *Neo4jClient {
	t.Helper()

	client, err := NewNeo4jClient(context.Background(), Neo4jConfig{
		URI:      "bolt://localhost:7687",
		Username: "neo4j",
		Password: "password",
	})
	if err != nil {
		t.Skipf("Neo4j not available: %v", err)
	}
	return client
}

// testRepoName returns a unique repo name so parallel test runs never
// collide in the shared database.
func testRepoName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func cleanupTestRepo(t *testing.T, ctx context.Context, client *Neo4jClient, repoName string) {
	t.Helper()
	_, err := client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, `
			MATCH (f:File {repo: $repo})
			OPTIONAL MATCH (f)-[:CONTAINS]->(s)
			OPTIONAL MATCH (f)-[:IMPORTS_FROM]->(m:Module)
			DETACH DELETE s, m, f
		`, map[string]any{"repo": repoName})
		return nil, err
	})
	if err != nil {
		t.Logf("cleanup failed for %s: %v", repoName, err)
	}
}

// ingestPythonFixture pushes the extraction of a small two-function file
// through the real extractor and writer.
func ingestPythonFixture(t *testing.T, ctx context.Context, w *GraphWriter, repoName string) *extractor.Result {
	t.Helper()

	src := `def foo():
    """does foo things"""
    return bar()

def bar():
    pass
`
	res, err := extractor.Parse(ctx, "app.py", []byte(src))
	require.NoError(t, err)
	require.NoError(t, w.IngestFile(ctx, repoName, "app.py", res))
	return res
}

func countRepoNodes(t *testing.T, ctx context.Context, client *Neo4jClient, repoName string) int64 {
	t.Helper()
	result, err := client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := tx.Run(ctx, `
			MATCH (f:File {repo: $repo})
			OPTIONAL MATCH (f)-[:CONTAINS]->(s)
			RETURN count(DISTINCT f) + count(DISTINCT s) AS n
		`, map[string]any{"repo": repoName})
		if err != nil {
			return nil, err
		}
		rec, err := records.Single(ctx)
		if err != nil {
			return nil, err
		}
		return int64Value(rec, "n"), nil
	})
	require.NoError(t, err)
	return result.(int64)
}

func TestIngestFileIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	client := setupTestNeo4j(t)
	defer client.Close()

	repoName := testRepoName("idempotence")
	defer cleanupTestRepo(t, ctx, client, repoName)

	writer := NewGraphWriter(client)
	require.NoError(t, writer.EnsureSchema(ctx))

	res := ingestPythonFixture(t, ctx, writer, repoName)
	first := countRepoNodes(t, ctx, client, repoName)
	assert.Equal(t, int64(3), first, "one file node and two function nodes")

	// Second ingestion of identical input must not grow the graph.
	require.NoError(t, writer.IngestFile(ctx, repoName, "app.py", res))
	second := countRepoNodes(t, ctx, client, repoName)
	assert.Equal(t, first, second)
}

func TestIngestFileCallEdges(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	client := setupTestNeo4j(t)
	defer client.Close()

	repoName := testRepoName("calls")
	defer cleanupTestRepo(t, ctx, client, repoName)

	writer := NewGraphWriter(client)
	require.NoError(t, writer.EnsureSchema(ctx))
	ingestPythonFixture(t, ctx, writer, repoName)

	result, err := client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := tx.Run(ctx, `
			MATCH (caller:Function {name: 'foo'})<-[:CONTAINS]-(:File {repo: $repo}),
			      (caller)-[:CALLS]->(callee:Function {name: 'bar'})
			RETURN count(*) AS n
		`, map[string]any{"repo": repoName})
		if err != nil {
			return nil, err
		}
		rec, err := records.Single(ctx)
		if err != nil {
			return nil, err
		}
		return int64Value(rec, "n"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.(int64), "foo must call bar exactly once")
}

func TestGraphReaderRepoScoping(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	client := setupTestNeo4j(t)
	defer client.Close()

	repoA := testRepoName("scope-a")
	repoB := testRepoName("scope-b")
	defer cleanupTestRepo(t, ctx, client, repoA)
	defer cleanupTestRepo(t, ctx, client, repoB)

	writer := NewGraphWriter(client)
	require.NoError(t, writer.EnsureSchema(ctx))

	// Same path in two repos must stay two separate file nodes.
	ingestPythonFixture(t, ctx, writer, repoA)
	ingestPythonFixture(t, ctx, writer, repoB)

	reader := NewGraphReader(client)

	filesA, err := reader.GetAllFiles(ctx, repoA)
	require.NoError(t, err)
	require.Len(t, filesA, 1)
	assert.Equal(t, "app.py", filesA[0].Path)
	assert.Equal(t, "Python", filesA[0].Language)

	filesB, err := reader.GetAllFiles(ctx, repoB)
	require.NoError(t, err)
	require.Len(t, filesB, 1)

	symbols, err := reader.GetAllSymbols(ctx, repoA)
	require.NoError(t, err)
	require.Len(t, symbols, 2)
	assert.Equal(t, "foo", symbols[0].Name)
	assert.Equal(t, "does foo things", symbols[0].Docstring)

	kinds, err := reader.CountByKind(ctx, repoA)
	require.NoError(t, err)
	assert.Equal(t, int64(2), kinds["function"])

	langs, err := reader.CountFileLanguages(ctx, repoA)
	require.NoError(t, err)
	assert.Equal(t, int64(1), langs["Python"])

	structure, err := reader.GetRepoStructure(ctx, repoA)
	require.NoError(t, err)
	require.Len(t, structure, 1)
	assert.Equal(t, "app.py", structure[0].Path)
	require.Len(t, structure[0].Symbols, 2)
	assert.Equal(t, "foo", structure[0].Symbols[0].Name)
}
