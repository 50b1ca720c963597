// Package git fetches repositories so they can be indexed from a URL
// instead of a pre-existing checkout.
package git

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

type GitService struct {
	basePath string
}

func NewGitService(basePath string) *GitService {
	return &GitService{basePath: basePath}
}

// Clone fetches url into the base path and returns the checkout path.
// An existing checkout is updated with a fast-forward pull instead.
func (s *GitService) Clone(ctx context.Context, url, branch string) (string, error) {
	repoPath := filepath.Join(s.basePath, ExtractRepoName(url))

	if _, err := os.Stat(filepath.Join(repoPath, ".git")); err == nil {
		return repoPath, s.Pull(ctx, repoPath)
	}

	if err := os.MkdirAll(s.basePath, 0755); err != nil {
		return "", fmt.Errorf("failed to create repos directory: %w", err)
	}

	// Shallow clone; history is irrelevant for structural indexing.
	args := []string{"clone", "--depth", "1"}
	if branch != "" {
		args = append(args, "--branch", branch)
	}
	args = append(args, url, repoPath)

	cmd := exec.CommandContext(ctx, "git", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git clone failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return repoPath, nil
}

// Pull fast-forwards an existing checkout.
func (s *GitService) Pull(ctx context.Context, repoPath string) error {
	cmd := exec.CommandContext(ctx, "git", "pull", "--ff-only")
	cmd.Dir = repoPath
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git pull failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// ExtractRepoName extracts repository name from URL
func ExtractRepoName(url string) string {
	url = strings.TrimSuffix(url, ".git")

	if strings.HasPrefix(url, "https://") || strings.HasPrefix(url, "http://") {
		parts := strings.Split(url, "/")
		return parts[len(parts)-1]
	}

	// SSH URLs: git@github.com:owner/repo
	if strings.Contains(url, ":") {
		parts := strings.Split(url, ":")
		if len(parts) > 1 {
			pathParts := strings.Split(parts[1], "/")
			return pathParts[len(pathParts)-1]
		}
	}

	return url
}
