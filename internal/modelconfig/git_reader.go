package modelconfig

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v6"
	githttp "github.com/go-git/go-git/v6/plumbing/transport/http"
	"github.com/icanbwell/language-model-gateway/internal/config"
	log "github.com/sirupsen/logrus"
)

// GitReader loads model definitions from a GitHub repository. The repository
// is cloned shallowly into a local working directory and pulled on subsequent
// reads; definition files are then read from the checkout.
type GitReader struct {
	cfg config.GitStoreConfig
}

// NewGitReader builds a reader with the given git credentials.
func NewGitReader(cfg config.GitStoreConfig) *GitReader {
	return &GitReader{cfg: cfg}
}

// IsGitHubURL reports whether the given config path points at GitHub.
func IsGitHubURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := parsed.Hostname()
	return host == "github.com" || strings.HasSuffix(host, ".github.com")
}

// ReadModelConfigs clones or updates the repository behind githubURL and reads
// model definitions from the path inside it. URLs look like
// https://github.com/org/repo/tree/main/configs/chat_completions; everything
// after the branch segment is the in-repo path.
func (r *GitReader) ReadModelConfigs(githubURL string) ([]ChatModelConfig, error) {
	repoURL, innerPath, err := splitGitHubURL(githubURL)
	if err != nil {
		return nil, err
	}

	localPath := r.cfg.LocalPath
	if localPath == "" {
		localPath = filepath.Join(os.TempDir(), "language-model-gateway", "gitconfig")
	}

	if err = r.ensureCheckout(repoURL, localPath); err != nil {
		return nil, err
	}

	fileReader := &FileReader{}
	return fileReader.ReadModelConfigs(filepath.Join(localPath, innerPath))
}

func (r *GitReader) ensureCheckout(repoURL, localPath string) error {
	if _, err := os.Stat(filepath.Join(localPath, ".git")); err == nil {
		repo, errOpen := git.PlainOpen(localPath)
		if errOpen != nil {
			return fmt.Errorf("modelconfig: failed to open git checkout: %w", errOpen)
		}
		worktree, errWorktree := repo.Worktree()
		if errWorktree != nil {
			return fmt.Errorf("modelconfig: failed to resolve git worktree: %w", errWorktree)
		}
		if errPull := worktree.Pull(&git.PullOptions{Auth: r.gitAuth(), RemoteName: "origin"}); errPull != nil {
			if !errors.Is(errPull, git.NoErrAlreadyUpToDate) {
				// Serve the stale checkout rather than failing the whole request.
				log.Warnf("modelconfig: git pull failed, using cached checkout: %v", errPull)
			}
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return fmt.Errorf("modelconfig: failed to create git checkout directory: %w", err)
	}
	if _, err := git.PlainClone(localPath, &git.CloneOptions{URL: repoURL, Auth: r.gitAuth(), Depth: 1}); err != nil {
		return fmt.Errorf("modelconfig: failed to clone %s: %w", repoURL, err)
	}
	return nil
}

func (r *GitReader) gitAuth() *githttp.BasicAuth {
	if r.cfg.Token == "" {
		return nil
	}
	user := r.cfg.Username
	if user == "" {
		user = "git"
	}
	return &githttp.BasicAuth{Username: user, Password: r.cfg.Token}
}

// splitGitHubURL splits a GitHub tree URL into a cloneable repository URL and
// the path inside the repository.
func splitGitHubURL(raw string) (repoURL string, innerPath string, err error) {
	parsed, errParse := url.Parse(raw)
	if errParse != nil {
		return "", "", fmt.Errorf("modelconfig: invalid github url %q: %w", raw, errParse)
	}
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segments) < 2 {
		return "", "", fmt.Errorf("modelconfig: github url %q is missing org/repo", raw)
	}
	repoURL = fmt.Sprintf("https://%s/%s/%s", parsed.Host, segments[0], segments[1])
	// Skip the "tree/<branch>" segments when present.
	rest := segments[2:]
	if len(rest) >= 2 && (rest[0] == "tree" || rest[0] == "blob") {
		rest = rest[2:]
	}
	innerPath = strings.Join(rest, "/")
	return repoURL, innerPath, nil
}
