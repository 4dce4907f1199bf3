package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
)

// PostLedger is the set of already-published posts, keyed by source URL and
// by slug. The posts directory itself is the only durable record of what
// was processed.
type PostLedger struct {
	urls  map[string]bool
	slugs map[string]bool
}

// NewPostLedger returns an empty ledger.
func NewPostLedger() *PostLedger {
	return &PostLedger{urls: map[string]bool{}, slugs: map[string]bool{}}
}

// HasURL reports whether a post for this source URL exists.
func (l *PostLedger) HasURL(url string) bool { return l.urls[url] }

// HasSlug reports whether a post file with this slug exists.
func (l *PostLedger) HasSlug(slug string) bool { return l.slugs[slug] }

// Add records a published post.
func (l *PostLedger) Add(url, slug string) {
	if url != "" {
		l.urls[url] = true
	}
	if slug != "" {
		l.slugs[slug] = true
	}
}

// Publisher manages the blog repository working copy.
type Publisher interface {
	Sync() error
	ExistingPosts() (*PostLedger, error)
	StagePost(post *BlogPost) (string, error)
	StageOPML(data []byte) (string, error)
	Commit(message string) (bool, error)
	Push() error
}

// GitPublisher drives the git binary against a local clone of the blog
// repository. One commit per run: everything staged during the run goes
// into a single commit before the single push.
type GitPublisher struct {
	workdir  string
	repoName string // "owner/name"
	token    string
	settings *Settings
}

// NewGitPublisher creates a publisher for the given working copy path.
func NewGitPublisher(workdir, repoName, token string, settings *Settings) *GitPublisher {
	return &GitPublisher{
		workdir:  workdir,
		repoName: repoName,
		token:    token,
		settings: settings,
	}
}

// Sync ensures the working copy exists and matches the remote branch:
// clone if absent, fetch and fast-forward pull if present.
func (p *GitPublisher) Sync() error {
	if _, err := os.Stat(filepath.Join(p.workdir, ".git")); os.IsNotExist(err) {
		return p.clone()
	}

	if _, err := p.git("fetch", "origin", p.settings.Branch, "--quiet"); err != nil {
		return &RepoError{Op: "fetch", Err: err}
	}
	if _, err := p.git("checkout", p.settings.Branch, "--quiet"); err != nil {
		return &RepoError{Op: "checkout", Err: err}
	}
	if _, err := p.git("pull", "--ff-only", "origin", p.settings.Branch, "--quiet"); err != nil {
		return &RepoError{Op: "pull", Err: err}
	}
	return nil
}

func (p *GitPublisher) clone() error {
	if err := os.MkdirAll(filepath.Dir(p.workdir), 0755); err != nil {
		return &RepoError{Op: "clone", Err: err}
	}

	cmd := exec.Command("git", "clone", "--branch", p.settings.Branch, p.remoteURL(), p.workdir)
	if out, err := cmd.CombinedOutput(); err != nil {
		// git echoes the remote URL on failure; the token must not leak
		// into logs.
		redacted := strings.ReplaceAll(string(out), p.token, "***")
		return &RepoError{Op: "clone", Err: gitError(err, []byte(redacted))}
	}
	return nil
}

// postFrontmatter is the subset of post metadata the ledger scan needs.
type postFrontmatter struct {
	SourceURL string `yaml:"source_url"`
}

// ExistingPosts scans the posts directory and builds the dedup ledger from
// each file's frontmatter source_url and its filename slug.
func (p *GitPublisher) ExistingPosts() (*PostLedger, error) {
	ledger := NewPostLedger()

	files, err := filepath.Glob(filepath.Join(p.workdir, p.settings.PostsDirectory, "*.md"))
	if err != nil {
		return nil, &RepoError{Op: "scan", Err: err}
	}

	for _, file := range files {
		slug := strings.TrimSuffix(filepath.Base(file), ".md")

		data, err := os.ReadFile(file)
		if err != nil {
			return nil, &RepoError{Op: "scan", Err: err}
		}

		var meta postFrontmatter
		if _, err := frontmatter.Parse(strings.NewReader(string(data)), &meta); err != nil {
			// A post without parseable frontmatter still occupies its slug.
			ledger.Add("", slug)
			continue
		}
		ledger.Add(meta.SourceURL, slug)
	}

	return ledger, nil
}

// StagePost writes the post file at its deterministic path and stages it.
// On staging failure the partial file is removed so it can never reach a
// commit.
func (p *GitPublisher) StagePost(post *BlogPost) (string, error) {
	relPath := filepath.Join(p.settings.PostsDirectory, post.Slug+".md")
	return relPath, p.stageFile(relPath, []byte(post.Content))
}

// StageOPML writes the regenerated blogroll OPML and stages it.
func (p *GitPublisher) StageOPML(data []byte) (string, error) {
	return p.settings.OPMLPath, p.stageFile(p.settings.OPMLPath, data)
}

func (p *GitPublisher) stageFile(relPath string, data []byte) error {
	absPath := filepath.Join(p.workdir, relPath)
	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(absPath, data, 0644); err != nil {
		return err
	}

	if _, err := p.git("add", "--", relPath); err != nil {
		os.Remove(absPath)
		return err
	}
	return nil
}

// Commit records everything staged this run in a single commit. Returns
// false without error when the index is clean (idempotent second run).
func (p *GitPublisher) Commit(message string) (bool, error) {
	// Exit code 0 means no staged changes.
	if _, err := p.git("diff", "--cached", "--quiet"); err == nil {
		return false, nil
	}

	_, err := p.git(
		"-c", "user.name="+p.settings.CommitAuthor,
		"-c", "user.email="+p.settings.CommitEmail,
		"commit", "-m", message,
	)
	if err != nil {
		return false, &RepoError{Op: "commit", Err: err}
	}
	return true, nil
}

// Push updates the remote branch. A rejection (stale remote, permission
// denial) is a PushError and run-fatal.
func (p *GitPublisher) Push() error {
	if _, err := p.git("push", "origin", p.settings.Branch); err != nil {
		return &PushError{Err: err}
	}
	return nil
}

// remoteURL embeds the token for non-interactive pushes.
func (p *GitPublisher) remoteURL() string {
	return fmt.Sprintf("https://x-access-token:%s@github.com/%s.git", p.token, p.repoName)
}

func (p *GitPublisher) git(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = p.workdir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", gitError(err, out)
	}
	return strings.TrimSpace(string(out)), nil
}

func gitError(err error, output []byte) error {
	msg := strings.TrimSpace(string(output))
	if msg == "" {
		return err
	}
	return fmt.Errorf("%w: %s", err, msg)
}
