package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var requiredEnvVars = []string{
	"FRESHRSS_URL", "FRESHRSS_USER", "FRESHRSS_API_KEY",
	"LLM_API_KEY", "GITHUB_TOKEN", "REPO_NAME",
}

func setFullEnv(t *testing.T) {
	t.Helper()
	for _, name := range requiredEnvVars {
		t.Setenv(name, "value-for-"+name)
	}
}

func TestLoadEnv(t *testing.T) {
	setFullEnv(t)
	t.Setenv("REPO_NAME", "alice/blog")

	env, err := LoadEnv()
	if err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	if env.RepoName != "alice/blog" {
		t.Errorf("RepoName = %q", env.RepoName)
	}
	if env.FreshRSSURL != "value-for-FRESHRSS_URL" {
		t.Errorf("FreshRSSURL = %q", env.FreshRSSURL)
	}
}

func TestLoadEnvMissingVariablesAreCollected(t *testing.T) {
	setFullEnv(t)
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("GITHUB_TOKEN", "")

	_, err := LoadEnv()
	if err == nil {
		t.Fatal("LoadEnv() should fail with missing variables")
	}

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error = %T, want *ConfigError", err)
	}
	if len(cfgErr.Missing) != 2 {
		t.Errorf("Missing = %v, want both unset names", cfgErr.Missing)
	}
	for _, name := range []string{"LLM_API_KEY", "GITHUB_TOKEN"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not name %s", err.Error(), name)
		}
	}
}

func TestLoadSettingsDefaults(t *testing.T) {
	settings, err := LoadSettings(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}

	if settings.PostsDirectory != "content/posts" {
		t.Errorf("PostsDirectory = %q", settings.PostsDirectory)
	}
	if settings.Branch != "main" {
		t.Errorf("Branch = %q", settings.Branch)
	}
	if settings.FetchLimit != 100 {
		t.Errorf("FetchLimit = %d", settings.FetchLimit)
	}
	if settings.Timeout().Seconds() != 30 {
		t.Errorf("Timeout = %v", settings.Timeout())
	}
	if settings.Summarizer.Model == "" {
		t.Error("Summarizer.Model is empty")
	}
	if settings.Summarizer.ContentMaxTokens < minContentMaxTokens {
		t.Errorf("ContentMaxTokens = %d, below minimum", settings.Summarizer.ContentMaxTokens)
	}
}

func TestLoadSettingsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := `posts_directory: posts
branch: master
summarizer:
  model: claude-test
  max_tokens: 200
  content_max_tokens: 50
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	settings, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}

	if settings.PostsDirectory != "posts" {
		t.Errorf("PostsDirectory = %q", settings.PostsDirectory)
	}
	if settings.Branch != "master" {
		t.Errorf("Branch = %q", settings.Branch)
	}
	if settings.Summarizer.Model != "claude-test" {
		t.Errorf("Model = %q", settings.Summarizer.Model)
	}
	// Below the floor, clamped up.
	if settings.Summarizer.ContentMaxTokens != minContentMaxTokens {
		t.Errorf("ContentMaxTokens = %d, want clamped to %d", settings.Summarizer.ContentMaxTokens, minContentMaxTokens)
	}
	// Unset fields still get defaults.
	if settings.OPMLPath != "links.opml" {
		t.Errorf("OPMLPath = %q", settings.OPMLPath)
	}
}

func TestLoadSettingsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte(": not yaml ["), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadSettings(path); err == nil {
		t.Fatal("LoadSettings() should fail on malformed YAML")
	}
}
