package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultConfigDir = ".favsync/"

//go:embed config/settings.yaml
var defaultSettings string

//go:embed config/summarizer-system-prompt.md
var defaultSummarizerPrompt string

//go:embed config/post-template.md
var defaultPostTemplate string

// Env holds the required process environment. All fields are mandatory;
// a missing one is a startup-fatal ConfigError.
type Env struct {
	FreshRSSURL    string
	FreshRSSUser   string
	FreshRSSAPIKey string
	LLMAPIKey      string
	GitHubToken    string
	RepoName       string // "owner/name"
}

// LoadEnv reads the required variables and collects every missing one into
// a single error so the operator can fix them all at once.
func LoadEnv() (*Env, error) {
	env := &Env{}
	missing := []string{}

	read := func(name string, dst *string) {
		value := os.Getenv(name)
		if value == "" {
			missing = append(missing, name)
			return
		}
		*dst = value
	}

	read("FRESHRSS_URL", &env.FreshRSSURL)
	read("FRESHRSS_USER", &env.FreshRSSUser)
	read("FRESHRSS_API_KEY", &env.FreshRSSAPIKey)
	read("LLM_API_KEY", &env.LLMAPIKey)
	read("GITHUB_TOKEN", &env.GitHubToken)
	read("REPO_NAME", &env.RepoName)

	if len(missing) > 0 {
		return nil, &ConfigError{Missing: missing}
	}
	return env, nil
}

// SummarizerSettings configures the language-model call.
type SummarizerSettings struct {
	Model            string  `yaml:"model"`
	MaxTokens        int     `yaml:"max_tokens"`
	Temperature      float64 `yaml:"temperature"`
	ContentMaxTokens int     `yaml:"content_max_tokens"`
}

// Settings represents the YAML configuration structure.
type Settings struct {
	PostsDirectory string             `yaml:"posts_directory"`
	OPMLPath       string             `yaml:"opml_path"`
	Branch         string             `yaml:"branch"`
	CommitAuthor   string             `yaml:"commit_author"`
	CommitEmail    string             `yaml:"commit_email"`
	FetchLimit     int                `yaml:"fetch_limit"`
	TimeoutSeconds int                `yaml:"timeout_seconds"`
	Summarizer     SummarizerSettings `yaml:"summarizer"`
}

// Timeout returns the bounded timeout for a single network call.
func (s *Settings) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

const minContentMaxTokens = 1000

// LoadSettings loads settings from the given YAML file, falling back to the
// embedded defaults when the file does not exist.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			data = []byte(defaultSettings)
		} else {
			return nil, fmt.Errorf("reading settings file %s: %w", path, err)
		}
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parsing settings YAML: %w", err)
	}

	applySettingsDefaults(&settings)
	return &settings, nil
}

func applySettingsDefaults(s *Settings) {
	if s.PostsDirectory == "" {
		s.PostsDirectory = "content/posts"
	}
	if s.OPMLPath == "" {
		s.OPMLPath = "links.opml"
	}
	if s.Branch == "" {
		s.Branch = "main"
	}
	if s.CommitAuthor == "" {
		s.CommitAuthor = "favsync"
	}
	if s.CommitEmail == "" {
		s.CommitEmail = "favsync@localhost"
	}
	if s.FetchLimit <= 0 {
		s.FetchLimit = 100
	}
	if s.TimeoutSeconds <= 0 {
		s.TimeoutSeconds = 30
	}
	if s.Summarizer.Model == "" {
		s.Summarizer.Model = "claude-sonnet-4-20250514"
	}
	if s.Summarizer.MaxTokens <= 0 {
		s.Summarizer.MaxTokens = 400
	}
	if s.Summarizer.ContentMaxTokens < minContentMaxTokens {
		s.Summarizer.ContentMaxTokens = minContentMaxTokens
	}
}

// GetConfigPath returns the full path to a config file
func GetConfigPath(filename string) string {
	return filepath.Join(defaultConfigDir, filename)
}

// ensureConfigExists creates the config directory and writes the default
// settings.yaml on first run so users have something to customize.
func ensureConfigExists() error {
	if err := os.MkdirAll(defaultConfigDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	settingsFile := GetConfigPath("settings.yaml")
	if _, err := os.Stat(settingsFile); os.IsNotExist(err) {
		if err := os.WriteFile(settingsFile, []byte(defaultSettings), 0644); err != nil {
			return fmt.Errorf("writing settings.yaml: %w", err)
		}
	}

	return nil
}
