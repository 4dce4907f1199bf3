package main

import (
	"strings"
	"testing"
)

func newTestSummarizer() *AnthropicSummarizer {
	return NewAnthropicSummarizer("test-key", SummarizerSettings{
		Model:            "claude-test",
		MaxTokens:        400,
		ContentMaxTokens: 1000,
	})
}

func TestBuildPromptConvertsHTML(t *testing.T) {
	s := newTestSummarizer()
	article := FavoriteArticle{
		Title:   "Hello World",
		URL:     "https://x.com/1",
		Content: "<h1>Heading</h1><p>Some <strong>bold</strong> text.</p>",
	}

	prompt, err := s.buildPrompt(article)
	if err != nil {
		t.Fatalf("buildPrompt() error = %v", err)
	}

	if !strings.Contains(prompt, "Title: Hello World") {
		t.Error("prompt missing title line")
	}
	if !strings.Contains(prompt, "URL: https://x.com/1") {
		t.Error("prompt missing URL line")
	}
	if strings.Contains(prompt, "<p>") || strings.Contains(prompt, "<strong>") {
		t.Errorf("prompt still contains HTML tags:\n%s", prompt)
	}
	if !strings.Contains(prompt, "bold") {
		t.Error("prompt lost article text during conversion")
	}
}

func TestBuildPromptWithoutContent(t *testing.T) {
	s := newTestSummarizer()
	article := FavoriteArticle{Title: "Hello", URL: "https://x.com/1"}

	prompt, err := s.buildPrompt(article)
	if err != nil {
		t.Fatalf("buildPrompt() error = %v", err)
	}

	if !strings.Contains(prompt, "No article content was available") {
		t.Error("prompt missing no-content instruction")
	}
}

func TestBuildPromptCapsContent(t *testing.T) {
	s := NewAnthropicSummarizer("test-key", SummarizerSettings{ContentMaxTokens: 10})
	article := FavoriteArticle{
		Title:   "Long",
		URL:     "https://x.com/1",
		Content: "<p>" + strings.Repeat("word ", 500) + "</p>",
	}

	prompt, err := s.buildPrompt(article)
	if err != nil {
		t.Fatalf("buildPrompt() error = %v", err)
	}

	// 10 tokens ≈ 40 chars of content plus the fixed prompt scaffolding.
	if len(prompt) > 300 {
		t.Errorf("prompt length = %d, content cap not applied", len(prompt))
	}
	if !strings.Contains(prompt, "...") {
		t.Error("capped content missing truncation marker")
	}
}

func TestLimitContentTokens(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		maxTokens int
		truncated bool
	}{
		{"short content untouched", "hello", 100, false},
		{"exact boundary untouched", strings.Repeat("a", 40), 10, false},
		{"long content truncated", strings.Repeat("a", 100), 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := limitContentTokens(tt.content, tt.maxTokens)
			if tt.truncated {
				if len(result) != tt.maxTokens*4+3 {
					t.Errorf("truncated length = %d, want %d", len(result), tt.maxTokens*4+3)
				}
				if !strings.HasSuffix(result, "...") {
					t.Error("truncated content missing marker")
				}
			} else if result != tt.content {
				t.Errorf("content modified: %q", result)
			}
		})
	}
}
