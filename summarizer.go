package main

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/aktagon/llmkit/anthropic"
	"github.com/aktagon/llmkit/anthropic/types"
)

// Summarizer produces a short natural-language summary of an article.
type Summarizer interface {
	Summarize(article FavoriteArticle) (string, error)
}

// AnthropicSummarizer summarizes article content with a single Anthropic
// completion per article. Each call costs quota; callers skip articles that
// are already published.
type AnthropicSummarizer struct {
	apiKey    string
	settings  SummarizerSettings
	converter *md.Converter
}

// NewAnthropicSummarizer creates a summarizer with the given model settings.
func NewAnthropicSummarizer(apiKey string, settings SummarizerSettings) *AnthropicSummarizer {
	return &AnthropicSummarizer{
		apiKey:    apiKey,
		settings:  settings,
		converter: md.NewConverter("", true, nil),
	}
}

// Summarize returns a bounded-length summary of the article. Single
// attempt; any provider failure is returned as a ProviderError.
func (s *AnthropicSummarizer) Summarize(article FavoriteArticle) (string, error) {
	prompt, err := s.buildPrompt(article)
	if err != nil {
		return "", err
	}

	settings := types.RequestSettings{
		Model:       s.settings.Model,
		MaxTokens:   s.settings.MaxTokens,
		Temperature: s.settings.Temperature,
	}
	response, err := anthropic.PromptWithSettings(defaultSummarizerPrompt, prompt, "", s.apiKey, settings)
	if err != nil {
		return "", &ProviderError{Err: err}
	}

	if len(response.Content) == 0 {
		return "", &ProviderError{Err: fmt.Errorf("empty response")}
	}

	summary := strings.TrimSpace(response.Content[0].Text)
	if summary == "" {
		return "", &ProviderError{Err: fmt.Errorf("blank summary")}
	}

	return summary, nil
}

// buildPrompt converts the article HTML to markdown and assembles the user
// prompt, capping content at the configured token budget.
func (s *AnthropicSummarizer) buildPrompt(article FavoriteArticle) (string, error) {
	content := article.Content
	if content != "" {
		converted, err := s.converter.ConvertString(content)
		if err != nil {
			return "", &ProviderError{Err: fmt.Errorf("converting HTML to markdown: %w", err)}
		}
		content = strings.TrimSpace(converted)
	}
	content = limitContentTokens(content, s.settings.ContentMaxTokens)

	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", article.Title)
	fmt.Fprintf(&b, "URL: %s\n\n", article.URL)
	if content != "" {
		fmt.Fprintf(&b, "Article content:\n%s\n", content)
	} else {
		b.WriteString("No article content was available. Summarize from the title alone and say the summary is based on the title.\n")
	}

	return b.String(), nil
}

// limitContentTokens limits content to approximately N tokens (using 4 chars ≈ 1 token)
func limitContentTokens(content string, maxTokens int) string {
	maxChars := maxTokens * 4
	if len(content) <= maxChars {
		return content
	}
	return content[:maxChars] + "..."
}
