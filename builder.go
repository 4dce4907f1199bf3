package main

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/goliatone/go-slug"
)

const maxSlugLength = 80

var postTemplate = template.Must(template.New("post").
	Funcs(template.FuncMap{"escape": escapeYAMLString}).
	Parse(defaultPostTemplate))

// postTemplateData is the input to the post template.
type postTemplateData struct {
	Title     string
	SourceURL string
	FeedTitle string
	Date      time.Time
	Summary   string
}

// BuildPost renders a BlogPost from an article and its summary. Pure
// function: same inputs always produce the same post.
func BuildPost(article FavoriteArticle, summary string) (*BlogPost, error) {
	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = article.URL
	}

	var buf bytes.Buffer
	err := postTemplate.Execute(&buf, postTemplateData{
		Title:     title,
		SourceURL: article.URL,
		FeedTitle: article.FeedTitle,
		Date:      article.FavoritedAt,
		Summary:   strings.TrimSpace(summary),
	})
	if err != nil {
		return nil, fmt.Errorf("executing post template: %w", err)
	}

	return &BlogPost{
		Slug:      Slugify(title),
		Title:     title,
		SourceURL: article.URL,
		Date:      article.FavoritedAt,
		Content:   buf.String(),
	}, nil
}

// Slugify derives a deterministic URL-safe identifier from a title:
// lowercased, non-alphanumerics collapsed to hyphens, capped at
// maxSlugLength characters.
func Slugify(title string) string {
	normalized, err := slug.Normalize(title)
	if err != nil || normalized == "" {
		return "post"
	}

	if len(normalized) > maxSlugLength {
		normalized = strings.Trim(normalized[:maxSlugLength], "-")
	}
	if normalized == "" {
		return "post"
	}
	return normalized
}

// escapeYAMLString makes a value safe inside a double-quoted YAML scalar.
// Newlines are flattened so a multi-line title cannot break the header.
func escapeYAMLString(value string) string {
	value = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(value)
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `"`, `\"`)
	return value
}
