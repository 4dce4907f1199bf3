package main

import "time"

// FavoriteArticle is a starred feed item as returned by the aggregator.
// Immutable within a run.
type FavoriteArticle struct {
	ID          string
	Title       string
	URL         string
	Content     string // HTML content or excerpt from the feed payload
	FeedTitle   string
	FavoritedAt time.Time
}

// BlogPost is a rendered post ready to be written into the blog repo.
type BlogPost struct {
	Slug      string
	Title     string
	SourceURL string
	Date      time.Time
	Content   string // full file content, frontmatter included
}

// SyncStatus represents the outcome of processing one favorite
type SyncStatus string

const (
	StatusPublished SyncStatus = "published"
	StatusSkipped   SyncStatus = "skipped"
	StatusFailed    SyncStatus = "failed"
)

// SyncResult tracks the outcome for a single favorite.
type SyncResult struct {
	URL    string
	Slug   string
	Status SyncStatus
	Error  error
}

// RunReport summarizes a full pipeline run.
type RunReport struct {
	Results   []SyncResult
	Committed bool
	Pushed    bool
}

// Published returns the number of favorites that produced a new post.
func (r *RunReport) Published() int { return r.count(StatusPublished) }

// Skipped returns the number of favorites that were already on disk.
func (r *RunReport) Skipped() int { return r.count(StatusSkipped) }

// Failed returns the number of favorites that failed summarize or build.
func (r *RunReport) Failed() int { return r.count(StatusFailed) }

func (r *RunReport) count(s SyncStatus) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}
