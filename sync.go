package main

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// Syncer runs the full pipeline once: fetch favorites, publish a summary
// post per new favorite, regenerate the blogroll OPML, commit, push.
type Syncer struct {
	fetcher    FavoriteFetcher
	subs       SubscriptionLister // optional; nil disables OPML regeneration
	summarizer Summarizer
	publisher  Publisher
	dryRun     bool
	now        func() time.Time
}

// NewSyncer wires the pipeline components.
func NewSyncer(fetcher FavoriteFetcher, subs SubscriptionLister, summarizer Summarizer, publisher Publisher) *Syncer {
	return &Syncer{
		fetcher:    fetcher,
		subs:       subs,
		summarizer: summarizer,
		publisher:  publisher,
		now:        time.Now,
	}
}

// SetDryRun stages files but skips commit and push.
func (s *Syncer) SetDryRun(dryRun bool) {
	s.dryRun = dryRun
}

// Run executes one pipeline pass. Per-article summarize/build failures are
// recorded in the report and do not stop the run; a repository, commit, or
// push failure aborts it and is returned as the error.
func (s *Syncer) Run() (*RunReport, error) {
	report := &RunReport{}

	if err := s.publisher.Sync(); err != nil {
		return report, err
	}

	ledger, err := s.publisher.ExistingPosts()
	if err != nil {
		return report, err
	}

	favorites, err := s.fetcher.FetchFavorites()
	if err != nil {
		return report, fmt.Errorf("fetching favorites: %w", err)
	}
	log.Infof("Fetched %d favorites", len(favorites))

	for i, article := range favorites {
		log.Debugf("[%d/%d] %s", i+1, len(favorites), article.URL)
		result := s.processArticle(article, ledger)
		report.Results = append(report.Results, result)

		entry := log.WithFields(logrus.Fields{
			"url":    result.URL,
			"slug":   result.Slug,
			"status": result.Status,
		})
		if result.Status == StatusFailed {
			entry.WithError(result.Error).Warn("article failed")
		} else {
			entry.Info("article " + string(result.Status))
		}
	}

	s.stageOPML()

	if s.dryRun {
		log.Info("Dry run: skipping commit and push")
		return report, nil
	}

	committed, err := s.publisher.Commit(s.commitMessage(report))
	if err != nil {
		return report, err
	}
	report.Committed = committed

	if !committed {
		log.Info("Nothing to commit")
		return report, nil
	}

	if err := s.publisher.Push(); err != nil {
		return report, err
	}
	report.Pushed = true

	return report, nil
}

// processArticle runs skip-if-exists, summarize, build, and stage for one
// favorite. Any failure is terminal for this article only.
func (s *Syncer) processArticle(article FavoriteArticle, ledger *PostLedger) SyncResult {
	slug := Slugify(article.Title)
	result := SyncResult{URL: article.URL, Slug: slug}

	if ledger.HasURL(article.URL) || ledger.HasSlug(slug) {
		result.Status = StatusSkipped
		return result
	}

	if article.FavoritedAt.IsZero() {
		article.FavoritedAt = s.now().UTC()
	}

	summary, err := s.summarizer.Summarize(article)
	if err != nil {
		result.Status = StatusFailed
		result.Error = fmt.Errorf("summarizing: %w", err)
		return result
	}

	post, err := BuildPost(article, summary)
	if err != nil {
		result.Status = StatusFailed
		result.Error = fmt.Errorf("building post: %w", err)
		return result
	}

	path, err := s.publisher.StagePost(post)
	if err != nil {
		result.Status = StatusFailed
		result.Error = fmt.Errorf("staging post: %w", err)
		return result
	}

	// Later duplicates in the same run (same URL or colliding slug) must
	// not overwrite this post.
	ledger.Add(post.SourceURL, post.Slug)

	log.Debugf("Staged %s", path)
	result.Status = StatusPublished
	return result
}

// stageOPML regenerates the blogroll from the subscription list. Failures
// are logged but never fatal: the OPML is a supplement to the run, not its
// purpose.
func (s *Syncer) stageOPML() {
	if s.subs == nil {
		return
	}

	subs, err := s.subs.Subscriptions()
	if err != nil {
		log.WithError(err).Warn("Skipping OPML update: subscription list unavailable")
		return
	}

	data, err := BuildOPML(subs)
	if err != nil {
		log.WithError(err).Warn("Skipping OPML update: rendering failed")
		return
	}

	path, err := s.publisher.StageOPML(data)
	if err != nil {
		log.WithError(err).Warn("Skipping OPML update: staging failed")
		return
	}
	log.Debugf("Staged %s", path)
}

func (s *Syncer) commitMessage(report *RunReport) string {
	published := report.Published()
	switch published {
	case 0:
		// Only the blogroll changed.
		return "Update blogroll"
	case 1:
		for _, r := range report.Results {
			if r.Status == StatusPublished {
				return fmt.Sprintf("Add favorite: %s", r.Slug)
			}
		}
	}
	return fmt.Sprintf("Sync favorites: %d new posts (%s)", published, s.now().UTC().Format("2006-01-02"))
}
