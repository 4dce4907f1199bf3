package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Exit codes: 0 full success, 1 run-fatal error (configuration, fetch,
// repository sync, commit, push), 2 run completed but at least one article
// failed summarize or build.
const (
	exitOK       = 0
	exitFatal    = 1
	exitWarnings = 2
)

var (
	settingsPath string
	workdir      string
	dryRun       bool
	debugMode    bool
)

var rootCmd = &cobra.Command{
	Use:   "favsync",
	Short: "Sync FreshRSS favorites to a blog repository as summarized posts",
	Long: `favsync fetches your starred FreshRSS articles, writes an AI-summarized
post per article into a clone of your blog repository, regenerates the
blogroll OPML from your subscriptions, and commits and pushes the result.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(run())
	},
}

func run() int {
	if debugMode {
		log.SetLevel(logrus.DebugLevel)
	}

	// Local .env is a convenience; real deployments set the environment.
	_ = godotenv.Load()

	env, err := LoadEnv()
	if err != nil {
		log.Error(err)
		return exitFatal
	}

	if err := ensureConfigExists(); err != nil {
		log.Error(err)
		return exitFatal
	}
	if settingsPath == "" {
		settingsPath = GetConfigPath("settings.yaml")
	}
	settings, err := LoadSettings(settingsPath)
	if err != nil {
		log.Error(err)
		return exitFatal
	}

	if workdir == "" {
		workdir = GetConfigPath("blog")
	}

	client := NewFreshRSSClient(env.FreshRSSURL, env.FreshRSSUser, env.FreshRSSAPIKey,
		settings.FetchLimit, settings.Timeout())
	summarizer := NewAnthropicSummarizer(env.LLMAPIKey, settings.Summarizer)
	publisher := NewGitPublisher(workdir, env.RepoName, env.GitHubToken, settings)

	syncer := NewSyncer(client, client, summarizer, publisher)
	syncer.SetDryRun(dryRun)

	report, err := syncer.Run()
	if err != nil {
		log.WithError(err).Error("Run failed")
		return exitFatal
	}

	log.WithFields(logrus.Fields{
		"published": report.Published(),
		"skipped":   report.Skipped(),
		"failed":    report.Failed(),
		"committed": report.Committed,
		"pushed":    report.Pushed,
	}).Info("Run complete")

	if report.Failed() > 0 {
		return exitWarnings
	}
	return exitOK
}

func init() {
	rootCmd.Flags().StringVar(&settingsPath, "settings", "", "Path to settings YAML (default .favsync/settings.yaml)")
	rootCmd.Flags().StringVar(&workdir, "workdir", "", "Path to the blog working copy (default .favsync/blog)")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Stage files but skip commit and push")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(exitFatal)
	}
}
